package hierarquia

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/Rafaelk26/Incell-System-sub000/internal/db"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/util"
)

var (
	// ErrResponsavelOcupado indica tentativa de atribuir um segundo grupo a
	// quem já responde por um.
	ErrResponsavelOcupado = errors.New("responsável já possui um grupo ativo")
	// ErrLiderJaSupervisionado indica líder presente em outra supervisão.
	ErrLiderJaSupervisionado = errors.New("líder já pertence a uma supervisão")
	// ErrSupervisaoJaCoordenada indica supervisão presente em outra coordenação.
	ErrSupervisaoJaCoordenada = errors.New("supervisão já pertence a uma coordenação")
	// ErrAutoVinculo rejeita vínculo de uma célula com ela mesma.
	ErrAutoVinculo = errors.New("célula não pode se vincular a si mesma")
	// ErrCargoDesconhecido cobre cargos fora da hierarquia resolvível.
	ErrCargoDesconhecido = errors.New("cargo sem subordinados resolvíveis")
)

const cacheTTL = 5 * time.Minute

// HierarquiaRepository declara o acesso a dados usado pelo serviço.
type HierarquiaRepository interface {
	CreateCelula(context.Context, Celula) (Celula, error)
	GetCelulaByResponsavel(context.Context, uuid.UUID) (Celula, error)
	ListCelulas(context.Context) ([]Celula, error)
	CreateSupervisao(context.Context, Supervisao, []uuid.UUID) (Supervisao, error)
	GetSupervisaoBySupervisor(context.Context, uuid.UUID) (Supervisao, error)
	LiderTemSupervisao(context.Context, uuid.UUID) (bool, error)
	ListLideres(context.Context, uuid.UUID) ([]Membro, error)
	CreateCoordenacao(context.Context, Coordenacao, []uuid.UUID) (Coordenacao, error)
	GetCoordenacaoByCoordenador(context.Context, uuid.UUID) (Coordenacao, error)
	ListSupervisores(context.Context, uuid.UUID) ([]Membro, error)
	AttachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error
	DetachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error
	AttachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error
	DetachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error
	CreateVinculo(context.Context, Vinculo) (Vinculo, error)
	ListVinculos(context.Context, uuid.UUID) ([]Vinculo, error)
	CreateDiscipulo(context.Context, Discipulo) (Discipulo, error)
	ListDiscipulos(context.Context, uuid.UUID) ([]Discipulo, error)
}

// Service aplica as regras da hierarquia organizacional.
type Service struct {
	repo  HierarquiaRepository
	cache *redis.Client
}

func NewService(r HierarquiaRepository, cache *redis.Client) *Service {
	return &Service{repo: r, cache: cache}
}

// CriarCelula valida e insere. A violação de índice único é a fonte de
// verdade do invariante "uma célula por responsável".
func (s *Service) CriarCelula(ctx context.Context, c Celula) (Celula, error) {
	if err := util.RequireString(c.Nome, "nome"); err != nil {
		return Celula{}, err
	}
	if c.ResponsavelID == uuid.Nil {
		return Celula{}, errors.New("responsável obrigatório")
	}

	criada, err := s.repo.CreateCelula(ctx, c)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return Celula{}, ErrResponsavelOcupado
		}
		return Celula{}, err
	}

	s.invalidar(ctx, criada.ResponsavelID)
	return criada, nil
}

// CriarSupervisao valida, pré-checa atribuições duplicadas (caminho rápido) e
// cria supervisão + vínculos numa transação. O pré-check não é atômico com o
// insert; a constraint única decide corridas.
func (s *Service) CriarSupervisao(ctx context.Context, sup Supervisao, lideres []uuid.UUID) (Supervisao, error) {
	if err := util.RequireString(sup.Nome, "nome"); err != nil {
		return Supervisao{}, err
	}
	if sup.SupervisorID == uuid.Nil {
		return Supervisao{}, errors.New("supervisor obrigatório")
	}

	if _, err := s.repo.GetSupervisaoBySupervisor(ctx, sup.SupervisorID); err == nil {
		return Supervisao{}, ErrResponsavelOcupado
	} else if !errors.Is(err, repo.ErrNotFound) {
		return Supervisao{}, err
	}

	for _, liderID := range lideres {
		ocupado, err := s.repo.LiderTemSupervisao(ctx, liderID)
		if err != nil {
			return Supervisao{}, err
		}
		if ocupado {
			return Supervisao{}, ErrLiderJaSupervisionado
		}
	}

	criada, err := s.repo.CreateSupervisao(ctx, sup, lideres)
	if err != nil {
		if db.IsUniqueViolation(err) {
			if db.UniqueConstraint(err) == "supervisoes_lideres_lider_id_key" {
				return Supervisao{}, ErrLiderJaSupervisionado
			}
			return Supervisao{}, ErrResponsavelOcupado
		}
		return Supervisao{}, err
	}

	s.invalidar(ctx, criada.SupervisorID)
	return criada, nil
}

// CriarCoordenacao segue o mesmo desenho da supervisão.
func (s *Service) CriarCoordenacao(ctx context.Context, coord Coordenacao, supervisoes []uuid.UUID) (Coordenacao, error) {
	if err := util.RequireString(coord.Nome, "nome"); err != nil {
		return Coordenacao{}, err
	}
	if coord.CoordenadorID == uuid.Nil {
		return Coordenacao{}, errors.New("coordenador obrigatório")
	}

	if _, err := s.repo.GetCoordenacaoByCoordenador(ctx, coord.CoordenadorID); err == nil {
		return Coordenacao{}, ErrResponsavelOcupado
	} else if !errors.Is(err, repo.ErrNotFound) {
		return Coordenacao{}, err
	}

	criada, err := s.repo.CreateCoordenacao(ctx, coord, supervisoes)
	if err != nil {
		if db.IsUniqueViolation(err) {
			if db.UniqueConstraint(err) == "coordenacoes_supervisoes_supervisao_id_key" {
				return Coordenacao{}, ErrSupervisaoJaCoordenada
			}
			return Coordenacao{}, ErrResponsavelOcupado
		}
		return Coordenacao{}, err
	}

	s.invalidar(ctx, criada.CoordenadorID)
	return criada, nil
}

// ResolverSubordinados responde "quem responde ao usuário". As consultas são
// sequenciais e sem snapshot transacional: uma escrita concorrente entre elas
// pode produzir lista defasada, o que é aceito.
func (s *Service) ResolverSubordinados(ctx context.Context, usuarioID uuid.UUID, cargo string) ([]Membro, error) {
	key := fmt.Sprintf("subordinados:%s:%s", cargo, usuarioID)
	if s.cache != nil {
		if data, err := s.cache.Get(ctx, key).Bytes(); err == nil {
			var membros []Membro
			if json.Unmarshal(data, &membros) == nil {
				return membros, nil
			}
		}
	}

	var (
		membros []Membro
		err     error
	)

	switch cargo {
	case repo.CargoLider:
		membros, err = s.subordinadosDoLider(ctx, usuarioID)
	case repo.CargoSupervisor:
		membros, err = s.subordinadosDoSupervisor(ctx, usuarioID)
	case repo.CargoCoordenador:
		membros, err = s.subordinadosDoCoordenador(ctx, usuarioID)
	default:
		return nil, ErrCargoDesconhecido
	}
	if err != nil {
		return nil, err
	}

	membros = dedupPorID(membros)
	util.OrdenarPorTexto(membros, func(m Membro) string { return m.Nome })
	for i := range membros {
		if membros[i].Contato != nil {
			membros[i].Whatsapp = util.LinkWhatsApp(*membros[i].Contato)
		}
	}

	if s.cache != nil {
		if payload, err := json.Marshal(membros); err == nil {
			s.cache.Set(ctx, key, payload, cacheTTL)
		}
	}

	return membros, nil
}

func (s *Service) subordinadosDoLider(ctx context.Context, liderID uuid.UUID) ([]Membro, error) {
	celula, err := s.repo.GetCelulaByResponsavel(ctx, liderID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	discipulos, err := s.repo.ListDiscipulos(ctx, celula.ID)
	if err != nil {
		return nil, err
	}

	membros := make([]Membro, 0, len(discipulos))
	for _, d := range discipulos {
		membros = append(membros, Membro{ID: d.ID, Nome: d.Nome, Cargo: d.Funcao, Contato: d.Contato})
	}
	return membros, nil
}

func (s *Service) subordinadosDoSupervisor(ctx context.Context, supervisorID uuid.UUID) ([]Membro, error) {
	supervisao, err := s.repo.GetSupervisaoBySupervisor(ctx, supervisorID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListLideres(ctx, supervisao.ID)
}

func (s *Service) subordinadosDoCoordenador(ctx context.Context, coordenadorID uuid.UUID) ([]Membro, error) {
	coordenacao, err := s.repo.GetCoordenacaoByCoordenador(ctx, coordenadorID)
	if errors.Is(err, repo.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return s.repo.ListSupervisores(ctx, coordenacao.ID)
}

// VincularLider adiciona líder à supervisão; duplicata vira erro de validação.
func (s *Service) VincularLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	if err := s.repo.AttachLider(ctx, supervisaoID, liderID); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrLiderJaSupervisionado
		}
		return err
	}
	s.invalidarTodos(ctx)
	return nil
}

// DesvincularLider remove o vínculo; repetir a remoção é no-op.
func (s *Service) DesvincularLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	if err := s.repo.DetachLider(ctx, supervisaoID, liderID); err != nil {
		return err
	}
	s.invalidarTodos(ctx)
	return nil
}

// VincularSupervisao adiciona supervisão à coordenação.
func (s *Service) VincularSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	if err := s.repo.AttachSupervisao(ctx, coordenacaoID, supervisaoID); err != nil {
		if db.IsUniqueViolation(err) {
			return ErrSupervisaoJaCoordenada
		}
		return err
	}
	s.invalidarTodos(ctx)
	return nil
}

// DesvincularSupervisao remove o vínculo; repetir a remoção é no-op.
func (s *Service) DesvincularSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	if err := s.repo.DetachSupervisao(ctx, coordenacaoID, supervisaoID); err != nil {
		return err
	}
	s.invalidarTodos(ctx)
	return nil
}

// CriarVinculo registra o pareamento entre duas células distintas.
func (s *Service) CriarVinculo(ctx context.Context, v Vinculo) (Vinculo, error) {
	if v.CelulaPrincipalID == uuid.Nil || v.CelulaVinculadaID == uuid.Nil {
		return Vinculo{}, errors.New("células do vínculo obrigatórias")
	}
	if v.CelulaPrincipalID == v.CelulaVinculadaID {
		return Vinculo{}, ErrAutoVinculo
	}
	return s.repo.CreateVinculo(ctx, v)
}

// ListarVinculos entrega os pareamentos da célula, nas duas direções.
func (s *Service) ListarVinculos(ctx context.Context, celulaID uuid.UUID) ([]Vinculo, error) {
	return s.repo.ListVinculos(ctx, celulaID)
}

// CriarDiscipulo registra um discípulo na célula do líder.
func (s *Service) CriarDiscipulo(ctx context.Context, d Discipulo) (Discipulo, error) {
	if err := util.RequireString(d.Nome, "nome"); err != nil {
		return Discipulo{}, err
	}
	if d.CelulaID == uuid.Nil {
		return Discipulo{}, errors.New("célula obrigatória")
	}

	criado, err := s.repo.CreateDiscipulo(ctx, d)
	if err != nil {
		return Discipulo{}, err
	}
	s.invalidarTodos(ctx)
	return criado, nil
}

// ListarCelulas devolve as células em ordem alfabética insensível a acentos.
func (s *Service) ListarCelulas(ctx context.Context) ([]Celula, error) {
	celulas, err := s.repo.ListCelulas(ctx)
	if err != nil {
		return nil, err
	}
	util.OrdenarPorTexto(celulas, func(c Celula) string { return c.Nome })
	return celulas, nil
}

// CelulaDoResponsavel expõe a célula liderada pelo usuário.
func (s *Service) CelulaDoResponsavel(ctx context.Context, responsavelID uuid.UUID) (Celula, error) {
	return s.repo.GetCelulaByResponsavel(ctx, responsavelID)
}

func (s *Service) invalidar(ctx context.Context, usuarioID uuid.UUID) {
	if s.cache == nil {
		return
	}
	for _, cargo := range []string{repo.CargoLider, repo.CargoSupervisor, repo.CargoCoordenador} {
		s.cache.Del(ctx, fmt.Sprintf("subordinados:%s:%s", cargo, usuarioID))
	}
}

// invalidarTodos derruba o cache de resolução por varredura de padrão.
func (s *Service) invalidarTodos(ctx context.Context) {
	if s.cache == nil {
		return
	}
	iter := s.cache.Scan(ctx, 0, "subordinados:*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if len(keys) > 0 {
		s.cache.Del(ctx, keys...)
	}
}

// dedupPorID remove duplicatas mantendo a última ocorrência de cada id.
func dedupPorID(membros []Membro) []Membro {
	porID := make(map[uuid.UUID]int, len(membros))
	out := membros[:0]
	for _, m := range membros {
		if idx, ok := porID[m.ID]; ok {
			out[idx] = m
			continue
		}
		porID[m.ID] = len(out)
		out = append(out, m)
	}
	return out
}
