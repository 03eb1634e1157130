package hierarquia

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

type stubHierarquiaRepo struct {
	celulas      map[uuid.UUID]Celula
	supervisoes  map[uuid.UUID]Supervisao
	coordenacoes map[uuid.UUID]Coordenacao
	lideres      map[uuid.UUID][]uuid.UUID // supervisao -> lideres
	supervisoesC map[uuid.UUID][]uuid.UUID // coordenacao -> supervisoes
	discipulos   map[uuid.UUID][]Discipulo // celula -> discipulos
	vinculos     []Vinculo
	usuarios     map[uuid.UUID]Membro
}

func newStubHierarquiaRepo() *stubHierarquiaRepo {
	return &stubHierarquiaRepo{
		celulas:      make(map[uuid.UUID]Celula),
		supervisoes:  make(map[uuid.UUID]Supervisao),
		coordenacoes: make(map[uuid.UUID]Coordenacao),
		lideres:      make(map[uuid.UUID][]uuid.UUID),
		supervisoesC: make(map[uuid.UUID][]uuid.UUID),
		discipulos:   make(map[uuid.UUID][]Discipulo),
		usuarios:     make(map[uuid.UUID]Membro),
	}
}

func uniqueViolation(constraint string) error {
	return &pgconn.PgError{Code: "23505", ConstraintName: constraint}
}

func (s *stubHierarquiaRepo) CreateCelula(ctx context.Context, c Celula) (Celula, error) {
	for _, existente := range s.celulas {
		if existente.ResponsavelID == c.ResponsavelID {
			return Celula{}, uniqueViolation("celulas_responsavel_id_key")
		}
	}
	c.ID = uuid.New()
	s.celulas[c.ID] = c
	return c, nil
}

func (s *stubHierarquiaRepo) GetCelulaByResponsavel(ctx context.Context, responsavelID uuid.UUID) (Celula, error) {
	for _, c := range s.celulas {
		if c.ResponsavelID == responsavelID {
			return c, nil
		}
	}
	return Celula{}, repo.ErrNotFound
}

func (s *stubHierarquiaRepo) ListCelulas(ctx context.Context) ([]Celula, error) {
	out := make([]Celula, 0, len(s.celulas))
	for _, c := range s.celulas {
		out = append(out, c)
	}
	return out, nil
}

func (s *stubHierarquiaRepo) CreateSupervisao(ctx context.Context, sup Supervisao, lideres []uuid.UUID) (Supervisao, error) {
	for _, existente := range s.supervisoes {
		if existente.SupervisorID == sup.SupervisorID {
			return Supervisao{}, uniqueViolation("supervisoes_supervisor_id_key")
		}
	}
	for _, liderID := range lideres {
		for _, atribuidos := range s.lideres {
			for _, atribuido := range atribuidos {
				if atribuido == liderID {
					return Supervisao{}, uniqueViolation("supervisoes_lideres_lider_id_key")
				}
			}
		}
	}
	sup.ID = uuid.New()
	s.supervisoes[sup.ID] = sup
	s.lideres[sup.ID] = append([]uuid.UUID(nil), lideres...)
	return sup, nil
}

func (s *stubHierarquiaRepo) GetSupervisaoBySupervisor(ctx context.Context, supervisorID uuid.UUID) (Supervisao, error) {
	for _, sup := range s.supervisoes {
		if sup.SupervisorID == supervisorID {
			return sup, nil
		}
	}
	return Supervisao{}, repo.ErrNotFound
}

func (s *stubHierarquiaRepo) LiderTemSupervisao(ctx context.Context, liderID uuid.UUID) (bool, error) {
	for _, atribuidos := range s.lideres {
		for _, atribuido := range atribuidos {
			if atribuido == liderID {
				return true, nil
			}
		}
	}
	return false, nil
}

func (s *stubHierarquiaRepo) ListLideres(ctx context.Context, supervisaoID uuid.UUID) ([]Membro, error) {
	var out []Membro
	for _, id := range s.lideres[supervisaoID] {
		out = append(out, s.usuarios[id])
	}
	return out, nil
}

func (s *stubHierarquiaRepo) CreateCoordenacao(ctx context.Context, coord Coordenacao, supervisoes []uuid.UUID) (Coordenacao, error) {
	for _, existente := range s.coordenacoes {
		if existente.CoordenadorID == coord.CoordenadorID {
			return Coordenacao{}, uniqueViolation("coordenacoes_coordenador_id_key")
		}
	}
	for _, supID := range supervisoes {
		for _, atribuidas := range s.supervisoesC {
			for _, atribuida := range atribuidas {
				if atribuida == supID {
					return Coordenacao{}, uniqueViolation("coordenacoes_supervisoes_supervisao_id_key")
				}
			}
		}
	}
	coord.ID = uuid.New()
	s.coordenacoes[coord.ID] = coord
	s.supervisoesC[coord.ID] = append([]uuid.UUID(nil), supervisoes...)
	return coord, nil
}

func (s *stubHierarquiaRepo) GetCoordenacaoByCoordenador(ctx context.Context, coordenadorID uuid.UUID) (Coordenacao, error) {
	for _, coord := range s.coordenacoes {
		if coord.CoordenadorID == coordenadorID {
			return coord, nil
		}
	}
	return Coordenacao{}, repo.ErrNotFound
}

func (s *stubHierarquiaRepo) ListSupervisores(ctx context.Context, coordenacaoID uuid.UUID) ([]Membro, error) {
	var out []Membro
	for _, supID := range s.supervisoesC[coordenacaoID] {
		sup := s.supervisoes[supID]
		out = append(out, s.usuarios[sup.SupervisorID])
	}
	return out, nil
}

func (s *stubHierarquiaRepo) AttachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	for _, atribuido := range s.lideres[supervisaoID] {
		if atribuido == liderID {
			return uniqueViolation("supervisoes_lideres_lider_id_key")
		}
	}
	s.lideres[supervisaoID] = append(s.lideres[supervisaoID], liderID)
	return nil
}

func (s *stubHierarquiaRepo) DetachLider(ctx context.Context, supervisaoID, liderID uuid.UUID) error {
	atuais := s.lideres[supervisaoID]
	out := atuais[:0]
	for _, id := range atuais {
		if id != liderID {
			out = append(out, id)
		}
	}
	s.lideres[supervisaoID] = out
	return nil
}

func (s *stubHierarquiaRepo) AttachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	for _, atribuida := range s.supervisoesC[coordenacaoID] {
		if atribuida == supervisaoID {
			return uniqueViolation("coordenacoes_supervisoes_supervisao_id_key")
		}
	}
	s.supervisoesC[coordenacaoID] = append(s.supervisoesC[coordenacaoID], supervisaoID)
	return nil
}

func (s *stubHierarquiaRepo) DetachSupervisao(ctx context.Context, coordenacaoID, supervisaoID uuid.UUID) error {
	atuais := s.supervisoesC[coordenacaoID]
	out := atuais[:0]
	for _, id := range atuais {
		if id != supervisaoID {
			out = append(out, id)
		}
	}
	s.supervisoesC[coordenacaoID] = out
	return nil
}

func (s *stubHierarquiaRepo) CreateVinculo(ctx context.Context, v Vinculo) (Vinculo, error) {
	s.vinculos = append(s.vinculos, v)
	return v, nil
}

func (s *stubHierarquiaRepo) ListVinculos(ctx context.Context, celulaID uuid.UUID) ([]Vinculo, error) {
	var out []Vinculo
	for _, v := range s.vinculos {
		if v.CelulaPrincipalID == celulaID || v.CelulaVinculadaID == celulaID {
			out = append(out, v)
		}
	}
	return out, nil
}

func (s *stubHierarquiaRepo) CreateDiscipulo(ctx context.Context, d Discipulo) (Discipulo, error) {
	d.ID = uuid.New()
	s.discipulos[d.CelulaID] = append(s.discipulos[d.CelulaID], d)
	return d, nil
}

func (s *stubHierarquiaRepo) ListDiscipulos(ctx context.Context, celulaID uuid.UUID) ([]Discipulo, error) {
	return s.discipulos[celulaID], nil
}

func TestCriarCelulaRejeitaSegundoGrupo(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	liderID := uuid.New()
	if _, err := svc.CriarCelula(ctx, Celula{Nome: "Célula Vida", ResponsavelID: liderID}); err != nil {
		t.Fatalf("primeira célula: %v", err)
	}

	_, err := svc.CriarCelula(ctx, Celula{Nome: "Célula Luz", ResponsavelID: liderID})
	if !errors.Is(err, ErrResponsavelOcupado) {
		t.Fatalf("esperava ErrResponsavelOcupado, veio %v", err)
	}
}

func TestResolverSubordinadosDoLider(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	liderID := uuid.New()
	celula, err := svc.CriarCelula(ctx, Celula{Nome: "Célula Vida", ResponsavelID: liderID})
	if err != nil {
		t.Fatalf("criar célula: %v", err)
	}

	contato := "(12) 91234-5678"
	for _, nome := range []string{"Bruno", "água", "Álvaro"} {
		if _, err := svc.CriarDiscipulo(ctx, Discipulo{CelulaID: celula.ID, Nome: nome, Contato: &contato}); err != nil {
			t.Fatalf("criar discípulo %s: %v", nome, err)
		}
	}

	membros, err := svc.ResolverSubordinados(ctx, liderID, repo.CargoLider)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	if len(membros) != 3 {
		t.Fatalf("esperava 3 membros, veio %d", len(membros))
	}

	esperado := []string{"água", "Álvaro", "Bruno"}
	for i, nome := range esperado {
		if membros[i].Nome != nome {
			t.Fatalf("ordem errada: %v", membros)
		}
		if membros[i].Whatsapp != "https://wa.me/5512912345678" {
			t.Fatalf("link de WhatsApp errado: %s", membros[i].Whatsapp)
		}
	}
}

func TestResolverSubordinadosSemGrupo(t *testing.T) {
	svc := NewService(newStubHierarquiaRepo(), nil)

	membros, err := svc.ResolverSubordinados(context.Background(), uuid.New(), repo.CargoSupervisor)
	if err != nil {
		t.Fatalf("esperava lista vazia sem erro, veio %v", err)
	}
	if len(membros) != 0 {
		t.Fatalf("esperava vazio, veio %v", membros)
	}
}

func TestResolverSubordinadosCargoDesconhecido(t *testing.T) {
	svc := NewService(newStubHierarquiaRepo(), nil)

	if _, err := svc.ResolverSubordinados(context.Background(), uuid.New(), "tesoureiro"); !errors.Is(err, ErrCargoDesconhecido) {
		t.Fatalf("esperava ErrCargoDesconhecido, veio %v", err)
	}
}

func TestCriarSupervisaoEResolverLideres(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	lideres := make([]uuid.UUID, 0, 3)
	for _, nome := range []string{"Beatriz", "Ângelo", "adriana"} {
		id := uuid.New()
		repoStub.usuarios[id] = Membro{ID: id, Nome: nome, Cargo: repo.CargoLider}
		lideres = append(lideres, id)
	}

	supervisorID := uuid.New()
	if _, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Sul", SupervisorID: supervisorID}, lideres); err != nil {
		t.Fatalf("criar supervisão: %v", err)
	}

	membros, err := svc.ResolverSubordinados(ctx, supervisorID, repo.CargoSupervisor)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	if len(membros) != len(lideres) {
		t.Fatalf("esperava %d membros, veio %d", len(lideres), len(membros))
	}

	vistos := make(map[uuid.UUID]bool, len(membros))
	for _, m := range membros {
		vistos[m.ID] = true
	}
	for _, id := range lideres {
		if !vistos[id] {
			t.Fatalf("líder %s ausente da resolução: %v", id, membros)
		}
	}

	esperado := []string{"adriana", "Ângelo", "Beatriz"}
	for i, nome := range esperado {
		if membros[i].Nome != nome {
			t.Fatalf("ordem errada: %v", membros)
		}
	}
}

func TestCriarSupervisaoRejeitaSupervisorOcupado(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	supervisorID := uuid.New()
	if _, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Sul", SupervisorID: supervisorID}, nil); err != nil {
		t.Fatalf("primeira supervisão: %v", err)
	}

	if _, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Norte", SupervisorID: supervisorID}, nil); !errors.Is(err, ErrResponsavelOcupado) {
		t.Fatalf("esperava ErrResponsavelOcupado, veio %v", err)
	}

	if len(repoStub.supervisoes) != 1 {
		t.Fatalf("segunda supervisão não deveria ter sido gravada: %d", len(repoStub.supervisoes))
	}
}

func TestCriarSupervisaoRejeitaLiderOcupado(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	liderID := uuid.New()
	if _, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Sul", SupervisorID: uuid.New()}, []uuid.UUID{liderID}); err != nil {
		t.Fatalf("primeira supervisão: %v", err)
	}

	_, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Norte", SupervisorID: uuid.New()}, []uuid.UUID{liderID})
	if !errors.Is(err, ErrLiderJaSupervisionado) {
		t.Fatalf("esperava ErrLiderJaSupervisionado, veio %v", err)
	}
}

func TestVincularEDesvincularLider(t *testing.T) {
	repoStub := newStubHierarquiaRepo()
	svc := NewService(repoStub, nil)
	ctx := context.Background()

	supervisorID := uuid.New()
	sup, err := svc.CriarSupervisao(ctx, Supervisao{Nome: "Sul", SupervisorID: supervisorID}, nil)
	if err != nil {
		t.Fatalf("criar supervisão: %v", err)
	}

	liderID := uuid.New()
	repoStub.usuarios[liderID] = Membro{ID: liderID, Nome: "Carlos", Cargo: repo.CargoLider}

	if err := svc.VincularLider(ctx, sup.ID, liderID); err != nil {
		t.Fatalf("vincular: %v", err)
	}
	if err := svc.VincularLider(ctx, sup.ID, liderID); !errors.Is(err, ErrLiderJaSupervisionado) {
		t.Fatalf("esperava ErrLiderJaSupervisionado na duplicata, veio %v", err)
	}

	membros, err := svc.ResolverSubordinados(ctx, supervisorID, repo.CargoSupervisor)
	if err != nil {
		t.Fatalf("resolver: %v", err)
	}
	if len(membros) != 1 || membros[0].ID != liderID {
		t.Fatalf("esperava [Carlos], veio %v", membros)
	}

	if err := svc.DesvincularLider(ctx, sup.ID, liderID); err != nil {
		t.Fatalf("desvincular: %v", err)
	}
	// repetir a remoção é no-op
	if err := svc.DesvincularLider(ctx, sup.ID, liderID); err != nil {
		t.Fatalf("desvincular repetido: %v", err)
	}

	membros, err = svc.ResolverSubordinados(ctx, supervisorID, repo.CargoSupervisor)
	if err != nil {
		t.Fatalf("resolver pós-remoção: %v", err)
	}
	if len(membros) != 0 {
		t.Fatalf("esperava vazio, veio %v", membros)
	}
}

func TestCriarVinculoRejeitaAutoVinculo(t *testing.T) {
	svc := NewService(newStubHierarquiaRepo(), nil)

	id := uuid.New()
	if _, err := svc.CriarVinculo(context.Background(), Vinculo{CelulaPrincipalID: id, CelulaVinculadaID: id}); !errors.Is(err, ErrAutoVinculo) {
		t.Fatalf("esperava ErrAutoVinculo, veio %v", err)
	}
}
