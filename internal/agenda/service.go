package agenda

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

var (
	// ErrTipoInvalido cobre tipos de reunião fora do conjunto reconhecido.
	ErrTipoInvalido = errors.New("tipo de reunião inválido")
)

// AgendaRepository declara o acesso a dados usado pelo serviço.
type AgendaRepository interface {
	Create(context.Context, Reuniao) (ReuniaoView, error)
	List(context.Context) ([]ReuniaoView, error)
	Delete(context.Context, uuid.UUID) error
	UltimaOcorrenciaPassada(ctx context.Context, tipo string, agora time.Time) (time.Time, error)
}

// Service aplica as regras da agenda.
type Service struct {
	repo AgendaRepository
}

func NewService(r AgendaRepository) *Service {
	return &Service{repo: r}
}

// Criar valida o tipo e insere, devolvendo a linha resolvida.
func (s *Service) Criar(ctx context.Context, re Reuniao) (ReuniaoView, error) {
	if !TipoValido(re.Tipo) {
		return ReuniaoView{}, ErrTipoInvalido
	}
	if re.Data.IsZero() {
		return ReuniaoView{}, errors.New("data obrigatória")
	}

	view, err := s.repo.Create(ctx, re)
	if err != nil {
		return ReuniaoView{}, err
	}
	view.Editavel = true // quem acabou de criar sempre pode editar
	return view, nil
}

// Listar devolve as reuniões com a flag de edição calculada para o usuário
// atual: criador ou pastor podem editar.
func (s *Service) Listar(ctx context.Context, usuarioID uuid.UUID, cargo string) ([]ReuniaoView, error) {
	reunioes, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}

	for i := range reunioes {
		reunioes[i].Editavel = reunioes[i].CriadoPor == usuarioID || cargo == repo.CargoPastor
	}
	return reunioes, nil
}

// Excluir remove pelo id. A checagem de posse fica na interface; qualquer
// usuário autenticado consegue excluir qualquer reunião.
func (s *Service) Excluir(ctx context.Context, id uuid.UUID) error {
	return s.repo.Delete(ctx, id)
}

// UltimaOcorrenciaGD informa a última reunião GD que já passou.
func (s *Service) UltimaOcorrenciaGD(ctx context.Context, agora time.Time) (time.Time, error) {
	return s.repo.UltimaOcorrenciaPassada(ctx, TipoGD, agora)
}
