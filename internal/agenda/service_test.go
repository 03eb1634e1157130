package agenda

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

type stubAgendaRepo struct {
	reunioes []ReuniaoView
	ultimoGD *time.Time
}

func (s *stubAgendaRepo) Create(ctx context.Context, re Reuniao) (ReuniaoView, error) {
	re.ID = uuid.New()
	view := ReuniaoView{Reuniao: re}
	s.reunioes = append(s.reunioes, view)
	return view, nil
}

func (s *stubAgendaRepo) List(ctx context.Context) ([]ReuniaoView, error) {
	out := make([]ReuniaoView, len(s.reunioes))
	copy(out, s.reunioes)
	return out, nil
}

func (s *stubAgendaRepo) Delete(ctx context.Context, id uuid.UUID) error {
	for i, r := range s.reunioes {
		if r.ID == id {
			s.reunioes = append(s.reunioes[:i], s.reunioes[i+1:]...)
			return nil
		}
	}
	return repo.ErrNotFound
}

func (s *stubAgendaRepo) UltimaOcorrenciaPassada(ctx context.Context, tipo string, agora time.Time) (time.Time, error) {
	if s.ultimoGD == nil {
		return time.Time{}, repo.ErrNotFound
	}
	return *s.ultimoGD, nil
}

func TestCriarRejeitaTipoInvalido(t *testing.T) {
	svc := NewService(&stubAgendaRepo{})

	_, err := svc.Criar(context.Background(), Reuniao{Tipo: "CULTO", Data: time.Now()})
	if !errors.Is(err, ErrTipoInvalido) {
		t.Fatalf("esperava ErrTipoInvalido, veio %v", err)
	}
}

func TestCriarMarcaEditavel(t *testing.T) {
	svc := NewService(&stubAgendaRepo{})

	view, err := svc.Criar(context.Background(), Reuniao{
		Tipo:      TipoGD,
		Data:      time.Date(2026, 3, 10, 0, 0, 0, 0, time.UTC),
		Horario:   "19:30",
		CriadoPor: uuid.New(),
	})
	if err != nil {
		t.Fatalf("criar: %v", err)
	}
	if !view.Editavel {
		t.Fatal("esperava reunião recém-criada editável")
	}
}

func TestListarCalculaEditavelPorUsuario(t *testing.T) {
	repoStub := &stubAgendaRepo{}
	svc := NewService(repoStub)
	ctx := context.Background()

	dono := uuid.New()
	outro := uuid.New()

	if _, err := svc.Criar(ctx, Reuniao{Tipo: TipoGDL, Data: time.Now(), CriadoPor: dono}); err != nil {
		t.Fatalf("criar: %v", err)
	}

	casos := []struct {
		nome     string
		usuario  uuid.UUID
		cargo    string
		editavel bool
	}{
		{"criador", dono, repo.CargoLider, true},
		{"terceiro", outro, repo.CargoLider, false},
		{"pastor", outro, repo.CargoPastor, true},
	}

	for _, c := range casos {
		reunioes, err := svc.Listar(ctx, c.usuario, c.cargo)
		if err != nil {
			t.Fatalf("%s: listar: %v", c.nome, err)
		}
		if len(reunioes) != 1 {
			t.Fatalf("%s: esperava 1 reunião, veio %d", c.nome, len(reunioes))
		}
		if reunioes[0].Editavel != c.editavel {
			t.Errorf("%s: editavel = %v, esperava %v", c.nome, reunioes[0].Editavel, c.editavel)
		}
	}
}

func TestUltimaOcorrenciaGDSemReuniao(t *testing.T) {
	svc := NewService(&stubAgendaRepo{})

	_, err := svc.UltimaOcorrenciaGD(context.Background(), time.Now())
	if !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("esperava ErrNotFound, veio %v", err)
	}
}
