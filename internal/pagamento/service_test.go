package pagamento

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

type stubPagamentoRepo struct {
	pagamentos []Pagamento
}

func (s *stubPagamentoRepo) Insert(ctx context.Context, p Pagamento) (Pagamento, error) {
	p.ID = uuid.New()
	s.pagamentos = append(s.pagamentos, p)
	return p, nil
}

func (s *stubPagamentoRepo) List(ctx context.Context) ([]Pagamento, error) {
	return s.pagamentos, nil
}

func (s *stubPagamentoRepo) CountDistinctResponsaveis(ctx context.Context) (int, error) {
	vistos := make(map[uuid.UUID]bool)
	for _, p := range s.pagamentos {
		vistos[p.ResponsavelID] = true
	}
	return len(vistos), nil
}

func (s *stubPagamentoRepo) DeleteAll(ctx context.Context) (int64, error) {
	n := int64(len(s.pagamentos))
	s.pagamentos = nil
	return n, nil
}

type stubCiclo struct {
	ultima time.Time
	err    error
}

func (s *stubCiclo) UltimaOcorrenciaGD(ctx context.Context, agora time.Time) (time.Time, error) {
	if s.err != nil {
		return time.Time{}, s.err
	}
	return s.ultima, nil
}

type fakeStorage struct {
	objetos     map[string][]byte
	falhaDelete map[string]bool
}

func newFakeStorage() *fakeStorage {
	return &fakeStorage{objetos: make(map[string][]byte), falhaDelete: make(map[string]bool)}
}

func (f *fakeStorage) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	f.objetos[input.Key] = input.Body
	return &storage.UploadResult{URL: "https://cdn.example.com/" + input.Key}, nil
}

func (f *fakeStorage) Delete(ctx context.Context, key string) error {
	if f.falhaDelete[key] {
		return errors.New("delete indisponível")
	}
	delete(f.objetos, key)
	return nil
}

func (f *fakeStorage) List(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for key := range f.objetos {
		if strings.HasPrefix(key, prefix) {
			keys = append(keys, key)
		}
	}
	return keys, nil
}

func (f *fakeStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "https://cdn.example.com/" + key + "?assinada=1", nil
}

func TestRegistrarRejeitaArquivoVazio(t *testing.T) {
	svc := NewService(&stubPagamentoRepo{}, &stubCiclo{}, newFakeStorage(), zerolog.Nop())

	_, err := svc.Registrar(context.Background(), uuid.New(), nil, "image/png", ".png")
	if !errors.Is(err, ErrArquivoVazio) {
		t.Fatalf("esperava ErrArquivoVazio, veio %v", err)
	}
}

func TestRegistrarSobeComprovante(t *testing.T) {
	repoStub := &stubPagamentoRepo{}
	st := newFakeStorage()
	svc := NewService(repoStub, &stubCiclo{}, st, zerolog.Nop())

	responsavel := uuid.New()
	pagamento, err := svc.Registrar(context.Background(), responsavel, []byte("comprovante"), "image/png", ".png")
	if err != nil {
		t.Fatalf("registrar: %v", err)
	}

	if !strings.HasPrefix(pagamento.StoragePath, "pagamentos/"+responsavel.String()) {
		t.Fatalf("path inesperado: %s", pagamento.StoragePath)
	}
	if _, ok := st.objetos[pagamento.StoragePath]; !ok {
		t.Fatal("comprovante não chegou ao storage")
	}
}

func TestPercentual(t *testing.T) {
	repoStub := &stubPagamentoRepo{}
	svc := NewService(repoStub, &stubCiclo{}, newFakeStorage(), zerolog.Nop())
	ctx := context.Background()

	pagantes := make([]uuid.UUID, 3)
	for i := range pagantes {
		pagantes[i] = uuid.New()
	}
	// um dos pagantes envia duas vezes; conta uma só
	for _, id := range append(pagantes, pagantes[0]) {
		if _, err := repoStub.Insert(ctx, Pagamento{ResponsavelID: id, StoragePath: "pagamentos/x"}); err != nil {
			t.Fatalf("insert: %v", err)
		}
	}

	pct, err := svc.Percentual(ctx, 10)
	if err != nil {
		t.Fatalf("percentual: %v", err)
	}
	if pct != 30 {
		t.Fatalf("esperava 30, veio %d", pct)
	}

	pct, err = svc.Percentual(ctx, 0)
	if err != nil || pct != 0 {
		t.Fatalf("total zero deve render 0, veio %d err=%v", pct, err)
	}
}

func TestPurgarCicloSemReuniaoGD(t *testing.T) {
	repoStub := &stubPagamentoRepo{}
	svc := NewService(repoStub, &stubCiclo{err: repo.ErrNotFound}, newFakeStorage(), zerolog.Nop())

	removidos, err := svc.PurgarCiclo(context.Background())
	if err != nil {
		t.Fatalf("purgar: %v", err)
	}
	if removidos != 0 {
		t.Fatalf("esperava 0 removidos, veio %d", removidos)
	}
}

func TestPurgarCicloRemoveObjetosELinhas(t *testing.T) {
	repoStub := &stubPagamentoRepo{}
	st := newFakeStorage()
	svc := NewService(repoStub, &stubCiclo{ultima: time.Now().Add(-24 * time.Hour)}, st, zerolog.Nop())
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		if _, err := svc.Registrar(ctx, uuid.New(), []byte("ok"), "image/png", ".png"); err != nil {
			t.Fatalf("registrar: %v", err)
		}
	}
	st.objetos["outros/arquivo.pdf"] = []byte("fora do ciclo")

	removidos, err := svc.PurgarCiclo(ctx)
	if err != nil {
		t.Fatalf("purgar: %v", err)
	}
	if removidos != 2 {
		t.Fatalf("esperava 2 linhas removidas, veio %d", removidos)
	}
	if len(repoStub.pagamentos) != 0 {
		t.Fatalf("linhas remanescentes: %v", repoStub.pagamentos)
	}
	if _, ok := st.objetos["outros/arquivo.pdf"]; !ok {
		t.Fatal("purga não deveria tocar objetos fora da pasta do ciclo")
	}
	for key := range st.objetos {
		if strings.HasPrefix(key, "pagamentos/") {
			t.Fatalf("comprovante remanescente: %s", key)
		}
	}
}

func TestPurgarCicloTolerarFalhaDeDelete(t *testing.T) {
	repoStub := &stubPagamentoRepo{}
	st := newFakeStorage()
	svc := NewService(repoStub, &stubCiclo{ultima: time.Now().Add(-time.Hour)}, st, zerolog.Nop())
	ctx := context.Background()

	pagamento, err := svc.Registrar(ctx, uuid.New(), []byte("ok"), "image/png", ".png")
	if err != nil {
		t.Fatalf("registrar: %v", err)
	}
	st.falhaDelete[pagamento.StoragePath] = true

	removidos, err := svc.PurgarCiclo(ctx)
	if err != nil {
		t.Fatalf("purgar: %v", err)
	}
	if removidos != 1 {
		t.Fatalf("linhas devem cair mesmo com objeto teimoso, veio %d", removidos)
	}
}
