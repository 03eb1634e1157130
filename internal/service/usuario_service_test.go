package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/storage"
)

type stubUsuarioQueries struct {
	usuarios map[uuid.UUID]repo.Usuario
}

func newStubUsuarioQueries() *stubUsuarioQueries {
	return &stubUsuarioQueries{usuarios: make(map[uuid.UUID]repo.Usuario)}
}

func (s *stubUsuarioQueries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.Usuario{}, repo.ErrNotFound
	}
	return u, nil
}

func (s *stubUsuarioQueries) InsertUsuario(ctx context.Context, arg repo.InsertUsuarioParams) (repo.Usuario, error) {
	for _, u := range s.usuarios {
		if u.Email == arg.Email {
			return repo.Usuario{}, &pgconn.PgError{Code: "23505", ConstraintName: "usuarios_email_key"}
		}
	}
	u := repo.Usuario{
		ID:         arg.ID,
		Nome:       arg.Nome,
		Email:      arg.Email,
		SenhaHash:  arg.SenhaHash,
		Cargo:      arg.Cargo,
		Telefone:   arg.Telefone,
		Nascimento: arg.Nascimento,
		FotoURL:    arg.FotoURL,
	}
	s.usuarios[u.ID] = u
	return u, nil
}

func (s *stubUsuarioQueries) ListUsuarios(ctx context.Context, cargo string) ([]repo.Usuario, error) {
	var out []repo.Usuario
	for _, u := range s.usuarios {
		if cargo == "" || u.Cargo == cargo {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *stubUsuarioQueries) UpdateUsuarioCargo(ctx context.Context, id uuid.UUID, cargo string) error {
	u, ok := s.usuarios[id]
	if !ok {
		return repo.ErrNotFound
	}
	u.Cargo = cargo
	s.usuarios[id] = u
	return nil
}

type gravadorStorage struct {
	chaves []string
}

func (g *gravadorStorage) Upload(ctx context.Context, input storage.UploadInput) (*storage.UploadResult, error) {
	g.chaves = append(g.chaves, input.Key)
	return &storage.UploadResult{URL: "https://cdn.incell.app/" + input.Key}, nil
}

func (g *gravadorStorage) Delete(ctx context.Context, key string) error { return nil }

func (g *gravadorStorage) List(ctx context.Context, prefix string) ([]string, error) {
	return nil, nil
}

func (g *gravadorStorage) PresignGet(ctx context.Context, key string, expires time.Duration) (string, error) {
	return "", nil
}

func novoUsuarioService() (*UsuarioService, *stubUsuarioQueries) {
	queries := newStubUsuarioQueries()
	svc := NewUsuarioService(queries, storage.NoopStorage{}, zerolog.Nop())
	return svc, queries
}

func TestCriarUsuario(t *testing.T) {
	svc, _ := novoUsuarioService()

	usuario, err := svc.Criar(context.Background(), NovoUsuario{
		Nome:  "Maria Silva",
		Email: "maria@igreja.com",
		Senha: "SenhaForte123",
		Cargo: repo.CargoLider,
	})
	if err != nil {
		t.Fatalf("criar: %v", err)
	}

	if usuario.ID == uuid.Nil {
		t.Fatal("id vazio")
	}
	ok, err := auth.VerificarSenha("SenhaForte123", usuario.SenhaHash)
	if err != nil || !ok {
		t.Fatalf("senha não confere: ok=%v err=%v", ok, err)
	}
}

func TestCriarUsuarioFotoFicaNaPastaDoUsuario(t *testing.T) {
	queries := newStubUsuarioQueries()
	st := &gravadorStorage{}
	svc := NewUsuarioService(queries, st, zerolog.Nop())

	usuario, err := svc.Criar(context.Background(), NovoUsuario{
		Nome:            "Maria Silva",
		Email:           "maria@igreja.com",
		Senha:           "SenhaForte123",
		Cargo:           repo.CargoLider,
		Foto:            []byte("png-bytes"),
		FotoContentType: "image/png",
		FotoExt:         ".png",
	})
	if err != nil {
		t.Fatalf("criar: %v", err)
	}

	if len(st.chaves) != 1 {
		t.Fatalf("esperava 1 upload, veio %d", len(st.chaves))
	}
	prefixo := "usuarios/" + usuario.ID.String() + "/foto-"
	if !strings.HasPrefix(st.chaves[0], prefixo) {
		t.Fatalf("chave %q fora da pasta do usuário %q", st.chaves[0], prefixo)
	}
	if usuario.FotoURL == nil || !strings.HasSuffix(*usuario.FotoURL, st.chaves[0]) {
		t.Fatalf("foto_url não aponta para o objeto: %v", usuario.FotoURL)
	}
}

func TestCriarUsuarioEmailDuplicado(t *testing.T) {
	svc, _ := novoUsuarioService()
	ctx := context.Background()

	base := NovoUsuario{Nome: "Maria", Email: "maria@igreja.com", Senha: "SenhaForte123", Cargo: repo.CargoLider}
	if _, err := svc.Criar(ctx, base); err != nil {
		t.Fatalf("primeiro: %v", err)
	}

	base.Nome = "Outra Maria"
	if _, err := svc.Criar(ctx, base); !errors.Is(err, ErrEmailEmUso) {
		t.Fatalf("esperava ErrEmailEmUso, veio %v", err)
	}
}

func TestCriarUsuarioCargoInvalido(t *testing.T) {
	svc, _ := novoUsuarioService()

	_, err := svc.Criar(context.Background(), NovoUsuario{
		Nome:  "Maria",
		Email: "maria@igreja.com",
		Senha: "SenhaForte123",
		Cargo: "tesoureiro",
	})
	if !errors.Is(err, ErrCargoInvalido) {
		t.Fatalf("esperava ErrCargoInvalido, veio %v", err)
	}
}

func TestCriarUsuarioSenhaCurta(t *testing.T) {
	svc, _ := novoUsuarioService()

	_, err := svc.Criar(context.Background(), NovoUsuario{
		Nome:  "Maria",
		Email: "maria@igreja.com",
		Senha: "curta",
		Cargo: repo.CargoLider,
	})
	if err == nil {
		t.Fatal("esperava erro de senha curta")
	}
}

func TestListarOrdenaPorNome(t *testing.T) {
	svc, _ := novoUsuarioService()
	ctx := context.Background()

	for _, nome := range []string{"Bruno", "água", "Álvaro"} {
		if _, err := svc.Criar(ctx, NovoUsuario{
			Nome:  nome,
			Email: nome + "@igreja.com",
			Senha: "SenhaForte123",
			Cargo: repo.CargoLider,
		}); err != nil {
			t.Fatalf("criar %s: %v", nome, err)
		}
	}

	usuarios, err := svc.Listar(ctx, repo.CargoLider)
	if err != nil {
		t.Fatalf("listar: %v", err)
	}

	esperado := []string{"água", "Álvaro", "Bruno"}
	if len(usuarios) != len(esperado) {
		t.Fatalf("esperava %d usuários, veio %d", len(esperado), len(usuarios))
	}
	for i, nome := range esperado {
		if usuarios[i].Nome != nome {
			t.Fatalf("ordem errada: %v", usuarios)
		}
	}
}

func TestAtualizarCargoIdempotente(t *testing.T) {
	svc, queries := novoUsuarioService()
	ctx := context.Background()

	usuario, err := svc.Criar(ctx, NovoUsuario{
		Nome:  "Maria",
		Email: "maria@igreja.com",
		Senha: "SenhaForte123",
		Cargo: repo.CargoLider,
	})
	if err != nil {
		t.Fatalf("criar: %v", err)
	}

	if err := svc.AtualizarCargo(ctx, usuario.ID, repo.CargoSupervisor); err != nil {
		t.Fatalf("promover: %v", err)
	}
	// repetir o mesmo cargo é no-op
	if err := svc.AtualizarCargo(ctx, usuario.ID, repo.CargoSupervisor); err != nil {
		t.Fatalf("repetição: %v", err)
	}
	if queries.usuarios[usuario.ID].Cargo != repo.CargoSupervisor {
		t.Fatalf("cargo final: %s", queries.usuarios[usuario.ID].Cargo)
	}

	if err := svc.AtualizarCargo(ctx, uuid.New(), repo.CargoLider); !errors.Is(err, repo.ErrNotFound) {
		t.Fatalf("esperava ErrNotFound, veio %v", err)
	}
}
