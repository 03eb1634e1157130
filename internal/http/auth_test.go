package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
)

type stubAuthQueries struct {
	user repo.Usuario
}

func (s *stubAuthQueries) GetUsuarioByLogin(ctx context.Context, login string) (repo.Usuario, error) {
	if strings.EqualFold(login, s.user.Email) || strings.EqualFold(login, s.user.Nome) {
		return s.user, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubAuthQueries) GetUsuarioByID(ctx context.Context, id uuid.UUID) (repo.Usuario, error) {
	if id == s.user.ID {
		return s.user, nil
	}
	return repo.Usuario{}, repo.ErrNotFound
}

func (s *stubAuthQueries) InsertRefreshToken(ctx context.Context, arg repo.InsertRefreshTokenParams) (repo.TokenRefresh, error) {
	return repo.TokenRefresh{ID: uuid.New(), UsuarioID: arg.UsuarioID, TokenHash: arg.TokenHash, Expiracao: arg.Expiracao}, nil
}

func (s *stubAuthQueries) GetRefreshTokenByHash(ctx context.Context, tokenHash string) (repo.TokenRefresh, error) {
	return repo.TokenRefresh{}, repo.ErrNotFound
}

func (s *stubAuthQueries) RevokeRefreshToken(ctx context.Context, tokenHash string) error {
	return nil
}

func (s *stubAuthQueries) InvalidateOtherRefreshTokens(ctx context.Context, usuarioID uuid.UUID, keepHash string) error {
	return nil
}

func novoLoginHandler(t *testing.T) *Handler {
	t.Helper()

	hash, err := auth.HashSenha("SenhaForte123")
	if err != nil {
		t.Fatalf("hash: %v", err)
	}

	queries := &stubAuthQueries{user: repo.Usuario{
		ID:        uuid.New(),
		Nome:      "Rafael Lima",
		Email:     "rafael@igreja.com",
		SenhaHash: hash,
		Cargo:     repo.CargoLider,
	}}

	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	authService := service.NewAuthService(queries, jwtMgr, nil, time.Hour)
	return &Handler{authService: authService}
}

func postLogin(t *testing.T, h *Handler, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, "/api/login", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	h.Login(rec, req)
	return rec
}

func TestLoginHandlerSucesso(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{"login":"rafael@igreja.com","senha":"SenhaForte123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, corpo %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success      bool          `json:"success"`
		Message      string        `json:"message"`
		User         *repo.Usuario `json:"user"`
		AccessToken  string        `json:"access_token"`
		RefreshToken string        `json:"refresh_token"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decodificar: %v", err)
	}
	if !resp.Success || resp.User == nil || resp.User.Email != "rafael@igreja.com" {
		t.Fatalf("resposta inesperada: %+v", resp)
	}
	if resp.AccessToken == "" || resp.RefreshToken == "" {
		t.Fatal("tokens ausentes")
	}
}

func TestLoginHandlerSenhaIncorreta(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{"login":"rafael@igreja.com","senha":"errada"}`)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("status %d", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decodificar: %v", err)
	}
	if resp.Success || resp.Message != "Senha incorreta!" {
		t.Fatalf("resposta inesperada: %+v", resp)
	}
}

func TestLoginHandlerUsuarioNaoEncontrado(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{"login":"ninguem@igreja.com","senha":"tanto-faz"}`)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status %d", rec.Code)
	}

	var resp struct {
		Success bool   `json:"success"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decodificar: %v", err)
	}
	if resp.Success || resp.Message != "Usuário não encontrado!" {
		t.Fatalf("resposta inesperada: %+v", resp)
	}
}

func TestLoginHandlerAceitaCampoUser(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{"user":"rafael@igreja.com","senha":"SenhaForte123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, corpo %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Success bool          `json:"success"`
		User    *repo.Usuario `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decodificar: %v", err)
	}
	if !resp.Success || resp.User == nil || resp.User.Email != "rafael@igreja.com" {
		t.Fatalf("resposta inesperada: %+v", resp)
	}
}

func TestLoginHandlerAceitaCampoEmail(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{"email":"rafael@igreja.com","senha":"SenhaForte123"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("status %d, corpo %s", rec.Code, rec.Body.String())
	}
}

func TestLoginHandlerSemCredenciais(t *testing.T) {
	h := novoLoginHandler(t)

	rec := postLogin(t, h, `{}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status %d", rec.Code)
	}
}
