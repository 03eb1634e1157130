package http

import (
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	"github.com/Rafaelk26/Incell-System-sub000/internal/config"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
)

func novoRouterDeTeste(t *testing.T) chi.Router {
	t.Helper()

	jwtMgr := auth.NewJWTManager(strings.Repeat("a", 32), time.Minute)
	authService := service.NewAuthService(&stubAuthQueries{}, jwtMgr, nil, time.Hour)

	handler, _, err := NewRouter(&config.Config{}, nil, nil, authService)
	if err != nil {
		t.Fatalf("montar router: %v", err)
	}

	mux, ok := handler.(chi.Router)
	if !ok {
		t.Fatalf("handler não é chi.Router: %T", handler)
	}
	return mux
}

func TestRouterResolveRotasPinadas(t *testing.T) {
	mux := novoRouterDeTeste(t)

	rotas := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/login"},
		{http.MethodPost, "/api/refresh"},
		{http.MethodPost, "/api/logout"},
		{http.MethodPost, "/api/usuarios/criar"},
		{http.MethodPost, "/api/usuarios/"},
		{http.MethodGet, "/api/usuarios/"},
		{http.MethodGet, "/api/discipulos"},
		{http.MethodPost, "/api/celula/criar"},
		{http.MethodPost, "/api/ministerios/criar/celula"},
		{http.MethodPost, "/api/reunioes/"},
		{http.MethodGet, "/api/pagamentos/percentual"},
		{http.MethodGet, "/api/estatisticas"},
		{http.MethodGet, "/api/cron/limpar-relatorios"},
	}
	for _, rota := range rotas {
		rctx := chi.NewRouteContext()
		if !mux.Match(rctx, rota.method, rota.path) {
			t.Errorf("rota %s %s não resolvida", rota.method, rota.path)
		}
	}
}
