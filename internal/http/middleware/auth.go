package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
)

type contextKey string

const (
	ContextKeySubject contextKey = "subject"
	ContextKeyCargo   contextKey = "cargo"
)

// Auth valida JWT de acesso e injeta claims no contexto.
func Auth(jwtManager *auth.JWTManager) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authHeader := r.Header.Get("Authorization")
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
				writeError(w, http.StatusUnauthorized, "AUTH", "token ausente")
				return
			}

			claims, err := jwtManager.ParseAndValidate(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "AUTH", "token inválido")
				return
			}

			ctx := context.WithValue(r.Context(), ContextKeySubject, claims.Subject)
			ctx = context.WithValue(ctx, ContextKeyCargo, claims.Cargo)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetSubject recupera subject do contexto.
func GetSubject(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeySubject).(string)
	return val
}

// GetCargo recupera o cargo do contexto.
func GetCargo(ctx context.Context) string {
	val, _ := ctx.Value(ContextKeyCargo).(string)
	return val
}

// RequireCargo garante que o usuário possua um dos cargos informados.
func RequireCargo(cargos ...string) func(http.Handler) http.Handler {
	normalized := make([]string, 0, len(cargos))
	for _, cargo := range cargos {
		cargo = strings.ToLower(strings.TrimSpace(cargo))
		if cargo != "" {
			normalized = append(normalized, cargo)
		}
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			atual := strings.ToLower(strings.TrimSpace(GetCargo(r.Context())))
			for _, cargo := range normalized {
				if atual == cargo {
					next.ServeHTTP(w, r)
					return
				}
			}

			writeError(w, http.StatusForbidden, "FORBIDDEN", "acesso restrito")
		})
	}
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{
		"data": nil,
		"error": map[string]any{
			"code":    code,
			"message": message,
		},
	})
}
