package http

import (
	"crypto/subtle"
	"net/http"
	"strings"
)

// CronLimparRelatorios dispara uma varredura imediata de relatórios vencidos.
// Protegido por segredo fixo no header Authorization, pensado para um cron
// externo simples.
func (h *Handler) CronLimparRelatorios(w http.ResponseWriter, r *http.Request) {
	token := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")
	if subtle.ConstantTimeCompare([]byte(token), []byte(h.cfg.CronSecret)) != 1 {
		WriteError(w, http.StatusUnauthorized, "AUTH", "credencial inválida", nil)
		return
	}

	removidos, err := h.relatorios.Sweep(r.Context(), h.cfg.RelatorioMaxAge)
	if err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "falha na varredura", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"removidos": removidos})
}
