package relatorio

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/Rafaelk26/Incell-System-sub000/internal/http/middleware"
)

// Handler orquestra as rotas de relatórios.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/relatorios", func(r chi.Router) {
		r.Post("/{tipo}", h.handleCriar)
	})
}

// handleCriar atende POST /relatorios/{celula|discipulado|gdc|gdl|gds}. O PDF
// chega renderizado pelo cliente, como campo base64 do formulário.
func (h *Handler) handleCriar(w http.ResponseWriter, r *http.Request) {
	tipo := strings.ToLower(chi.URLParam(r, "tipo"))
	if !TipoValido(tipo) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "tipo de relatório desconhecido")
		return
	}

	usuarioID, err := subjectAsUUID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	if err := r.ParseMultipartForm(20 << 20); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos")
		return
	}

	pdf, err := decodePDF(r.FormValue("pdf"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "pdf inválido")
		return
	}

	input := CriarInput{
		ResponsavelID: usuarioID,
		Tipo:          tipo,
		PDF:           pdf,
	}
	if raw := strings.TrimSpace(r.FormValue("grupo_id")); raw != "" {
		grupoID, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "grupo inválido")
			return
		}
		input.GrupoID = &grupoID
	}

	rel, err := h.service.Criar(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, ErrTipoInvalido), errors.Is(err, ErrPDFVazio):
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		default:
			writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		}
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"relatorio": rel})
}

// decodePDF aceita base64 puro ou data-URL ("data:application/pdf;base64,...").
func decodePDF(raw string) ([]byte, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, errors.New("pdf ausente")
	}
	if idx := strings.Index(raw, "base64,"); idx >= 0 {
		raw = raw[idx+len("base64,"):]
	}
	return base64.StdEncoding.DecodeString(raw)
}

func subjectAsUUID(ctx context.Context) (uuid.UUID, error) {
	return uuid.Parse(httpmiddleware.GetSubject(ctx))
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]any{"data": data, "error": nil})
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
