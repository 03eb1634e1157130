package agenda

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/Rafaelk26/Incell-System-sub000/internal/http/middleware"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
)

// Handler orquestra as rotas da agenda.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/reunioes", func(r chi.Router) {
		r.Post("/", h.handleListar)
		r.Put("/", h.handleCriar)
		r.Delete("/", h.handleExcluir)
	})
}

// handleListar atende POST /reunioes: a listagem usa POST por contrato com o
// front, o filtro por usuário acontece no cliente.
func (h *Handler) handleListar(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	reunioes, err := h.service.Listar(r.Context(), usuarioID, httpmiddleware.GetCargo(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"reunioes": reunioes})
}

func (h *Handler) handleCriar(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	var body struct {
		Tipo          string     `json:"tipo"`
		Data          string     `json:"data"`
		Horario       string     `json:"horario"`
		DiscipuladoID *uuid.UUID `json:"discipulado_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido")
		return
	}

	data, err := time.Parse("2006-01-02", strings.TrimSpace(body.Data))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "data inválida")
		return
	}

	view, err := h.service.Criar(r.Context(), Reuniao{
		Tipo:          strings.ToUpper(strings.TrimSpace(body.Tipo)),
		Data:          data,
		Horario:       strings.TrimSpace(body.Horario),
		CriadoPor:     usuarioID,
		DiscipuladoID: body.DiscipuladoID,
	})
	if err != nil {
		if errors.Is(err, ErrTipoInvalido) {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"reuniao": view})
}

func (h *Handler) handleExcluir(w http.ResponseWriter, r *http.Request) {
	var body struct {
		ID uuid.UUID `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.ID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id obrigatório")
		return
	}

	if err := h.service.Excluir(r.Context(), body.ID); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			writeError(w, http.StatusNotFound, "NOT_FOUND", "reunião não encontrada")
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}

	w.WriteHeader(http.StatusNoContent)
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
