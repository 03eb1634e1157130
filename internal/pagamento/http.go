package pagamento

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	httpmiddleware "github.com/Rafaelk26/Incell-System-sub000/internal/http/middleware"
)

const maxComprovante = 10 << 20

// Handler orquestra as rotas de pagamento.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/pagamentos", func(r chi.Router) {
		r.Post("/", h.handleRegistrar)
		r.Post("/limpar", h.handlePurgar)
		r.Get("/", h.handleListar)
		r.Get("/percentual", h.handlePercentual)
	})
}

func (h *Handler) handleRegistrar(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	if err := r.ParseMultipartForm(maxComprovante); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos")
		return
	}

	fileHeader, err := getFirstFile(r.MultipartForm, "comprovante")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	data, contentType, err := readMultipartFile(fileHeader, maxComprovante)
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))

	pagamento, err := h.service.Registrar(r.Context(), usuarioID, data, contentType, ext)
	if err != nil {
		if errors.Is(err, ErrArquivoVazio) {
			writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
			return
		}
		writeError(w, http.StatusInternalServerError, "INTERNAL", "falha ao registrar pagamento")
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"pagamento": pagamento})
}

func (h *Handler) handleListar(w http.ResponseWriter, r *http.Request) {
	pagamentos, err := h.service.Listar(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"pagamentos": pagamentos})
}

func (h *Handler) handlePercentual(w http.ResponseWriter, r *http.Request) {
	total, err := strconv.Atoi(r.URL.Query().Get("total"))
	if err != nil || total < 0 {
		writeError(w, http.StatusBadRequest, "VALIDATION", "total inválido")
		return
	}

	percentual, err := h.service.Percentual(r.Context(), total)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"percentual": percentual})
}

func (h *Handler) handlePurgar(w http.ResponseWriter, r *http.Request) {
	removidos, err := h.service.PurgarCiclo(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "INTERNAL", "falha ao limpar ciclo")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"removidos": removidos})
}

func getFirstFile(form *multipart.Form, field string) (*multipart.FileHeader, error) {
	if form == nil {
		return nil, errors.New("arquivo ausente")
	}
	files := form.File[field]
	if len(files) == 0 {
		return nil, errors.New("arquivo ausente")
	}
	return files[0], nil
}

func readMultipartFile(header *multipart.FileHeader, limit int64) ([]byte, string, error) {
	file, err := header.Open()
	if err != nil {
		return nil, "", fmt.Errorf("falha ao abrir arquivo: %w", err)
	}
	defer file.Close()

	buf := bytes.NewBuffer(nil)
	if _, err := io.Copy(buf, io.LimitReader(file, limit)); err != nil {
		return nil, "", fmt.Errorf("falha ao ler arquivo: %w", err)
	}

	if int64(buf.Len()) >= limit {
		return nil, "", fmt.Errorf("arquivo excede %d bytes", limit)
	}

	contentType := header.Header.Get("Content-Type")
	if strings.TrimSpace(contentType) == "" {
		contentType = http.DetectContentType(buf.Bytes())
	}

	return buf.Bytes(), contentType, nil
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
