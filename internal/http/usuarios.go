package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
	"github.com/Rafaelk26/Incell-System-sub000/internal/util"
)

const maxFotoUpload = 8 << 20

// CreateUsuario cadastra usuário via multipart, com foto opcional no campo
// "foto".
func (h *Handler) CreateUsuario(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(maxFotoUpload); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "dados multipart inválidos", nil)
		return
	}

	input := service.NovoUsuario{
		Nome:  strings.TrimSpace(r.FormValue("nome")),
		Email: strings.TrimSpace(r.FormValue("email")),
		Senha: r.FormValue("senha"),
		Cargo: strings.TrimSpace(r.FormValue("cargo")),
	}

	if err := util.RequireString(input.Nome, "nome"); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		return
	}

	if telefone := util.NormalizarTelefone(r.FormValue("telefone")); telefone != "" {
		input.Telefone = &telefone
	}

	if raw := strings.TrimSpace(r.FormValue("nascimento")); raw != "" {
		nascimento, err := time.Parse("2006-01-02", raw)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", "nascimento inválido, use AAAA-MM-DD", nil)
			return
		}
		input.Nascimento = &nascimento
	}

	if fileHeader, err := getFirstFile(r.MultipartForm, "foto"); err == nil {
		data, contentType, err := readMultipartFile(fileHeader, maxFotoUpload)
		if err != nil {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		input.Foto = data
		input.FotoContentType = contentType
		input.FotoExt = strings.ToLower(filepath.Ext(fileHeader.Filename))
	}

	usuario, err := h.usuarios.Criar(r.Context(), input)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrEmailEmUso):
			WriteError(w, http.StatusConflict, "CONFLICT", err.Error(), nil)
		case errors.Is(err, service.ErrCargoInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		default:
			// erros de validação de e-mail/senha chegam aqui como texto simples
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		}
		return
	}

	WriteJSON(w, http.StatusCreated, map[string]any{"user": usuario})
}

// ListUsuarios lista por cargo em ordem alfabética; sem cargo lista todos.
func (h *Handler) ListUsuarios(w http.ResponseWriter, r *http.Request) {
	cargo := strings.TrimSpace(r.URL.Query().Get("cargo"))

	usuarios, err := h.usuarios.Listar(r.Context(), cargo)
	if err != nil {
		if errors.Is(err, service.ErrCargoInvalido) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"users": usuarios})
}

type updateCargoRequest struct {
	Cargo string `json:"cargo"`
}

// UpdateUsuarioCargo troca o cargo. Repetir o cargo atual devolve 200.
func (h *Handler) UpdateUsuarioCargo(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "id inválido", nil)
		return
	}

	var req updateCargoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "requisição inválida", nil)
		return
	}

	if err := h.usuarios.AtualizarCargo(r.Context(), id, strings.TrimSpace(req.Cargo)); err != nil {
		switch {
		case errors.Is(err, service.ErrCargoInvalido):
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
		case errors.Is(err, repo.ErrNotFound):
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
		default:
			WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		}
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
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
