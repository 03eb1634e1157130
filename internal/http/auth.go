package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/Rafaelk26/Incell-System-sub000/internal/auth"
	httpmiddleware "github.com/Rafaelk26/Incell-System-sub000/internal/http/middleware"
	"github.com/Rafaelk26/Incell-System-sub000/internal/repo"
	"github.com/Rafaelk26/Incell-System-sub000/internal/service"
)

type loginRequest struct {
	User  string `json:"user"`
	Login string `json:"login"`
	Email string `json:"email"`
	Senha string `json:"senha"`
}

// loginResponse mantém o contrato histórico do front: success, message e o
// usuário no corpo, fora do envelope padrão.
type loginResponse struct {
	Success      bool          `json:"success"`
	Message      string        `json:"message"`
	User         *repo.Usuario `json:"user,omitempty"`
	AccessToken  string        `json:"access_token,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
}

// Login autentica por e-mail ou nome.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeLogin(w, http.StatusBadRequest, loginResponse{Success: false, Message: "Requisição inválida!"})
		return
	}

	login := strings.TrimSpace(req.User)
	if login == "" {
		login = strings.TrimSpace(req.Login)
	}
	if login == "" {
		login = strings.TrimSpace(req.Email)
	}
	if login == "" || req.Senha == "" {
		writeLogin(w, http.StatusBadRequest, loginResponse{Success: false, Message: "Informe login e senha!"})
		return
	}

	usuario, pair, err := h.authService.Login(r.Context(), login, req.Senha)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUsuarioNaoEncontrado):
			writeLogin(w, http.StatusNotFound, loginResponse{Success: false, Message: err.Error()})
		case errors.Is(err, service.ErrSenhaIncorreta):
			writeLogin(w, http.StatusUnauthorized, loginResponse{Success: false, Message: err.Error()})
		default:
			writeLogin(w, http.StatusInternalServerError, loginResponse{Success: false, Message: "Erro interno!"})
		}
		return
	}

	writeLogin(w, http.StatusOK, loginResponse{
		Success:      true,
		Message:      "Login realizado com sucesso!",
		User:         &usuario,
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	})
}

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// Refresh troca o refresh token por um novo par.
func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	usuario, pair, err := h.authService.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrInvalidRefresh) {
			WriteError(w, http.StatusUnauthorized, "AUTH", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"user":          usuario,
		"access_token":  pair.AccessToken,
		"refresh_token": pair.RefreshToken,
	})
}

// Logout revoga o refresh token informado.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	var req refreshRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.RefreshToken) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "refresh_token obrigatório", nil)
		return
	}

	if err := h.authService.Logout(r.Context(), req.RefreshToken); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Me devolve o usuário autenticado.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(httpmiddleware.GetSubject(r.Context()))
	if err != nil {
		WriteError(w, http.StatusUnauthorized, "AUTH", "identificação inválida", nil)
		return
	}

	usuario, err := h.usuarios.Buscar(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			WriteError(w, http.StatusNotFound, "NOT_FOUND", "usuário não encontrado", nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"user": usuario})
}

type forgotRequest struct {
	Email string `json:"email"`
}

// ForgotPassword dispara o e-mail de redefinição. A resposta é idêntica para
// e-mail cadastrado ou não.
func (h *Handler) ForgotPassword(w http.ResponseWriter, r *http.Request) {
	var req forgotRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Email) == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "email obrigatório", nil)
		return
	}

	if err := h.reset.SolicitarReset(r.Context(), strings.TrimSpace(req.Email)); err != nil {
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{
		"message": "Se o e-mail estiver cadastrado, você receberá as instruções.",
	})
}

type resetRequest struct {
	Token string `json:"token"`
	Senha string `json:"senha"`
}

// ResetPassword consome o token de uso único e grava a nova senha.
func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req resetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "requisição inválida", nil)
		return
	}
	if strings.TrimSpace(req.Token) == "" || req.Senha == "" {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "token e senha obrigatórios", nil)
		return
	}
	if len(req.Senha) < 8 {
		WriteError(w, http.StatusBadRequest, "VALIDATION", "senha deve ter pelo menos 8 caracteres", nil)
		return
	}

	if err := h.reset.RedefinirSenha(r.Context(), req.Token, req.Senha); err != nil {
		if errors.Is(err, auth.ErrResetInvalido) {
			WriteError(w, http.StatusBadRequest, "VALIDATION", err.Error(), nil)
			return
		}
		WriteError(w, http.StatusInternalServerError, "INTERNAL", "erro interno", nil)
		return
	}

	WriteJSON(w, http.StatusOK, map[string]string{"message": "Senha redefinida com sucesso!"})
}

func writeLogin(w http.ResponseWriter, status int, resp loginResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
