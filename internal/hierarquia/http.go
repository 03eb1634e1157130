package hierarquia

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

// Handler orquestra as rotas da hierarquia organizacional.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/ministerios", func(r chi.Router) {
		r.Get("/celulas", h.handleListarCelulas)
		r.Get("/celula/responsavel", h.handleCelulaDoResponsavel)

		r.Group(func(r chi.Router) {
			r.Use(httpmiddleware.RequireCargo(repo.CargoPastor, repo.CargoAdmin))
			r.Post("/criar/celula", h.handleCriarCelula)
			r.Post("/criar/supervisao", h.handleCriarSupervisao)
			r.Post("/criar/coordenacao", h.handleCriarCoordenacao)
			r.Post("/supervisao/{id}/lideres", h.handleVincularLider)
			r.Delete("/supervisao/{id}/lideres/{liderId}", h.handleDesvincularLider)
			r.Post("/coordenacao/{id}/supervisoes", h.handleVincularSupervisao)
			r.Delete("/coordenacao/{id}/supervisoes/{supervisaoId}", h.handleDesvincularSupervisao)
		})
	})

	r.Post("/celula/criar", h.handleCriarDiscipulo)
	r.Get("/discipulos", h.handleResolverSubordinados)

	r.Route("/vinculos", func(r chi.Router) {
		r.Post("/", h.handleCriarVinculo)
		r.Get("/{celulaId}", h.handleListarVinculos)
	})
}

func (h *Handler) handleCriarCelula(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "formulário inválido")
		return
	}

	responsavelID, err := uuid.Parse(strings.TrimSpace(r.FormValue("responsavel_id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "responsável inválido")
		return
	}

	celula := Celula{
		Nome:          strings.TrimSpace(r.FormValue("nome")),
		ResponsavelID: responsavelID,
		Genero:        strings.TrimSpace(r.FormValue("genero")),
		DiaSemana:     strings.TrimSpace(r.FormValue("dia_semana")),
		Horario:       strings.TrimSpace(r.FormValue("horario")),
		Endereco:      strings.TrimSpace(r.FormValue("endereco")),
		Bairro:        strings.TrimSpace(r.FormValue("bairro")),
		Cidade:        strings.TrimSpace(r.FormValue("cidade")),
		FaixaEtaria:   strings.TrimSpace(r.FormValue("faixa_etaria")),
	}

	criada, err := h.service.CriarCelula(r.Context(), celula)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"celula": criada})
}

func (h *Handler) handleCriarSupervisao(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "formulário inválido")
		return
	}

	supervisorID, err := uuid.Parse(strings.TrimSpace(r.FormValue("supervisor_id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "supervisor inválido")
		return
	}

	lideres, err := parseUUIDList(r.Form["lideres"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "líder inválido na lista")
		return
	}

	sup := Supervisao{
		Nome:         strings.TrimSpace(r.FormValue("nome")),
		SupervisorID: supervisorID,
		Genero:       strings.TrimSpace(r.FormValue("genero")),
	}

	criada, err := h.service.CriarSupervisao(r.Context(), sup, lideres)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"supervisao": criada})
}

func (h *Handler) handleCriarCoordenacao(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "formulário inválido")
		return
	}

	coordenadorID, err := uuid.Parse(strings.TrimSpace(r.FormValue("coordenador_id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "coordenador inválido")
		return
	}

	supervisoes, err := parseUUIDList(r.Form["supervisoes"])
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "supervisão inválida na lista")
		return
	}

	coord := Coordenacao{
		Nome:          strings.TrimSpace(r.FormValue("nome")),
		CoordenadorID: coordenadorID,
		Genero:        strings.TrimSpace(r.FormValue("genero")),
		FaixaEtaria:   strings.TrimSpace(r.FormValue("faixa_etaria")),
	}

	criada, err := h.service.CriarCoordenacao(r.Context(), coord, supervisoes)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"coordenacao": criada})
}

func (h *Handler) handleVincularLider(w http.ResponseWriter, r *http.Request) {
	supervisaoID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var body struct {
		LiderID uuid.UUID `json:"lider_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.LiderID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "líder obrigatório")
		return
	}

	if err := h.service.VincularLider(r.Context(), supervisaoID, body.LiderID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDesvincularLider(w http.ResponseWriter, r *http.Request) {
	supervisaoID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}
	liderID, err := parseUUIDParam(r, "liderId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "líder inválido")
		return
	}

	if err := h.service.DesvincularLider(r.Context(), supervisaoID, liderID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleVincularSupervisao(w http.ResponseWriter, r *http.Request) {
	coordenacaoID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}

	var body struct {
		SupervisaoID uuid.UUID `json:"supervisao_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.SupervisaoID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "supervisão obrigatória")
		return
	}

	if err := h.service.VincularSupervisao(r.Context(), coordenacaoID, body.SupervisaoID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleDesvincularSupervisao(w http.ResponseWriter, r *http.Request) {
	coordenacaoID, err := parseUUIDParam(r, "id")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "id inválido")
		return
	}
	supervisaoID, err := parseUUIDParam(r, "supervisaoId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "supervisão inválida")
		return
	}

	if err := h.service.DesvincularSupervisao(r.Context(), coordenacaoID, supervisaoID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleCriarVinculo(w http.ResponseWriter, r *http.Request) {
	var body struct {
		CelulaPrincipalID uuid.UUID `json:"celula_principal_id"`
		CelulaVinculadaID uuid.UUID `json:"celula_vinculada_id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "corpo inválido")
		return
	}

	criado, err := h.service.CriarVinculo(r.Context(), Vinculo{
		CelulaPrincipalID: body.CelulaPrincipalID,
		CelulaVinculadaID: body.CelulaVinculadaID,
	})
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"vinculo": criado})
}

func (h *Handler) handleListarVinculos(w http.ResponseWriter, r *http.Request) {
	celulaID, err := parseUUIDParam(r, "celulaId")
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "célula inválida")
		return
	}

	vinculos, err := h.service.ListarVinculos(r.Context(), celulaID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"vinculos": vinculos})
}

func (h *Handler) handleCriarDiscipulo(w http.ResponseWriter, r *http.Request) {
	if err := parseForm(r); err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "formulário inválido")
		return
	}

	celulaID, err := uuid.Parse(strings.TrimSpace(r.FormValue("celula_id")))
	if err != nil {
		writeError(w, http.StatusBadRequest, "VALIDATION", "célula inválida")
		return
	}

	d := Discipulo{
		CelulaID: celulaID,
		Nome:     strings.TrimSpace(r.FormValue("nome")),
		Funcao:   strings.TrimSpace(r.FormValue("funcao")),
	}
	if contato := strings.TrimSpace(r.FormValue("contato")); contato != "" {
		d.Contato = &contato
	}
	if nascimento := strings.TrimSpace(r.FormValue("nascimento")); nascimento != "" {
		t, err := time.Parse("2006-01-02", nascimento)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "nascimento inválido")
			return
		}
		d.Nascimento = &t
	}

	criado, err := h.service.CriarDiscipulo(r.Context(), d)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]any{"discipulo": criado})
}

// handleResolverSubordinados responde GET /discipulos?liderId=&cargo=.
func (h *Handler) handleResolverSubordinados(w http.ResponseWriter, r *http.Request) {
	liderParam := strings.TrimSpace(r.URL.Query().Get("liderId"))
	cargo := strings.TrimSpace(r.URL.Query().Get("cargo"))

	var usuarioID uuid.UUID
	var err error
	if liderParam != "" {
		usuarioID, err = uuid.Parse(liderParam)
		if err != nil {
			writeError(w, http.StatusBadRequest, "VALIDATION", "liderId inválido")
			return
		}
	} else {
		usuarioID, err = subjectAsUUID(r.Context())
		if err != nil {
			writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
			return
		}
	}
	if cargo == "" {
		cargo = httpmiddleware.GetCargo(r.Context())
	}

	membros, err := h.service.ResolverSubordinados(r.Context(), usuarioID, cargo)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"discipulos": membros})
}

func (h *Handler) handleListarCelulas(w http.ResponseWriter, r *http.Request) {
	celulas, err := h.service.ListarCelulas(r.Context())
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"celulas": celulas})
}

func (h *Handler) handleCelulaDoResponsavel(w http.ResponseWriter, r *http.Request) {
	usuarioID, err := subjectAsUUID(r.Context())
	if err != nil {
		writeError(w, http.StatusUnauthorized, "AUTH", "identificação inválida")
		return
	}

	celula, err := h.service.CelulaDoResponsavel(r.Context(), usuarioID)
	if errors.Is(err, repo.ErrNotFound) {
		writeError(w, http.StatusNotFound, "NOT_FOUND", "célula não encontrada")
		return
	}
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"celula": celula})
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrResponsavelOcupado),
		errors.Is(err, ErrLiderJaSupervisionado),
		errors.Is(err, ErrSupervisaoJaCoordenada),
		errors.Is(err, ErrAutoVinculo),
		errors.Is(err, ErrCargoDesconhecido):
		writeError(w, http.StatusBadRequest, "VALIDATION", err.Error())
	case errors.Is(err, repo.ErrNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "INTERNAL", "erro interno")
	}
}

func subjectAsUUID(ctx context.Context) (uuid.UUID, error) {
	return uuid.Parse(httpmiddleware.GetSubject(ctx))
}

func parseUUIDParam(r *http.Request, name string) (uuid.UUID, error) {
	return uuid.Parse(chi.URLParam(r, name))
}

func parseUUIDList(values []string) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	for _, raw := range values {
		for _, part := range strings.Split(raw, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			id, err := uuid.Parse(part)
			if err != nil {
				return nil, err
			}
			ids = append(ids, id)
		}
	}
	return ids, nil
}

// parseForm aceita multipart e urlencoded com o mesmo caminho de leitura.
func parseForm(r *http.Request) error {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		return r.ParseMultipartForm(10 << 20)
	}
	return r.ParseForm()
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
