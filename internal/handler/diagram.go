package handler

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/alexedwards/scs/v2"
	"github.com/bytedance/sonic"
	"github.com/go-chi/chi/v5"
	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/models"
	"github.com/kdduha/aidiagram/internal/render"
	"go.uber.org/zap"
)

type diagramService interface {
	NewSession(id string) *models.Session
	SelectType(ctx context.Context, sess *models.Session, diagramType models.DiagramType) error
	Trigger(ctx context.Context, sess *models.Session) error
	Generate(ctx context.Context, sessionID string, req *models.DiagramRequest) (*models.DiagramResponse, error)
}

type catalog interface {
	Types() []models.DiagramType
	DefaultDescription(diagramType models.DiagramType) (string, error)
}

type pageRenderer interface {
	Page(w io.Writer, data render.PageData) error
}

type DiagramHandler struct {
	logger   *zap.Logger
	service  diagramService
	catalog  catalog
	renderer pageRenderer
	sessions *scs.SessionManager
}

func NewDiagramHandler(
	logger *zap.Logger,
	service diagramService,
	catalog catalog,
	renderer pageRenderer,
	sessions *scs.SessionManager,
) *DiagramHandler {
	return &DiagramHandler{
		logger:   logger,
		service:  service,
		catalog:  catalog,
		renderer: renderer,
		sessions: sessions,
	}
}

// Routes mounts the page and API routes behind the session middleware.
func (h *DiagramHandler) Routes(r chi.Router) {
	r.Group(func(r chi.Router) {
		r.Use(h.sessions.LoadAndSave)

		r.Get("/", h.Page)
		r.Post("/", h.Submit)
		r.Post("/api/diagrams", h.Generate)
	})
	r.Get("/api/diagram-types", h.Catalog)
}

// Generate godoc
// @Summary Generate a diagram
// @Description Fill the diagram type's prompt template with the description, call the generation endpoint, extract the Mermaid source and return it with its render block.
// @Tags diagrams
// @Accept json
// @Produce json
// @Param request body models.DiagramRequest true "Diagram request"
// @Success 200 {object} models.DiagramResponse
// @Failure 400 {object} models.ErrorResponse
// @Failure 409 {object} models.ErrorResponse
// @Failure 502 {object} models.ErrorResponse
// @Failure 503 {object} models.ErrorResponse
// @Router /api/diagrams [post]
func (h *DiagramHandler) Generate(w http.ResponseWriter, r *http.Request) {
	var req models.DiagramRequest
	if err := sonic.ConfigDefault.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeError(w, apperrors.NewInvalidRequest(fmt.Sprintf("invalid JSON: %s", err)))
		return
	}

	resp, err := h.service.Generate(r.Context(), h.sessionID(r.Context()), &req)
	if err != nil {
		h.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// Catalog godoc
// @Summary List diagram types and themes
// @Tags diagrams
// @Produce json
// @Success 200 {object} models.CatalogResponse
// @Router /api/diagram-types [get]
func (h *DiagramHandler) Catalog(w http.ResponseWriter, r *http.Request) {
	resp := models.CatalogResponse{Themes: models.Themes()}
	for _, t := range h.catalog.Types() {
		description, err := h.catalog.DefaultDescription(t)
		if err != nil {
			h.writeError(w, err)
			return
		}
		resp.Types = append(resp.Types, models.DiagramTypeInfo{
			Name:               t,
			DefaultDescription: description,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (h *DiagramHandler) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	code := string(apperrors.CodeOf(err))
	if code == "" {
		code = "INTERNAL"
	}
	if status >= http.StatusInternalServerError {
		h.logger.Error("request failed", zap.Int("status", status), zap.Error(err))
	}
	writeJSON(w, status, models.ErrorResponse{
		Code:    code,
		Message: err.Error(),
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	data, err := sonic.Marshal(v)
	if err != nil {
		http.Error(w, fmt.Sprintf("failed to encode: %s", err), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}
