package handler

import (
	"bytes"
	"context"
	"errors"
	"html/template"
	"net/http"

	"github.com/google/uuid"
	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/models"
	"github.com/kdduha/aidiagram/internal/render"
	"go.uber.org/zap"
)

// Session keys. Values live only in the session store of this session.
const (
	keySessionID   = "sid"
	keyDiagramType = "diagram_type"
	keyDescription = "description"
	keyTheme       = "theme"
	keyState       = "state"
	keySource      = "source"
	keyHTML        = "html"
	keyError       = "error"
)

const (
	opSelect   = "select"
	opGenerate = "generate"
)

func (h *DiagramHandler) Page(w http.ResponseWriter, r *http.Request) {
	sess := h.loadSession(r.Context())
	h.saveSession(r.Context(), sess)

	data := render.PageData{
		Types:    h.catalog.Types(),
		Themes:   models.Themes(),
		Session:  sess,
		Block:    template.HTML(sess.HTML),
		Rendered: sess.State == models.StateRendered,
		Failed:   sess.State == models.StateFailed,
	}
	if sess.Err != nil {
		data.Error = sess.Err.Error()
	}

	var buf bytes.Buffer
	if err := h.renderer.Page(&buf, data); err != nil {
		h.logger.Error("failed to render page", zap.Error(err))
		http.Error(w, "failed to render page", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Submit handles the form: a type change or the "Generate Diagram" action.
// It redirects back to the page, which shows the outcome.
func (h *DiagramHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form", http.StatusBadRequest)
		return
	}

	ctx := r.Context()
	sess := h.loadSession(ctx)

	theme, err := models.ParseTheme(r.PostForm.Get("theme"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	sess.Theme = theme
	diagramType := models.DiagramType(r.PostForm.Get("diagram_type"))

	switch r.PostForm.Get("op") {
	case opSelect:
		if err := h.service.SelectType(ctx, sess, diagramType); err != nil {
			http.Error(w, err.Error(), apperrors.HTTPStatus(err))
			return
		}
	case opGenerate, "":
		if diagramType != "" {
			sess.Type = diagramType
		}
		sess.Description = r.PostForm.Get("description")

		if err := h.service.Trigger(ctx, sess); err != nil {
			if errors.Is(err, apperrors.ErrGenerationInProgress) {
				http.Error(w, err.Error(), http.StatusConflict)
				return
			}
			// The failure is recorded on the session and shown by the page.
			h.logger.Warn("generation failed", zap.String("session_id", sess.ID), zap.Error(err))
		}
	default:
		http.Error(w, "unknown form action", http.StatusBadRequest)
		return
	}

	h.saveSession(ctx, sess)
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

// sessionID returns the session's ID, creating one on first use.
func (h *DiagramHandler) sessionID(ctx context.Context) string {
	id := h.sessions.GetString(ctx, keySessionID)
	if id == "" {
		id = uuid.NewString()
		h.sessions.Put(ctx, keySessionID, id)
	}
	return id
}

func (h *DiagramHandler) loadSession(ctx context.Context) *models.Session {
	id := h.sessionID(ctx)
	diagramType := h.sessions.GetString(ctx, keyDiagramType)
	if diagramType == "" {
		return h.service.NewSession(id)
	}

	sess := &models.Session{
		ID:          id,
		Type:        models.DiagramType(diagramType),
		Description: h.sessions.GetString(ctx, keyDescription),
		Theme:       models.Theme(h.sessions.GetString(ctx, keyTheme)),
		State:       models.State(h.sessions.GetString(ctx, keyState)),
		Source:      h.sessions.GetString(ctx, keySource),
		HTML:        h.sessions.GetString(ctx, keyHTML),
	}
	if msg := h.sessions.GetString(ctx, keyError); msg != "" {
		sess.Err = errors.New(msg)
	}
	if sess.State == "" {
		sess.State = models.StateIdle
	}
	return sess
}

func (h *DiagramHandler) saveSession(ctx context.Context, sess *models.Session) {
	h.sessions.Put(ctx, keyDiagramType, string(sess.Type))
	h.sessions.Put(ctx, keyDescription, sess.Description)
	h.sessions.Put(ctx, keyTheme, string(sess.Theme))
	h.sessions.Put(ctx, keyState, string(sess.State))
	h.sessions.Put(ctx, keySource, sess.Source)
	h.sessions.Put(ctx, keyHTML, sess.HTML)

	errMsg := ""
	if sess.Err != nil {
		errMsg = sess.Err.Error()
	}
	h.sessions.Put(ctx, keyError, errMsg)
}
