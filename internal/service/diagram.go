package service

import (
	"context"
	"fmt"
	"html/template"
	"time"

	"github.com/google/uuid"
	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/extract"
	"github.com/kdduha/aidiagram/internal/lock"
	"github.com/kdduha/aidiagram/internal/metrics"
	"github.com/kdduha/aidiagram/internal/models"
	"github.com/kdduha/aidiagram/internal/prompt"
	"go.uber.org/zap"
)

type generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

type renderer interface {
	Block(source string, theme models.Theme) (template.HTML, error)
}

// DiagramService runs the template -> generation -> extraction -> render
// pipeline.
type DiagramService struct {
	logger    *zap.Logger
	registry  *prompt.Registry
	generator generator
	renderer  renderer
	locker    lock.Locker
	extract   func(string) extract.Result
}

func NewDiagramService(logger *zap.Logger, registry *prompt.Registry, generator generator, renderer renderer) *DiagramService {
	return &DiagramService{
		logger:    logger,
		registry:  registry,
		generator: generator,
		renderer:  renderer,
		extract:   extract.Parse,
	}
}

// SetLocker enables the per-session guard.
func (s *DiagramService) SetLocker(locker lock.Locker) {
	s.locker = locker
}

// NewSession returns an Idle session on the first diagram type with its
// default description.
func (s *DiagramService) NewSession(id string) *models.Session {
	first := s.registry.Types()[0]
	description, _ := s.registry.DefaultDescription(first)
	return &models.Session{
		ID:          id,
		Type:        first,
		Description: description,
		Theme:       models.ThemeDefault,
		State:       models.StateIdle,
	}
}

// SelectType switches the session to diagramType and overwrites the
// description with that type's default. Unsaved edits are lost. It is refused
// while a generation holds the session, including one started by another
// request.
func (s *DiagramService) SelectType(ctx context.Context, sess *models.Session, diagramType models.DiagramType) error {
	if sess.State == models.StateGenerating {
		return apperrors.NewGenerationInProgress()
	}

	release, err := s.acquire(ctx, sess.ID)
	if err != nil {
		return err
	}
	defer release()

	description, err := s.registry.DefaultDescription(diagramType)
	if err != nil {
		return err
	}

	sess.Type = diagramType
	sess.Description = description
	resetResult(sess)
	return nil
}

// Trigger runs the pipeline for the session's current inputs, blocking until
// the generation endpoint answers. On failure the session ends in StateFailed
// with its inputs untouched and the error is returned as well.
func (s *DiagramService) Trigger(ctx context.Context, sess *models.Session) error {
	if sess.State == models.StateGenerating {
		return apperrors.NewGenerationInProgress()
	}

	release, err := s.acquire(ctx, sess.ID)
	if err != nil {
		return err
	}
	defer release()

	resetResult(sess)
	sess.State = models.StateGenerating

	resp, err := s.run(ctx, sess.Type, sess.Description, sess.Theme)
	if err != nil {
		sess.State = models.StateFailed
		sess.Err = err
		return err
	}

	sess.State = models.StateRendered
	sess.Source = resp.Source
	sess.Fenced = resp.Fenced
	sess.HTML = resp.HTML
	return nil
}

// Generate is the stateless form of Trigger used by the JSON API.
func (s *DiagramService) Generate(ctx context.Context, sessionID string, req *models.DiagramRequest) (*models.DiagramResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, apperrors.NewInvalidRequest(err.Error())
	}
	theme, _ := models.ParseTheme(string(req.Theme))

	release, err := s.acquire(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	defer release()

	return s.run(ctx, req.DiagramType, req.Description, theme)
}

func (s *DiagramService) run(
	ctx context.Context,
	diagramType models.DiagramType,
	description string,
	theme models.Theme,
) (resp *models.DiagramResponse, err error) {
	logger := s.logger.With(
		zap.String("run_id", uuid.NewString()),
		zap.String("diagram_type", string(diagramType)),
		zap.String("theme", string(theme)),
	)
	start := time.Now()
	defer func() {
		state := models.StateRendered
		if err != nil {
			state = models.StateFailed
			logger.Error("diagram generation failed", zap.Error(err), zap.Duration("duration", time.Since(start)))
		} else {
			logger.Info("diagram rendered", zap.Int("source_bytes", len(resp.Source)), zap.Duration("duration", time.Since(start)))
		}
		metrics.PipelineTotal(string(diagramType), string(state))
	}()

	tmpl, err := s.registry.Lookup(diagramType)
	if err != nil {
		return nil, err
	}
	filled, err := tmpl.Format(description)
	if err != nil {
		return nil, err
	}

	logger.Debug("calling generation endpoint", zap.Int("prompt_bytes", len(filled)))
	text, err := s.generator.Generate(ctx, filled)
	if err != nil {
		return nil, fmt.Errorf("generate %s: %w", diagramType, err)
	}

	result := s.extract(text)
	if !result.Fenced {
		metrics.ExtractionFallbackTotal(string(diagramType))
		logger.Warn("reply has no code fence, passing it to the renderer whole")
	}

	block, err := s.renderer.Block(result.Source, theme)
	if err != nil {
		return nil, err
	}

	return &models.DiagramResponse{
		DiagramType: diagramType,
		Theme:       theme,
		Source:      result.Source,
		Fenced:      result.Fenced,
		HTML:        string(block),
	}, nil
}

// acquire takes the session guard. Callers without a session (CLI) or a
// service without a locker skip it.
func (s *DiagramService) acquire(ctx context.Context, sessionID string) (func(), error) {
	noop := func() {}
	if s.locker == nil || sessionID == "" {
		return noop, nil
	}

	token, ok, err := s.locker.Acquire(ctx, sessionID)
	if err != nil {
		return noop, fmt.Errorf("acquire session lock: %w", err)
	}
	if !ok {
		return noop, apperrors.NewGenerationInProgress()
	}

	return func() {
		if err := s.locker.Release(context.WithoutCancel(ctx), sessionID, token); err != nil {
			s.logger.Warn("failed to release session lock", zap.String("session_id", sessionID), zap.Error(err))
		}
	}, nil
}

func resetResult(sess *models.Session) {
	sess.State = models.StateIdle
	sess.Source = ""
	sess.Fenced = false
	sess.HTML = ""
	sess.Err = nil
}
