package cli

import (
	"fmt"

	"github.com/kdduha/aidiagram/internal/config"
	"github.com/kdduha/aidiagram/internal/generation"
	"github.com/kdduha/aidiagram/internal/prompt"
	"github.com/kdduha/aidiagram/internal/render"
	"github.com/kdduha/aidiagram/internal/service"
	"go.uber.org/zap"
)

// app is the pipeline shared by serve and generate.
type app struct {
	registry *prompt.Registry
	renderer *render.Renderer
	service  *service.DiagramService
}

func newApp(cfg *config.Config, log *zap.Logger) (*app, error) {
	registry, err := prompt.NewRegistry()
	if err != nil {
		return nil, fmt.Errorf("load prompt templates: %w", err)
	}

	generator, err := generation.New(cfg.Generation)
	if err != nil {
		return nil, err
	}

	renderer, err := render.New(cfg.Render.MermaidURL)
	if err != nil {
		return nil, err
	}

	return &app{
		registry: registry,
		renderer: renderer,
		service:  service.NewDiagramService(log, registry, generator, renderer),
	}, nil
}
