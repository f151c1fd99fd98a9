// Package generation calls the text-generation endpoint.
package generation

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/kdduha/aidiagram/internal/apperrors"
	"github.com/kdduha/aidiagram/internal/config"
	"github.com/kdduha/aidiagram/internal/metrics"
	"golang.org/x/time/rate"
)

// Generator turns a filled prompt into raw generated text. Implementations make
// exactly one outbound call per invocation and never retry.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// New builds the generator selected by cfg.Provider.
func New(cfg config.GenerationConfig) (Generator, error) {
	var g Generator
	switch cfg.Provider {
	case config.ProviderOllama, "":
		g = NewOllamaClient(cfg)
	case config.ProviderOpenAI:
		g = NewOpenAIClient(cfg)
	default:
		return nil, fmt.Errorf("unsupported generation provider %q", cfg.Provider)
	}

	provider := cfg.Provider
	if provider == "" {
		provider = config.ProviderOllama
	}
	return RateLimited(Instrumented(g, provider), cfg.RateLimit), nil
}

func validateInput(prompt, model string) error {
	if strings.TrimSpace(prompt) == "" {
		return apperrors.NewInvalidRequest("prompt is empty")
	}
	if strings.TrimSpace(model) == "" {
		return apperrors.NewInvalidRequest("model is empty")
	}
	return nil
}

type rateLimited struct {
	next    Generator
	limiter *rate.Limiter
}

// RateLimited spaces calls to at most perSecond per second. A limit <= 0
// returns next unchanged.
func RateLimited(next Generator, perSecond float64) Generator {
	if perSecond <= 0 {
		return next
	}
	return &rateLimited{
		next:    next,
		limiter: rate.NewLimiter(rate.Limit(perSecond), 1),
	}
}

func (r *rateLimited) Generate(ctx context.Context, prompt string) (string, error) {
	if err := r.limiter.Wait(ctx); err != nil {
		return "", apperrors.NewServiceUnavailable(fmt.Errorf("rate limiter: %w", err))
	}
	return r.next.Generate(ctx, prompt)
}

type instrumented struct {
	next     Generator
	provider string
}

// Instrumented records call counts and latency per outcome.
func Instrumented(next Generator, provider string) Generator {
	return &instrumented{next: next, provider: provider}
}

func (i *instrumented) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()
	text, err := i.next.Generate(ctx, prompt)

	outcome := "ok"
	if err != nil {
		outcome = strings.ToLower(string(apperrors.CodeOf(err)))
		if outcome == "" {
			outcome = "error"
		}
	}
	metrics.GenerationTotal(i.provider, outcome)
	metrics.GenerationDuration(i.provider, outcome, time.Since(start))
	return text, err
}
