package handler

import (
	"context"
	"net/http"
	"time"
)

const healthCheckTimeout = 2 * time.Second

type HealthResponse struct {
	Status string            `json:"status" example:"ok"`
	Checks map[string]string `json:"checks,omitempty"`
}

type HealthHandler struct {
	checks map[string]func(ctx context.Context) error
}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{checks: make(map[string]func(ctx context.Context) error)}
}

// Add registers a dependency check, e.g. the redis lock backend.
func (h *HealthHandler) Add(name string, check func(ctx context.Context) error) {
	h.checks[name] = check
}

// Healthz godoc
// @Summary Liveness and dependency check
// @Tags health
// @Produce json
// @Success 200 {object} handler.HealthResponse
// @Failure 503 {object} handler.HealthResponse
// @Router /healthz [get]
func (h *HealthHandler) Healthz(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), healthCheckTimeout)
	defer cancel()

	resp := HealthResponse{Status: "ok"}
	status := http.StatusOK
	for name, check := range h.checks {
		if resp.Checks == nil {
			resp.Checks = make(map[string]string, len(h.checks))
		}
		if err := check(ctx); err != nil {
			resp.Checks[name] = err.Error()
			resp.Status = "unavailable"
			status = http.StatusServiceUnavailable
			continue
		}
		resp.Checks[name] = "ok"
	}
	writeJSON(w, status, resp)
}
