package api

import (
	"net/http"
	"time"

	respond "github.com/pa816859-hue/shiny-octo-succotash/internal/api/respond"
)

// HealthReporter is satisfied by health.ServiceHealthChecker.
type HealthReporter interface {
	IsHealthy() bool
	Components() map[string]bool
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	reporter HealthReporter
}

// NewHealthHandler creates a new health handler. A nil reporter always reports unhealthy.
func NewHealthHandler(reporter HealthReporter) *HealthHandler {
	return &HealthHandler{reporter: reporter}
}

type HealthResponse struct {
	Status     string          `json:"status"`
	Timestamp  string          `json:"timestamp"`
	Components map[string]bool `json:"components,omitempty"`
}

// CheckHealth handles GET /api/health
// Always returns 200; body reports healthy/unhealthy. 500 indicates handler failure only.
func (h *HealthHandler) CheckHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{Status: "unhealthy", Timestamp: time.Now().Format(time.RFC3339)}
	if h.reporter != nil {
		if h.reporter.IsHealthy() {
			resp.Status = "healthy"
		}
		resp.Components = h.reporter.Components()
	}
	respond.WriteJSON(w, http.StatusOK, resp)
}
