package api

import (
	"context"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
)

// ReadinessChecker reports whether a dependency is reachable
type ReadinessChecker interface {
	Ping(ctx context.Context) error
}

// HealthHandler serves the /api/health endpoints
type HealthHandler struct {
	checker ReadinessChecker
}

// NewHealthHandler creates a health handler. A nil checker makes the
// readiness probe fail.
func NewHealthHandler(checker ReadinessChecker) *HealthHandler {
	return &HealthHandler{checker: checker}
}

func (h *HealthHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Get("/", h.Health)
	r.Get("/ready", h.Ready)
	return r
}

// HealthResponse is the body of the health endpoints
type HealthResponse struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	render.JSON(w, r, HealthResponse{Status: "ok", Message: "Markdown File Manager API is running"})
}

func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if h.checker == nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, HealthResponse{Status: "fail", Message: "metadata store not configured"})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), 3*time.Second)
	defer cancel()

	if err := h.checker.Ping(ctx); err != nil {
		render.Status(r, http.StatusServiceUnavailable)
		render.JSON(w, r, HealthResponse{Status: "fail", Message: "metadata store unavailable: " + err.Error()})
		return
	}
	render.JSON(w, r, HealthResponse{Status: "ok", Message: "metadata store reachable"})
}
