package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/tendant/simple-notes/pkg/simplenotes"
)

// RouterConfig wires the HTTP surface
type RouterConfig struct {
	Service        simplenotes.Service
	Authenticator  Authenticator
	Readiness      ReadinessChecker
	Metrics        *Metrics
	Logger         *slog.Logger
	AllowedOrigins []string
	MaxBodyBytes   int64
	RequestTimeout time.Duration
}

// NewRouter builds the chi router serving /api/files, /api/admin,
// /api/health and /metrics.
func NewRouter(cfg RouterConfig) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(LoggingMiddleware(logger))
	r.Use(middleware.Recoverer)
	r.Use(CORSMiddleware(cfg.AllowedOrigins))
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware)
	}
	r.Use(middleware.Timeout(timeout))
	if cfg.MaxBodyBytes > 0 {
		r.Use(RequestSizeLimitMiddleware(cfg.MaxBodyBytes))
	}

	r.Route("/api", func(r chi.Router) {
		r.Mount("/files", NewFilesHandler(cfg.Service, cfg.Metrics, logger).Routes())
		r.Mount("/admin", NewAdminHandler(cfg.Authenticator, logger).Routes())
		r.Mount("/health", NewHealthHandler(cfg.Readiness).Routes())
	})
	if cfg.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	return r
}
