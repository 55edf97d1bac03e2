package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"compass/internal/config"
	"compass/internal/infrastructure"
	"compass/internal/middleware"
)

// NewRouter assembles the full HTTP surface: the versioned API, the
// health endpoint, and Prometheus metrics.
func NewRouter(h *Handler, cfg config.ServerConfig, metrics *infrastructure.Metrics, logger *slog.Logger) chi.Router {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.CORS(cfg.AllowedOrigins))
	if metrics != nil {
		r.Use(middleware.Metrics(metrics))
	}

	r.Get("/healthz", h.Healthz)
	if metrics != nil {
		r.Method(http.MethodGet, "/metrics",
			promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{}))
	}
	r.Mount("/api/v1", h.Routes())

	return r
}
