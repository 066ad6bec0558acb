package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"courieraudit/internal/config"
	"courieraudit/internal/exporter"
	"courieraudit/internal/files"
	custommw "courieraudit/internal/middleware"
	"courieraudit/internal/pipeline"
)

// NewRouter assembles the full service router: middleware chain, run
// endpoints, health probe and Prometheus metrics.
func NewRouter(cfg *config.Config, logger *slog.Logger) (http.Handler, error) {
	if logger == nil {
		logger = slog.Default()
	}

	p, err := pipeline.New(cfg.Reconciliation, logger)
	if err != nil {
		return nil, err
	}

	runs := NewRunHandler(
		p,
		files.NewReader(logger),
		exporter.NewExcelWriter(logger),
		NewRunStore(),
		logger,
		cfg.Server.MaxUploadBytes,
	)
	health := NewHealthHandler(logger)

	r := chi.NewRouter()

	r.Use(custommw.RequestID)
	r.Use(custommw.StructuredLogger(logger))
	r.Use(custommw.Recovery(logger))
	if cfg.Server.RateLimitRPS > 0 {
		r.Use(custommw.RateLimit(cfg.Server.RateLimitRPS, cfg.Server.RateLimitBurst))
	}

	r.Get("/healthz", health.HealthCheck)
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())
	r.Mount("/api/runs", runs.Routes())

	return r, nil
}
