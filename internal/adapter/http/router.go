package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/cashforecast/internal/adapter/http/handler"
	"github.com/iho/cashforecast/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	SheetHandler    *handler.SheetHandler
	ForecastHandler *handler.ForecastHandler
	HealthHandler   *handler.HealthHandler
	Logger          zerolog.Logger
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Metrics)
	r.Use(middleware.Recovery)

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/forecast", cfg.ForecastHandler.Forecast)

		r.Route("/sheets", func(r chi.Router) {
			r.Post("/", cfg.SheetHandler.Create)
			r.Get("/", cfg.SheetHandler.List)
			r.Post("/import", cfg.SheetHandler.Import)
			r.Get("/{id}", cfg.SheetHandler.Get)
			r.Put("/{id}", cfg.SheetHandler.Update)
			r.Delete("/{id}", cfg.SheetHandler.Delete)
			r.Get("/{id}/export", cfg.SheetHandler.Export)
			r.Get("/{id}/share", cfg.SheetHandler.Share)
			r.Post("/{id}/forecast", cfg.ForecastHandler.ForecastSheet)
		})
	})

	return r
}
