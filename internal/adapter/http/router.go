package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/iho/wealthledger/internal/adapter/http/handler"
	"github.com/iho/wealthledger/internal/adapter/http/middleware"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	AssetHandler       *handler.AssetHandler
	YieldHandler       *handler.YieldHandler
	InterchangeHandler *handler.InterchangeHandler
	StateHandler       *handler.StateHandler
	HealthHandler      *handler.HealthHandler
	Logger             zerolog.Logger
	RateLimiter        *middleware.RateLimiter
	// MetricsHandler serves /metrics. Defaults to the Prometheus default gatherer.
	MetricsHandler http.Handler
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.NewLoggingMiddleware(cfg.Logger).Wrap)
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.Metrics)

	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)

	metricsHandler := cfg.MetricsHandler
	if metricsHandler == nil {
		metricsHandler = promhttp.Handler()
	}
	r.Method(http.MethodGet, "/metrics", metricsHandler)

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		// Assets
		r.Route("/assets", func(r chi.Router) {
			r.Post("/", cfg.AssetHandler.Create)
			r.Get("/", cfg.AssetHandler.List)
			r.Get("/{id}", cfg.AssetHandler.Get)
			r.Patch("/{id}", cfg.AssetHandler.Update)
			r.Delete("/{id}", cfg.AssetHandler.Delete)
			r.Get("/{id}/yields", cfg.AssetHandler.Yields)
			r.Post("/{id}/yield", cfg.YieldHandler.Calculate)
			r.Get("/{id}/projection", cfg.YieldHandler.Projection)
		})

		// Yields
		r.Route("/yields", func(r chi.Router) {
			r.Get("/", cfg.YieldHandler.List)
			r.Post("/calculate", cfg.YieldHandler.CalculateAll)
		})

		r.Get("/summary", cfg.YieldHandler.Summary)

		// Bulk files
		r.Get("/export", cfg.InterchangeHandler.Export)
		r.Post("/import", cfg.InterchangeHandler.Import)

		// Whole-ledger state
		r.Route("/state", func(r chi.Router) {
			r.Delete("/", cfg.StateHandler.Reset)
			r.Post("/reload", cfg.StateHandler.Reload)
			r.Post("/save", cfg.StateHandler.Save)
		})
	})

	return r
}
