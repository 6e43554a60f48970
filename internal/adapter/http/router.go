package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/cafehenola/ledger/internal/adapter/http/handler"
	"github.com/cafehenola/ledger/internal/adapter/http/middleware"
	"github.com/cafehenola/ledger/internal/infrastructure/auth"
	"github.com/cafehenola/ledger/internal/infrastructure/metrics"
	"github.com/cafehenola/ledger/internal/usecase"
)

// RouterConfig holds dependencies for the router.
type RouterConfig struct {
	ObligationHandler  *handler.ObligationHandler
	LedgerHandler      *handler.LedgerHandler
	LiquidationHandler *handler.LiquidationHandler
	HealthHandler      *handler.HealthHandler
	IdempotencyStore   usecase.IdempotencyStore
	RateLimiter        *middleware.RateLimiter
	Logging            *middleware.LoggingMiddleware
	Metrics            *middleware.MetricsMiddleware

	// JWTManager gates the API when AuthEnabled is set. With auth disabled
	// every caller is trusted, which matches how the back office runs the
	// service inside its own network.
	JWTManager       *auth.JWTManager
	AuthEnabled      bool
	MetricsCollector *metrics.Metrics
}

// NewRouter creates a new HTTP router.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Recovery)
	if cfg.Logging != nil {
		r.Use(cfg.Logging.Wrap)
	}
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Wrap)
	}
	if cfg.RateLimiter != nil {
		r.Use(cfg.RateLimiter.Limit)
	}

	// Health and metrics endpoints
	r.Get("/health", cfg.HealthHandler.Liveness)
	r.Get("/ready", cfg.HealthHandler.Readiness)
	r.Handle("/metrics", promhttp.Handler())

	requireWrite := passthrough
	requireVoid := passthrough
	if cfg.AuthEnabled {
		requireWrite = middleware.RequireWrite
		requireVoid = middleware.RequireVoid
	}

	// API v1
	r.Route("/api/v1", func(r chi.Router) {
		if cfg.AuthEnabled {
			r.Use(middleware.AuthMiddleware(cfg.JWTManager, cfg.MetricsCollector))
		}

		// Idempotency middleware for mutating requests
		if cfg.IdempotencyStore != nil {
			idempotencyMiddleware := middleware.NewIdempotencyMiddleware(cfg.IdempotencyStore)
			r.Use(idempotencyMiddleware.Wrap)
		}

		// Obligations
		r.Route("/obligations", func(r chi.Router) {
			r.With(requireWrite).Post("/", cfg.ObligationHandler.Create)
			r.Get("/", cfg.ObligationHandler.List)
			r.Get("/{id}", cfg.ObligationHandler.Get)
			r.With(requireVoid).Put("/{id}/status", cfg.ObligationHandler.UpdateStatus)
			r.Get("/{id}/balance", cfg.LedgerHandler.GetBalance)
			r.Get("/{id}/movements", cfg.LedgerHandler.ListMovements)
			r.With(requireWrite).Post("/{id}/movements", cfg.LedgerHandler.RecordMovement)
			r.With(requireWrite).Post("/{id}/movements/import", cfg.LedgerHandler.ImportMovements)
			r.Get("/{id}/liquidations", cfg.LiquidationHandler.ListByObligation)
			r.With(requireWrite).Post("/{id}/liquidations", cfg.LiquidationHandler.Create)
		})

		// Movements
		r.Route("/movements", func(r chi.Router) {
			r.Get("/{id}", cfg.LedgerHandler.GetMovement)
			r.With(requireVoid).Post("/{id}/void", cfg.LedgerHandler.VoidMovement)
		})

		// Liquidations
		r.Route("/liquidations", func(r chi.Router) {
			r.Get("/{id}", cfg.LiquidationHandler.Get)
			r.With(requireVoid).Post("/{id}/void", cfg.LiquidationHandler.Void)
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
