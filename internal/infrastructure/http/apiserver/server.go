// Package apiserver provides the JSON API HTTP server
package apiserver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/mealforge/v1/internal/infrastructure/config"
	"github.com/mealforge/v1/internal/infrastructure/http/handlers"
	"github.com/mealforge/v1/internal/infrastructure/http/middleware"
	"github.com/mealforge/v1/internal/infrastructure/monitoring"
	"github.com/mealforge/v1/internal/ports/inbound"
	"github.com/mealforge/v1/internal/ports/outbound"
	"github.com/mealforge/v1/pkg/healthcheck"
)

// APIServer serves the meal-plan JSON API
type APIServer struct {
	config         *config.Config
	logger         *zap.Logger
	server         *http.Server
	router         *chi.Mux
	plannerService inbound.PlannerService
	loader         outbound.CorpusLoader
	cache          outbound.CacheRepository
	health         *healthcheck.HealthCheck
	metrics        *monitoring.MetricsCollector
}

// NewAPIServer creates a new API server instance
func NewAPIServer(
	cfg *config.Config,
	log *zap.Logger,
	plannerService inbound.PlannerService,
	loader outbound.CorpusLoader,
	cache outbound.CacheRepository,
	health *healthcheck.HealthCheck,
	metrics *monitoring.MetricsCollector,
) *APIServer {
	server := &APIServer{
		config:         cfg,
		logger:         log,
		plannerService: plannerService,
		loader:         loader,
		cache:          cache,
		health:         health,
		metrics:        metrics,
	}

	server.router = server.setupRoutes()
	server.server = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:      server.router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	return server
}

// setupRoutes configures the JSON API routes
func (s *APIServer) setupRoutes() *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.Logger(s.logger))
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.Security())
	if s.config.Server.EnableCORS {
		r.Use(middleware.CORS())
	}
	if s.metrics != nil {
		r.Use(middleware.Metrics(s.metrics))
	}
	if s.config.RateLimit.Enable {
		rps := float64(s.config.RateLimit.RequestsPerMin) / 60.0
		r.Use(middleware.RateLimit(rps, s.config.RateLimit.BurstSize))
	}

	r.Use(chimiddleware.Timeout(s.config.Server.RequestTimeout))
	r.Use(chimiddleware.Compress(5))

	// Health and metrics sit outside the JSON-only guard
	r.Get(s.config.Monitoring.HealthCheckPath, s.health.Handler())
	if s.config.Monitoring.EnableMetrics && s.metrics != nil {
		r.Method(http.MethodGet, s.config.Monitoring.MetricsPath, s.metrics.Handler())
	}

	r.Group(func(r chi.Router) {
		r.Use(middleware.JSONOnly())

		h := handlers.NewPlanAPIHandlers(s.plannerService, s.loader, s.cache, s.logger)
		r.Post("/generate-plan", h.GeneratePlan)
		r.Post("/replace-meal", h.ReplaceMeal)
		r.Get("/foods/search", h.SearchFoods)
		r.Get("/status", h.Status)
		r.Post("/reload-dataset", h.ReloadDataset)
	})

	return r
}

// Router exposes the configured router, used by tests.
func (s *APIServer) Router() *chi.Mux {
	return s.router
}

// Start begins serving; blocks until the listener fails or closes.
func (s *APIServer) Start() error {
	s.logger.Info("starting API server",
		zap.String("addr", s.server.Addr),
		zap.String("environment", s.config.App.Environment),
	)
	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("api server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the server
func (s *APIServer) Shutdown(ctx context.Context) error {
	shutdownCtx, cancel := context.WithTimeout(ctx, s.config.Server.ShutdownTimeout)
	defer cancel()

	s.logger.Info("shutting down API server")
	return s.server.Shutdown(shutdownCtx)
}

// Addr returns the configured listen address
func (s *APIServer) Addr() string {
	return s.server.Addr
}
