// Package api provides the HTTP API for Summitline.
package api

import (
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/summitline/summitline/internal/api/handler"
	"github.com/summitline/summitline/internal/api/middleware"
	"github.com/summitline/summitline/internal/auth"
	"github.com/summitline/summitline/internal/prefs"
	"github.com/summitline/summitline/internal/ranking"
)

// RouterConfig holds configuration for the router.
type RouterConfig struct {
	Version        string
	BuildTime      string
	Logger         zerolog.Logger
	ServiceName    string
	Metrics        *middleware.Metrics
	JWTService     *auth.JWTService
	RankingService *ranking.Service
	PrefsService   *prefs.Service
}

// NewRouter creates a new chi router with all API routes configured.
func NewRouter(cfg RouterConfig) *chi.Mux {
	r := chi.NewRouter()

	// Set default service name if not provided
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "summitline-api"
	}

	// Global middleware - order matters
	r.Use(middleware.RequestID)            // Generate/propagate request ID first
	r.Use(middleware.Tracing(serviceName)) // Distributed tracing
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware()) // HTTP metrics
	}
	r.Use(middleware.Logger(cfg.Logger))   // Structured logging
	r.Use(middleware.Recovery(cfg.Logger)) // Panic recovery
	r.Use(chimiddleware.RealIP)            // Real IP extraction
	r.Use(middleware.SecurityHeaders)      // Security headers (HSTS, CSP, etc.)
	r.Use(middleware.RequireTLS)           // TLS enforcement (enabled via REQUIRE_TLS=true)
	r.Use(middleware.ContentTypeJSON)      // JSON content type

	// Initialize handlers
	opsHandler := handler.NewOpsHandler(cfg.Version, cfg.BuildTime, cfg.RankingService)
	catalogHandler := handler.NewCatalogHandler(cfg.RankingService)
	rankingsHandler := handler.NewRankingsHandler(cfg.RankingService, cfg.PrefsService)
	preferencesHandler := handler.NewPreferencesHandler(cfg.PrefsService)

	// Create auth middleware
	authMiddleware := middleware.Auth(cfg.JWTService)

	// Create rate limit middleware for different endpoint categories
	expensiveRateLimit := middleware.RateLimitByIP(middleware.ExpensiveRateLimit) // 30 req/min
	standardRateLimit := middleware.RateLimitByIP(middleware.StandardRateLimit)   // 100 req/min

	// API v1 routes
	r.Route("/v1", func(r chi.Router) {
		// Ops endpoints (public)
		r.Route("/ops", func(r chi.Router) {
			r.Get("/health", opsHandler.HealthCheck)
			r.Get("/ready", opsHandler.ReadinessCheck)
			// Status endpoint requires authentication
			r.With(authMiddleware).Get("/status", opsHandler.SystemStatus)
		})

		// Catalog endpoints (public) - standard rate limiting
		r.Group(func(r chi.Router) {
			r.Use(standardRateLimit)
			r.Get("/summits", catalogHandler.ListSummits)
			r.Get("/summits/{summitId}", catalogHandler.GetSummit)
			r.Get("/targets", catalogHandler.ListTargets)
			r.Get("/targets/{targetId}", catalogHandler.GetTarget)
			r.Get("/starts", catalogHandler.ListStarts)
		})

		// Compute endpoints - expensive, strict rate limiting
		r.Route("/rankings", func(r chi.Router) {
			r.Use(expensiveRateLimit)
			r.Post("/targets/{targetId}:compute", rankingsHandler.ComputeTarget)
			r.Post("/starts/{startId}:compute", rankingsHandler.ComputeStart)
		})

		// Preferences endpoints (authenticated) - user-based rate limiting
		r.Route("/me/preferences", func(r chi.Router) {
			r.Use(authMiddleware)
			r.Use(middleware.RateLimitByUser(middleware.StandardRateLimit)) // 100 req/min per user
			r.Get("/", preferencesHandler.GetPreferences)
			r.Put("/", preferencesHandler.PutPreferences)
			r.Delete("/", preferencesHandler.DeletePreferences)
		})
	})

	return r
}
