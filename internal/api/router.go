package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"txguard-lab/internal/api/handlers"
	apimiddleware "txguard-lab/internal/api/middleware"
	"txguard-lab/internal/config"
	"txguard-lab/pkg/logger"
)

// Router holds dependencies for the API router
type Router struct {
	config   config.Config
	handlers *handlers.Handlers
	limiter  apimiddleware.RateLimitChecker
	logger   *logger.Logger
}

// NewRouter creates a new Router instance. limiter may be nil, which disables rate limiting.
func NewRouter(cfg config.Config, h *handlers.Handlers, limiter apimiddleware.RateLimitChecker, log *logger.Logger) *Router {
	return &Router{
		config:   cfg,
		handlers: h,
		limiter:  limiter,
		logger:   log.WithComponent("router"),
	}
}

// Setup sets up the Chi router with all routes and middleware
func (r *Router) Setup() http.Handler {
	router := chi.NewRouter()

	// Core middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(apimiddleware.Logger(r.logger))
	router.Use(middleware.Recoverer)

	// CORS
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   r.config.CORS.AllowedOrigins,
		AllowedMethods:   r.config.CORS.AllowedMethods,
		AllowedHeaders:   r.config.CORS.AllowedHeaders,
		AllowCredentials: r.config.CORS.AllowCredentials,
		MaxAge:           r.config.CORS.MaxAge,
	}))

	// Health checks
	router.Get("/health", r.handlers.Health.Check)
	router.Get("/ready", r.handlers.Health.Ready)

	// Live feed; long-lived, so outside the request timeout
	router.Get("/ws/scans", r.handlers.Streaming.HandleScanFeed)

	router.Route("/api/v1", func(api chi.Router) {
		api.Use(middleware.Timeout(60 * time.Second))
		if r.config.RateLimit.Enabled && r.limiter != nil {
			api.Use(apimiddleware.RateLimiter(r.limiter, r.config.RateLimit, r.logger))
		}

		api.Post("/analyze", r.handlers.Analyze.Analyze)

		api.Route("/patterns", func(patterns chi.Router) {
			patterns.Get("/", r.handlers.Patterns.List)
			patterns.Get("/{type}", r.handlers.Patterns.ListByType)

			// Catalog mutations require the admin token
			patterns.Group(func(admin chi.Router) {
				admin.Use(apimiddleware.AdminAuth(r.config.Auth.AdminToken, r.logger))
				admin.Post("/", r.handlers.Patterns.Create)
				admin.Delete("/{id}", r.handlers.Patterns.Delete)
			})
		})

		api.Route("/scans", func(scans chi.Router) {
			scans.Get("/", r.handlers.Scans.List)
			scans.Get("/{id}", r.handlers.Scans.Get)
			scans.Delete("/{id}", r.handlers.Scans.Delete)
		})

		api.Get("/stats", r.handlers.Stats.Get)
		api.Get("/streaming/stats", r.handlers.Streaming.GetStats)
	})

	return router
}
