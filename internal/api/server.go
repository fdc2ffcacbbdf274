// Package api provides the HTTP API server and handlers for the
// Paperlog reading tracker.
package api

import (
	"log/slog"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/paperlog/paperlog-server/internal/ratelimit"
	"github.com/paperlog/paperlog-server/internal/service"
	"github.com/paperlog/paperlog-server/internal/store"
)

// Services groups the business logic services used by the API server.
type Services struct {
	Auth    *service.AuthService
	Session *service.SessionService
	Catalog *service.CatalogService
	Reading *service.ReadingService
	Stats   *service.StatsService
}

// Server holds dependencies for HTTP handlers.
type Server struct {
	router       *chi.Mux
	api          huma.API
	services     Services
	store        *store.Store
	loginLimiter *ratelimit.KeyedRateLimiter
	logger       *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(services Services, st *store.Store, logger *slog.Logger) *Server {
	s := &Server{
		router:   chi.NewRouter(),
		services: services,
		store:    st,
		// Login attempts: 10 per minute per client IP with a small burst.
		loginLimiter: ratelimit.New(10.0/60.0, 5),
		logger:       logger,
	}

	s.setupMiddleware()

	config := huma.DefaultConfig("Paperlog API", "1.0.0")
	config.Info.Description = "Personal reading tracker"
	config.Transformers = []huma.Transformer{EnvelopeTransformer}

	s.api = humachi.New(s.router, config)
	RegisterErrorHandler()

	s.registerAuthRoutes()
	s.registerReadingRoutes()
	s.registerLookupRoutes()
	s.registerStatsRoutes()
	s.registerUserRoutes()
	s.registerHealthRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases server-held resources.
func (s *Server) Close() {
	s.loginLimiter.Stop()
}

// setupMiddleware configures the chi middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: false,
		MaxAge:           300,
	}))
}
