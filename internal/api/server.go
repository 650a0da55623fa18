// Package api provides the HTTP API server and handlers for the Cortex application.
package api

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/cortexapp/cortex-server/internal/auth"
	"github.com/cortexapp/cortex-server/internal/config"
	"github.com/cortexapp/cortex-server/internal/http/response"
	"github.com/cortexapp/cortex-server/internal/ratelimit"
	"github.com/cortexapp/cortex-server/internal/service"
	"github.com/cortexapp/cortex-server/internal/validation"
)

// Server holds dependencies for HTTP handlers.
type Server struct {
	cfg            *config.Config
	authService    *service.AuthService
	contentService *service.ContentService
	sharingService *service.SharingService
	tokens         *auth.TokenService
	validator      *validation.Validator
	authLimiter    *ratelimit.KeyedRateLimiter
	router         *chi.Mux
	logger         *slog.Logger
}

// NewServer creates a new HTTP server with all routes configured.
func NewServer(cfg *config.Config, authService *service.AuthService, contentService *service.ContentService, sharingService *service.SharingService, tokens *auth.TokenService, logger *slog.Logger) *Server {
	s := &Server{
		cfg:            cfg,
		authService:    authService,
		contentService: contentService,
		sharingService: sharingService,
		tokens:         tokens,
		validator:      validation.New(),
		// 10 auth attempts per minute per client, small burst.
		authLimiter: ratelimit.New(10.0/60.0, 5),
		router:      chi.NewRouter(),
		logger:      logger,
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// Close releases background resources held by the server.
func (s *Server) Close() {
	s.authLimiter.Stop()
}

// setupMiddleware configures the middleware stack.
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Compress(5))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   s.cfg.Server.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))
	s.router.Use(middleware.Timeout(30 * time.Second))
}

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	// Health check.
	s.router.Get("/health", s.handleHealthCheck)

	// API v1.
	s.router.Route("/api/v1", func(r chi.Router) {
		// Auth endpoints (public, rate limited by client IP).
		r.Route("/auth", func(r chi.Router) {
			r.Group(func(r chi.Router) {
				r.Use(s.rateLimitByIP(s.authLimiter))
				r.Post("/signup", s.handleSignup)
				r.Post("/login", s.handleLogin)
			})
			r.Post("/logout", s.handleLogout)
			r.With(s.requireAuth).Get("/check", s.handleAuthCheck)
		})

		// Content (requires auth).
		r.Route("/content", func(r chi.Router) {
			r.Use(s.requireAuth)
			r.Post("/", s.handleCreateContent)
			r.Get("/", s.handleListContent)
			r.Patch("/{id}", s.handleUpdateContent)
			r.Delete("/{id}", s.handleDeleteContent)
		})

		// Brain sharing.
		r.Route("/brain", func(r chi.Router) {
			r.With(s.requireAuth).Post("/share", s.handleSetSharing)
			r.With(s.requireAuth).Get("/links", s.handleListShareLinks)
			// Public read-only view behind the token.
			r.Get("/{token}", s.handleGetSharedBrain)
		})
	})
}

// handleHealthCheck returns server health status.
func (s *Server) handleHealthCheck(w http.ResponseWriter, _ *http.Request) {
	response.Success(w, "", map[string]string{
		"status": "healthy",
	}, s.logger)
}
