// Package server provides HTTP server management and lifecycle handling for the interaction API.
// It wires the middleware chain and routes and handles graceful shutdown.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/giygas/medisync-api/config"
	"github.com/giygas/medisync-api/interfaces"
	"github.com/giygas/medisync-api/logging"
	"github.com/giygas/medisync-api/metrics"
)

// Server represents the HTTP server
type Server struct {
	server      *http.Server
	router      chi.Router
	config      *config.Config
	handler     interfaces.HTTPHandler
	mcpHandler  http.Handler
	rateLimiter *RateLimiter
}

// NewServer creates a new server instance. mcpHandler may be nil, in which case /mcp is not mounted.
func NewServer(cfg *config.Config, handler interfaces.HTTPHandler, mcpHandler http.Handler) *Server {
	router := chi.NewRouter()

	server := &Server{
		server: &http.Server{
			Handler:      router,
			Addr:         cfg.Address + ":" + cfg.Port,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 15 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		router:      router,
		config:      cfg,
		handler:     handler,
		mcpHandler:  mcpHandler,
		rateLimiter: NewRateLimiter(cfg.RateLimitRate, cfg.RateLimitCapacity),
	}

	server.setupMiddleware()
	server.setupRoutes()

	return server
}

// setupMiddleware configures all middleware
func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(RealIPMiddleware)
	s.router.Use(logging.LoggingMiddleware(logging.Logger()))
	s.router.Use(metrics.Metrics)
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.RedirectSlashes)
	s.router.Use(RequestSizeMiddleware(s.config))
	s.router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type", APIKeyHeader, "Mcp-Session-Id"},
		ExposedHeaders: []string{"X-RateLimit-Limit", "X-RateLimit-Rate", "X-RateLimit-Remaining", "Retry-After"},
		MaxAge:         300,
	}))
	s.router.Use(s.rateLimiter.Middleware)
}

// setupRoutes configures all routes
func (s *Server) setupRoutes() {
	s.router.Get("/health", s.handler.HealthCheck)
	s.router.Handle("/metrics", promhttp.Handler())

	s.router.Group(func(r chi.Router) {
		r.Use(APIKeyMiddleware(s.config.APIKey))

		r.Post("/check-interactions", s.handler.CheckInteractions)
		r.Get("/check-pair", s.handler.CheckPair)
		r.Get("/drug/{name}", s.handler.DrugInfo)

		if s.mcpHandler != nil {
			r.Handle("/mcp", streaming(s.mcpHandler))
		}
	})
}

// streaming lifts the server write timeout for long-lived event streams.
func streaming(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodGet {
			if err := http.NewResponseController(w).SetWriteDeadline(time.Time{}); err != nil {
				logging.Debug("Could not clear write deadline", "error", err)
			}
		}
		next.ServeHTTP(w, r)
	})
}

// Router returns the configured router
func (s *Server) Router() http.Handler {
	return s.router
}

// RateLimiter returns the server's rate limiter so its cleanup can be scheduled
func (s *Server) RateLimiter() *RateLimiter {
	return s.rateLimiter
}

// Start starts the server
func (s *Server) Start() error {
	logging.Info(fmt.Sprintf("Starting server at: %s:%s", s.config.Address, s.config.Port))
	return s.server.ListenAndServe()
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	logging.Info("Shutting down server...")

	if err := s.server.Shutdown(ctx); err != nil {
		logging.Error("Server forced to shutdown", "error", err)
		// If graceful shutdown fails, force close
		if err := s.server.Close(); err != nil {
			logging.Error("Server close error", "error", err)
			return err
		}
	}

	logging.Info("Server shutdown complete")
	return nil
}
