// Package server exposes the request pipeline over HTTP for serve
// mode. It is a thin facade: every response body is the same envelope
// the library returns.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/sportslens/sportslens/internal/config"
	"github.com/sportslens/sportslens/internal/core/client"
)

// Server is the serve-mode HTTP listener.
type Server struct {
	router *chi.Mux
	server *http.Server
	client *client.Client
	logger *zap.Logger
	addr   string
}

// New builds a server around an existing pipeline client.
func New(cfg config.ServerConfig, apiClient *client.Client, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s := &Server{
		router: r,
		client: apiClient,
		logger: logger,
		addr:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
	}
	s.server = &http.Server{
		Addr:         s.addr,
		Handler:      r,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	s.registerRoutes()
	return s
}

// Start runs the listener until it fails or Shutdown is called.
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the listener.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.server.Shutdown(ctx)
}

// Handler exposes the router for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) registerRoutes() {
	s.router.Get("/healthz", s.handleHealth)
	s.router.Get("/v1/fetch", s.handleFetch)
	s.router.Get("/v1/cache/stats", s.handleCacheStats)
}
