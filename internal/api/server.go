// Package api exposes the simulation service over HTTP: a streaming
// simulate endpoint, audience listings, and run history.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/ignite/audience-simulator/internal/config"
	"github.com/ignite/audience-simulator/internal/pkg/logger"
	"github.com/ignite/audience-simulator/internal/service/runs"
)

// Server represents the API server.
type Server struct {
	config   config.ServerConfig
	handlers *Handlers
	server   *http.Server
}

// NewServer creates an API server over the runs service.
func NewServer(cfg config.ServerConfig, svc *runs.Service) *Server {
	handlers := NewHandlers(svc)
	router := SetupRoutes(handlers)

	return &Server{
		config:   cfg,
		handlers: handlers,
		server: &http.Server{
			Addr:    cfg.Addr(),
			Handler: router,
			// No WriteTimeout: /api/simulate streams for the duration of
			// a run.
			ReadHeaderTimeout: 10 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// Start begins serving. It blocks until the listener fails or Shutdown is
// called.
func (s *Server) Start() error {
	logger.Info("http server listening", "addr", s.server.Addr)
	err := s.server.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown gracefully stops the server, letting in-flight runs finish.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
