package api

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jonesrussell/goseo/internal/config"
	"github.com/jonesrussell/goseo/internal/logger"
)

// Server wraps the HTTP server around the configured router.
type Server struct {
	server *http.Server
	log    logger.Interface
}

// NewServer creates the HTTP server with all routes registered.
func NewServer(cfg *config.Config, log logger.Interface, deps Deps) *Server {
	router := SetupRouter(log, cfg, deps)

	return &Server{
		server: &http.Server{
			Addr:              cfg.Server.Address,
			Handler:           router,
			ReadTimeout:       cfg.Server.ReadTimeout,
			WriteTimeout:      cfg.Server.WriteTimeout,
			IdleTimeout:       cfg.Server.IdleTimeout,
			ReadHeaderTimeout: readHeaderTimeout,
		},
		log: log,
	}
}

// Start runs the server until it is shut down. A clean shutdown returns nil.
func (s *Server) Start() error {
	s.log.Info("HTTP server listening", "address", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}

	return nil
}

// Shutdown drains in-flight requests and stops the server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
