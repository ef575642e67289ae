// Package server exposes the dashboard state over a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/josephgoksu/neurotech/internal/state"
)

// Config holds the listener settings.
type Config struct {
	Port           int
	AllowedOrigins []string
	Version        string
	Logger         *slog.Logger
}

type Server struct {
	store   *state.Store
	logger  *slog.Logger
	origins map[string]struct{}
	version string
	server  *http.Server
}

// New builds a server for store. Nothing listens until Start.
func New(store *state.Store, cfg Config) *Server {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		store:   store,
		logger:  logger,
		origins: make(map[string]struct{}, len(cfg.AllowedOrigins)),
		version: cfg.Version,
	}
	for _, o := range cfg.AllowedOrigins {
		s.origins[o] = struct{}{}
	}
	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

// Handler returns the routed API with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.registerRoutes()
}

// Addr is the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

func (s *Server) Start(wg *sync.WaitGroup, errChan chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		s.logger.Info("api server listening", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("API server error: %w", err)
		}
	}()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
