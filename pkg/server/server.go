package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/bascanada/auth0logs/pkg/config"
)

// Server exposes the logs of the configured contexts over HTTP.
type Server struct {
	mu         sync.RWMutex
	config     *config.ContextConfig
	factory    config.LogsFactory
	configPath string

	openapiSpec []byte

	router     *http.ServeMux
	httpServer *http.Server
	logger     *slog.Logger
	port       string
	host       string
}

// NewServer creates a new API server instance.
func NewServer(host, port string, cfg *config.ContextConfig, configPath string, logger *slog.Logger, openapiSpec []byte) (*Server, error) {
	if cfg == nil {
		return nil, errors.New("config is required")
	}

	s := &Server{
		config:      cfg,
		factory:     cfg.Factory(),
		configPath:  configPath,
		openapiSpec: openapiSpec,
		router:      http.NewServeMux(),
		logger:      logger,
		port:        port,
		host:        host,
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	s.router.HandleFunc("GET /health", s.healthHandler)
	s.router.HandleFunc("GET /openapi.yaml", s.openapiHandler)
	s.router.HandleFunc("GET /contexts", s.contextsHandler)
	s.router.HandleFunc("GET /contexts/{id}", s.contextHandler)
	s.router.HandleFunc("GET /contexts/{id}/logs", s.searchLogsHandler)
	s.router.HandleFunc("GET /contexts/{id}/logs/{logId}", s.getLogHandler)
}

// Handler returns the router wrapped in the middlewares.
func (s *Server) Handler() http.Handler {
	return s.chainMiddleware(s.router, s.recoveryMiddleware, s.corsMiddleware, s.requestIDMiddleware, s.loggingMiddleware)
}

func (s *Server) current() (*config.ContextConfig, config.LogsFactory) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.config, s.factory
}

// ReloadConfig reads the config file again and swaps it in when valid.
func (s *Server) ReloadConfig(_ context.Context) error {
	cfg, err := config.LoadContextConfig(s.configPath)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.config = cfg
	s.factory = cfg.Factory()
	s.mu.Unlock()

	s.logger.Info("configuration reloaded", "contexts", len(cfg.Contexts), "tenants", len(cfg.Tenants))
	return nil
}

// Start runs the HTTP server and blocks until a signal is received.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%s", s.host, s.port)

	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to create listener: %w", err)
	}

	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if s.configPath != "" {
		watcher, err := NewConfigWatcher(s, s.configPath, s.logger)
		if err != nil {
			s.logger.Warn("config hot reload disabled", "err", err)
		} else if err := watcher.Start(ctx); err != nil {
			s.logger.Warn("config hot reload disabled", "err", err)
			watcher.Close()
		} else {
			defer watcher.Close()
		}
	}

	serverErrors := make(chan error, 1)

	go func() {
		s.logger.Info("starting server", "addr", listener.Addr().String())
		serverErrors <- s.httpServer.Serve(listener)
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}

	case sig := <-shutdown:
		s.logger.Info("shutdown signal received", "signal", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(ctx); err != nil {
			s.logger.Error("graceful shutdown failed", "err", err)
			return s.httpServer.Close()
		}
		s.logger.Info("server shutdown gracefully")
	}

	return nil
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	s.logger.Info("stopping server")
	return s.httpServer.Shutdown(ctx)
}
