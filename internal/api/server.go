// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/newthinker/chartsight/internal/metrics"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

// Server exposes the analysis pipeline over HTTP. It is the
// presentation layer: it only reads snapshots and emits user intents.
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	MetricsPath string
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, app Application, reg *metrics.Registry, logger *zap.Logger) *Server {
	mux := http.NewServeMux()

	handler := NewHandler(app, logger)
	mux.HandleFunc("POST /api/upload", handler.Upload)
	mux.HandleFunc("POST /api/analyze", handler.Analyze)
	mux.HandleFunc("GET /api/state", handler.State)
	mux.HandleFunc("GET /api/history", handler.History)
	mux.HandleFunc("GET /api/health", handler.Health)

	var root http.Handler = mux
	if reg != nil {
		path := cfg.MetricsPath
		if path == "" {
			path = "/metrics"
		}
		mux.Handle("GET "+path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		root = metrics.HTTPMiddleware(reg)(mux)
	}

	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
			Handler:      root,
			ReadTimeout:  15 * time.Second,
			WriteTimeout: 2 * time.Minute, // analyze waits on the provider
			IdleTimeout:  60 * time.Second,
		},
		logger: logger,
		mux:    mux,
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}
