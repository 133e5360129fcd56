package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ReadyFunc reports whether the bot is handling messages
type ReadyFunc func() bool

// APIService serves health checks and Prometheus metrics
type APIService struct {
	logger   *slog.Logger
	router   *Router
	gatherer prometheus.Gatherer
	ready    ReadyFunc
	started  time.Time

	// HTTP server
	server *http.Server
}

// New creates a new ops API service listening on addr
func New(addr string, logger *slog.Logger, gatherer prometheus.Gatherer, ready ReadyFunc) *APIService {
	if ready == nil {
		ready = func() bool { return true }
	}

	apiService := &APIService{
		logger:   logger,
		router:   NewRouter(logger),
		gatherer: gatherer,
		ready:    ready,
		started:  time.Now(),
	}

	// Create HTTP server
	apiService.server = &http.Server{
		Addr:         addr,
		Handler:      apiService.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Setup routes
	apiService.setupRoutes()

	return apiService
}

// setupRoutes configures all routes
func (s *APIService) setupRoutes() {
	s.router.Use(LoggingMiddleware(s.logger))

	s.router.GET("/health", http.HandlerFunc(s.handleHealth))
	s.router.GET("/ready", http.HandlerFunc(s.handleReady))
	if s.gatherer != nil {
		s.router.GET("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))
	}
}

// Handler returns the HTTP handler, for tests
func (s *APIService) Handler() http.Handler {
	return s.router
}

// Start serves until ctx is cancelled, then shuts down gracefully
func (s *APIService) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve serves on listener until ctx is cancelled
func (s *APIService) Serve(ctx context.Context, listener net.Listener) error {
	s.logger.Info("Starting ops server", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("ops server failed: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.Stop(shutdownCtx)
}

// Stop gracefully shuts down the server
func (s *APIService) Stop(ctx context.Context) error {
	s.logger.Info("Stopping ops server...")
	return s.server.Shutdown(ctx)
}

type statusResponse struct {
	Status    string `json:"status"`
	Timestamp string `json:"timestamp"`
	Uptime    string `json:"uptime,omitempty"`
}

// handleHealth handles liveness checks
func (s *APIService) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, statusResponse{
		Status:    "healthy",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Uptime:    time.Since(s.started).Round(time.Second).String(),
	})
}

// handleReady reports 503 until the bot has loaded its icons and registered handlers
func (s *APIService) handleReady(w http.ResponseWriter, r *http.Request) {
	if !s.ready() {
		s.writeJSON(w, http.StatusServiceUnavailable, statusResponse{
			Status:    "starting",
			Timestamp: time.Now().UTC().Format(time.RFC3339),
		})
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{
		Status:    "ready",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *APIService) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Warn("Failed to write response", "error", err)
	}
}
