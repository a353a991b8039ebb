// Package status serves the display state over HTTP for monitoring.
package status

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/five82/skypane/internal/state"
)

// SnapshotSource supplies the current display state.
type SnapshotSource interface {
	Snapshot() state.Snapshot
}

// Server exposes /healthz, /state and /metrics.
type Server struct {
	source   SnapshotSource
	gatherer prometheus.Gatherer
	logger   *slog.Logger
	now      func() time.Time
}

// New builds a Server. A nil gatherer disables /metrics.
func New(source SnapshotSource, gatherer prometheus.Gatherer, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{source: source, gatherer: gatherer, logger: logger, now: time.Now}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	router := mux.NewRouter()
	router.HandleFunc("/healthz", s.health).Methods(http.MethodGet)
	router.HandleFunc("/state", s.state).Methods(http.MethodGet)
	if s.gatherer != nil {
		router.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})).Methods(http.MethodGet)
	}
	return router
}

// Run listens on addr until ctx is cancelled.
func (s *Server) Run(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, listener)
}

// Serve handles requests on listener until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	server := &http.Server{
		Handler:      s.Handler(),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  30 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("status server listening", "addr", listener.Addr().String())
		errCh <- server.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	}
}

type healthResponse struct {
	Status     string      `json:"status"`
	Timestamp  string      `json:"timestamp"`
	Weather    state.Phase `json:"weather"`
	AirQuality state.Phase `json:"airQuality"`
}

func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	snap := s.source.Snapshot()
	sendJSON(w, healthResponse{
		Status:     "ok",
		Timestamp:  s.now().UTC().Format(time.RFC3339),
		Weather:    snap.WeatherStatus.Phase,
		AirQuality: snap.AirQualityStatus.Phase,
	}, http.StatusOK)
}

func (s *Server) state(w http.ResponseWriter, _ *http.Request) {
	sendJSON(w, s.source.Snapshot(), http.StatusOK)
}

func sendJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}
