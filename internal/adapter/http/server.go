package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	readyCheckTimeout = 2 * time.Second
	// retryAfterSeconds is sent while the first dataset is still being built.
	retryAfterSeconds = "5"
)

// DatasetStatus reports whether a prepared dataset has been published. It is
// implemented by pipeline.Store.
type DatasetStatus interface {
	CheckReadiness(ctx context.Context) error
	// ReadinessDetail describes the published dataset, or returns nil.
	ReadinessDetail() map[string]any
}

// Server is the operational endpoint of the gameday service: liveness,
// dataset readiness and Prometheus metrics. It serves no dataset content.
type Server struct {
	httpServer *http.Server
	status     DatasetStatus
	logger     *slog.Logger
}

type healthResponse struct {
	Status string `json:"status"`
}

type readyResponse struct {
	Status  string         `json:"status"`
	Error   string         `json:"error,omitempty"`
	Dataset map[string]any `json:"dataset,omitempty"`
}

// NewServer creates the ops server listening on addr.
func NewServer(addr string, status DatasetStatus, logger *slog.Logger) *Server {
	s := &Server{status: status, logger: logger}
	s.httpServer = &http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      10 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)
	mux.Handle("GET /metrics", promhttp.Handler())
	return s.logRequests(mux)
}

// Start listens until Shutdown; it then returns http.ErrServerClosed.
func (s *Server) Start() error {
	s.logger.Info("ops server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, healthResponse{Status: "healthy"})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), readyCheckTimeout)
	defer cancel()

	if err := s.status.CheckReadiness(ctx); err != nil {
		w.Header().Set("Retry-After", retryAfterSeconds)
		writeJSON(w, http.StatusServiceUnavailable, readyResponse{Status: "not ready", Error: err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, readyResponse{Status: "ready", Dataset: s.status.ReadinessDetail()})
}

// logRequests logs every request at debug level; probes are frequent.
func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		next.ServeHTTP(w, r)
		s.logger.Debug("ops request", "method", r.Method, "path", r.URL.Path, "duration", time.Since(start))
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // client may have gone away
}
