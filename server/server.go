// Package server exposes run status over HTTP.
//
//	GET /status   JSON snapshot of every worker
//	GET /metrics  Prometheus metrics
//	GET /healthz  liveness probe
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hupe1980/bip39crack/progress"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// StatusSource provides worker status records.
type StatusSource interface {
	Snapshot() []progress.Status
}

// StatusResponse is the body of GET /status.
type StatusResponse struct {
	RunID    string            `json:"run_id,omitempty"`
	Started  time.Time         `json:"started"`
	Attempts int64             `json:"attempts"`
	Matches  int               `json:"matches"`
	Hashrate float64           `json:"hashrate"`
	Workers  []progress.Status `json:"workers"`
}

// Handler serves the status endpoints.
type Handler struct {
	status   StatusSource
	gatherer prometheus.Gatherer
	runID    string
	started  time.Time
	now      func() time.Time
}

// NewHandler creates a Handler. A nil gatherer serves the default registry.
func NewHandler(status StatusSource, gatherer prometheus.Gatherer, runID string, started time.Time) *Handler {
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return &Handler{
		status:   status,
		gatherer: gatherer,
		runID:    runID,
		started:  started,
		now:      time.Now,
	}
}

// Register mounts the endpoints on r.
func (h *Handler) Register(r chi.Router) {
	r.Get("/status", h.handleStatus)
	r.Get("/healthz", h.handleHealth)
	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(h.gatherer, promhttp.HandlerOpts{}))
}

// NewRouter returns a router with the status endpoints and recovery middleware.
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	h.Register(r)
	return r
}

func (h *Handler) handleStatus(w http.ResponseWriter, _ *http.Request) {
	workers := h.status.Snapshot()

	resp := StatusResponse{
		RunID:   h.runID,
		Started: h.started,
		Workers: workers,
	}
	for _, st := range workers {
		resp.Attempts += st.Attempts
		resp.Matches += st.Matches
	}
	if elapsed := h.now().Sub(h.started); elapsed > 0 {
		resp.Hashrate = float64(resp.Attempts) / elapsed.Seconds()
	}

	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (h *Handler) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

// New builds an HTTP server with the project defaults.
func New(addr string, handler http.Handler) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}
}

// Server is a running status server.
type Server struct {
	srv  *http.Server
	ln   net.Listener
	done chan error
}

// Start listens on addr and serves handler in the background.
func Start(addr string, handler http.Handler) (*Server, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, err
	}

	s := &Server{
		srv:  New(addr, handler),
		ln:   ln,
		done: make(chan error, 1),
	}
	go func() {
		err := s.srv.Serve(ln)
		if errors.Is(err, http.ErrServerClosed) {
			err = nil
		}
		s.done <- err
	}()
	return s, nil
}

// Addr returns the address the server listens on.
func (s *Server) Addr() string {
	return s.ln.Addr().String()
}

// Shutdown stops the server gracefully and returns the serve error, if any.
func (s *Server) Shutdown(ctx context.Context) error {
	if err := s.srv.Shutdown(ctx); err != nil {
		return err
	}
	return <-s.done
}
