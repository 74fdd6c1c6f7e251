// Package server runs the taskflow HTTP server.
//
// Besides the API it serves Kubernetes-style health probes (liveness,
// readiness, startup) and the Prometheus scrape endpoint, and shuts down by
// draining connections.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/felixgeelhaar/taskflow/internal/config"
	"github.com/felixgeelhaar/taskflow/internal/health"
	"github.com/felixgeelhaar/taskflow/internal/log"
	"github.com/felixgeelhaar/taskflow/internal/metrics"
)

// Options wires a Server.
type Options struct {
	Config config.ServerConfig
	CORS   config.CORSConfig

	Probes *health.ProbeManager

	// API serves every path not claimed by the probes or /metrics.
	API http.Handler

	Metrics *metrics.Metrics

	// Gatherer backs /metrics. Defaults to the global Prometheus registry.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the taskflow HTTP server.
type Server struct {
	httpServer      *http.Server
	handler         http.Handler
	probes          *health.ProbeManager
	logger          *log.Logger
	inShutdown      atomic.Bool
	shutdownTimeout time.Duration
}

// New builds a server. Zero timeouts fall back to config.Defaults.
func New(opts Options) *Server {
	defaults := config.Defaults().Server
	cfg := opts.Config
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaults.ShutdownTimeout
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaults.ReadTimeout
	}
	if cfg.WriteTimeout <= 0 {
		cfg.WriteTimeout = defaults.WriteTimeout
	}
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaults.IdleTimeout
	}

	logger := opts.Logger
	if logger == nil {
		logger = log.DefaultLogger()
	}
	probes := opts.Probes
	if probes == nil {
		probes = health.NewProbeManager("")
	}
	m := opts.Metrics
	if m == nil {
		m = metrics.GetDefault()
	}
	gatherer := opts.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		probes:          probes,
		logger:          logger.With("component", "server"),
		shutdownTimeout: cfg.ShutdownTimeout,
	}

	mux := http.NewServeMux()
	mux.Handle("GET /health/live", labeled(http.HandlerFunc(s.handleLiveness)))
	mux.Handle("GET /health/ready", labeled(http.HandlerFunc(s.handleReadiness)))
	mux.Handle("GET /health/startup", labeled(http.HandlerFunc(s.handleStartup)))
	mux.Handle("GET /healthz", labeled(http.HandlerFunc(s.handleReadiness)))
	mux.Handle("GET /metrics", labeled(metrics.HandlerFor(gatherer)))
	if opts.API != nil {
		mux.Handle("/", opts.API)
	}

	s.handler = chain(mux,
		requestID,
		recoverer(s.logger),
		instrument(m),
		tracing,
		logRequests(s.logger),
		cors(opts.CORS.AllowedOrigins),
	)

	s.httpServer = &http.Server{
		Addr:         cfg.Address,
		Handler:      s.handler,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return s
}

// Handler returns the fully wrapped root handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start listens on the configured address and serves until shutdown.
// It returns http.ErrServerClosed after a graceful shutdown.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ln)
}

// Serve serves on ln and marks startup complete.
func (s *Server) Serve(ln net.Listener) error {
	s.probes.MarkInitialized()
	s.logger.Info("server listening", "address", ln.Addr().String())

	err := s.httpServer.Serve(ln)
	if errors.Is(err, http.ErrServerClosed) {
		s.logger.Info("server stopped")
	}
	return err
}

// Shutdown fails readiness, stops keep-alives and waits up to the shutdown
// timeout for in-flight requests to finish.
func (s *Server) Shutdown(ctx context.Context) error {
	s.inShutdown.Store(true)
	s.probes.MarkShutdown()
	s.httpServer.SetKeepAlivesEnabled(false)

	ctx, cancel := context.WithTimeout(ctx, s.shutdownTimeout)
	defer cancel()

	s.logger.Info("draining connections", "timeout", s.shutdownTimeout.String())
	return s.httpServer.Shutdown(ctx)
}

// IsShuttingDown reports whether Shutdown has been called.
func (s *Server) IsShuttingDown() bool {
	return s.inShutdown.Load()
}

func (s *Server) writeProbe(w http.ResponseWriter, result *health.ProbeResult, unhealthyStatus int) {
	w.Header().Set("Content-Type", "application/json")
	if result.Status == health.StatusUnhealthy {
		w.WriteHeader(unhealthyStatus)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	if err := json.NewEncoder(w).Encode(result); err != nil {
		s.logger.Warn("failed to encode probe response", "error", err.Error())
	}
}

// handleLiveness always answers 200, also while draining.
func (s *Server) handleLiveness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probes.CheckLiveness(r.Context()), http.StatusOK)
}

// handleReadiness answers 503 while draining or when a dependency is down.
func (s *Server) handleReadiness(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probes.CheckReadiness(r.Context()), http.StatusServiceUnavailable)
}

// handleStartup answers 503 until the server is serving.
func (s *Server) handleStartup(w http.ResponseWriter, r *http.Request) {
	s.writeProbe(w, s.probes.CheckStartup(r.Context()), http.StatusServiceUnavailable)
}

// labeled records the matched pattern as the metrics route.
func labeled(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		metrics.SetRoute(r.Context(), r.Pattern)
		h.ServeHTTP(w, r)
	})
}
