// Package api serves pathquery over HTTP.
//
// The service exposes the networks of a [store.Store] and runs queries on
// them through a [pipeline.Runner]:
//
//	GET    /healthz                               liveness and build info
//	GET    /metrics                               Prometheus metrics
//	GET    /v1/networks                           list stored networks
//	GET    /v1/networks/{name}                    fetch a network as JSON
//	PUT    /v1/networks/{name}                    store a network (JSON, TOML or SIF body)
//	DELETE /v1/networks/{name}                    remove a network
//	POST   /v1/networks/{name}/{algorithm}        run neighborhood, paths, between, common or search
//	GET    /v1/results/{id}                       fetch a stored query response
//	GET    /v1/results/{id}/{format}              fetch one rendered artifact
//
// Query responses are stored in the runner's cache under a random id so
// that artifacts can be fetched later without recomputing the query.
// Errors are JSON documents carrying the pathquery error code; the code
// determines the HTTP status.
package api

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/matzehuels/pathquery/pkg/pipeline"
	"github.com/matzehuels/pathquery/pkg/store"
)

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":8080"

	// DefaultQueryTimeout bounds the time spent on one query request.
	DefaultQueryTimeout = 30 * time.Second

	// DefaultMaxBodyBytes bounds request bodies (uploaded networks).
	DefaultMaxBodyBytes = 32 << 20
)

// Config configures a Server.
type Config struct {
	Addr         string
	QueryTimeout time.Duration
	MaxBodyBytes int64

	// Gatherer serves /metrics. Defaults to the Prometheus default registry.
	Gatherer prometheus.Gatherer

	Logger *log.Logger
}

// Server is the pathquery HTTP service.
type Server struct {
	store  store.Store
	runner *pipeline.Runner
	cfg    Config
	logger *log.Logger
}

// New creates a server over st that runs queries with runner.
func New(st store.Store, runner *pipeline.Runner, cfg Config) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.QueryTimeout <= 0 {
		cfg.QueryTimeout = DefaultQueryTimeout
	}
	if cfg.MaxBodyBytes <= 0 {
		cfg.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if cfg.Gatherer == nil {
		cfg.Gatherer = prometheus.DefaultGatherer
	}
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = runner.Logger
	}
	return &Server{store: st, runner: runner, cfg: cfg, logger: logger}
}

// Handler returns the router with all routes and middleware installed.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(s.withRecovery)
	r.Use(s.withLogging)
	r.Use(withMetrics)

	r.Get("/healthz", s.handleHealth)
	r.Handle("/metrics", promhttp.HandlerFor(s.cfg.Gatherer, promhttp.HandlerOpts{}))

	r.Route("/v1", func(r chi.Router) {
		r.Get("/networks", s.handleListNetworks)
		r.Route("/networks/{name}", func(r chi.Router) {
			r.Get("/", s.handleGetNetwork)
			r.Put("/", s.handlePutNetwork)
			r.Delete("/", s.handleDeleteNetwork)
			r.Post("/{algorithm}", s.handleQuery)
		})
		r.Get("/results/{id}", s.handleGetResult)
		r.Get("/results/{id}/{format}", s.handleGetArtifact)
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      s.cfg.QueryTimeout + 10*time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("server starting", "addr", s.cfg.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("server stopping")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
