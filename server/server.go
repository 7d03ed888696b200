// Package server wires the bookshelf schema, explorer, health and metrics endpoints into an HTTP server.
package server

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	graphql "github.com/graph-gophers/graphql-go"
	"github.com/graph-gophers/graphql-go/trace/tracer"
	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/graph-gophers/bookshelf"
	"github.com/graph-gophers/bookshelf/config"
	"github.com/graph-gophers/bookshelf/internal/dataset"
	"github.com/graph-gophers/bookshelf/log"
	"github.com/graph-gophers/bookshelf/metrics"
	"github.com/graph-gophers/bookshelf/playground"
	"github.com/graph-gophers/bookshelf/relay"
	"github.com/graph-gophers/bookshelf/trace"
)

var (
	ErrAlreadyStarted = errors.New("server: already started")
)

// Deps are the collaborators a Server is built from. Only Dataset is required.
type Deps struct {
	Dataset *dataset.Dataset
	Logger  *zap.Logger
	Metrics *metrics.Metrics
	// Gatherer backs the /metrics endpoint; defaults to prometheus.DefaultGatherer.
	Gatherer prometheus.Gatherer
	// Tracer receives GraphQL spans after metrics are recorded, e.g. the OpenTracing tracer.
	Tracer tracer.Tracer
}

type Server struct {
	config  *config.Config
	logger  *zap.Logger
	metrics *metrics.Metrics
	schema  *graphql.Schema
	handler http.Handler

	mu         sync.RWMutex
	httpServer *http.Server
	listener   net.Listener
	running    bool
	served     bool
}

// New validates cfg and builds the schema and routes. It does not listen.
func New(cfg *config.Config, deps Deps) (*Server, error) {
	if cfg == nil {
		cfg = config.Default()
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if deps.Dataset == nil {
		return nil, errors.New("server: dataset is required")
	}
	if deps.Logger == nil {
		deps.Logger = zap.NewNop()
	}
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Gatherer == nil {
		deps.Gatherer = prometheus.DefaultGatherer
	}

	s := &Server{
		config:  cfg,
		logger:  deps.Logger,
		metrics: deps.Metrics,
	}

	schema, err := s.newSchema(deps)
	if err != nil {
		return nil, err
	}
	s.schema = schema

	mux := http.NewServeMux()
	mux.Handle(cfg.Path, relay.New(&relay.Config{
		Schema:   schema,
		Logger:   s.logger,
		Pretty:   cfg.Pretty,
		GraphiQL: cfg.GraphiQL,
	}))
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.HandlerFor(deps.Gatherer, promhttp.HandlerOpts{}))
	if cfg.GraphiQL && cfg.Path != "/" {
		explorer := playground.Handler(cfg.Path, playground.WithTitle("Bookshelf"))
		mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/" {
				http.NotFound(w, r)
				return
			}
			explorer(w, r)
		})
	}

	s.handler = s.requestID(s.instrument(s.cors(mux)))
	return s, nil
}

func (s *Server) newSchema(deps Deps) (*graphql.Schema, error) {
	opts := []graphql.SchemaOpt{
		graphql.MaxParallelism(s.config.MaxParallelism),
		graphql.Logger(&log.PanicLogger{Logger: s.logger, OnPanic: s.metrics.Panics.Inc}),
		graphql.Tracer(&trace.Tracer{Metrics: s.metrics, Next: deps.Tracer}),
	}
	if s.config.MaxDepth > 0 {
		opts = append(opts, graphql.MaxDepth(s.config.MaxDepth))
	}

	schema, err := bookshelf.NewSchema(bookshelf.NewResolver(deps.Dataset, s.logger.Named("resolver")), opts...)
	if err != nil {
		return nil, errors.Wrap(err, "server: parse schema")
	}
	return schema, nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Schema returns the executable schema.
func (s *Server) Schema() *graphql.Schema {
	return s.schema
}

// Listen binds the configured address.
func (s *Server) Listen() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return ErrAlreadyStarted
	}

	ln, err := net.Listen("tcp", s.config.Address)
	if err != nil {
		return errors.Wrapf(err, "server: listen on %s", s.config.Address)
	}
	s.listener = ln
	s.httpServer = &http.Server{
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}
	s.logger.Info("server configured",
		zap.String("address", ln.Addr().String()),
		zap.String("path", s.config.Path),
		zap.Bool("graphiql", s.config.GraphiQL))
	return nil
}

// Addr returns the bound address, or nil before Listen.
func (s *Server) Addr() net.Addr {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Start serves until ctx is cancelled or Stop is called. Listen is called
// first if needed; ready, when non-nil, is closed once connections are accepted.
// A Server serves at most once.
func (s *Server) Start(ctx context.Context, ready chan<- struct{}) error {
	if s.Addr() == nil {
		if err := s.Listen(); err != nil {
			return err
		}
	}

	s.mu.Lock()
	if s.running {
		s.mu.Unlock()
		return ErrAlreadyStarted
	}
	s.running = true
	s.served = true
	srv, ln := s.httpServer, s.listener
	s.mu.Unlock()

	errChan := make(chan error, 1)
	go func() {
		defer close(errChan)
		s.logger.Info("server starting", zap.String("address", ln.Addr().String()))
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()
	if ready != nil {
		close(ready)
	}

	select {
	case <-ctx.Done():
		s.logger.Info("server context cancelled, shutting down")
		return s.Stop(s.config.ShutdownTimeout)
	case err, ok := <-errChan:
		s.mu.Lock()
		s.running = false
		s.mu.Unlock()
		if !ok {
			return nil
		}
		s.logger.Error("HTTP server error", zap.Error(err))
		return errors.Wrap(err, "server: serve")
	}
}

// Stop gracefully shuts the server down, waiting at most timeout for in-flight requests.
// A listener bound by Listen but never served is released, so Listen may be called again.
func (s *Server) Stop(timeout time.Duration) error {
	s.mu.Lock()
	if !s.running {
		defer s.mu.Unlock()
		if s.listener == nil || s.served {
			return nil
		}
		err := s.listener.Close()
		s.listener, s.httpServer = nil, nil
		return errors.Wrap(err, "server: close listener")
	}
	srv := s.httpServer
	s.running = false
	s.mu.Unlock()

	s.logger.Info("server stopping")
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		s.logger.Error("failed to shut down gracefully", zap.Error(err))
		return errors.Wrap(err, "server: shutdown")
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.running
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"healthy"}`))
}
