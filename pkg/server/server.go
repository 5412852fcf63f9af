// Package server exposes tiling and layout snapshots over HTTP.
//
// Routes:
//
//	GET    /healthz                      build info
//	POST   /v1/tile                      breakpoints for aspect ratios
//	POST   /v1/layouts                   lay out items and store a snapshot
//	GET    /v1/layouts/{id}              fetch a snapshot
//	GET    /v1/layouts/{id}/closest?y=   row nearest to a scroll offset
//	DELETE /v1/layouts/{id}              remove a snapshot
//
// Errors are returned as {"code": ..., "message": ...} with the status
// derived from the error code.
package server

import (
	"context"
	stderrors "errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/spotlight/pkg/pipeline"
	"github.com/matzehuels/spotlight/pkg/storage"
)

// Limits applied to incoming requests.
const (
	DefaultMaxItems     = 100_000
	DefaultMaxBodyBytes = 16 << 20
)

// Server is the HTTP API.
type Server struct {
	runner   *pipeline.Runner
	store    storage.Store
	logger   *log.Logger
	defaults pipeline.Options
	maxItems int

	readTimeout  time.Duration
	writeTimeout time.Duration

	router chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithDefaults sets the frame used for fields a layout request leaves out.
func WithDefaults(opts pipeline.Options) Option {
	return func(s *Server) { s.defaults = opts }
}

// WithMaxItems caps the number of items per request.
func WithMaxItems(n int) Option {
	return func(s *Server) {
		if n > 0 {
			s.maxItems = n
		}
	}
}

// WithTimeouts sets the HTTP server read and write timeouts.
func WithTimeouts(read, write time.Duration) Option {
	return func(s *Server) {
		s.readTimeout, s.writeTimeout = read, write
	}
}

// New creates a server backed by runner and store.
func New(runner *pipeline.Runner, store storage.Store, opts ...Option) *Server {
	s := &Server{
		runner:       runner,
		store:        store,
		logger:       log.NewWithOptions(io.Discard, log.Options{}),
		maxItems:     DefaultMaxItems,
		readTimeout:  15 * time.Second,
		writeTimeout: 30 * time.Second,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.defaults.SetDefaults()
	s.routes()
	return s
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/tile", s.handleTile)
		r.Post("/layouts", s.handleCreateLayout)
		r.Get("/layouts/{id}", s.handleGetLayout)
		r.Get("/layouts/{id}/closest", s.handleClosest)
		r.Delete("/layouts/{id}", s.handleDeleteLayout)
	})
	s.router = r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:         addr,
		Handler:      s.router,
		ReadTimeout:  s.readTimeout,
		WriteTimeout: s.writeTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		if err := <-errc; err != nil && !stderrors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}
}
