// Package server exposes stored trees and the geometry engine over HTTP.
//
// Routes:
//
//	GET    /healthz
//	GET    /trees
//	POST   /trees                          create a tree (its hub)
//	GET    /trees/{root}                   tree document
//	DELETE /trees/{root}
//	POST   /trees/{root}/nodes             add and place a node
//	DELETE /trees/{root}/nodes/{id}        remove a subtree
//	GET    /trees/{root}/placements        starfield positions
//	GET    /trees/{root}/walkthrough       walkthrough document (?start=id)
//	GET    /trees/{root}/export/{format}   json, svg, png, pdf, obj or dot (?start=id)
//
// Mutations of one tree are serialized by a per-root lock held across the
// load, insert and save, so concurrent inserts never race on sibling
// indices. Errors are JSON objects {"code": ..., "error": ...}.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/treescape/pkg/pipeline"
	"github.com/matzehuels/treescape/pkg/store"
)

// Defaults.
const (
	DefaultMaxTextSize = 4096
	maxBodySize        = 1 << 20
	shutdownTimeout    = 10 * time.Second
)

// Options configures a [Server].
type Options struct {
	// MaxTextSize bounds node text in bytes. Zero means DefaultMaxTextSize.
	MaxTextSize int
}

// Server serves the HTTP API.
type Server struct {
	store   store.Store
	runner  *pipeline.Runner
	logger  *log.Logger
	maxText int

	locks sync.Map // root -> *sync.Mutex
}

// New creates a server over st. A nil logger uses the runner's logger.
func New(st store.Store, runner *pipeline.Runner, logger *log.Logger, opts Options) *Server {
	if runner == nil {
		runner = pipeline.NewRunner(nil, nil, logger)
	}
	if logger == nil {
		logger = runner.Logger
	}
	if opts.MaxTextSize <= 0 {
		opts.MaxTextSize = DefaultMaxTextSize
	}
	return &Server{store: st, runner: runner, logger: logger, maxText: opts.MaxTextSize}
}

// Handler returns the router.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(s.logRequests)

	r.Get("/healthz", s.handleHealth)
	r.Route("/trees", func(r chi.Router) {
		r.Get("/", s.handleListTrees)
		r.Post("/", s.handleCreateTree)
		r.Route("/{root}", func(r chi.Router) {
			r.Get("/", s.handleGetTree)
			r.Delete("/", s.handleDeleteTree)
			r.Post("/nodes", s.handleAddNode)
			r.Delete("/nodes/{id}", s.handleRemoveNode)
			r.Get("/placements", s.handlePlacements)
			r.Get("/walkthrough", s.handleWalkthrough)
			r.Get("/export/{format}", s.handleExport)
		})
	})
	return r
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}

// lock serializes mutations of one tree and returns the unlock function.
func (s *Server) lock(root string) func() {
	v, _ := s.locks.LoadOrStore(root, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		s.logger.Debug("request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"bytes", ww.BytesWritten(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
