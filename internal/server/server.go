// Package server is the HTTP front door for the analysis pipeline.
//
// Routes:
//
//	GET /analyze?username=<user|url>   analysis envelope
//	GET /api/analyze?username=...      same handler
//	GET /healthz                       liveness
//
// Every response is a JSON envelope: {"ok":true,"data":...} or
// {"ok":false,"error":{"type","message","resetAt"}}.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/devlens/pkg/buildinfo"
	"github.com/matzehuels/devlens/pkg/cache"
	"github.com/matzehuels/devlens/pkg/portfolio"
	"github.com/matzehuels/devlens/pkg/ratelimit"
)

const (
	cacheControl    = "public, max-age=60, s-maxage=300, stale-while-revalidate=600"
	shutdownTimeout = 10 * time.Second
)

// Analyzer produces analyses for validated subjects. *pipeline.Runner
// satisfies it.
type Analyzer interface {
	Analyze(ctx context.Context, subject string) (*portfolio.Analysis, cache.Outcome, error)
}

// Server serves the analysis API.
type Server struct {
	analyzer Analyzer
	limiter  *ratelimit.Limiter
	logger   *log.Logger
	now      func() time.Time
}

// New creates a server. A nil limiter admits with the package defaults.
func New(analyzer Analyzer, limiter *ratelimit.Limiter, logger *log.Logger) *Server {
	if limiter == nil {
		limiter = ratelimit.New(ratelimit.Config{})
	}
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return &Server{analyzer: analyzer, limiter: limiter, logger: logger, now: time.Now}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(baseHeaders)
	r.Use(s.accessLog)
	r.Use(s.recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Get("/analyze", s.handleAnalyze)
	r.Get("/api/analyze", s.handleAnalyze)

	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, apiError{Type: "MethodNotAllowed", Message: "Only GET is supported."})
	})
	r.NotFound(func(w http.ResponseWriter, _ *http.Request) {
		writeError(w, http.StatusNotFound, apiError{Type: "NotFound", Message: "Route not found."})
	})
	return r
}

// Run listens on addr until ctx ends, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "version": buildinfo.Version})
}
