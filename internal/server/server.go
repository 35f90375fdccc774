// Package server exposes bid-chain evaluations over HTTP.
//
// Routes:
//
//	GET /healthz              liveness plus build metadata
//	GET /v1/chain             evaluation as a JSON node-link document
//	GET /v1/chain.{format}    evaluation rendered as json, dot, svg, png or pdf
//
// Query parameters ssps, bid, policy, seed and detailed override the
// configured defaults. Every response carries an X-Seed header; replaying
// the seed reproduces the chain exactly. Requests that pin a seed are
// served from the artifact cache when possible (X-Cache: HIT); fresh
// evaluations also carry X-Evaluation-ID.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bidchain/pkg/cache"
	"github.com/matzehuels/bidchain/pkg/config"
	"github.com/matzehuels/bidchain/pkg/observability"
	"github.com/matzehuels/bidchain/pkg/pipeline"
)

const shutdownTimeout = 5 * time.Second

// Server serves evaluations. It holds no per-request state; every request
// runs its own evaluation with its own random generator.
type Server struct {
	cfg    config.Config
	runner *pipeline.Runner
	logger *log.Logger
	cache  cache.Cache
	router chi.Router
}

// New creates a server. A nil runner uses a runner backed by logger.
func New(cfg config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(logger)
	}
	s := &Server{cfg: cfg, runner: runner, logger: logger, cache: cache.NewNullCache()}
	if cfg.Server.CacheEntries > 0 {
		s.cache = cache.NewMemoryCache(cfg.Server.CacheEntries)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(observe)

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/chain", s.handleChain)
		r.Get("/chain.{format:[a-z]+}", s.handleChainFormat)
	})
	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on the configured address until ctx is cancelled,
// then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.cfg.Server.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 2 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", srv.Addr)
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
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	defer s.cache.Close()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}

// observe reports each request through the registered HTTP hooks.
func observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hooks := observability.HTTP()
		start := time.Now()
		hooks.OnRequest(r.Context(), r.Method, r.URL.Path)

		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		hooks.OnResponse(r.Context(), r.Method, r.URL.Path, status, time.Since(start))
	})
}
