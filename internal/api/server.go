// Package api exposes the detection and translation pipeline over HTTP.
//
// The server is a thin adapter: every endpoint validates its request shape,
// calls into pkg/pipeline, and serializes the result. No diagram logic lives
// here.
//
// Endpoints:
//
//	POST /v1/scan       run the full pipeline over content
//	POST /v1/translate  translate one architecture block to D2
//	POST /v1/render     render one architecture block to d2/dot/svg
//	GET  /healthz       liveness probe with build info
package api

import (
	"context"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"diagramkit/pkg/config"
	"diagramkit/pkg/pipeline"
)

// Server is the diagramkit HTTP API server.
type Server struct {
	cfg    *config.Config
	runner *pipeline.Runner
	logger *log.Logger
	http   *http.Server
}

// NewServer creates an API server around a pipeline runner.
func NewServer(cfg *config.Config, runner *pipeline.Runner, logger *log.Logger) *Server {
	s := &Server{cfg: cfg, runner: runner, logger: logger}
	s.http = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.Router(),
		ReadTimeout:  cfg.Server.ReadTimeout.Std(),
		WriteTimeout: cfg.Server.WriteTimeout.Std(),
	}
	return s
}

// Router builds the chi router with all middleware and routes. Exposed
// separately from ListenAndServe for httptest use.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(requestLogger(s.logger))

	r.Get("/healthz", s.handleHealthz)

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.AllowContentType("application/json"))
		r.Post("/scan", s.handleScan)
		r.Post("/translate", s.handleTranslate)
		r.Post("/render", s.handleRender)
	})

	return r
}

// ListenAndServe runs the server until ctx is canceled, then drains
// connections within the configured shutdown timeout.
func (s *Server) ListenAndServe(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("api server listening", "addr", s.http.Addr)
		errCh <- s.http.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.Server.ShutdownTimeout.Std())
		defer cancel()
		s.logger.Info("api server shutting down")
		return s.http.Shutdown(shutdownCtx)
	}
}
