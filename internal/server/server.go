// Package server exposes the validation pipeline over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/KaramelBytes/dsvalidate-cli/internal/dataset"
	"github.com/KaramelBytes/dsvalidate-cli/internal/loader"
	"github.com/KaramelBytes/dsvalidate-cli/internal/logger"
	"github.com/KaramelBytes/dsvalidate-cli/internal/validation"
)

// Validator is the part of validation.Pipeline the handlers need.
type Validator interface {
	Run(ctx context.Context, ds *dataset.Dataset, target dataset.TargetSpec) (*validation.FinalReport, error)
}

// Options configure a Server.
type Options struct {
	// MaxUploadBytes caps the request body of /validate. Zero means 32 MiB.
	MaxUploadBytes int64
	Load           loader.Options
}

// Server routes HTTP requests to the pipeline.
type Server struct {
	router    *chi.Mux
	validator Validator
	opts      Options
	log       *logger.Logger
}

// New builds a Server with its routes registered.
func New(v Validator, opts Options, log *logger.Logger) *Server {
	if log == nil {
		log = logger.NewNop()
	}
	if opts.MaxUploadBytes <= 0 {
		opts.MaxUploadBytes = 32 << 20
	}
	s := &Server{router: chi.NewRouter(), validator: v, opts: opts, log: log}
	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(requestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(s.requestLogger)
	s.router.Use(middleware.Recoverer)

	s.router.Get("/", s.handleRoot)
	s.router.Get("/supported-formats", s.handleFormats)
	s.router.Post("/validate", s.handleValidate)
}

// Handler returns the root http.Handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then drains in-flight
// requests for up to 10 seconds.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.log.Infow("server listening", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.log.Infow("server shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
