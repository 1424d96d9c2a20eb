// package server contains middleware & handlers for the ytblog web service
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/ytblog/internal/product"
	"github.com/desertthunder/ytblog/internal/web"
)

// Middleware wraps an http.Handler and returns a new http.Handler with additional behavior.
// Common middleware includes logging, authentication, CORS, rate limiting, etc.
type Middleware func(http.Handler) http.Handler

// Handler defines the interface for HTTP request handlers in the ytblog service.
type Handler interface {
	http.Handler      // ServeHTTP handles the HTTP request and writes the response
	Routes() []string // Routes returns the path patterns this handler serves
}

// Router defines the interface for HTTP routing and middleware management.
// Implementations register handlers, apply middleware, and configure the HTTP server.
type Router interface {
	Use(middleware ...Middleware)                     // Use adds middleware to the router's middleware stack
	Handle(method, path string, handler http.Handler) // Handle registers a handler for the specified method and path
	Handler(handler Handler)                          // Handler registers a custom Handler implementation
	ServeHTTP(w http.ResponseWriter, r *http.Request) // ServeHTTP implements http.Handler for the entire router
}

// Options configures a [Server].
type Options struct {
	Pipeline        product.Pipeline // usually a *tasks.Engine
	Archive         Archive          // optional sqlite persistence
	AuthToken       string           // bearer token for the API routes; empty disables auth
	AllowedOrigins  []string
	CacheTTL        time.Duration // zero disables the result cache
	PipelineTimeout time.Duration
	Logger          *log.Logger
}

// Server is the ytblog HTTP service.
type Server struct {
	router   *BasicRouter
	pipeline *pipeline
	logger   *log.Logger
}

// New builds a Server with all routes registered.
func New(opts Options) (*Server, error) {
	if opts.Pipeline == nil {
		return nil, fmt.Errorf("server: pipeline is required")
	}
	if opts.Logger == nil {
		opts.Logger = log.New(io.Discard)
	}

	s := &Server{
		router:   NewBasicRouter(),
		pipeline: newPipeline(opts.Pipeline, NewResultCache(opts.CacheTTL), opts.Archive, opts.PipelineTimeout, opts.Logger),
		logger:   opts.Logger,
	}

	s.router.Use(Logging(opts.Logger), Recover(opts.Logger), CORS(opts.AllowedOrigins))

	pages, err := web.NewPages(product.LocalBackend{Pipeline: s.pipeline}, opts.Logger)
	if err != nil {
		return nil, fmt.Errorf("failed to load pages: %w", err)
	}
	s.router.Handler(pages)

	auth := BearerAuth(opts.AuthToken)
	s.router.Handle(http.MethodPost, "/analyze", auth(NewAnalyzeHandler(s.pipeline, opts.Logger)))
	s.router.Handle(http.MethodGet, "/ws/analyze", auth(NewStreamHandler(s.pipeline, opts.AllowedOrigins, opts.Logger)))
	s.router.Handle(http.MethodGet, "/health", http.HandlerFunc(s.health))

	return s, nil
}

// ServeHTTP implements [http.Handler].
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errs := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func (s *Server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":        "ok",
		"cached_posts":  s.pipeline.cache.Len(),
		"archive_ready": s.pipeline.archive != nil,
	})
}
