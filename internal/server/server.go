// Package server exposes the translation service over HTTP: synchronous
// text translation, asynchronous PDF jobs with status polling, and a
// health probe.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/mutarjim/translation-service/internal/domain"
	"github.com/mutarjim/translation-service/internal/lang"
	"github.com/mutarjim/translation-service/internal/task"
)

// Defaults for the HTTP surface.
const (
	DefaultAddr           = ":8080"
	DefaultRequestTimeout = 5 * time.Minute

	defaultRatePerSecond = 10
	defaultRateBurst     = 20

	shutdownTimeout   = 10 * time.Second
	readHeaderTimeout = 10 * time.Second
	idleTimeout       = 60 * time.Second
)

// Translator runs a synchronous text translation.
type Translator interface {
	Translate(ctx context.Context, text string, direction lang.Direction) (domain.TranslationResult, error)
}

// Submitter queues an uploaded PDF for background translation.
type Submitter interface {
	Submit(ctx context.Context, pdfPath, filename, direction string) (*task.Task, error)
}

// Server serves the REST API.
type Server struct {
	translator Translator
	submitter  Submitter
	store      task.Store

	addr           string
	engineName     string
	requestTimeout time.Duration
	limiter        *clientLimiter
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(s *Server) {
		if addr != "" {
			s.addr = addr
		}
	}
}

// WithEngineName sets the engine name reported by the health endpoint.
func WithEngineName(name string) Option {
	return func(s *Server) {
		if name != "" {
			s.engineName = name
		}
	}
}

// WithRequestTimeout bounds each synchronous translation request.
// Non-positive means no deadline.
func WithRequestTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.requestTimeout = d
	}
}

// WithRateLimit sets the per-client request rate. A non-positive rate
// disables limiting.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		s.limiter = newClientLimiter(perSecond, burst)
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a Server around a translator, a job submitter, and the task
// store the status endpoint reads from.
func New(translator Translator, submitter Submitter, store task.Store, opts ...Option) *Server {
	s := &Server{
		translator:     translator,
		submitter:      submitter,
		store:          store,
		addr:           DefaultAddr,
		engineName:     "unknown",
		requestTimeout: DefaultRequestTimeout,
		limiter:        newClientLimiter(defaultRatePerSecond, defaultRateBurst),
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler returns the routed, middleware-wrapped HTTP handler.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /translate/text", s.handleTranslateText)
	mux.HandleFunc("POST /translate/pdf", s.handleTranslatePDF)
	mux.HandleFunc("GET /status/{task_id}", s.handleStatus)
	mux.HandleFunc("GET /healthz", s.handleHealthz)
	return s.logRequests(s.rateLimit(mux))
}

// Run starts the server and blocks until ctx is cancelled or serving fails.
// Shutdown is graceful: in-flight requests get shutdownTimeout to finish.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", s.addr, err)
	}

	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: readHeaderTimeout,
		IdleTimeout:       idleTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	s.logger.Info("http server listening", "addr", listener.Addr().String(), "engine", s.engineName)

	select {
	case err := <-errCh:
		return fmt.Errorf("serving: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}
	s.logger.Info("http server stopped")
	return nil
}
