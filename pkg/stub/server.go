package stub

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/schoderer/pact-stub-server/internal/storage"
	"github.com/schoderer/pact-stub-server/pkg/logging"
)

// Server owns the HTTP listener and the request handler. The interaction
// store and configuration it is built with are shared read-only across all
// concurrent request handlers.
type Server struct {
	cfg        *Config
	store      *storage.InteractionStore
	log        *slog.Logger
	httpServer *http.Server
	listener   net.Listener
}

// Option customizes a Server.
type Option func(*Server)

// WithLogger sets the operational logger.
func WithLogger(log *slog.Logger) Option {
	return func(s *Server) {
		if log != nil {
			s.log = log
		}
	}
}

// NewServer creates a Server for the given configuration and store.
func NewServer(cfg *Config, store *storage.InteractionStore, opts ...Option) *Server {
	s := &Server{
		cfg:   cfg,
		store: store,
		log:   logging.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start binds the listen port and begins serving in the background. A bind
// failure is returned synchronously; it is fatal to the caller, unlike
// request-level errors which are isolated to their request.
func (s *Server) Start() error {
	listener, err := net.Listen("tcp", fmt.Sprintf(":%d", s.cfg.Port))
	if err != nil {
		return fmt.Errorf("could not bind port %d: %w", s.cfg.Port, err)
	}
	s.listener = listener

	s.httpServer = &http.Server{
		Handler:           NewHandler(s.cfg, s.store, s.log),
		ReadHeaderTimeout: 30 * time.Second,
	}

	s.log.Info("server started",
		"port", s.Port(),
		"interactions", s.store.Len(),
		"auto_cors", s.cfg.AutoCORS,
	)

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && err != http.ErrServerClosed {
			s.log.Error("server error", "error", err)
		}
	}()
	return nil
}

// Port returns the bound port. Useful when the configured port was 0.
func (s *Server) Port() int {
	if s.listener == nil {
		return s.cfg.Port
	}
	if addr, ok := s.listener.Addr().(*net.TCPAddr); ok {
		return addr.Port
	}
	return s.cfg.Port
}

// Shutdown gracefully stops the server, waiting for in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.log.Info("shutting down")
	return s.httpServer.Shutdown(ctx)
}
