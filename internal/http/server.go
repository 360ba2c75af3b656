package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"taskhub/internal/logging"
)

// Server owns the http.Server lifecycle: a blocking Start and a
// deadline-bound Shutdown.
type Server struct {
	inner  *http.Server
	logger *logging.Logger
}

func NewServer(addr string, handler http.Handler, readTimeout, writeTimeout time.Duration, logger *logging.Logger) *Server {
	return &Server{
		inner: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  readTimeout,
			WriteTimeout: writeTimeout,
		},
		logger: logger,
	}
}

// Start serves requests until the listener fails or Shutdown closes the
// server. A shutdown-triggered close is a clean exit, not an error.
func (s *Server) Start() error {
	s.logger.Info("server listening", "addr", s.inner.Addr)

	if err := s.inner.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("listen and serve: %w", err)
	}

	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("server shutting down")

	if err := s.inner.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("server stopped")
	return nil
}
