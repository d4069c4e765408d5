package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/x-ordo/evidentia/internal/config"
	"github.com/x-ordo/evidentia/internal/infrastructure/monitoring/logging"
)

const (
	defaultIdleTimeout     = 60 * time.Second
	defaultShutdownTimeout = 30 * time.Second
)

// Server is the API server around the gin route tree.
type Server struct {
	srv    *http.Server
	logger logging.Logger
	cfg    config.ServerConfig
}

// NewServer builds the server.  The gin mode follows server.mode from the
// configuration.
func NewServer(cfg config.ServerConfig, handler http.Handler, log logging.Logger) *Server {
	switch cfg.Mode {
	case "release":
		gin.SetMode(gin.ReleaseMode)
	case "test":
		gin.SetMode(gin.TestMode)
	default:
		gin.SetMode(gin.DebugMode)
	}

	if cfg.MaxBodySize > 0 {
		handler = http.MaxBytesHandler(handler, cfg.MaxBodySize)
	}
	return &Server{
		logger: log.Named("http-server"),
		cfg:    cfg,
		srv: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  defaultIdleTimeout,
		},
	}
}

// Start blocks serving requests until Stop is called or the listener fails.
func (s *Server) Start() error {
	s.logger.Info("http server listening", logging.Int("port", s.cfg.Port))
	if err := s.srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Stop drains in-flight requests within the configured shutdown timeout.
func (s *Server) Stop(ctx context.Context) error {
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = defaultShutdownTimeout
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	s.logger.Info("http server shutting down")
	return s.srv.Shutdown(shutdownCtx)
}
