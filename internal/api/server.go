package api

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/wonny/autovault/pkg/config"
	"github.com/wonny/autovault/pkg/logger"
)

// shutdownTimeout bounds in-flight analyses on stop
const shutdownTimeout = 30 * time.Second

// Server serves the analysis API
// ⭐ SSOT: API 서버 설정은 이 파일에서만
type Server struct {
	httpServer *http.Server
	logger     *logger.Logger
	config     *config.Config
}

func New(cfg *config.Config, log *logger.Logger, router http.Handler) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:              ":" + cfg.Port,
			Handler:           router,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      60 * time.Second, // 대형 풀 분석 여유
			IdleTimeout:       60 * time.Second,
		},
		logger: log,
		config: cfg,
	}
}

func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Run listens on the configured port until ctx is done, then drains
// in-flight requests for up to shutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.httpServer.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener; the listener is closed on return
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	s.logger.WithFields(logger.Fields{
		"addr":            ln.Addr().String(),
		"env":             s.config.Env,
		"validation_mode": s.config.Engine.ValidationMode,
	}).Info("Starting ABS API server")

	errCh := make(chan error, 1)
	go func() {
		errCh <- s.httpServer.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down API server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}

	s.logger.Info("API server stopped")
	return nil
}
