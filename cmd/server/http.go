package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/pkg/lifecycle"
)

type httpServer struct {
	http   *http.Server
	logger *slog.Logger
	addr   net.Addr
}

func newHTTPServer(cfg *config.ServerConfig, handler http.Handler, logger *slog.Logger) *httpServer {
	return &httpServer{
		http: &http.Server{
			Addr:              cfg.Addr(),
			Handler:           handler,
			ReadHeaderTimeout: cfg.ReadHeaderTimeoutDuration(),
			ReadTimeout:       cfg.ReadTimeoutDuration(),
			WriteTimeout:      cfg.WriteTimeoutDuration(),
			IdleTimeout:       cfg.IdleTimeoutDuration(),
		},
		logger: logger.With("system", "http"),
	}
}

// Start binds the listener during startup so a taken port fails the service,
// then serves in the background until shutdown drains it.
func (s *httpServer) Start(lc *lifecycle.Coordinator) {
	lc.OnStartup(func(ctx context.Context) error {
		ln, err := net.Listen("tcp", s.http.Addr)
		if err != nil {
			return fmt.Errorf("listen %s: %w", s.http.Addr, err)
		}
		s.addr = ln.Addr()

		go func() {
			s.logger.Info("server listening", "addr", s.addr.String())
			if err := s.http.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
				s.logger.Error("server error", "error", err)
			}
		}()
		return nil
	})

	lc.OnShutdown(func(ctx context.Context) error {
		s.logger.Info("shutting down server")
		if err := s.http.Shutdown(ctx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		s.logger.Info("server shutdown complete")
		return nil
	})
}
