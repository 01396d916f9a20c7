package main

import (
	"time"

	"github.com/JaimeStill/registrar/internal/api"
	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/internal/infrastructure"
)

type Server struct {
	infra *infrastructure.Infrastructure
	http  *httpServer
}

func NewServer(cfg *config.Config) (*Server, error) {
	infra, err := infrastructure.New(cfg)
	if err != nil {
		return nil, err
	}

	return newServer(cfg, infra)
}

func newServer(cfg *config.Config, infra *infrastructure.Infrastructure) (*Server, error) {
	frontend, err := api.NewHandler(cfg, infra)
	if err != nil {
		return nil, err
	}

	router := buildRouter(cfg, infra, frontend)

	infra.Logger.Info(
		"server initialized",
		"addr", cfg.Server.Addr(),
		"version", cfg.Version,
		"env", cfg.Env(),
		"upstream", cfg.Upstream.RegistrationEndpoint,
		"tracing", infra.Tracing.Enabled(),
	)

	return &Server{
		infra: infra,
		http:  newHTTPServer(&cfg.Server, router, infra.Logger),
	}, nil
}

// Start registers every hook and runs startup. The service reports ready
// once the listener is bound.
func (s *Server) Start() error {
	s.infra.Logger.Info("starting service")

	if err := s.infra.Start(); err != nil {
		return err
	}

	s.http.Start(s.infra.Lifecycle)

	if err := s.infra.Lifecycle.Startup(); err != nil {
		return err
	}

	s.infra.Logger.Info("all subsystems ready")
	return nil
}

func (s *Server) Shutdown(timeout time.Duration) error {
	s.infra.Logger.Info("initiating shutdown")
	return s.infra.Lifecycle.Shutdown(timeout)
}
