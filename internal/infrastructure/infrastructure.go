// Package infrastructure provides core service initialization for application startup.
// It assembles the common dependencies (logging, metrics, tracing) that domain systems require.
package infrastructure

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/pkg/lifecycle"
	"github.com/JaimeStill/registrar/pkg/metrics"
	"github.com/JaimeStill/registrar/pkg/tracing"
)

// Infrastructure holds the core systems required by all domain modules.
type Infrastructure struct {
	Lifecycle *lifecycle.Coordinator
	Logger    *slog.Logger
	Metrics   *metrics.Registry
	Tracing   *tracing.Provider
}

// New creates an Infrastructure from the application configuration, logging
// to stderr. It initializes all systems but does not start them; call Start
// separately.
func New(cfg *config.Config) (*Infrastructure, error) {
	return NewWithWriter(cfg, os.Stderr)
}

// NewWithWriter is New with the log output redirected to w.
func NewWithWriter(cfg *config.Config, w io.Writer) (*Infrastructure, error) {
	lc := lifecycle.New()
	logger := slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: cfg.Level(),
	}))

	tp, err := tracing.NewProvider(lc.Context(), &cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("tracing init failed: %w", err)
	}

	return &Infrastructure{
		Lifecycle: lc,
		Logger:    logger,
		Metrics:   metrics.New(),
		Tracing:   tp,
	}, nil
}

// Start registers infrastructure hooks with the lifecycle coordinator.
// The tracing provider flushes pending spans once shutdown hooks, including
// the HTTP drain, have returned.
func (i *Infrastructure) Start() error {
	if !i.Tracing.Enabled() {
		return nil
	}

	logger := i.Logger.With("system", "tracing")
	i.Lifecycle.OnFinalize(func(ctx context.Context) error {
		if err := i.Tracing.Shutdown(ctx); err != nil {
			return fmt.Errorf("flush spans: %w", err)
		}
		logger.Info("tracer provider shut down")
		return nil
	})
	return nil
}
