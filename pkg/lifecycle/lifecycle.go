// Package lifecycle coordinates startup and shutdown hooks for the service.
package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// Hook is a startup or shutdown step. Hooks of the same phase run concurrently.
type Hook func(ctx context.Context) error

// Coordinator manages startup and shutdown hooks for the application lifecycle.
type Coordinator struct {
	ctx    context.Context
	cancel context.CancelFunc

	mu       sync.Mutex
	startup  []Hook
	shutdown []Hook
	finalize []Hook

	ready atomic.Bool
}

// New creates a Coordinator with a cancellable context.
func New() *Coordinator {
	ctx, cancel := context.WithCancel(context.Background())
	return &Coordinator{
		ctx:    ctx,
		cancel: cancel,
	}
}

// Context returns the coordinator's context, cancelled when Shutdown begins.
func (c *Coordinator) Context() context.Context {
	return c.ctx
}

// OnStartup registers a hook run by Startup.
func (c *Coordinator) OnStartup(fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.startup = append(c.startup, fn)
}

// OnShutdown registers a hook run by Shutdown.
func (c *Coordinator) OnShutdown(fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.shutdown = append(c.shutdown, fn)
}

// OnFinalize registers a hook run by Shutdown once every shutdown hook has
// returned, such as flushing telemetry recorded while requests drained.
func (c *Coordinator) OnFinalize(fn Hook) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.finalize = append(c.finalize, fn)
}

// Ready returns true after every startup hook has succeeded.
func (c *Coordinator) Ready() bool {
	return c.ready.Load()
}

// Startup runs all startup hooks concurrently and returns the first error.
// The coordinator becomes ready only when every hook succeeds.
func (c *Coordinator) Startup() error {
	c.mu.Lock()
	hooks := append([]Hook(nil), c.startup...)
	c.mu.Unlock()

	g, ctx := errgroup.WithContext(c.ctx)
	for _, hook := range hooks {
		g.Go(func() error {
			return hook(ctx)
		})
	}
	if err := g.Wait(); err != nil {
		return fmt.Errorf("startup: %w", err)
	}

	c.ready.Store(true)
	return nil
}

// Shutdown cancels the coordinator context, marks it not ready and runs all
// shutdown hooks concurrently, then all finalize hooks concurrently, within
// timeout. Finalize hooks run even when a shutdown hook fails.
func (c *Coordinator) Shutdown(timeout time.Duration) error {
	c.ready.Store(false)
	c.cancel()

	c.mu.Lock()
	shutdown := append([]Hook(nil), c.shutdown...)
	finalize := append([]Hook(nil), c.finalize...)
	c.mu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	done := make(chan error, 1)
	go func() {
		drainErr := runAll(ctx, shutdown)
		finalErr := runAll(ctx, finalize)
		done <- errors.Join(drainErr, finalErr)
	}()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case <-ctx.Done():
		return fmt.Errorf("shutdown timeout after %v", timeout)
	}
}

func runAll(ctx context.Context, hooks []Hook) error {
	var g errgroup.Group
	for _, hook := range hooks {
		g.Go(func() error {
			return hook(ctx)
		})
	}
	return g.Wait()
}
