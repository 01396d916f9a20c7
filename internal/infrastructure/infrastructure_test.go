package infrastructure_test

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/JaimeStill/registrar/internal/config"
	"github.com/JaimeStill/registrar/internal/infrastructure"
	"github.com/JaimeStill/registrar/pkg/tracing"
)

func testConfig(level string) *config.Config {
	return &config.Config{
		LogLevel: level,
		Tracing: tracing.Config{
			Exporter:    "none",
			SampleRate:  1,
			ServiceName: "registrar-test",
		},
	}
}

func TestNewHonoursLogLevel(t *testing.T) {
	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(testConfig("warn"), &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	infra.Logger.Info("hidden")
	infra.Logger.Warn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record written at warn level: %s", out)
	}
	if !strings.Contains(out, "shown") {
		t.Errorf("warn record missing: %s", out)
	}
}

func TestNewTracingDisabled(t *testing.T) {
	infra, err := infrastructure.NewWithWriter(testConfig("info"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	if infra.Tracing.Enabled() {
		t.Error("tracing should be disabled by default")
	}
	if infra.Tracing.Tracer() == nil {
		t.Error("tracer should never be nil")
	}
}

func TestStartFlushesTracerOnShutdown(t *testing.T) {
	cfg := testConfig("info")
	cfg.Tracing.Enabled = true

	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(cfg, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	if err := infra.Lifecycle.Startup(); err != nil {
		t.Fatalf("startup: %v", err)
	}
	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	if !strings.Contains(buf.String(), "tracer provider shut down") {
		t.Errorf("tracer flush not logged: %s", buf.String())
	}
}

func TestTracerFlushFollowsDrain(t *testing.T) {
	cfg := testConfig("info")
	cfg.Tracing.Enabled = true

	var buf bytes.Buffer
	infra, err := infrastructure.NewWithWriter(cfg, &buf)
	if err != nil {
		t.Fatalf("new: %v", err)
	}
	if err := infra.Start(); err != nil {
		t.Fatalf("start: %v", err)
	}
	infra.Lifecycle.OnShutdown(func(ctx context.Context) error {
		time.Sleep(20 * time.Millisecond)
		infra.Logger.Info("requests drained")
		return nil
	})

	if err := infra.Lifecycle.Shutdown(time.Second); err != nil {
		t.Fatalf("shutdown: %v", err)
	}

	out := buf.String()
	drained := strings.Index(out, "requests drained")
	flushed := strings.Index(out, "tracer provider shut down")
	if drained < 0 || flushed < 0 || flushed < drained {
		t.Errorf("tracer flushed before drain completed:\n%s", out)
	}
}

func TestMetricsRegistry(t *testing.T) {
	infra, err := infrastructure.NewWithWriter(testConfig("info"), &bytes.Buffer{})
	if err != nil {
		t.Fatalf("new: %v", err)
	}

	families, err := infra.Metrics.Gatherer().Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(families) == 0 {
		t.Error("registry should carry runtime collectors")
	}
}
