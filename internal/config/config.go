package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/pelletier/go-toml/v2"

	"github.com/JaimeStill/registrar/pkg/metrics"
	"github.com/JaimeStill/registrar/pkg/tracing"
)

const (
	BaseConfigFile       = "config.toml"
	OverlayConfigPattern = "config.%s.toml"

	EnvRegistrarEnv             = "REGISTRAR_ENV"
	EnvRegistrarShutdownTimeout = "REGISTRAR_SHUTDOWN_TIMEOUT"
	EnvRegistrarVersion         = "REGISTRAR_VERSION"
	EnvRegistrarLogLevel        = "REGISTRAR_LOG_LEVEL"
)

var metricsEnv = &metrics.Env{
	Enabled: "REGISTRAR_METRICS_ENABLED",
	Path:    "REGISTRAR_METRICS_PATH",
}

var tracingEnv = &tracing.Env{
	Enabled:      "REGISTRAR_TRACING_ENABLED",
	Exporter:     "REGISTRAR_TRACING_EXPORTER",
	OTLPEndpoint: "REGISTRAR_TRACING_OTLP_ENDPOINT",
	SampleRate:   "REGISTRAR_TRACING_SAMPLE_RATE",
	ServiceName:  "REGISTRAR_TRACING_SERVICE_NAME",
}

// Config is the root configuration for the registrar service.
type Config struct {
	Server          ServerConfig   `toml:"server"`
	Upstream        UpstreamConfig `toml:"upstream"`
	Metrics         metrics.Config `toml:"metrics"`
	Tracing         tracing.Config `toml:"tracing"`
	ShutdownTimeout string         `toml:"shutdown_timeout"`
	Version         string         `toml:"version"`
	LogLevel        string         `toml:"log_level"`
}

// Env returns the REGISTRAR_ENV value, defaulting to "local".
func (c *Config) Env() string {
	if env := os.Getenv(EnvRegistrarEnv); env != "" {
		return env
	}
	return "local"
}

// ShutdownTimeoutDuration returns ShutdownTimeout as a time.Duration.
func (c *Config) ShutdownTimeoutDuration() time.Duration {
	d, _ := time.ParseDuration(c.ShutdownTimeout)
	return d
}

// Level returns LogLevel as a slog.Level. Values are validated during finalize.
func (c *Config) Level() slog.Level {
	var level slog.Level
	_ = level.UnmarshalText([]byte(c.LogLevel))
	return level
}

// Load reads the base config (if present), applies any environment overlay,
// and finalizes all values. If no config.toml exists, defaults and environment
// variables provide all configuration; the upstream registration endpoint
// must still be supplied by one of them.
func Load() (*Config, error) {
	cfg := &Config{}

	if _, err := os.Stat(BaseConfigFile); err == nil {
		loaded, err := load(BaseConfigFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if path := overlayPath(); path != "" {
		overlay, err := load(path)
		if err != nil {
			return nil, fmt.Errorf("load overlay %s: %w", path, err)
		}
		cfg.Merge(overlay)
	}

	if err := cfg.finalize(); err != nil {
		return nil, fmt.Errorf("finalize config: %w", err)
	}

	return cfg, nil
}

// Merge overwrites non-zero fields from overlay across all sub-configs.
func (c *Config) Merge(overlay *Config) {
	if overlay.ShutdownTimeout != "" {
		c.ShutdownTimeout = overlay.ShutdownTimeout
	}
	if overlay.Version != "" {
		c.Version = overlay.Version
	}
	if overlay.LogLevel != "" {
		c.LogLevel = overlay.LogLevel
	}
	c.Server.Merge(&overlay.Server)
	c.Upstream.Merge(&overlay.Upstream)
	c.Metrics.Merge(&overlay.Metrics)
	c.Tracing.Merge(&overlay.Tracing)
}

func (c *Config) finalize() error {
	c.loadDefaults()
	c.loadEnv()

	if err := c.validate(); err != nil {
		return err
	}
	if err := c.Server.Finalize(); err != nil {
		return fmt.Errorf("server: %w", err)
	}
	if err := c.Upstream.Finalize(); err != nil {
		return fmt.Errorf("upstream: %w", err)
	}
	if err := c.Metrics.Finalize(metricsEnv); err != nil {
		return fmt.Errorf("metrics: %w", err)
	}
	if err := c.Tracing.Finalize(tracingEnv); err != nil {
		return fmt.Errorf("tracing: %w", err)
	}
	return nil
}

func (c *Config) loadDefaults() {
	if c.ShutdownTimeout == "" {
		c.ShutdownTimeout = "30s"
	}
	if c.Version == "" {
		c.Version = "0.1.0"
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

func (c *Config) loadEnv() {
	if v := os.Getenv(EnvRegistrarShutdownTimeout); v != "" {
		c.ShutdownTimeout = v
	}
	if v := os.Getenv(EnvRegistrarVersion); v != "" {
		c.Version = v
	}
	if v := os.Getenv(EnvRegistrarLogLevel); v != "" {
		c.LogLevel = v
	}
}

func (c *Config) validate() error {
	if _, err := time.ParseDuration(c.ShutdownTimeout); err != nil {
		return fmt.Errorf("invalid shutdown_timeout: %w", err)
	}
	var level slog.Level
	if err := level.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return fmt.Errorf("invalid log_level: %q", c.LogLevel)
	}
	return nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}

	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	return &cfg, nil
}

func overlayPath() string {
	if env := os.Getenv(EnvRegistrarEnv); env != "" {
		path := fmt.Sprintf(OverlayConfigPattern, env)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}
