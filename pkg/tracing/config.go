package tracing

import (
	"fmt"
	"os"
	"slices"
	"strconv"
)

var exporters = []string{"none", "stdout", "otlp"}

// Config configures the tracing subsystem. When Enabled is false a no-op
// tracer is used and nothing is exported.
type Config struct {
	Enabled      bool    `toml:"enabled"`
	Exporter     string  `toml:"exporter"`
	OTLPEndpoint string  `toml:"otlp_endpoint"`
	SampleRate   float64 `toml:"sample_rate"`
	ServiceName  string  `toml:"service_name"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled      string
	Exporter     string
	OTLPEndpoint string
	SampleRate   string
	ServiceName  string
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Enabled only ever turns tracing on.
func (c *Config) Merge(overlay *Config) {
	if overlay.Enabled {
		c.Enabled = true
	}
	if overlay.Exporter != "" {
		c.Exporter = overlay.Exporter
	}
	if overlay.OTLPEndpoint != "" {
		c.OTLPEndpoint = overlay.OTLPEndpoint
	}
	if overlay.SampleRate != 0 {
		c.SampleRate = overlay.SampleRate
	}
	if overlay.ServiceName != "" {
		c.ServiceName = overlay.ServiceName
	}
}

func (c *Config) loadDefaults() {
	if c.Exporter == "" {
		c.Exporter = "otlp"
	}
	if c.OTLPEndpoint == "" {
		c.OTLPEndpoint = "localhost:4317"
	}
	if c.SampleRate == 0 {
		c.SampleRate = 1.0
	}
	if c.ServiceName == "" {
		c.ServiceName = "registrar"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Enabled = enabled
			}
		}
	}
	if env.Exporter != "" {
		if v := os.Getenv(env.Exporter); v != "" {
			c.Exporter = v
		}
	}
	if env.OTLPEndpoint != "" {
		if v := os.Getenv(env.OTLPEndpoint); v != "" {
			c.OTLPEndpoint = v
		}
	}
	if env.SampleRate != "" {
		if v := os.Getenv(env.SampleRate); v != "" {
			if rate, err := strconv.ParseFloat(v, 64); err == nil {
				c.SampleRate = rate
			}
		}
	}
	if env.ServiceName != "" {
		if v := os.Getenv(env.ServiceName); v != "" {
			c.ServiceName = v
		}
	}
}

func (c *Config) validate() error {
	if !slices.Contains(exporters, c.Exporter) {
		return fmt.Errorf("unsupported exporter: %s", c.Exporter)
	}
	if c.SampleRate < 0 || c.SampleRate > 1 {
		return fmt.Errorf("sample_rate must be within [0, 1]: %v", c.SampleRate)
	}
	return nil
}
