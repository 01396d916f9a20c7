package metrics

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config controls Prometheus exposition.
type Config struct {
	Disabled bool   `toml:"disabled"`
	Path     string `toml:"path"`
}

// Env maps config fields to environment variable names for override injection.
type Env struct {
	Enabled string
	Path    string
}

// Enabled reports whether the metrics endpoint should be mounted.
func (c *Config) Enabled() bool {
	return !c.Disabled
}

// Finalize applies defaults, environment variable overrides, and validation.
func (c *Config) Finalize(env *Env) error {
	c.loadDefaults()
	if env != nil {
		c.loadEnv(env)
	}
	return c.validate()
}

// Merge overwrites fields from overlay. Disabled only ever turns metrics off.
func (c *Config) Merge(overlay *Config) {
	if overlay.Disabled {
		c.Disabled = true
	}
	if overlay.Path != "" {
		c.Path = overlay.Path
	}
}

func (c *Config) loadDefaults() {
	if c.Path == "" {
		c.Path = "/metrics"
	}
}

func (c *Config) loadEnv(env *Env) {
	if env.Enabled != "" {
		if v := os.Getenv(env.Enabled); v != "" {
			if enabled, err := strconv.ParseBool(v); err == nil {
				c.Disabled = !enabled
			}
		}
	}
	if env.Path != "" {
		if v := os.Getenv(env.Path); v != "" {
			c.Path = v
		}
	}
}

func (c *Config) validate() error {
	if !strings.HasPrefix(c.Path, "/") {
		return fmt.Errorf("path must start with /: %s", c.Path)
	}
	if c.Path == "/" {
		return fmt.Errorf("path cannot be the service root")
	}
	return nil
}
