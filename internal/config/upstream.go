package config

import (
	"fmt"
	"net/url"
	"os"
	"time"

	"github.com/JaimeStill/registrar/pkg/formatting"
)

const (
	EnvUpstreamRegistrationEndpoint = "REGISTRAR_UPSTREAM_REGISTRATION_ENDPOINT"
	EnvUpstreamTimeout              = "REGISTRAR_UPSTREAM_TIMEOUT"
	EnvUpstreamMaxBodySize          = "REGISTRAR_UPSTREAM_MAX_BODY_SIZE"
)

// UpstreamConfig locates the identity provider's registration flow endpoint.
type UpstreamConfig struct {
	RegistrationEndpoint string `toml:"registration_endpoint"`
	Timeout              string `toml:"timeout"`
	MaxBodySize          string `toml:"max_body_size"`
}

// TimeoutDuration returns Timeout as a time.Duration.
func (c *UpstreamConfig) TimeoutDuration() time.Duration {
	return durationOf(c.Timeout)
}

// MaxBodySizeBytes returns MaxBodySize as a byte count.
func (c *UpstreamConfig) MaxBodySizeBytes() int64 {
	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return 1024 * 1024
	}
	return size
}

// Finalize applies defaults, environment variable overrides, and validation.
// A missing registration endpoint is fatal.
func (c *UpstreamConfig) Finalize() error {
	c.loadDefaults()
	c.loadEnv()
	return c.validate()
}

// Merge overwrites non-zero fields from overlay.
func (c *UpstreamConfig) Merge(overlay *UpstreamConfig) {
	if overlay.RegistrationEndpoint != "" {
		c.RegistrationEndpoint = overlay.RegistrationEndpoint
	}
	if overlay.Timeout != "" {
		c.Timeout = overlay.Timeout
	}
	if overlay.MaxBodySize != "" {
		c.MaxBodySize = overlay.MaxBodySize
	}
}

func (c *UpstreamConfig) loadDefaults() {
	if c.Timeout == "" {
		c.Timeout = "10s"
	}
	if c.MaxBodySize == "" {
		c.MaxBodySize = "1MB"
	}
}

func (c *UpstreamConfig) loadEnv() {
	if v := os.Getenv(EnvUpstreamRegistrationEndpoint); v != "" {
		c.RegistrationEndpoint = v
	}
	if v := os.Getenv(EnvUpstreamTimeout); v != "" {
		c.Timeout = v
	}
	if v := os.Getenv(EnvUpstreamMaxBodySize); v != "" {
		c.MaxBodySize = v
	}
}

func (c *UpstreamConfig) validate() error {
	if c.RegistrationEndpoint == "" {
		return fmt.Errorf(
			"registration_endpoint required (set upstream.registration_endpoint or %s)",
			EnvUpstreamRegistrationEndpoint,
		)
	}
	u, err := url.Parse(c.RegistrationEndpoint)
	if err != nil {
		return fmt.Errorf("invalid registration_endpoint: %w", err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("registration_endpoint must be an absolute URL: %q", c.RegistrationEndpoint)
	}

	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return fmt.Errorf("invalid timeout: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("timeout must be positive: %s", c.Timeout)
	}

	size, err := formatting.ParseBytes(c.MaxBodySize)
	if err != nil {
		return fmt.Errorf("invalid max_body_size: %w", err)
	}
	if size <= 0 {
		return fmt.Errorf("max_body_size must be positive: %s", c.MaxBodySize)
	}
	return nil
}
