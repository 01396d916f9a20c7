package api

import (
	"fmt"

	"github.com/JaimeStill/registrar/internal/registration"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Registration registration.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	metrics, err := registration.NewMetrics(runtime.Metrics.Registerer())
	if err != nil {
		return nil, fmt.Errorf("registration metrics: %w", err)
	}

	client, err := registration.NewClient(
		&runtime.Upstream,
		runtime.Tracing.Tracer(),
		metrics,
		runtime.Logger,
	)
	if err != nil {
		return nil, fmt.Errorf("registration client: %w", err)
	}

	return &Domain{
		Registration: registration.New(client, metrics, runtime.Logger),
	}, nil
}
