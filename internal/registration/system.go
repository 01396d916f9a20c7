// Package registration retrieves self-service registration flows from the
// identity provider, classifies them, and renders them as HTML forms.
//
// The pipeline is parse → classify → map: Client.Retrieve fetches and
// parses a Flow, Classify decides whether the provider reported errors, and
// Map folds both into an Outcome the HTTP handler acts on.
package registration

import (
	"context"
	"log/slog"

	"github.com/JaimeStill/registrar/pkg/web"
)

// Retriever fetches a flow by id. *Client implements it.
type Retriever interface {
	Retrieve(ctx context.Context, flowID string) (*Flow, error)
}

// System defines the public contract for registration operations.
type System interface {
	Handler(views *web.TemplateSet) *Handler
	Resolve(ctx context.Context, flowID string) Outcome
}

type system struct {
	retriever Retriever
	metrics   *Metrics
	logger    *slog.Logger
}

// New creates the registration System. metrics may be nil.
func New(retriever Retriever, metrics *Metrics, logger *slog.Logger) System {
	return &system{
		retriever: retriever,
		metrics:   metrics,
		logger:    logger.With("system", "registration"),
	}
}

func (s *system) Handler(views *web.TemplateSet) *Handler {
	return NewHandler(s, views, s.logger)
}

// Resolve runs the full pipeline for one flow id and counts the outcome.
func (s *system) Resolve(ctx context.Context, flowID string) Outcome {
	flow, err := s.retriever.Retrieve(ctx, flowID)
	if err == nil {
		err = Classify(flow)
	}

	outcome := Map(flow, err)
	s.metrics.ObserveOutcome(outcome.Kind)
	return outcome
}
