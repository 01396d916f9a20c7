package registration

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/JaimeStill/registrar/internal/config"
)

// FlowIDParam is the query parameter the provider reads the flow id from.
const FlowIDParam = "id"

// Client retrieves registration flows from the identity provider.
// It holds no per-request state and is safe for concurrent use.
type Client struct {
	endpoint    *url.URL
	http        *http.Client
	maxBodySize int64
	tracer      trace.Tracer
	metrics     *Metrics
	logger      *slog.Logger
}

// NewClient creates a Client for the configured registration endpoint.
// The timeout bounds the entire exchange, including reading the body.
// metrics may be nil.
func NewClient(
	cfg *config.UpstreamConfig,
	tracer trace.Tracer,
	metrics *Metrics,
	logger *slog.Logger,
) (*Client, error) {
	endpoint, err := url.Parse(cfg.RegistrationEndpoint)
	if err != nil {
		return nil, fmt.Errorf("parse registration endpoint: %w", err)
	}

	return &Client{
		endpoint:    endpoint,
		http:        &http.Client{Timeout: cfg.TimeoutDuration()},
		maxBodySize: cfg.MaxBodySizeBytes(),
		tracer:      tracer,
		metrics:     metrics,
		logger:      logger.With("system", "upstream"),
	}, nil
}

// Retrieve fetches and parses the flow identified by flowID. Every call is a
// fresh round trip; nothing is retried or cached. Transport failures return
// a *RetrievalError and schema mismatches a *DeserializationError.
func (c *Client) Retrieve(ctx context.Context, flowID string) (*Flow, error) {
	ctx, span := c.tracer.Start(ctx, "registration.retrieve",
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(attribute.String("flow.id", flowID)),
	)
	defer span.End()

	start := time.Now()
	body, err := c.fetch(ctx, span, flowID)
	if err != nil {
		c.metrics.ObserveUpstream("error", time.Since(start))
		span.RecordError(err)
		span.SetStatus(codes.Error, "retrieval failed")
		return nil, &RetrievalError{Err: err}
	}
	c.metrics.ObserveUpstream("ok", time.Since(start))

	flow, err := Parse(body)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "deserialization failed")
		return nil, err
	}

	c.logger.Debug(
		"flow retrieved",
		"flow_id", flowID,
		"fields", len(flow.Form().Fields),
		"messages", len(flow.Form().Messages),
		"expires_at", flow.ExpiresAt,
	)
	return flow, nil
}

func (c *Client) fetch(ctx context.Context, span trace.Span, flowID string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.flowURL(flowID), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	span.SetAttributes(attribute.Int("http.response.status_code", resp.StatusCode))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		io.Copy(io.Discard, io.LimitReader(resp.Body, c.maxBodySize))
		return nil, fmt.Errorf("unexpected status %s from %s", resp.Status, c.endpoint.Redacted())
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBodySize+1))
	if err != nil {
		return nil, fmt.Errorf("read body: %w", err)
	}
	if int64(len(body)) > c.maxBodySize {
		return nil, fmt.Errorf("response body exceeds %d bytes", c.maxBodySize)
	}
	return body, nil
}

// flowURL sets the id query parameter, keeping any parameters already
// present on the configured endpoint.
func (c *Client) flowURL(flowID string) string {
	u := *c.endpoint
	q := u.Query()
	q.Set(FlowIDParam, flowID)
	u.RawQuery = q.Encode()
	return u.String()
}
