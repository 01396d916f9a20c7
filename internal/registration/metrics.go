package registration

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics records registration outcomes and upstream latency.
// A nil *Metrics records nothing.
type Metrics struct {
	outcomes *prometheus.CounterVec
	upstream *prometheus.HistogramVec
}

// NewMetrics creates the registration collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		outcomes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "registrar",
				Subsystem: "registration",
				Name:      "outcomes_total",
				Help:      "Registration requests by mapped outcome.",
			},
			[]string{"outcome"},
		),
		upstream: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "registrar",
				Subsystem: "upstream",
				Name:      "request_duration_seconds",
				Help:      "Duration of flow retrieval round trips to the identity provider.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"result"},
		),
	}

	for _, c := range []prometheus.Collector{m.outcomes, m.upstream} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}

	for _, k := range []Kind{Success, ClientFailure, ServerFailure} {
		m.outcomes.WithLabelValues(k.String())
	}

	return m, nil
}

// ObserveOutcome counts one mapped outcome.
func (m *Metrics) ObserveOutcome(k Kind) {
	if m == nil {
		return
	}
	m.outcomes.WithLabelValues(k.String()).Inc()
}

// ObserveUpstream records one upstream round trip. result is "ok" or "error".
func (m *Metrics) ObserveUpstream(result string, d time.Duration) {
	if m == nil {
		return
	}
	m.upstream.WithLabelValues(result).Observe(d.Seconds())
}
