package remote

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Call outcomes
const (
	OutcomeSuccess   = "success"
	OutcomeStatus    = "status_error"
	OutcomeTransport = "transport_error"
	OutcomeRejected  = "rejected"
)

// Metrics records remote catalog calls
type Metrics struct {
	calls    *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates the call metrics and registers them on reg (skipped when reg is nil)
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		calls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "catalog_remote_calls_total",
				Help: "Total number of calls to the remote catalog service",
			},
			[]string{"op", "outcome"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "catalog_remote_call_duration_seconds",
				Help:    "Duration of calls to the remote catalog service",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"op"},
		),
	}

	if reg != nil {
		reg.MustRegister(m.calls, m.duration)
	}
	return m
}

func (m *Metrics) observe(op, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.calls.WithLabelValues(op, outcome).Inc()
	m.duration.WithLabelValues(op).Observe(elapsed.Seconds())
}
