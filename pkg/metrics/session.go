package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Outcome labels shared by the session metrics.
const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeFailed   = "failed"
)

// SessionMetrics records customization session activity.
type SessionMetrics struct {
	operations   *prometheus.CounterVec
	quotes       prometheus.Counter
	collaborator *prometheus.HistogramVec
	active       prometheus.Gauge
}

// NewSessionMetrics registers the session metrics on the provided registerer.
func NewSessionMetrics(reg prometheus.Registerer) *SessionMetrics {
	if reg == nil {
		return &SessionMetrics{}
	}
	operations := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "session_operations_total",
		Help: "Session engine operations by name and outcome.",
	}, []string{"op", "outcome"})
	quotes := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "session_quotes_total",
		Help: "Price quotes computed for session views.",
	})
	collaborator := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "session_collaborator_duration_seconds",
		Help:    "Duration of design commit and order submission calls.",
		Buckets: prometheus.DefBuckets,
	}, []string{"collaborator", "outcome"})
	active := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "session_active",
		Help: "Sessions currently held in memory.",
	})
	reg.MustRegister(operations, quotes, collaborator, active)
	return &SessionMetrics{
		operations:   operations,
		quotes:       quotes,
		collaborator: collaborator,
		active:       active,
	}
}

// IncOperation counts one engine operation.
func (m *SessionMetrics) IncOperation(op, outcome string) {
	if m == nil || m.operations == nil {
		return
	}
	m.operations.WithLabelValues(normalizeLabel(op), normalizeLabel(outcome)).Inc()
}

// IncQuote counts one computed quote.
func (m *SessionMetrics) IncQuote() {
	if m == nil || m.quotes == nil {
		return
	}
	m.quotes.Inc()
}

// ObserveCollaborator records the duration of an outbound collaborator call.
func (m *SessionMetrics) ObserveCollaborator(name, outcome string, duration time.Duration) {
	if m == nil || m.collaborator == nil {
		return
	}
	m.collaborator.WithLabelValues(normalizeLabel(name), normalizeLabel(outcome)).Observe(duration.Seconds())
}

// SetActiveSessions reports the number of live sessions.
func (m *SessionMetrics) SetActiveSessions(n int) {
	if m == nil || m.active == nil {
		return
	}
	m.active.Set(float64(n))
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
