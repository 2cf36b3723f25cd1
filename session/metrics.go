package session

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics counts what the pipeline does with each call.
type Metrics struct {
	Attempts  *prometheus.CounterVec
	Retries   prometheus.Counter
	Refreshes *prometheus.CounterVec
	Failures  *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg when reg is
// not nil.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightlife",
			Subsystem: "session",
			Name:      "attempts_total",
			Help:      "Requests submitted to the transport, retries included.",
		}, []string{"method"}),
		Retries: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "nightlife",
			Subsystem: "session",
			Name:      "transient_retries_total",
			Help:      "Backoff retries of idempotent requests.",
		}),
		Refreshes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightlife",
			Subsystem: "session",
			Name:      "refreshes_total",
			Help:      "Access token refresh calls by result.",
		}, []string{"result"}),
		Failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "nightlife",
			Subsystem: "session",
			Name:      "failures_total",
			Help:      "Terminal failures returned to callers by kind.",
		}, []string{"kind"}),
	}
	if reg != nil {
		reg.MustRegister(m.Attempts, m.Retries, m.Refreshes, m.Failures)
	}
	return m
}
