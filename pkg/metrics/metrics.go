package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus metrics for HTTP round-trips, seen from either side.
type Metrics struct {
	RequestCounter   *prometheus.CounterVec
	RequestDuration  *prometheus.HistogramVec
	RequestsInFlight *prometheus.GaugeVec
}

// NewMetrics registers the collectors on reg. Passing a fresh registry per
// client keeps repeated construction (tests, several clients) from panicking.
func NewMetrics(subsystem string, reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		RequestCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "quiz",
				Subsystem: subsystem,
				Name:      "requests_total",
				Help:      "Total number of requests",
			},
			[]string{"method", "route", "outcome"},
		),
		RequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: "quiz",
				Subsystem: subsystem,
				Name:      "request_duration_seconds",
				Help:      "Request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: "quiz",
				Subsystem: subsystem,
				Name:      "requests_in_flight",
				Help:      "Number of requests currently in flight",
			},
			[]string{"route"},
		),
	}
}

// Track marks a request as started and returns the function that records its
// outcome. A nil receiver is a no-op so callers need not check.
func (m *Metrics) Track(method, route string) func(outcome string) {
	if m == nil {
		return func(string) {}
	}
	m.RequestsInFlight.WithLabelValues(route).Inc()
	start := time.Now()
	return func(outcome string) {
		m.RequestsInFlight.WithLabelValues(route).Dec()
		m.RequestDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
		m.RequestCounter.WithLabelValues(method, route, outcome).Inc()
	}
}
