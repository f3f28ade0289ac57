package limits

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"mercator-hq/saturn/pkg/limits/ratelimit"
)

// Metrics contains Prometheus metrics for the limits package.
type Metrics struct {
	// Admission checks by resource and decision
	checks *prometheus.CounterVec

	// Rejections by resource
	rejections *prometheus.CounterVec

	// Check latency
	checkDuration prometheus.Histogram

	// Live window occupancy by resource
	windowOccupancy *prometheus.GaugeVec

	// Number of configured resources
	resources prometheus.Gauge
}

// NewMetrics creates a Metrics instance registered on the default
// Prometheus registry.
func NewMetrics() *Metrics {
	return NewMetricsWithRegisterer(prometheus.DefaultRegisterer)
}

// NewMetricsWithRegisterer creates a Metrics instance registered on the
// given registerer. Tests use this with a private registry so repeated
// registration does not panic.
func NewMetricsWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		checks: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saturn_limits_checks_total",
				Help: "Total number of admission checks performed",
			},
			[]string{"resource", "decision"},
		),

		rejections: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "saturn_limits_rejections_total",
				Help: "Total number of rejected admission checks",
			},
			[]string{"resource"},
		),

		checkDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "saturn_limits_check_duration_seconds",
				Help:    "Duration of admission checks in seconds",
				Buckets: prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to 16ms
			},
		),

		windowOccupancy: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "saturn_limits_window_occupancy",
				Help: "Number of live entries in the sliding window",
			},
			[]string{"resource"},
		),

		resources: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "saturn_limits_resources",
				Help: "Number of configured resources",
			},
		),
	}
}

// RecordCheck records an admission check and its decision.
func (m *Metrics) RecordCheck(resource string, decision ratelimit.Decision) {
	m.checks.WithLabelValues(resource, decision.String()).Inc()
	if !decision.Allowed() {
		m.rejections.WithLabelValues(resource).Inc()
	}
}

// ObserveCheckDuration records the duration of an admission check.
func (m *Metrics) ObserveCheckDuration(seconds float64) {
	m.checkDuration.Observe(seconds)
}

// SetWindowOccupancy updates the live window occupancy for a resource.
func (m *Metrics) SetWindowOccupancy(resource string, occupancy int) {
	m.windowOccupancy.WithLabelValues(resource).Set(float64(occupancy))
}

// SetResources updates the configured resource count.
func (m *Metrics) SetResources(count int) {
	m.resources.Set(float64(count))
}

// DeleteResource drops the per-resource series for a removed resource.
func (m *Metrics) DeleteResource(resource string) {
	m.checks.DeletePartialMatch(prometheus.Labels{"resource": resource})
	m.rejections.DeleteLabelValues(resource)
	m.windowOccupancy.DeleteLabelValues(resource)
}
