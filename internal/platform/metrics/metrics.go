package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the Prometheus instruments published by the service.
type Metrics struct {
	EnrollmentsCommitted prometheus.Counter
	EnrollmentsRejected  *prometheus.CounterVec
	VisitorsCreated      prometheus.Counter
	EnrollLatency        prometheus.Histogram
}

// New creates and registers all metrics on the default registry.
func New() *Metrics {
	return &Metrics{
		EnrollmentsCommitted: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkpass_enrollments_committed_total",
			Help: "Total enrollments committed across all schedules",
		}),
		EnrollmentsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "parkpass_enrollments_rejected_total",
			Help: "Enrollment batches rejected, by reason",
		}, []string{"reason"}),
		VisitorsCreated: promauto.NewCounter(prometheus.CounterOpts{
			Name: "parkpass_visitors_created_total",
			Help: "Visitors auto-created during enrollment batches",
		}),
		EnrollLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "parkpass_enroll_duration_seconds",
			Help:    "Latency of enrollment batch processing",
			Buckets: prometheus.DefBuckets,
		}),
	}
}

// ObserveCommit records a committed batch of n enrollments.
func (m *Metrics) ObserveCommit(n int) {
	if m == nil {
		return
	}
	m.EnrollmentsCommitted.Add(float64(n))
}

// ObserveRejection records a rejected batch with its reason label.
func (m *Metrics) ObserveRejection(reason string) {
	if m == nil {
		return
	}
	m.EnrollmentsRejected.WithLabelValues(reason).Inc()
}

// ObserveVisitorCreated records one auto-created visitor.
func (m *Metrics) ObserveVisitorCreated() {
	if m == nil {
		return
	}
	m.VisitorsCreated.Inc()
}

// ObserveEnrollSeconds records the duration of one Enroll call.
func (m *Metrics) ObserveEnrollSeconds(seconds float64) {
	if m == nil {
		return
	}
	m.EnrollLatency.Observe(seconds)
}
