package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the persistence core: repository
// operation counts and latencies plus cache effectiveness.
type Metrics struct {
	Operations        *prometheus.CounterVec
	OperationDuration *prometheus.HistogramVec
	CacheHits         *prometheus.CounterVec
	CacheMisses       *prometheus.CounterVec
	ReadWarnings      *prometheus.CounterVec
}

// New creates a Metrics instance with all persistence metrics registered.
func New() *Metrics {
	return &Metrics{
		Operations: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amani_repository_operations_total",
			Help: "Repository operations by collection, operation and outcome",
		}, []string{"collection", "op", "outcome"}),
		OperationDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "amani_repository_operation_duration_seconds",
			Help:    "Duration of repository operations",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"collection", "op"}),
		CacheHits: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amani_cache_hits_total",
			Help: "Cache hits by collection",
		}, []string{"collection"}),
		CacheMisses: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amani_cache_misses_total",
			Help: "Cache misses by collection",
		}, []string{"collection"}),
		ReadWarnings: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "amani_read_warnings_total",
			Help: "Non-fatal data problems found while reading stored documents",
		}, []string{"collection"}),
	}
}

// ObserveOperation records one repository operation.
func (m *Metrics) ObserveOperation(collection, op string, start time.Time, err error) {
	if m == nil {
		return
	}
	outcome := "success"
	if err != nil {
		outcome = "failure"
	}
	m.Operations.WithLabelValues(collection, op, outcome).Inc()
	m.OperationDuration.WithLabelValues(collection, op).Observe(time.Since(start).Seconds())
}

// ObserveCache records a cache lookup outcome.
func (m *Metrics) ObserveCache(collection string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHits.WithLabelValues(collection).Inc()
		return
	}
	m.CacheMisses.WithLabelValues(collection).Inc()
}

// ObserveReadWarnings counts flagged data problems.
func (m *Metrics) ObserveReadWarnings(collection string, n int) {
	if m == nil || n == 0 {
		return
	}
	m.ReadWarnings.WithLabelValues(collection).Add(float64(n))
}
