package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RetrievalMetrics tracks metrics related to physiological rule retrieval.
//
// Metrics:
//   - neroli_retrieval_queries_total: Query count by serving mode
//   - neroli_retrieval_query_duration_seconds: Query duration histogram
//   - neroli_retrieval_downgrades_total: Vector-to-keyword downgrade count
//   - neroli_retrieval_indexed_rules: Rules currently held in the vector index
type RetrievalMetrics struct {
	// Total query count
	queriesTotal *prometheus.CounterVec

	// Query duration histogram
	queryDuration *prometheus.HistogramVec

	// Permanent downgrades to keyword mode
	downgradesTotal prometheus.Counter

	// Rules in the vector index
	indexedRules prometheus.Gauge
}

// NewRetrievalMetrics creates and registers retrieval metrics with the
// provided registry.
func NewRetrievalMetrics(registry *prometheus.Registry) *RetrievalMetrics {
	rm := &RetrievalMetrics{
		queriesTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemRetrieval,
				Name:      "queries_total",
				Help:      "Total number of rule retrieval queries served",
			},
			[]string{"mode"},
		),

		queryDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemRetrieval,
				Name:      "query_duration_seconds",
				Help:      "Duration of rule retrieval queries in seconds",
				// Keyword and TF-IDF queries finish in microseconds;
				// remote embedding calls can take seconds.
				Buckets: prometheus.ExponentialBuckets(0.0001, 2, 16), // 100µs to ~3.3s
			},
			[]string{"mode"},
		),

		downgradesTotal: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemRetrieval,
				Name:      "downgrades_total",
				Help:      "Total number of permanent downgrades from vector to keyword retrieval",
			},
		),

		indexedRules: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystemRetrieval,
				Name:      "indexed_rules",
				Help:      "Number of physiological rules currently in the vector index",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.queriesTotal,
		rm.queryDuration,
		rm.downgradesTotal,
		rm.indexedRules,
	)

	return rm
}

// RecordQuery records a completed retrieval query.
//
// Parameters:
//   - mode: Mode that served the query ("vector", "keyword")
//   - duration: Query duration
func (rm *RetrievalMetrics) RecordQuery(mode string, duration time.Duration) {
	rm.queriesTotal.WithLabelValues(mode).Inc()
	rm.queryDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordDowngrade records a permanent downgrade to keyword retrieval.
func (rm *RetrievalMetrics) RecordDowngrade() {
	rm.downgradesTotal.Inc()
}

// UpdateIndexedRules updates the indexed rule count gauge.
func (rm *RetrievalMetrics) UpdateIndexedRules(count int) {
	rm.indexedRules.Set(float64(count))
}
