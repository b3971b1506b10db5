package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RequestMetrics tracks metrics related to HTTP request processing.
//
// Metrics:
//   - neroli_http_requests_total: Request count by method, path, status
//   - neroli_http_request_duration_seconds: Request duration histogram
//   - neroli_http_requests_in_flight: Requests currently being served
type RequestMetrics struct {
	// Total request count
	requestsTotal *prometheus.CounterVec

	// Request duration histogram
	requestDuration *prometheus.HistogramVec

	// In-flight request gauge
	inFlight prometheus.Gauge
}

// NewRequestMetrics creates and registers HTTP request metrics with the
// provided registry.
func NewRequestMetrics(registry *prometheus.Registry) *RequestMetrics {
	rm := &RequestMetrics{
		requestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "requests_total",
				Help:      "Total number of HTTP requests processed",
			},
			[]string{"method", "path", "status"},
		),

		requestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "path"},
		),

		inFlight: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Subsystem: subsystemHTTP,
				Name:      "requests_in_flight",
				Help:      "Number of HTTP requests currently being served",
			},
		),
	}

	// Register all metrics
	registry.MustRegister(
		rm.requestsTotal,
		rm.requestDuration,
		rm.inFlight,
	)

	return rm
}

// RecordRequest records metrics for a completed HTTP request.
//
// Parameters:
//   - method: HTTP method
//   - path: Route pattern
//   - status: HTTP status code as a string
//   - duration: Request duration
func (rm *RequestMetrics) RecordRequest(method, path, status string, duration time.Duration) {
	rm.requestsTotal.WithLabelValues(method, path, status).Inc()
	rm.requestDuration.WithLabelValues(method, path).Observe(duration.Seconds())
}

// IncInFlight increments the in-flight request gauge.
func (rm *RequestMetrics) IncInFlight() {
	rm.inFlight.Inc()
}

// DecInFlight decrements the in-flight request gauge.
func (rm *RequestMetrics) DecInFlight() {
	rm.inFlight.Dec()
}
