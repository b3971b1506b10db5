// Package metrics provides Prometheus metrics collection for Neroli.
//
// # Overview
//
// The metrics package implements Prometheus metrics for monitoring formula
// compliance validation, physiological rule retrieval, and HTTP request
// processing. All metrics share the "neroli" namespace and are grouped into
// per-component subsystems.
//
// # Metrics Categories
//
//   - Compliance Metrics: Validation count, result split, violation and
//     warning counts, validation duration
//   - Retrieval Metrics: Query count by mode, query duration, downgrade
//     count, indexed rule gauge
//   - HTTP Metrics: Request count, duration, and in-flight gauge
//
// # Usage
//
//	// Create collector
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//
//	// Record compliance metrics
//	collector.RecordValidation("eau_de_parfum", false, 800*time.Microsecond)
//	collector.RecordViolation("phototoxicity", "critical")
//
//	// Record retrieval metrics
//	collector.RecordRetrievalQuery("vector", 3*time.Millisecond)
//
//	// Expose the endpoint
//	http.Handle("/metrics", collector.Handler())
//
// All Record methods are no-ops when metrics are disabled in the
// configuration, so call sites never need their own gating.
//
// # Prometheus Endpoint
//
// All metrics are exposed in standard Prometheus format:
//
//	# HELP neroli_compliance_validations_total Total number of formula validations performed
//	# TYPE neroli_compliance_validations_total counter
//	neroli_compliance_validations_total{category="eau_de_parfum",compliant="false"} 12
//
// # Cardinality Management
//
// Label values that originate in request payloads (product categories,
// unmatched URL paths) are aggregated into "other" once 10,000 unique label
// sets have been seen, preventing unbounded memory growth on hostile or
// misbehaving input.
package metrics
