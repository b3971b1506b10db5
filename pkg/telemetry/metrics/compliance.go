package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ComplianceMetrics tracks metrics related to formula compliance validation.
//
// Metrics:
//   - neroli_compliance_validations_total: Validation count by category and result
//   - neroli_compliance_violations_total: Violation count by type and severity
//   - neroli_compliance_warnings_total: Non-blocking warning count by type
//   - neroli_compliance_validation_duration_seconds: Validation duration histogram
type ComplianceMetrics struct {
	// Total validation count
	validationsTotal *prometheus.CounterVec

	// Total violation count
	violationsTotal *prometheus.CounterVec

	// Total warning count
	warningsTotal *prometheus.CounterVec

	// Validation duration histogram
	validationDuration *prometheus.HistogramVec
}

// NewComplianceMetrics creates and registers compliance metrics with the
// provided registry.
func NewComplianceMetrics(registry *prometheus.Registry) *ComplianceMetrics {
	cm := &ComplianceMetrics{
		validationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemCompliance,
				Name:      "validations_total",
				Help:      "Total number of formula validations performed",
			},
			[]string{"category", "compliant"},
		),

		violationsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemCompliance,
				Name:      "violations_total",
				Help:      "Total number of compliance violations detected",
			},
			[]string{"type", "severity"},
		),

		warningsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystemCompliance,
				Name:      "warnings_total",
				Help:      "Total number of non-blocking compliance warnings",
			},
			[]string{"type"},
		),

		validationDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: subsystemCompliance,
				Name:      "validation_duration_seconds",
				Help:      "Duration of formula validations in seconds",
				Buckets:   prometheus.ExponentialBuckets(0.000001, 2, 15), // 1µs to ~16ms
			},
			[]string{"category"},
		),
	}

	// Register all metrics
	registry.MustRegister(
		cm.validationsTotal,
		cm.violationsTotal,
		cm.warningsTotal,
		cm.validationDuration,
	)

	return cm
}

// RecordValidation records a completed validation.
//
// Parameters:
//   - category: Product category the formula was validated for
//   - compliant: Overall result
//   - duration: Validation duration
func (cm *ComplianceMetrics) RecordValidation(category string, compliant bool, duration time.Duration) {
	cm.validationsTotal.WithLabelValues(category, strconv.FormatBool(compliant)).Inc()
	cm.validationDuration.WithLabelValues(category).Observe(duration.Seconds())
}

// RecordViolation records a single detected violation.
//
// Parameters:
//   - violationType: Violation type ("restricted_ingredient", "phototoxicity",
//     "over_limit")
//   - severity: Violation severity ("critical", "warning")
func (cm *ComplianceMetrics) RecordViolation(violationType, severity string) {
	cm.violationsTotal.WithLabelValues(violationType, severity).Inc()
}

// RecordWarning records a non-blocking warning.
func (cm *ComplianceMetrics) RecordWarning(warningType string) {
	cm.warningsTotal.WithLabelValues(warningType).Inc()
}
