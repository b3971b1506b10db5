package metrics

import (
	"fmt"
	"sync"
	"time"

	"aromatiq-hq/neroli/pkg/config"

	"github.com/prometheus/client_golang/prometheus"
)

// Namespace and subsystem prefixes for every metric emitted by Neroli.
const (
	namespace = "neroli"

	subsystemCompliance = "compliance"
	subsystemRetrieval  = "retrieval"
	subsystemHTTP       = "http"
)

// Collector is the main orchestrator for all Prometheus metrics in Neroli.
// It manages metric registration and provides a unified interface for
// recording metrics across all components.
//
// Recording is a no-op when metrics are disabled in the configuration, so
// callers never need to gate their own calls.
type Collector struct {
	config   *config.MetricsConfig
	registry *prometheus.Registry

	// Compliance validation metrics
	complianceMetrics *ComplianceMetrics

	// Rule retrieval metrics
	retrievalMetrics *RetrievalMetrics

	// HTTP request metrics
	requestMetrics *RequestMetrics

	// Cardinality tracking
	cardinalityLimiter *CardinalityLimiter
}

// NewCollector creates a new metrics collector with the specified configuration
// and Prometheus registry. If registry is nil, a fresh registry is created.
//
// Example:
//
//	cfg := config.DefaultConfig()
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
func NewCollector(cfg *config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	c := &Collector{
		config:             cfg,
		registry:           registry,
		cardinalityLimiter: NewCardinalityLimiter(10000), // Max 10K unique label sets
	}

	// Initialize metric subsystems
	c.complianceMetrics = NewComplianceMetrics(registry)
	c.retrievalMetrics = NewRetrievalMetrics(registry)
	c.requestMetrics = NewRequestMetrics(registry)

	return c
}

// RecordValidation records metrics for a completed compliance validation.
//
// Parameters:
//   - category: Product category (e.g., "eau_de_parfum", "body_lotion")
//   - compliant: Overall result of the validation
//   - duration: Validation duration
//
// Example:
//
//	collector.RecordValidation("eau_de_parfum", false, 800*time.Microsecond)
func (c *Collector) RecordValidation(category string, compliant bool, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}

	// Category is caller-supplied free text; aggregate overflow values
	// into "other" to keep cardinality bounded.
	labelSet := fmt.Sprintf("validation:%s", category)
	if !c.cardinalityLimiter.Allow(labelSet) {
		category = "other"
	}

	c.complianceMetrics.RecordValidation(category, compliant, duration)
}

// RecordViolation records a single compliance violation.
//
// Parameters:
//   - violationType: Violation type ("restricted_ingredient", "phototoxicity",
//     "over_limit")
//   - severity: Violation severity ("critical", "warning")
func (c *Collector) RecordViolation(violationType, severity string) {
	if !c.config.IsEnabled() {
		return
	}

	c.complianceMetrics.RecordViolation(violationType, severity)
}

// RecordComplianceWarning records a non-blocking compliance warning, such as
// the aggregate allergen load advisory.
func (c *Collector) RecordComplianceWarning(warningType string) {
	if !c.config.IsEnabled() {
		return
	}

	c.complianceMetrics.RecordWarning(warningType)
}

// RecordRetrievalQuery records metrics for a completed rule retrieval query.
//
// Parameters:
//   - mode: Retrieval mode that served the query ("vector", "keyword")
//   - duration: Query duration, including embedding time in vector mode
func (c *Collector) RecordRetrievalQuery(mode string, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}

	c.retrievalMetrics.RecordQuery(mode, duration)
}

// RecordRetrievalDowngrade records a permanent downgrade from vector to
// keyword retrieval.
func (c *Collector) RecordRetrievalDowngrade() {
	if !c.config.IsEnabled() {
		return
	}

	c.retrievalMetrics.RecordDowngrade()
}

// UpdateIndexedRules updates the gauge tracking how many physiological rules
// are held in the vector index.
func (c *Collector) UpdateIndexedRules(count int) {
	if !c.config.IsEnabled() {
		return
	}

	c.retrievalMetrics.UpdateIndexedRules(count)
}

// RecordHTTPRequest records metrics for a completed HTTP request.
//
// Parameters:
//   - method: HTTP method
//   - path: Route pattern (e.g., "/api/v1/compliance/validate")
//   - status: HTTP status code as a string
//   - duration: Request duration
func (c *Collector) RecordHTTPRequest(method, path, status string, duration time.Duration) {
	if !c.config.IsEnabled() {
		return
	}

	// Unmatched paths (scanner probes and the like) are unbounded;
	// collapse them once the limit is reached.
	labelSet := fmt.Sprintf("http:%s:%s", method, path)
	if !c.cardinalityLimiter.Allow(labelSet) {
		path = "other"
	}

	c.requestMetrics.RecordRequest(method, path, status, duration)
}

// IncInFlight increments the in-flight HTTP request gauge.
func (c *Collector) IncInFlight() {
	if !c.config.IsEnabled() {
		return
	}

	c.requestMetrics.IncInFlight()
}

// DecInFlight decrements the in-flight HTTP request gauge.
func (c *Collector) DecInFlight() {
	if !c.config.IsEnabled() {
		return
	}

	c.requestMetrics.DecInFlight()
}

// Registry returns the Prometheus registry used by this collector.
// This can be used to create an HTTP handler for the metrics endpoint:
//
//	http.Handle("/metrics", promhttp.HandlerFor(
//		collector.Registry(),
//		promhttp.HandlerOpts{},
//	))
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}

// CardinalityLimiter prevents metric cardinality explosion by limiting
// the number of unique label combinations per metric.
type CardinalityLimiter struct {
	maxCardinality int
	current        map[string]struct{}
	mu             sync.RWMutex
}

// NewCardinalityLimiter creates a new cardinality limiter with the specified
// maximum cardinality.
func NewCardinalityLimiter(maxCardinality int) *CardinalityLimiter {
	return &CardinalityLimiter{
		maxCardinality: maxCardinality,
		current:        make(map[string]struct{}),
	}
}

// Allow checks if a label set is allowed. Returns true if the label set
// already exists or if we haven't reached the cardinality limit yet.
// Returns false if adding this label set would exceed the limit.
func (cl *CardinalityLimiter) Allow(labelSet string) bool {
	cl.mu.RLock()
	if _, exists := cl.current[labelSet]; exists {
		cl.mu.RUnlock()
		return true
	}
	cl.mu.RUnlock()

	cl.mu.Lock()
	defer cl.mu.Unlock()

	// Double-check after acquiring write lock
	if _, exists := cl.current[labelSet]; exists {
		return true
	}

	if len(cl.current) >= cl.maxCardinality {
		return false
	}

	cl.current[labelSet] = struct{}{}
	return true
}

// Count returns the current cardinality.
func (cl *CardinalityLimiter) Count() int {
	cl.mu.RLock()
	defer cl.mu.RUnlock()
	return len(cl.current)
}
