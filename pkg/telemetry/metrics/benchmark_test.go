package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Benchmark_Collector_RecordValidation benchmarks validation recording
func Benchmark_Collector_RecordValidation(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordValidation("eau_de_parfum", true, 800*time.Microsecond)
	}
}

// Benchmark_Collector_RecordValidation_Parallel benchmarks parallel validation recording
func Benchmark_Collector_RecordValidation_Parallel(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			collector.RecordValidation("eau_de_parfum", true, 800*time.Microsecond)
		}
	})
}

// Benchmark_Collector_RecordRetrievalQuery benchmarks retrieval query recording
func Benchmark_Collector_RecordRetrievalQuery(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordRetrievalQuery("vector", 3*time.Millisecond)
	}
}

// Benchmark_Collector_RecordHTTPRequest benchmarks HTTP request recording
func Benchmark_Collector_RecordHTTPRequest(b *testing.B) {
	cfg := testConfig()
	registry := prometheus.NewRegistry()
	collector := NewCollector(cfg, registry)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		collector.RecordHTTPRequest("POST", "/api/v1/compliance/validate", "200", 12*time.Millisecond)
	}
}

// Benchmark_CardinalityLimiter_Allow benchmarks the limiter hot path
func Benchmark_CardinalityLimiter_Allow(b *testing.B) {
	limiter := NewCardinalityLimiter(10000)
	limiter.Allow("validation:eau_de_parfum")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		limiter.Allow("validation:eau_de_parfum")
	}
}
