// Package telemetry provides observability for Neroli.
//
// # Overview
//
// The telemetry package implements structured logging and Prometheus metrics
// for the compliance validator and rule retrieval engine. It provides
// visibility into runtime behavior while keeping per-request overhead low.
//
// # Components
//
//   - logging: Structured logging built on log/slog
//   - metrics: Prometheus metrics collection
//
// # Usage
//
//	// Build the logger from configuration
//	logger, err := logging.New(logging.Config{
//		Level:  cfg.Telemetry.Logging.Level,
//		Format: cfg.Telemetry.Logging.Format,
//	})
//
//	// Record metrics
//	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)
//	collector.RecordValidation("eau_de_parfum", true, 800*time.Microsecond)
package telemetry
