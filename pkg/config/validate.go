package config

import (
	"fmt"
	"strings"
)

// FieldError represents a validation error for a specific
// configuration field.
type FieldError struct {
	// Field is the dotted path to the configuration field
	// (e.g., "server.listen_address").
	Field string

	// Message is a human-readable error message.
	Message string
}

// Error returns the error message for this field error.
func (e FieldError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationError represents one or more validation errors in a
// configuration. It implements the error interface and provides
// access to all field errors.
type ValidationError struct {
	// Errors contains all validation errors found in the configuration.
	Errors []FieldError
}

// Error returns a formatted string containing all validation errors.
func (e ValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "configuration validation failed"
	}
	if len(e.Errors) == 1 {
		return fmt.Sprintf("configuration validation failed: %s", e.Errors[0].Error())
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("configuration validation failed with %d errors:\n", len(e.Errors)))
	for _, err := range e.Errors {
		sb.WriteString(fmt.Sprintf("  - %s\n", err.Error()))
	}
	return sb.String()
}

// Validate validates the entire configuration and returns a
// ValidationError if any validation rules fail. It returns nil if the
// configuration is valid. All validation errors are collected and
// returned together.
func Validate(cfg *Config) error {
	var errs []FieldError

	errs = append(errs, validateServer(&cfg.Server)...)
	errs = append(errs, validateTables(&cfg.Tables)...)
	errs = append(errs, validateRetrieval(&cfg.Retrieval)...)
	errs = append(errs, validateCatalog(&cfg.Catalog)...)
	errs = append(errs, validateAudit(&cfg.Audit)...)
	errs = append(errs, validateTelemetry(&cfg.Telemetry)...)

	if len(errs) > 0 {
		return ValidationError{Errors: errs}
	}

	return nil
}

// validateServer validates server configuration.
func validateServer(cfg *ServerConfig) []FieldError {
	var errs []FieldError

	if cfg.ListenAddress == "" {
		errs = append(errs, FieldError{
			Field:   "server.listen_address",
			Message: "listen address is required",
		})
	}

	if cfg.ReadTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.read_timeout",
			Message: "read timeout must be positive",
		})
	}
	if cfg.WriteTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.write_timeout",
			Message: "write timeout must be positive",
		})
	}
	if cfg.IdleTimeout < 0 {
		errs = append(errs, FieldError{
			Field:   "server.idle_timeout",
			Message: "idle timeout must be positive",
		})
	}

	if cfg.MaxHeaderBytes < 0 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes must be non-negative",
		})
	}
	if cfg.MaxHeaderBytes > 10*1024*1024 {
		errs = append(errs, FieldError{
			Field:   "server.max_header_bytes",
			Message: "max header bytes exceeds reasonable limit (10MB)",
		})
	}

	return errs
}

// validateTables validates table configuration.
func validateTables(cfg *TablesConfig) []FieldError {
	var errs []FieldError

	if cfg.RegulatoryPath == "" {
		errs = append(errs, FieldError{
			Field:   "tables.regulatory_path",
			Message: "regulatory table path is required",
		})
	}
	if cfg.RulesPath == "" {
		errs = append(errs, FieldError{
			Field:   "tables.rules_path",
			Message: "rule table path is required",
		})
	}
	if cfg.Debounce < 0 {
		errs = append(errs, FieldError{
			Field:   "tables.debounce",
			Message: "debounce must be positive",
		})
	}

	return errs
}

// validateRetrieval validates retrieval configuration.
func validateRetrieval(cfg *RetrievalConfig) []FieldError {
	var errs []FieldError

	validEmbedders := map[string]bool{"tfidf": true, "openai": true, "none": true}
	if cfg.Embedder != "" && !validEmbedders[cfg.Embedder] {
		errs = append(errs, FieldError{
			Field:   "retrieval.embedder",
			Message: fmt.Sprintf("invalid embedder %q: must be 'tfidf', 'openai', or 'none'", cfg.Embedder),
		})
	}

	if cfg.TopK < 0 {
		errs = append(errs, FieldError{
			Field:   "retrieval.top_k",
			Message: "top k must be positive",
		})
	}
	if cfg.TopK > 1000 {
		errs = append(errs, FieldError{
			Field:   "retrieval.top_k",
			Message: "top k exceeds reasonable limit (1000)",
		})
	}

	if cfg.Embedder == "openai" {
		if cfg.OpenAI.APIKeyEnv == "" {
			errs = append(errs, FieldError{
				Field:   "retrieval.openai.api_key_env",
				Message: "API key environment variable name is required for the openai embedder",
			})
		}
		if cfg.OpenAI.Timeout < 0 {
			errs = append(errs, FieldError{
				Field:   "retrieval.openai.timeout",
				Message: "timeout must be positive",
			})
		}
		if cfg.OpenAI.MaxRetries < 0 {
			errs = append(errs, FieldError{
				Field:   "retrieval.openai.max_retries",
				Message: "max retries must be non-negative",
			})
		}
		if cfg.OpenAI.MaxRetries > 20 {
			errs = append(errs, FieldError{
				Field:   "retrieval.openai.max_retries",
				Message: "max retries exceeds reasonable limit (20)",
			})
		}
	}

	return errs
}

// validateCatalog validates catalog configuration.
func validateCatalog(cfg *CatalogConfig) []FieldError {
	var errs []FieldError

	if cfg.IsEnabled() && cfg.Path == "" {
		errs = append(errs, FieldError{
			Field:   "catalog.path",
			Message: "catalog path is required when the catalog is enabled",
		})
	}

	return errs
}

// validateAudit validates audit configuration.
func validateAudit(cfg *AuditConfig) []FieldError {
	var errs []FieldError

	if cfg.IsEnabled() && cfg.SQLitePath == "" {
		errs = append(errs, FieldError{
			Field:   "audit.sqlite_path",
			Message: "sqlite path is required when audit recording is enabled",
		})
	}
	if cfg.Retention.Days < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.days",
			Message: "retention days must be non-negative",
		})
	}
	if cfg.IsEnabled() && cfg.Retention.Schedule == "" {
		errs = append(errs, FieldError{
			Field:   "audit.retention.schedule",
			Message: "retention schedule is required when audit recording is enabled",
		})
	}
	if cfg.Retention.MaxRecords < 0 {
		errs = append(errs, FieldError{
			Field:   "audit.retention.max_records",
			Message: "max records must be non-negative",
		})
	}

	return errs
}

// validateTelemetry validates telemetry configuration.
func validateTelemetry(cfg *TelemetryConfig) []FieldError {
	var errs []FieldError

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if cfg.Logging.Level == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: "logging level is required",
		})
	} else if !validLevels[cfg.Logging.Level] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.level",
			Message: fmt.Sprintf("invalid logging level %q: must be 'debug', 'info', 'warn', or 'error'", cfg.Logging.Level),
		})
	}

	validFormats := map[string]bool{"json": true, "text": true}
	if cfg.Logging.Format == "" {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: "logging format is required",
		})
	} else if !validFormats[cfg.Logging.Format] {
		errs = append(errs, FieldError{
			Field:   "telemetry.logging.format",
			Message: fmt.Sprintf("invalid logging format %q: must be 'json' or 'text'", cfg.Logging.Format),
		})
	}

	if cfg.Metrics.IsEnabled() {
		if cfg.Metrics.Path == "" {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path is required when metrics are enabled",
			})
		} else if cfg.Metrics.Path[0] != '/' {
			errs = append(errs, FieldError{
				Field:   "telemetry.metrics.path",
				Message: "metrics path must start with /",
			})
		}
	}

	return errs
}
