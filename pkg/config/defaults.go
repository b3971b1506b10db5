package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "127.0.0.1:8630"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 30 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576 // 1MB

	// Table defaults
	DefaultRegulatoryPath = "config/regulatory_tables.json"
	DefaultRulesPath      = "config/physiological_rules.json"
	DefaultTablesWatch    = false
	DefaultTablesDebounce = 100 * time.Millisecond

	// Retrieval defaults
	DefaultEmbedder         = "tfidf"
	DefaultTopK             = 5
	DefaultOpenAIBaseURL    = "https://api.openai.com/v1"
	DefaultOpenAIKeyEnv     = "OPENAI_API_KEY"
	DefaultOpenAIModel      = "text-embedding-3-small"
	DefaultOpenAITimeout    = 30 * time.Second
	DefaultOpenAIMaxRetries = 5

	// Catalog defaults
	DefaultCatalogEnabled = true
	DefaultCatalogPath    = "data/catalog.db"

	// Audit defaults
	DefaultAuditEnabled       = true
	DefaultAuditSQLitePath    = "data/audit.db"
	DefaultRetentionDays      = 90
	DefaultRetentionSchedule  = "0 3 * * *"
	DefaultRetentionMaxRecord = int64(0)

	// Telemetry defaults
	DefaultLoggingLevel   = "info"
	DefaultLoggingFormat  = "json"
	DefaultMetricsEnabled = true
	DefaultPrometheusPath = "/metrics"
)

// ApplyDefaults applies default values to a Config struct. It sets
// defaults for any fields that have zero values. This function is
// idempotent and safe to call multiple times.
func ApplyDefaults(cfg *Config) {
	// Server defaults
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}

	// Table defaults
	if cfg.Tables.RegulatoryPath == "" {
		cfg.Tables.RegulatoryPath = DefaultRegulatoryPath
	}
	if cfg.Tables.RulesPath == "" {
		cfg.Tables.RulesPath = DefaultRulesPath
	}
	if cfg.Tables.Debounce == 0 {
		cfg.Tables.Debounce = DefaultTablesDebounce
	}

	// Retrieval defaults
	if cfg.Retrieval.Embedder == "" {
		cfg.Retrieval.Embedder = DefaultEmbedder
	}
	if cfg.Retrieval.TopK == 0 {
		cfg.Retrieval.TopK = DefaultTopK
	}
	if cfg.Retrieval.OpenAI.BaseURL == "" {
		cfg.Retrieval.OpenAI.BaseURL = DefaultOpenAIBaseURL
	}
	if cfg.Retrieval.OpenAI.APIKeyEnv == "" {
		cfg.Retrieval.OpenAI.APIKeyEnv = DefaultOpenAIKeyEnv
	}
	if cfg.Retrieval.OpenAI.Model == "" {
		cfg.Retrieval.OpenAI.Model = DefaultOpenAIModel
	}
	if cfg.Retrieval.OpenAI.Timeout == 0 {
		cfg.Retrieval.OpenAI.Timeout = DefaultOpenAITimeout
	}
	if cfg.Retrieval.OpenAI.MaxRetries == 0 {
		cfg.Retrieval.OpenAI.MaxRetries = DefaultOpenAIMaxRetries
	}

	// Catalog defaults. Enabled is a pointer so an explicit false in
	// the file survives defaulting.
	if cfg.Catalog.Enabled == nil {
		cfg.Catalog.Enabled = boolPtr(DefaultCatalogEnabled)
	}
	if cfg.Catalog.Path == "" {
		cfg.Catalog.Path = DefaultCatalogPath
	}

	// Audit defaults
	if cfg.Audit.Enabled == nil {
		cfg.Audit.Enabled = boolPtr(DefaultAuditEnabled)
	}
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Audit.Retention.Days == 0 {
		cfg.Audit.Retention.Days = DefaultRetentionDays
	}
	if cfg.Audit.Retention.Schedule == "" {
		cfg.Audit.Retention.Schedule = DefaultRetentionSchedule
	}
	if cfg.Audit.Retention.MaxRecords == 0 {
		cfg.Audit.Retention.MaxRecords = DefaultRetentionMaxRecord
	}

	// Telemetry defaults
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		cfg.Telemetry.Metrics.Enabled = boolPtr(DefaultMetricsEnabled)
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultPrometheusPath
	}
}

func boolPtr(b bool) *bool { return &b }
