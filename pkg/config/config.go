package config

import "time"

// Config is the root configuration structure for Neroli. It contains
// all configuration sections for the HTTP server, the regulatory and
// rule tables, the retrieval engine, the ingredient catalog, audit
// recording, and telemetry.
type Config struct {
	// Server contains HTTP API server configuration including listen
	// address, timeouts, and header limits.
	Server ServerConfig `yaml:"server"`

	// Tables contains the locations of the regulatory table and the
	// physiological rule table, plus hot-reload settings.
	Tables TablesConfig `yaml:"tables"`

	// Retrieval contains configuration for the rule retrieval engine
	// including embedder selection and remote embedding credentials.
	Retrieval RetrievalConfig `yaml:"retrieval"`

	// Catalog contains configuration for the ingredient catalog
	// database.
	Catalog CatalogConfig `yaml:"catalog"`

	// Audit contains configuration for compliance audit recording
	// including storage location and retention.
	Audit AuditConfig `yaml:"audit"`

	// Telemetry contains configuration for observability including
	// logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP API server.
type ServerConfig struct {
	// ListenAddress is the address and port to listen on.
	// Format: "host:port" (e.g., "127.0.0.1:8630", "0.0.0.0:8630").
	// Default: "127.0.0.1:8630"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire
	// request, including the body.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes
	// of the response.
	// Default: 30s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next
	// request when keep-alives are enabled.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for graceful
	// shutdown before in-flight requests are abandoned.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes caps the size of request headers.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`
}

// TablesConfig locates the JSON tables the validator and the
// retrieval engine are built from.
type TablesConfig struct {
	// RegulatoryPath is the path to the regulatory table holding
	// restricted substances, allergen thresholds, phototoxicity
	// limits, and total allergen caps. A missing file yields empty
	// tables; a malformed one is a startup error.
	// Default: "config/regulatory_tables.json"
	RegulatoryPath string `yaml:"regulatory_path"`

	// RulesPath is the path to the physiological rule table consumed
	// by the retrieval engine. Same missing/malformed semantics as
	// RegulatoryPath.
	// Default: "config/physiological_rules.json"
	RulesPath string `yaml:"rules_path"`

	// Watch enables hot reload: table file changes rebuild the
	// validator and retrieval engine and swap them in atomically.
	// Default: false
	Watch bool `yaml:"watch"`

	// Debounce is how long the watcher waits after the last file
	// event before reloading, coalescing editor write bursts.
	// Default: 100ms
	Debounce time.Duration `yaml:"debounce"`
}

// RetrievalConfig configures the rule retrieval engine.
type RetrievalConfig struct {
	// Embedder selects the embedding backend for vector retrieval.
	// Options: "tfidf" (local, corpus-fitted), "openai"
	// (OpenAI-compatible HTTP API), "none" (keyword matching only).
	// Default: "tfidf"
	Embedder string `yaml:"embedder"`

	// TopK is the default number of rules returned per retrieval.
	// Default: 5
	TopK int `yaml:"top_k"`

	// OpenAI configures the remote embedding client. Only used when
	// Embedder is "openai".
	OpenAI OpenAIConfig `yaml:"openai"`
}

// OpenAIConfig contains settings for the OpenAI-compatible embedding
// client.
type OpenAIConfig struct {
	// BaseURL is the API root.
	// Default: "https://api.openai.com/v1"
	BaseURL string `yaml:"base_url"`

	// APIKeyEnv names the environment variable holding the API key.
	// The key itself never appears in configuration files.
	// Default: "OPENAI_API_KEY"
	APIKeyEnv string `yaml:"api_key_env"`

	// Model is the embedding model name.
	// Default: "text-embedding-3-small"
	Model string `yaml:"model"`

	// Timeout bounds each embedding request.
	// Default: 30s
	Timeout time.Duration `yaml:"timeout"`

	// MaxRetries caps retry attempts per request.
	// Default: 5
	MaxRetries int `yaml:"max_retries"`
}

// CatalogConfig configures the ingredient catalog database.
type CatalogConfig struct {
	// Enabled controls whether the catalog is opened at startup.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the SQLite database file for the catalog.
	// Default: "data/catalog.db"
	Path string `yaml:"path"`
}

// IsEnabled reports the effective enabled state after defaults.
func (c CatalogConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// AuditConfig configures compliance audit recording.
type AuditConfig struct {
	// Enabled controls whether validation and retrieval requests are
	// recorded.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// SQLitePath is the SQLite database file for audit records.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// Retention controls pruning of old audit records.
	Retention RetentionConfig `yaml:"retention"`
}

// IsEnabled reports the effective enabled state after defaults.
func (c AuditConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}

// RetentionConfig controls audit record pruning.
type RetentionConfig struct {
	// Days is how long records are kept. Zero disables age-based
	// pruning.
	// Default: 90
	Days int `yaml:"days"`

	// Schedule is the cron expression for the pruning job.
	// Default: "0 3 * * *" (daily at 03:00)
	Schedule string `yaml:"schedule"`

	// MaxRecords caps the number of stored records. Zero means
	// unlimited.
	// Default: 0
	MaxRecords int64 `yaml:"max_records"`
}

// TelemetryConfig contains observability configuration.
type TelemetryConfig struct {
	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics configures the Prometheus endpoint.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	// Level is the minimum level emitted.
	// Options: "debug", "info", "warn", "error"
	// Default: "info"
	Level string `yaml:"level"`

	// Format selects the output encoding.
	// Options: "json", "text"
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig configures Prometheus metrics exposure.
type MetricsConfig struct {
	// Enabled controls whether metrics are collected and served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the HTTP path the metrics handler is mounted at.
	// Default: "/metrics"
	Path string `yaml:"path"`
}

// IsEnabled reports the effective enabled state after defaults.
func (c MetricsConfig) IsEnabled() bool {
	return c.Enabled != nil && *c.Enabled
}
