package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified
// path. It applies default values, validates the configuration, and
// returns any errors. The configuration is not modified by environment
// variables; use LoadConfigWithEnvOverrides for that functionality.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// DefaultConfig returns a configuration with every field at its
// default value, for running without a configuration file.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and
// applies environment variable overrides. Environment variables follow
// the naming convention NEROLI_SECTION_FIELD (e.g.,
// NEROLI_SERVER_LISTEN_ADDRESS). Environment variables always take
// precedence over file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. Environment variables use the format
// NEROLI_SECTION_FIELD.
func applyEnvOverrides(cfg *Config) {
	// Server overrides
	if val := os.Getenv("NEROLI_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("NEROLI_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("NEROLI_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("NEROLI_SERVER_IDLE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.IdleTimeout = d
		}
	}
	if val := os.Getenv("NEROLI_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("NEROLI_SERVER_MAX_HEADER_BYTES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Server.MaxHeaderBytes = i
		}
	}

	// Table overrides
	if val := os.Getenv("NEROLI_TABLES_REGULATORY_PATH"); val != "" {
		cfg.Tables.RegulatoryPath = val
	}
	if val := os.Getenv("NEROLI_TABLES_RULES_PATH"); val != "" {
		cfg.Tables.RulesPath = val
	}
	if val := os.Getenv("NEROLI_TABLES_WATCH"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Tables.Watch = b
		}
	}
	if val := os.Getenv("NEROLI_TABLES_DEBOUNCE"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Tables.Debounce = d
		}
	}

	// Retrieval overrides
	if val := os.Getenv("NEROLI_RETRIEVAL_EMBEDDER"); val != "" {
		cfg.Retrieval.Embedder = val
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_TOP_K"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retrieval.TopK = i
		}
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_OPENAI_BASE_URL"); val != "" {
		cfg.Retrieval.OpenAI.BaseURL = val
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_OPENAI_API_KEY_ENV"); val != "" {
		cfg.Retrieval.OpenAI.APIKeyEnv = val
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_OPENAI_MODEL"); val != "" {
		cfg.Retrieval.OpenAI.Model = val
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_OPENAI_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Retrieval.OpenAI.Timeout = d
		}
	}
	if val := os.Getenv("NEROLI_RETRIEVAL_OPENAI_MAX_RETRIES"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Retrieval.OpenAI.MaxRetries = i
		}
	}

	// Catalog overrides
	if val := os.Getenv("NEROLI_CATALOG_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Catalog.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("NEROLI_CATALOG_PATH"); val != "" {
		cfg.Catalog.Path = val
	}

	// Audit overrides
	if val := os.Getenv("NEROLI_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("NEROLI_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}
	if val := os.Getenv("NEROLI_AUDIT_RETENTION_DAYS"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Audit.Retention.Days = i
		}
	}
	if val := os.Getenv("NEROLI_AUDIT_RETENTION_SCHEDULE"); val != "" {
		cfg.Audit.Retention.Schedule = val
	}
	if val := os.Getenv("NEROLI_AUDIT_RETENTION_MAX_RECORDS"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Audit.Retention.MaxRecords = i
		}
	}

	// Telemetry overrides
	if val := os.Getenv("NEROLI_TELEMETRY_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("NEROLI_TELEMETRY_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("NEROLI_TELEMETRY_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = boolPtr(b)
		}
	}
	if val := os.Getenv("NEROLI_TELEMETRY_METRICS_PATH"); val != "" {
		cfg.Telemetry.Metrics.Path = val
	}
}
