// Package config provides configuration management for Neroli.
//
// This package handles loading, validating, and managing configuration
// from YAML files with environment variable overrides. It provides a
// type-safe configuration system with validation and sensible
// defaults.
//
// # Configuration Loading
//
// Configuration can be loaded in two ways:
//
//  1. From a YAML file only:
//     cfg, err := config.LoadConfig("config.yaml")
//
//  2. From a YAML file with environment variable overrides:
//     cfg, err := config.LoadConfigWithEnvOverrides("config.yaml")
//
// DefaultConfig returns an all-defaults configuration for running
// without a file at all.
//
// # Environment Variable Overrides
//
// Environment variables follow the naming convention
// NEROLI_SECTION_FIELD. For example:
//
//   - NEROLI_SERVER_LISTEN_ADDRESS overrides server.listen_address
//   - NEROLI_TABLES_REGULATORY_PATH overrides tables.regulatory_path
//   - NEROLI_TELEMETRY_LOGGING_LEVEL overrides telemetry.logging.level
//
// Environment variables always take precedence over file-based
// configuration.
//
// # Configuration Precedence
//
// Configuration values are applied in the following order (later
// overrides earlier):
//
//  1. Default values (defined in defaults.go)
//  2. Values from YAML file
//  3. Environment variable overrides
//  4. Validation (fails fast if invalid)
//
// # Validation
//
// All configuration is validated automatically during loading.
// Validation errors include field paths and helpful messages:
//
//	configuration validation failed with 2 errors:
//	  - server.listen_address: listen address is required
//	  - retrieval.embedder: invalid embedder "word2vec": must be 'tfidf', 'openai', or 'none'
//
// # Example Configuration
//
// Here is a minimal configuration file:
//
//	server:
//	  listen_address: "127.0.0.1:8630"
//
//	tables:
//	  regulatory_path: "config/regulatory_tables.json"
//	  rules_path: "config/physiological_rules.json"
//	  watch: true
//
//	retrieval:
//	  embedder: "tfidf"
//	  top_k: 5
//
//	audit:
//	  enabled: true
//	  sqlite_path: "data/audit.db"
//
//	telemetry:
//	  logging:
//	    level: "info"
//	    format: "json"
package config
