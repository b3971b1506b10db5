package config

import (
	"strings"
	"testing"
	"time"
)

// validConfig returns a fully-defaulted configuration for tests to
// break one field at a time.
func validConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}

func TestValidate_Valid(t *testing.T) {
	if err := Validate(validConfig()); err != nil {
		t.Errorf("expected valid config, got: %v", err)
	}
}

func TestValidate_Server(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty listen address",
			mutate:    func(c *Config) { c.Server.ListenAddress = "" },
			wantField: "server.listen_address",
		},
		{
			name:      "negative read timeout",
			mutate:    func(c *Config) { c.Server.ReadTimeout = -time.Second },
			wantField: "server.read_timeout",
		},
		{
			name:      "negative write timeout",
			mutate:    func(c *Config) { c.Server.WriteTimeout = -time.Second },
			wantField: "server.write_timeout",
		},
		{
			name:      "excessive header bytes",
			mutate:    func(c *Config) { c.Server.MaxHeaderBytes = 100 * 1024 * 1024 },
			wantField: "server.max_header_bytes",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assertFieldError(t, Validate(cfg), tt.wantField)
		})
	}
}

func TestValidate_Tables(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "empty regulatory path",
			mutate:    func(c *Config) { c.Tables.RegulatoryPath = "" },
			wantField: "tables.regulatory_path",
		},
		{
			name:      "empty rules path",
			mutate:    func(c *Config) { c.Tables.RulesPath = "" },
			wantField: "tables.rules_path",
		},
		{
			name:      "negative debounce",
			mutate:    func(c *Config) { c.Tables.Debounce = -time.Millisecond },
			wantField: "tables.debounce",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assertFieldError(t, Validate(cfg), tt.wantField)
		})
	}
}

func TestValidate_Retrieval(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "unknown embedder",
			mutate:    func(c *Config) { c.Retrieval.Embedder = "word2vec" },
			wantField: "retrieval.embedder",
		},
		{
			name:      "negative top k",
			mutate:    func(c *Config) { c.Retrieval.TopK = -1 },
			wantField: "retrieval.top_k",
		},
		{
			name:      "excessive top k",
			mutate:    func(c *Config) { c.Retrieval.TopK = 5000 },
			wantField: "retrieval.top_k",
		},
		{
			name: "openai without key env",
			mutate: func(c *Config) {
				c.Retrieval.Embedder = "openai"
				c.Retrieval.OpenAI.APIKeyEnv = ""
			},
			wantField: "retrieval.openai.api_key_env",
		},
		{
			name: "openai with excessive retries",
			mutate: func(c *Config) {
				c.Retrieval.Embedder = "openai"
				c.Retrieval.OpenAI.MaxRetries = 50
			},
			wantField: "retrieval.openai.max_retries",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assertFieldError(t, Validate(cfg), tt.wantField)
		})
	}

	t.Run("keyword-only needs no openai settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Retrieval.Embedder = "none"
		cfg.Retrieval.OpenAI.APIKeyEnv = ""
		if err := Validate(cfg); err != nil {
			t.Errorf("expected valid config, got: %v", err)
		}
	})
}

func TestValidate_Audit(t *testing.T) {
	t.Run("enabled without path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Audit.SQLitePath = ""
		assertFieldError(t, Validate(cfg), "audit.sqlite_path")
	})

	t.Run("disabled needs no path", func(t *testing.T) {
		cfg := validConfig()
		cfg.Audit.Enabled = boolPtr(false)
		cfg.Audit.SQLitePath = ""
		cfg.Audit.Retention.Schedule = ""
		if err := Validate(cfg); err != nil {
			t.Errorf("expected valid config, got: %v", err)
		}
	})

	t.Run("negative retention days", func(t *testing.T) {
		cfg := validConfig()
		cfg.Audit.Retention.Days = -1
		assertFieldError(t, Validate(cfg), "audit.retention.days")
	})
}

func TestValidate_Telemetry(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*Config)
		wantField string
	}{
		{
			name:      "invalid logging level",
			mutate:    func(c *Config) { c.Telemetry.Logging.Level = "loud" },
			wantField: "telemetry.logging.level",
		},
		{
			name:      "invalid logging format",
			mutate:    func(c *Config) { c.Telemetry.Logging.Format = "xml" },
			wantField: "telemetry.logging.format",
		},
		{
			name:      "metrics path without slash",
			mutate:    func(c *Config) { c.Telemetry.Metrics.Path = "metrics" },
			wantField: "telemetry.metrics.path",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(cfg)
			assertFieldError(t, Validate(cfg), tt.wantField)
		})
	}
}

func TestValidate_CollectsAllErrors(t *testing.T) {
	cfg := validConfig()
	cfg.Server.ListenAddress = ""
	cfg.Retrieval.Embedder = "word2vec"
	cfg.Telemetry.Logging.Level = "loud"

	err := Validate(cfg)
	if err == nil {
		t.Fatal("expected validation errors")
	}

	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T", err)
	}
	if len(verr.Errors) != 3 {
		t.Errorf("expected 3 errors, got %d: %v", len(verr.Errors), verr)
	}
}

func assertFieldError(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatalf("expected error for field %s", field)
	}
	verr, ok := err.(ValidationError)
	if !ok {
		t.Fatalf("expected ValidationError, got %T: %v", err, err)
	}
	for _, fe := range verr.Errors {
		if fe.Field == field {
			return
		}
	}
	t.Errorf("expected error for field %s, got: %v", field, err)
}

func TestValidationError_Message(t *testing.T) {
	single := ValidationError{Errors: []FieldError{
		{Field: "server.listen_address", Message: "listen address is required"},
	}}
	if !strings.Contains(single.Error(), "server.listen_address: listen address is required") {
		t.Errorf("unexpected single-error message: %s", single.Error())
	}

	multi := ValidationError{Errors: []FieldError{
		{Field: "a", Message: "x"},
		{Field: "b", Message: "y"},
	}}
	if !strings.Contains(multi.Error(), "2 errors") {
		t.Errorf("unexpected multi-error message: %s", multi.Error())
	}
}
