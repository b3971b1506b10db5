package cli

import (
	"errors"
	"testing"
)

func TestConfigError(t *testing.T) {
	err := &ConfigError{
		Field:   "server.listen_address",
		Message: "missing required field",
	}

	expected := "config error in server.listen_address: missing required field"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestConfigErrorEmptyField(t *testing.T) {
	err := &ConfigError{Message: "failed to load config: file not found"}

	expected := "config error: failed to load config: file not found"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestNewConfigError(t *testing.T) {
	err := NewConfigError("audit.retention.days", "must not be negative")
	if err.Field != "audit.retention.days" {
		t.Errorf("Field = %q, want %q", err.Field, "audit.retention.days")
	}
	if err.Message != "must not be negative" {
		t.Errorf("Message = %q, want %q", err.Message, "must not be negative")
	}
}

func TestCommandError(t *testing.T) {
	underlyingErr := errors.New("formula is not compliant")
	err := &CommandError{
		Command: "validate",
		Err:     underlyingErr,
	}

	expected := "command validate failed: formula is not compliant"
	if err.Error() != expected {
		t.Errorf("Error() = %q, want %q", err.Error(), expected)
	}
}

func TestCommandErrorUnwrap(t *testing.T) {
	underlyingErr := errors.New("listen tcp: address in use")
	err := NewCommandError("serve", underlyingErr)

	if err.Unwrap() != underlyingErr {
		t.Errorf("Unwrap() = %v, want %v", err.Unwrap(), underlyingErr)
	}
	if !errors.Is(err, underlyingErr) {
		t.Error("errors.Is() should see through CommandError")
	}
}

func TestNewCommandError(t *testing.T) {
	underlyingErr := errors.New("test")
	err := NewCommandError("audit", underlyingErr)

	if err.Command != "audit" {
		t.Errorf("Command = %q, want %q", err.Command, "audit")
	}
	if err.Err != underlyingErr {
		t.Errorf("Err = %v, want %v", err.Err, underlyingErr)
	}
}
