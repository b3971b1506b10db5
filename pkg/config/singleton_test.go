package config

import "testing"

func TestSingleton(t *testing.T) {
	// The singleton is package-global state, so this test owns its
	// full lifecycle and restores it afterwards.
	original := GetConfig()
	defer SetConfig(original)

	SetConfig(nil)
	if GetConfig() != nil {
		t.Fatal("expected nil config before initialization")
	}

	t.Run("MustGetConfig panics when uninitialized", func(t *testing.T) {
		defer func() {
			if recover() == nil {
				t.Error("expected panic from MustGetConfig")
			}
		}()
		MustGetConfig()
	})

	cfg := DefaultConfig()
	SetConfig(cfg)

	if got := GetConfig(); got != cfg {
		t.Error("GetConfig did not return the stored instance")
	}
	if got := MustGetConfig(); got != cfg {
		t.Error("MustGetConfig did not return the stored instance")
	}
}

func TestInitialize(t *testing.T) {
	original := GetConfig()
	defer SetConfig(original)

	path := writeConfigFile(t, `
server:
  listen_address: "127.0.0.1:6060"
`)

	if err := Initialize(path); err != nil {
		t.Fatalf("Initialize() error = %v", err)
	}

	cfg := GetConfig()
	if cfg == nil {
		t.Fatal("expected config after Initialize")
	}

	// Later calls are no-ops even with a different path.
	if err := Initialize("/nonexistent/config.yaml"); err != nil {
		t.Errorf("repeated Initialize() error = %v", err)
	}
	if GetConfig() != cfg {
		t.Error("repeated Initialize replaced the config")
	}
}
