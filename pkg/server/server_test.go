package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/policy/manager"
)

const testRegulatoryTable = `{
  "restricted_substances": [
    {"name": "Musk Xylene", "cas": "81-15-2", "max_concentration_cat1": 0, "max_concentration_cat2": 0, "reason": "Banned nitromusk."},
    {"name": "Oakmoss Extract", "cas": "9000-50-4", "max_concentration_cat1": 0.1, "max_concentration_cat2": 0.5, "reason": "Strong sensitizer."}
  ],
  "allergens_declaration_required": [
    {"name": "Linalool", "cas": "78-70-6", "threshold_cat1": 0.001, "threshold_cat2": 0.01},
    {"name": "Limonene", "cas": "5989-27-5", "threshold_cat1": 0.001, "threshold_cat2": 0.01}
  ],
  "phototoxicity_limits": [
    {"name": "Bergamot Oil", "max_concentration_cat1": 0.4, "reason": "Bergapten content."}
  ]
}`

const testRuleTable = `{
  "rules": [
    {
      "id": "r-acid",
      "condition": {"parameter": "ph", "operator": "<", "value": 5.2},
      "target": "top_notes",
      "action": "increase_top_notes",
      "factor": 1.2,
      "reasoning": "Acidic skin evaporates fragrance faster"
    },
    {
      "id": "r-dry",
      "condition": {"parameter": "skin_type", "operator": "==", "value": "dry"},
      "target": "fixatives",
      "action": "add_fixatives",
      "reasoning": "Dry skin absorbs fragrance quickly"
    }
  ]
}`

// testConfig builds a config with both tables in a temp directory,
// keyword-only retrieval, and metrics disabled.
func testConfig(t *testing.T) *config.Config {
	t.Helper()

	dir := t.TempDir()
	cfg := config.DefaultConfig()
	cfg.Tables.RegulatoryPath = filepath.Join(dir, "regulatory_tables.json")
	cfg.Tables.RulesPath = filepath.Join(dir, "physiological_rules.json")
	cfg.Retrieval.Embedder = "none"
	disabled := false
	cfg.Telemetry.Metrics.Enabled = &disabled

	writeTestFile(t, cfg.Tables.RegulatoryPath, testRegulatoryTable)
	writeTestFile(t, cfg.Tables.RulesPath, testRuleTable)

	return cfg
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// newTestServer builds a server with loaded tables and the given extra
// dependencies. Pass a nil modify func for the plain setup.
func newTestServer(t *testing.T, modify func(*config.Config, *Dependencies)) *Server {
	t.Helper()

	cfg := testConfig(t)

	deps := Dependencies{}
	if modify != nil {
		modify(cfg, &deps)
	}

	m, err := manager.NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	if err := m.Load(); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	deps.Manager = m

	s, err := New(cfg, deps)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	return s
}

// doRequest runs one request through the full middleware chain and
// router.
func doRequest(t *testing.T, s *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}

	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

// decodeBody unmarshals a JSON response body.
func decodeBody(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.Unmarshal(w.Body.Bytes(), v); err != nil {
		t.Fatalf("failed to decode response body %q: %v", w.Body.String(), err)
	}
}

func TestNewValidation(t *testing.T) {
	cfg := testConfig(t)
	m, err := manager.NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}

	t.Run("nil config", func(t *testing.T) {
		if _, err := New(nil, Dependencies{Manager: m}); err == nil {
			t.Error("New(nil, ...) should fail")
		}
	})

	t.Run("nil manager", func(t *testing.T) {
		if _, err := New(cfg, Dependencies{}); err == nil {
			t.Error("New() without manager should fail")
		}
	})
}

func TestHandleHealth(t *testing.T) {
	t.Run("ok after load", func(t *testing.T) {
		s := newTestServer(t, nil)
		w := doRequest(t, s, http.MethodGet, "/healthz", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp healthResponse
		decodeBody(t, w, &resp)
		if resp.Status != "ok" {
			t.Errorf("Expected status %q, got %q", "ok", resp.Status)
		}
		if resp.UptimeSeconds < 0 {
			t.Errorf("Uptime should not be negative, got %f", resp.UptimeSeconds)
		}
		if resp.Tables.Generation != 1 {
			t.Errorf("Expected table generation 1, got %d", resp.Tables.Generation)
		}
	})

	t.Run("degraded before load", func(t *testing.T) {
		cfg := testConfig(t)
		m, err := manager.NewManager(cfg, nil)
		if err != nil {
			t.Fatalf("NewManager() error = %v", err)
		}
		s, err := New(cfg, Dependencies{Manager: m})
		if err != nil {
			t.Fatalf("New() error = %v", err)
		}

		w := doRequest(t, s, http.MethodGet, "/healthz", "")
		if w.Code != http.StatusServiceUnavailable {
			t.Fatalf("Expected status 503, got %d", w.Code)
		}

		var resp healthResponse
		decodeBody(t, w, &resp)
		if resp.Status != "degraded" {
			t.Errorf("Expected status %q, got %q", "degraded", resp.Status)
		}
	})
}

func TestRequestIDMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("generates request ID when not provided", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/healthz", "")

		id := w.Header().Get(RequestIDHeader)
		if id == "" {
			t.Error("Request ID should be set in response header")
		}
		if len(id) < 10 {
			t.Errorf("Request ID seems too short: %s", id)
		}
	})

	t.Run("uses provided request ID", func(t *testing.T) {
		customID := "custom-request-id-12345"
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		req.Header.Set(RequestIDHeader, customID)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if got := w.Header().Get(RequestIDHeader); got != customID {
			t.Errorf("Request ID = %v, want %v", got, customID)
		}
	})

	t.Run("error responses carry the request ID", func(t *testing.T) {
		customID := "err-correlation-id"
		req := httptest.NewRequest(http.MethodPost, "/api/v1/compliance/validate", strings.NewReader(`{"ingredients": []}`))
		req.Header.Set(RequestIDHeader, customID)
		w := httptest.NewRecorder()
		s.Handler().ServeHTTP(w, req)

		if w.Code != http.StatusBadRequest {
			t.Fatalf("Expected status 400, got %d", w.Code)
		}

		var resp errorResponse
		decodeBody(t, w, &resp)
		if resp.RequestID != customID {
			t.Errorf("Expected request ID %q in error body, got %q", customID, resp.RequestID)
		}
	})
}

func TestRecovererMiddleware(t *testing.T) {
	s := newTestServer(t, nil)

	panicking := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	})
	wrapped := s.recoverer(panicking)

	req := httptest.NewRequest(http.MethodGet, "/panics", nil)
	w := httptest.NewRecorder()
	wrapped.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Fatalf("Expected status 500 after panic, got %d", w.Code)
	}

	var resp errorResponse
	decodeBody(t, w, &resp)
	if resp.Error == "" {
		t.Error("Expected an error message in the panic response")
	}
}

func TestUnknownRoute(t *testing.T) {
	s := newTestServer(t, nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/nonexistent", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", w.Code)
	}
}

func TestRunAndShutdown(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config, deps *Dependencies) {
		cfg.Server.ListenAddress = "127.0.0.1:0"
		cfg.Server.ShutdownTimeout = 2 * time.Second
	})

	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx)
	}()

	// Give the listener a moment to come up, then stop it.
	deadline := time.Now().Add(2 * time.Second)
	for !s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if !s.IsRunning() {
		t.Fatal("Server did not report running")
	}

	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("Run() returned error on graceful shutdown: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run() did not return after cancel")
	}

	if s.IsRunning() {
		t.Error("Server should not report running after shutdown")
	}
}

func TestRunTwice(t *testing.T) {
	s := newTestServer(t, func(cfg *config.Config, deps *Dependencies) {
		cfg.Server.ListenAddress = "127.0.0.1:0"
	})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() { _ = s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for !s.IsRunning() && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}

	if err := s.Run(ctx); err == nil {
		t.Error("Second Run() should fail while the first is active")
	}
}
