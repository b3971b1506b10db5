package server

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/catalog"
	"aromatiq-hq/neroli/pkg/compliance"
	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/policy/manager"
	"aromatiq-hq/neroli/pkg/retrieval"
)

func TestHandleValidate(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("compliant formula", func(t *testing.T) {
		body := `{"ingredients": [{"name": "Iso E Super", "concentration": 10.0}], "product_category": "cat1"}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var report compliance.Report
		decodeBody(t, w, &report)
		if !report.IsCompliant {
			t.Errorf("Expected compliant report, got violations: %+v", report.Violations)
		}
		if report.ProductCategory != "cat1" {
			t.Errorf("Expected category cat1, got %s", report.ProductCategory)
		}
	})

	t.Run("banned substance", func(t *testing.T) {
		body := `{"ingredients": [{"name": "Musk Xylene", "concentration": 0.01}]}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var report compliance.Report
		decodeBody(t, w, &report)
		if report.IsCompliant {
			t.Error("Expected non-compliant report for banned substance")
		}
		if len(report.Violations) == 0 {
			t.Fatal("Expected at least one violation")
		}
		if report.Violations[0].Type != compliance.ViolationBanned {
			t.Errorf("Expected violation type %s, got %s", compliance.ViolationBanned, report.Violations[0].Type)
		}
	})

	t.Run("category defaults to cat1", func(t *testing.T) {
		body := `{"ingredients": [{"name": "Oakmoss Extract", "concentration": 0.3}]}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)

		var report compliance.Report
		decodeBody(t, w, &report)
		// 0.3% is over the 0.1% cat1 cap but under the 0.5% cat2 cap.
		if report.IsCompliant {
			t.Error("Expected cat1 default to flag 0.3% oakmoss")
		}
	})

	t.Run("empty ingredients", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", `{"ingredients": []}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("invalid category", func(t *testing.T) {
		body := `{"ingredients": [{"name": "Linalool", "concentration": 1.0}], "product_category": "cat9"}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("unknown field rejected", func(t *testing.T) {
		body := `{"ingredients": [{"name": "Linalool", "concentration": 1.0}], "produkt_category": "cat1"}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400 for unknown field, got %d", w.Code)
		}
	})

	t.Run("malformed body", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", `{not json`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleValidateBeforeLoad(t *testing.T) {
	cfg := testConfig(t)
	m, err := manager.NewManager(cfg, nil)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	s, err := New(cfg, Dependencies{Manager: m})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	body := `{"ingredients": [{"name": "Linalool", "concentration": 1.0}]}`
	w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected status 503 before tables load, got %d", w.Code)
	}
}

func TestHandleValidateRecordsAudit(t *testing.T) {
	store, err := audit.Open(filepath.Join(t.TempDir(), "audit.db"), nil)
	if err != nil {
		t.Fatalf("audit.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := newTestServer(t, func(cfg *config.Config, deps *Dependencies) {
		deps.Audit = store
	})

	body := `{"ingredients": [{"name": "Musk Xylene", "concentration": 0.01}], "product_category": "cat2"}`
	w := doRequest(t, s, http.MethodPost, "/api/v1/compliance/validate", body)
	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", w.Code)
	}

	records, err := store.List(context.Background(), &audit.Query{})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 audit record, got %d", len(records))
	}

	rec := records[0]
	if rec.Source != audit.SourceAPI {
		t.Errorf("Expected source %q, got %q", audit.SourceAPI, rec.Source)
	}
	if rec.Category != "cat2" {
		t.Errorf("Expected category cat2, got %s", rec.Category)
	}
	if rec.Compliant {
		t.Error("Expected non-compliant audit record")
	}
	if rec.Violations != 1 {
		t.Errorf("Expected 1 critical violation recorded, got %d", rec.Violations)
	}
	if rec.Summary == "" {
		t.Error("Expected a summary on the audit record")
	}
}

func TestHandleMaxAllowed(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name           string
		query          string
		wantStatus     int
		wantRestricted bool
		wantMax        float64
	}{
		{
			name:           "restricted ingredient cat1",
			query:          "?name=Oakmoss%20Extract&category=cat1",
			wantStatus:     http.StatusOK,
			wantRestricted: true,
			wantMax:        0.1,
		},
		{
			name:           "restricted ingredient cat2",
			query:          "?name=Oakmoss%20Extract&category=cat2",
			wantStatus:     http.StatusOK,
			wantRestricted: true,
			wantMax:        0.5,
		},
		{
			name:           "banned ingredient reports zero cap",
			query:          "?name=Musk%20Xylene",
			wantStatus:     http.StatusOK,
			wantRestricted: true,
			wantMax:        0,
		},
		{
			name:           "phototoxic ingredient",
			query:          "?name=Bergamot%20Oil&category=cat1",
			wantStatus:     http.StatusOK,
			wantRestricted: true,
			wantMax:        0.4,
		},
		{
			name:           "unrestricted ingredient",
			query:          "?name=Iso%20E%20Super",
			wantStatus:     http.StatusOK,
			wantRestricted: false,
			wantMax:        0,
		},
		{
			name:       "missing name",
			query:      "",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "invalid category",
			query:      "?name=Linalool&category=cat7",
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodGet, "/api/v1/compliance/max-allowed"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp maxAllowedResponse
			decodeBody(t, w, &resp)
			if resp.Restricted != tt.wantRestricted {
				t.Errorf("Restricted = %v, want %v", resp.Restricted, tt.wantRestricted)
			}
			if resp.MaxAllowed != tt.wantMax {
				t.Errorf("MaxAllowed = %v, want %v", resp.MaxAllowed, tt.wantMax)
			}
		})
	}
}

func TestHandleAllergen(t *testing.T) {
	s := newTestServer(t, nil)

	tests := []struct {
		name       string
		query      string
		wantStatus int
		want       bool
	}{
		{name: "listed allergen", query: "?name=Linalool", wantStatus: http.StatusOK, want: true},
		{name: "substring match", query: "?name=Linalool%20Oxide", wantStatus: http.StatusOK, want: true},
		{name: "not an allergen", query: "?name=Iso%20E%20Super", wantStatus: http.StatusOK, want: false},
		{name: "missing name", query: "", wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doRequest(t, s, http.MethodGet, "/api/v1/compliance/allergen"+tt.query, "")
			if w.Code != tt.wantStatus {
				t.Fatalf("Expected status %d, got %d", tt.wantStatus, w.Code)
			}
			if tt.wantStatus != http.StatusOK {
				return
			}

			var resp allergenResponse
			decodeBody(t, w, &resp)
			if resp.IsAllergen != tt.want {
				t.Errorf("IsAllergen = %v, want %v", resp.IsAllergen, tt.want)
			}
		})
	}
}

func TestHandleRuleSearch(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("matching profile", func(t *testing.T) {
		body := `{"profile": {"ph": 4.5}, "n": 5}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/search", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp ruleSearchResponse
		decodeBody(t, w, &resp)
		if resp.Mode != retrieval.ModeKeyword {
			t.Errorf("Expected mode %q, got %q", retrieval.ModeKeyword, resp.Mode)
		}
		if resp.Count != len(resp.Rules) {
			t.Errorf("Count %d does not match rules length %d", resp.Count, len(resp.Rules))
		}
		if len(resp.Rules) == 0 {
			t.Fatal("Expected at least one rule for acidic profile")
		}
		if resp.Rules[0].Rule.ID != "r-acid" {
			t.Errorf("Expected rule r-acid first, got %s", resp.Rules[0].Rule.ID)
		}
		if resp.Rules[0].RelevanceScore != 0.9 {
			t.Errorf("Expected keyword relevance 0.9, got %f", resp.Rules[0].RelevanceScore)
		}
	})

	t.Run("no matches returns empty list", func(t *testing.T) {
		body := `{"profile": {"ph": 7.0, "skin_type": "oily"}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/search", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp ruleSearchResponse
		decodeBody(t, w, &resp)
		if resp.Count != 0 {
			t.Errorf("Expected 0 rules, got %d", resp.Count)
		}
		if resp.Rules == nil {
			t.Error("Rules should serialize as an empty list, not null")
		}
	})

	t.Run("empty profile", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/search", `{"profile": {}}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleApplicableRules(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("both rules apply", func(t *testing.T) {
		body := `{"profile": {"ph": 4.5, "skin_type": "dry"}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/applicable", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp applicableResponse
		decodeBody(t, w, &resp)
		if resp.Count != 2 {
			t.Errorf("Expected 2 applicable rules, got %d", resp.Count)
		}
	})

	t.Run("one rule applies", func(t *testing.T) {
		body := `{"profile": {"ph": 6.0, "skin_type": "dry"}}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/applicable", body)

		var resp applicableResponse
		decodeBody(t, w, &resp)
		if resp.Count != 1 {
			t.Fatalf("Expected 1 applicable rule, got %d", resp.Count)
		}
		if resp.Rules[0].ID != "r-dry" {
			t.Errorf("Expected rule r-dry, got %s", resp.Rules[0].ID)
		}
	})

	t.Run("empty profile", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/rules/applicable", `{"profile": {}}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestHandleEEG(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("valid text", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/eeg", `{"text": "calm relaxing evening"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp map[string]interface{}
		decodeBody(t, w, &resp)
		for _, field := range []string{"valence", "arousal", "confidence", "emotion_label"} {
			if _, ok := resp[field]; !ok {
				t.Errorf("Expected field %q in EEG response", field)
			}
		}
	})

	t.Run("text too short", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/eeg", `{"text": "ab"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("whitespace only", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/eeg", `{"text": "    "}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestHandlePH(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("rgb sample", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/ph", `{"rgb": {"r": 255, "g": 160, "b": 20}}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp map[string]interface{}
		decodeBody(t, w, &resp)
		if resp["method"] != "color_analysis" {
			t.Errorf("Expected method color_analysis, got %v", resp["method"])
		}
	})

	t.Run("rgb out of range", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/ph", `{"rgb": {"r": 300, "g": 0, "b": 0}}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("skin type simulation", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/ph", `{"skin_type": "dry"}`)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp map[string]interface{}
		decodeBody(t, w, &resp)
		if resp["method"] != "simulated" {
			t.Errorf("Expected method simulated, got %v", resp["method"])
		}
	})

	t.Run("unknown skin type", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/ph", `{"skin_type": "metallic"}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})

	t.Run("neither input", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/signals/ph", `{}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}

func TestCatalogEndpoints(t *testing.T) {
	store, err := catalog.Open(filepath.Join(t.TempDir(), "catalog.db"), nil)
	if err != nil {
		t.Fatalf("catalog.Open() error = %v", err)
	}
	t.Cleanup(func() { store.Close() })

	s := newTestServer(t, func(cfg *config.Config, deps *Dependencies) {
		deps.Catalog = store
	})

	t.Run("lookup seeded ingredient", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/v1/catalog/ingredients/Bergamot%20Oil", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var ing catalog.Ingredient
		decodeBody(t, w, &ing)
		if ing.Name != "Bergamot Oil" {
			t.Errorf("Expected Bergamot Oil, got %s", ing.Name)
		}
		if ing.NoteType != catalog.NoteTop {
			t.Errorf("Expected top note, got %s", ing.NoteType)
		}
	})

	t.Run("lookup unknown ingredient", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/v1/catalog/ingredients/Unobtainium", "")
		if w.Code != http.StatusNotFound {
			t.Errorf("Expected status 404, got %d", w.Code)
		}
	})

	t.Run("list filtered by note type", func(t *testing.T) {
		w := doRequest(t, s, http.MethodGet, "/api/v1/catalog/ingredients?note_type=base", "")

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d", w.Code)
		}

		var resp catalogListResponse
		decodeBody(t, w, &resp)
		if resp.Count == 0 {
			t.Fatal("Expected seeded base notes")
		}
		for _, ing := range resp.Ingredients {
			if ing.NoteType != catalog.NoteBase {
				t.Errorf("Expected only base notes, got %s for %s", ing.NoteType, ing.Name)
			}
		}
	})
}

func TestCatalogRoutesAbsentWithoutStore(t *testing.T) {
	s := newTestServer(t, nil)

	w := doRequest(t, s, http.MethodGet, "/api/v1/catalog/ingredients", "")
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 without a catalog, got %d", w.Code)
	}
}

func TestHandleFormulaProfile(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("without catalog all components default to heart", func(t *testing.T) {
		body := `{"components": [{"name": "Mystery Accord", "concentration": 50.0}], "prompt": "a calm evening", "valence": 0.6, "arousal": 0.2}`
		w := doRequest(t, s, http.MethodPost, "/api/v1/formula/profile", body)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected status 200, got %d: %s", w.Code, w.Body.String())
		}

		var resp map[string]interface{}
		decodeBody(t, w, &resp)
		if resp["name"] == "" {
			t.Error("Expected a suggested name")
		}
		pyramid, ok := resp["note_pyramid"].(map[string]interface{})
		if !ok {
			t.Fatal("Expected a note_pyramid object")
		}
		if pyramid["heart"] != 100.0 {
			t.Errorf("Expected 100%% heart without catalog, got %v", pyramid["heart"])
		}
	})

	t.Run("empty components", func(t *testing.T) {
		w := doRequest(t, s, http.MethodPost, "/api/v1/formula/profile", `{"components": []}`)
		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected status 400, got %d", w.Code)
		}
	})
}
