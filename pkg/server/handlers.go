package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"aromatiq-hq/neroli/pkg/audit"
	"aromatiq-hq/neroli/pkg/biosignal"
	"aromatiq-hq/neroli/pkg/catalog"
	"aromatiq-hq/neroli/pkg/compliance"
	"aromatiq-hq/neroli/pkg/formula"
	"aromatiq-hq/neroli/pkg/physio"
	"aromatiq-hq/neroli/pkg/policy"
	"aromatiq-hq/neroli/pkg/policy/manager"
	"aromatiq-hq/neroli/pkg/retrieval"
)

// bundle returns the current table bundle, or writes a 503 and returns
// nil when no bundle has loaded yet.
func (s *Server) bundle(w http.ResponseWriter, r *http.Request) *manager.Bundle {
	b := s.manager.Bundle()
	if b == nil {
		writeError(w, r, http.StatusServiceUnavailable, "tables not loaded")
	}
	return b
}

// parseCategory maps a wire category to a policy category. Empty
// defaults to cat1 (leave-on), the strictest column.
func parseCategory(raw string) (policy.Category, bool) {
	if raw == "" {
		return policy.CategoryLeaveOn, true
	}
	c := policy.Category(strings.ToLower(raw))
	if !c.Valid() {
		return "", false
	}
	return c, true
}

// healthResponse is the /healthz payload.
type healthResponse struct {
	Status        string         `json:"status"`
	UptimeSeconds float64        `json:"uptime_seconds"`
	Tables        manager.Status `json:"tables"`
}

// handleHealth reports liveness plus a snapshot of table state.
// Answers 503 until the first table load succeeds.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := healthResponse{
		Status:        "ok",
		UptimeSeconds: time.Since(s.startTime).Seconds(),
		Tables:        s.manager.Status(),
	}

	code := http.StatusOK
	if s.manager.Bundle() == nil {
		resp.Status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, resp)
}

// validateRequest is the wire form of a compliance validation call.
type validateRequest struct {
	Ingredients []compliance.Ingredient `json:"ingredients"`
	Category    string                  `json:"product_category"`
}

// handleValidate validates a formula against the regulatory tables and
// returns the full compliance report. The outcome is persisted to the
// audit trail when auditing is enabled.
func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	b := s.bundle(w, r)
	if b == nil {
		return
	}

	var req validateRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Ingredients) == 0 {
		writeError(w, r, http.StatusBadRequest, "ingredients must not be empty")
		return
	}
	category, ok := parseCategory(req.Category)
	if !ok {
		writeError(w, r, http.StatusBadRequest, `product_category must be "cat1" or "cat2"`)
		return
	}

	startTime := time.Now()
	report := b.Validator.Validate(req.Ingredients, category)
	duration := time.Since(startTime)

	if s.metrics != nil {
		s.metrics.RecordValidation(string(category), report.IsCompliant, duration)
		for _, v := range report.Violations {
			s.metrics.RecordViolation(string(v.Type), string(v.Severity))
			if v.Severity == compliance.SeverityWarning {
				s.metrics.RecordComplianceWarning(string(v.Type))
			}
		}
	}

	s.recordAudit(r.Context(), report)

	writeJSON(w, http.StatusOK, report)
}

// recordAudit persists a validation outcome when auditing is enabled.
// Failures are logged, never surfaced to the API caller.
func (s *Server) recordAudit(ctx context.Context, report *compliance.Report) {
	if s.audit == nil {
		return
	}

	rec := &audit.Record{
		Source:       audit.SourceAPI,
		Category:     string(report.ProductCategory),
		Compliant:    report.IsCompliant,
		Violations:   report.CriticalCount(),
		Declarations: len(report.AllergensToDeclare),
		Summary:      report.Summary,
	}
	if err := s.audit.Insert(ctx, rec); err != nil {
		s.logger.Error("Failed to record audit entry", "error", err)
	}
}

// maxAllowedResponse reports the effective concentration ceiling for
// an ingredient. Restricted is false for unmatched names, which is
// distinct from a cap of zero.
type maxAllowedResponse struct {
	Name       string  `json:"name"`
	Category   string  `json:"category"`
	Restricted bool    `json:"restricted"`
	MaxAllowed float64 `json:"max_allowed"`
}

func (s *Server) handleMaxAllowed(w http.ResponseWriter, r *http.Request) {
	b := s.bundle(w, r)
	if b == nil {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}
	category, ok := parseCategory(r.URL.Query().Get("category"))
	if !ok {
		writeError(w, r, http.StatusBadRequest, `category must be "cat1" or "cat2"`)
		return
	}

	maxAllowed, restricted := b.Validator.MaxAllowedConcentration(name, category)
	writeJSON(w, http.StatusOK, maxAllowedResponse{
		Name:       name,
		Category:   string(category),
		Restricted: restricted,
		MaxAllowed: maxAllowed,
	})
}

// allergenResponse is the allergen predicate payload.
type allergenResponse struct {
	Name       string `json:"name"`
	IsAllergen bool   `json:"is_allergen"`
}

func (s *Server) handleAllergen(w http.ResponseWriter, r *http.Request) {
	b := s.bundle(w, r)
	if b == nil {
		return
	}

	name := r.URL.Query().Get("name")
	if name == "" {
		writeError(w, r, http.StatusBadRequest, "name query parameter is required")
		return
	}

	writeJSON(w, http.StatusOK, allergenResponse{
		Name:       name,
		IsAllergen: b.Validator.IsAllergen(name),
	})
}

// ruleSearchRequest asks for the n most relevant rules for a profile.
type ruleSearchRequest struct {
	Profile physio.Profile `json:"profile"`
	N       int            `json:"n"`
}

// ruleSearchResponse carries ranked rules plus the mode that answered
// the query.
type ruleSearchResponse struct {
	Mode  string                 `json:"mode"`
	Count int                    `json:"count"`
	Rules []physio.RetrievedRule `json:"rules"`
}

func (s *Server) handleRuleSearch(w http.ResponseWriter, r *http.Request) {
	b := s.bundle(w, r)
	if b == nil {
		return
	}

	var req ruleSearchRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Profile) == 0 {
		writeError(w, r, http.StatusBadRequest, "profile must not be empty")
		return
	}

	modeBefore := b.Engine.Mode()
	startTime := time.Now()
	rules, err := b.Engine.Retrieve(r.Context(), req.Profile, req.N)
	duration := time.Since(startTime)
	if err != nil {
		s.logger.Error("Rule retrieval failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "rule retrieval failed")
		return
	}

	mode := b.Engine.Mode()
	if s.metrics != nil {
		s.metrics.RecordRetrievalQuery(mode, duration)
		if modeBefore == retrieval.ModeVector && mode == retrieval.ModeKeyword {
			s.metrics.RecordRetrievalDowngrade()
		}
		s.metrics.UpdateIndexedRules(b.Engine.RuleCount())
	}

	if rules == nil {
		rules = []physio.RetrievedRule{}
	}
	writeJSON(w, http.StatusOK, ruleSearchResponse{
		Mode:  mode,
		Count: len(rules),
		Rules: rules,
	})
}

// applicableRequest asks for every rule whose condition holds.
type applicableRequest struct {
	Profile physio.Profile `json:"profile"`
}

// applicableResponse carries exact matches in table order, uncapped.
type applicableResponse struct {
	Mode  string        `json:"mode"`
	Count int           `json:"count"`
	Rules []physio.Rule `json:"rules"`
}

func (s *Server) handleApplicableRules(w http.ResponseWriter, r *http.Request) {
	b := s.bundle(w, r)
	if b == nil {
		return
	}

	var req applicableRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Profile) == 0 {
		writeError(w, r, http.StatusBadRequest, "profile must not be empty")
		return
	}

	rules, err := b.Engine.ApplicableRules(r.Context(), req.Profile)
	if err != nil {
		s.logger.Error("Applicable rule scan failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "rule scan failed")
		return
	}

	if rules == nil {
		rules = []physio.Rule{}
	}
	writeJSON(w, http.StatusOK, applicableResponse{
		Mode:  b.Engine.Mode(),
		Count: len(rules),
		Rules: rules,
	})
}

// eegRequest is free text to simulate an affect reading from.
type eegRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleEEG(w http.ResponseWriter, r *http.Request) {
	var req eegRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(strings.TrimSpace(req.Text)) < 3 {
		writeError(w, r, http.StatusBadRequest, "text must be at least 3 characters")
		return
	}

	writeJSON(w, http.StatusOK, biosignal.EEGFromText(req.Text))
}

// phRequest estimates pH from an RGB strip sample, or simulates a
// plausible reading for a skin type when no sample is given.
type phRequest struct {
	RGB      *biosignal.RGB `json:"rgb"`
	SkinType string         `json:"skin_type"`
}

func (s *Server) handlePH(w http.ResponseWriter, r *http.Request) {
	var req phRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}

	switch {
	case req.RGB != nil:
		if err := req.RGB.Validate(); err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, biosignal.EstimatePH(*req.RGB))

	case req.SkinType != "":
		reading, err := biosignal.SimulatePH(req.SkinType)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusOK, reading)

	default:
		writeError(w, r, http.StatusBadRequest, "either rgb or skin_type is required")
	}
}

func (s *Server) handleCatalogLookup(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if decoded, err := url.PathUnescape(name); err == nil {
		name = decoded
	}

	ing, err := s.catalog.Lookup(r.Context(), name)
	if err != nil {
		s.logger.Error("Catalog lookup failed", "name", name, "error", err)
		writeError(w, r, http.StatusInternalServerError, "catalog lookup failed")
		return
	}
	if ing == nil {
		writeError(w, r, http.StatusNotFound, "ingredient not found")
		return
	}

	writeJSON(w, http.StatusOK, ing)
}

// catalogListResponse is a filtered catalog listing.
type catalogListResponse struct {
	Count       int                  `json:"count"`
	Ingredients []catalog.Ingredient `json:"ingredients"`
}

func (s *Server) handleCatalogList(w http.ResponseWriter, r *http.Request) {
	filter := catalog.Filter{
		NoteType: r.URL.Query().Get("note_type"),
		Family:   r.URL.Query().Get("family"),
	}

	ingredients, err := s.catalog.List(r.Context(), filter)
	if err != nil {
		s.logger.Error("Catalog list failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "catalog list failed")
		return
	}

	if ingredients == nil {
		ingredients = []catalog.Ingredient{}
	}
	writeJSON(w, http.StatusOK, catalogListResponse{
		Count:       len(ingredients),
		Ingredients: ingredients,
	})
}

// profileRequest is the wire form of a formula profiling call. Prompt,
// valence, and arousal feed the suggested name only.
type profileRequest struct {
	Components []formula.Component `json:"components"`
	Prompt     string              `json:"prompt"`
	Valence    float64             `json:"valence"`
	Arousal    float64             `json:"arousal"`
}

func (s *Server) handleFormulaProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid request body: "+err.Error())
		return
	}
	if len(req.Components) == 0 {
		writeError(w, r, http.StatusBadRequest, "components must not be empty")
		return
	}

	profile, err := s.profiler.Profile(r.Context(), req.Components, req.Prompt, req.Valence, req.Arousal)
	if err != nil {
		s.logger.Error("Formula profiling failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "formula profiling failed")
		return
	}

	writeJSON(w, http.StatusOK, profile)
}
