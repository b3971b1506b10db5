package policy

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Repository loads and serves the regulatory limit tables: restricted
// substances, allergen declaration thresholds, phototoxicity limits,
// and the total allergen caps.
//
// Load reads the source exactly once; a second call is a no-op. A
// missing source initializes empty tables so that callers see a "no
// restrictions known" state rather than a failure, which is distinct
// from an ingredient being known-safe. A malformed source is a fatal
// configuration error.
//
// After a successful Load the tables are immutable and the repository
// is safe for unlimited concurrent readers.
type Repository struct {
	path   string
	logger *slog.Logger

	mu           sync.RWMutex
	loaded       bool
	restricted   []RestrictedSubstance
	allergens    []AllergenDeclaration
	phototoxic   []PhototoxicityLimit
	totalLimits  totalAllergenLimits
	restrictedBy map[string]int
}

// NewRepository creates a repository reading from the given table path.
func NewRepository(path string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		path:   path,
		logger: logger.With("component", "policy.repository"),
	}
}

// Load reads the regulatory table. Safe to call more than once; only
// the first call reads the source.
func (r *Repository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.restrictedBy = make(map[string]int)
		r.loaded = true
		r.logger.Warn("regulatory table not found, starting with empty tables",
			"path", r.path,
		)
		return nil
	}
	if err != nil {
		return NewTableError(r.path, err)
	}

	var t table
	if err := json.Unmarshal(data, &t); err != nil {
		return NewTableError(r.path, err)
	}

	restrictedBy := make(map[string]int, len(t.RestrictedSubstances))
	for i, s := range t.RestrictedSubstances {
		if s.Name == "" {
			return NewTableError(r.path, fmt.Errorf("restricted substance %d has no name", i))
		}
		restrictedBy[strings.ToLower(s.Name)] = i
	}
	for i, a := range t.AllergensDeclarationRequired {
		if a.Name == "" {
			return NewTableError(r.path, fmt.Errorf("allergen entry %d has no name", i))
		}
	}
	for i, p := range t.PhototoxicityLimits {
		if p.Name == "" {
			return NewTableError(r.path, fmt.Errorf("phototoxicity entry %d has no name", i))
		}
	}

	r.restricted = t.RestrictedSubstances
	r.allergens = t.AllergensDeclarationRequired
	r.phototoxic = t.PhototoxicityLimits
	r.totalLimits = t.TotalAllergenLimits
	r.restrictedBy = restrictedBy
	r.loaded = true

	r.logger.Info("regulatory table loaded",
		"path", r.path,
		"restricted", len(r.restricted),
		"allergens", len(r.allergens),
		"phototoxicity", len(r.phototoxic),
	)

	return nil
}

// Loaded reports whether Load has completed.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loaded
}

// Restricted returns the gate entry for the named substance, matched
// case-insensitively on the exact name.
func (r *Repository) Restricted(name string) (RestrictedSubstance, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.restrictedBy[strings.ToLower(name)]
	if !ok {
		return RestrictedSubstance{}, false
	}
	return r.restricted[idx], true
}

// RestrictedSubstances returns all restricted-substance entries.
func (r *Repository) RestrictedSubstances() []RestrictedSubstance {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]RestrictedSubstance, len(r.restricted))
	copy(out, r.restricted)
	return out
}

// Allergens returns all allergen declaration entries.
func (r *Repository) Allergens() []AllergenDeclaration {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]AllergenDeclaration, len(r.allergens))
	copy(out, r.allergens)
	return out
}

// PhototoxicityLimits returns all phototoxicity entries.
func (r *Repository) PhototoxicityLimits() []PhototoxicityLimit {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]PhototoxicityLimit, len(r.phototoxic))
	copy(out, r.phototoxic)
	return out
}

// TotalAllergenCap returns the summed-allergen ceiling for the
// category, falling back to the default when the table has no entry.
func (r *Repository) TotalAllergenCap(c Category) float64 {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.totalLimits.forCategory(c)
}
