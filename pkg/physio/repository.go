package physio

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
)

// ruleTable is the on-disk shape of the rule source.
type ruleTable struct {
	Rules []Rule `json:"rules"`
}

// Repository loads and serves the physiological correction rule set.
//
// Load reads the source exactly once; a second call is a no-op. A
// missing source initializes an empty rule set so that callers see a
// "no rules known" state rather than a failure. A malformed source is
// a fatal configuration error.
//
// After a successful Load the rule set is immutable and the repository
// is safe for unlimited concurrent readers.
type Repository struct {
	path   string
	logger *slog.Logger

	mu     sync.RWMutex
	loaded bool
	rules  []Rule
	byID   map[string]int
}

// NewRepository creates a repository reading from the given table path.
func NewRepository(path string, logger *slog.Logger) *Repository {
	if logger == nil {
		logger = slog.Default()
	}

	return &Repository{
		path:   path,
		logger: logger.With("component", "physio.repository"),
	}
}

// Load reads the rule table. Safe to call more than once; only the
// first call reads the source.
func (r *Repository) Load() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.loaded {
		return nil
	}

	data, err := os.ReadFile(r.path)
	if errors.Is(err, os.ErrNotExist) {
		r.rules = nil
		r.byID = make(map[string]int)
		r.loaded = true
		r.logger.Warn("rule table not found, starting with empty rule set",
			"path", r.path,
		)
		return nil
	}
	if err != nil {
		return NewTableError(r.path, err)
	}

	var table ruleTable
	if err := json.Unmarshal(data, &table); err != nil {
		return NewTableError(r.path, err)
	}

	byID := make(map[string]int, len(table.Rules))
	for i, rule := range table.Rules {
		if rule.ID == "" {
			return NewTableError(r.path, fmt.Errorf("rule %d has no id", i))
		}
		if _, exists := byID[rule.ID]; exists {
			return NewTableError(r.path, fmt.Errorf("duplicate rule id %q", rule.ID))
		}
		byID[rule.ID] = i
	}

	r.rules = table.Rules
	r.byID = byID
	r.loaded = true

	r.logger.Info("rule table loaded",
		"path", r.path,
		"rules", len(r.rules),
	)

	return nil
}

// Loaded reports whether Load has completed.
func (r *Repository) Loaded() bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return r.loaded
}

// All returns the loaded rules in table order.
func (r *Repository) All() []Rule {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Rule, len(r.rules))
	copy(out, r.rules)
	return out
}

// Get returns the rule with the given id.
func (r *Repository) Get(id string) (Rule, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	idx, ok := r.byID[id]
	if !ok {
		return Rule{}, false
	}
	return r.rules[idx], true
}

// Len returns the number of loaded rules.
func (r *Repository) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.rules)
}
