package retrieval

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"aromatiq-hq/neroli/pkg/physio"
	"aromatiq-hq/neroli/pkg/retrieval/index"
)

// Retrieval modes reported by Engine.Mode.
const (
	// ModeVector means queries are answered by embedding similarity.
	ModeVector = "vector"

	// ModeKeyword means queries are answered by direct condition
	// matching, either because no embedder was configured or because
	// the vector path failed and the engine downgraded itself.
	ModeKeyword = "keyword"
)

const (
	// defaultTopK is the result count used when a caller does not ask
	// for a specific one.
	defaultTopK = 5

	// keywordRelevance is the fixed score assigned to keyword matches.
	// A condition either holds or it does not, so there is no gradient
	// to report; the value is high but below a perfect vector match.
	keywordRelevance = 0.9
)

// Index stores rule vectors and answers nearest-neighbor queries.
// *index.Memory is the provided implementation.
type Index interface {
	Add(ids []string, vectors [][]float64) error
	Query(vector []float64, n int) ([]index.Match, error)
	Count() int
	Clear()
}

// Embedder turns texts into vectors. It mirrors
// embedding.Embedder; redeclared here so the engine depends only on
// what it calls.
type Embedder interface {
	Name() string
	Prepare(corpus []string) error
	Dimension() int
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}

// Options configures an Engine. The zero value is valid and yields a
// keyword-only engine.
type Options struct {
	// Embedder computes rule and query vectors. Nil disables the
	// vector path entirely.
	Embedder Embedder

	// Index stores rule vectors. Nil with a non-nil Embedder gets an
	// in-memory index.
	Index Index

	// TopK is the default result count for Retrieve. Zero means 5.
	TopK int

	Logger *slog.Logger
}

// Engine retrieves the correction rules relevant to a physiological
// profile. It prefers embedding similarity and silently falls back to
// direct condition matching when the vector path is unavailable; once
// downgraded it stays downgraded.
type Engine struct {
	rules    *physio.Repository
	embedder Embedder
	index    Index
	topK     int
	logger   *slog.Logger

	mu       sync.Mutex
	ready    bool
	fallback bool
}

// NewEngine creates an engine over the given rule repository. Rules
// are loaded and indexed lazily on the first query, so construction
// never touches the filesystem or the embedder.
func NewEngine(rules *physio.Repository, opts Options) (*Engine, error) {
	if rules == nil {
		return nil, errors.New("retrieval: rule repository is required")
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	idx := opts.Index
	if idx == nil && opts.Embedder != nil {
		idx = index.NewMemory()
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}

	return &Engine{
		rules:    rules,
		embedder: opts.Embedder,
		index:    idx,
		topK:     topK,
		logger:   logger.With("component", "retrieval.engine"),
	}, nil
}

// Retrieve returns up to n rules relevant to the profile, most
// relevant first. A non-positive n uses the configured default. The
// only error condition is a failing rule table load; retrieval-path
// failures downgrade to keyword matching instead.
func (e *Engine) Retrieve(ctx context.Context, profile physio.Profile, n int) ([]physio.RetrievedRule, error) {
	if n <= 0 {
		n = e.topK
	}
	if err := e.ensureReady(ctx); err != nil {
		return nil, err
	}

	if e.vectorMode() {
		matches, err := e.vectorRetrieve(ctx, profile, n)
		if err == nil {
			return matches, nil
		}
		if ctx.Err() != nil {
			return nil, err
		}
		e.downgrade("query failed", err)
	}

	return e.keywordRetrieve(profile, n), nil
}

// ApplicableRules returns every rule whose condition holds for the
// profile, in table order, regardless of the retrieval mode.
func (e *Engine) ApplicableRules(ctx context.Context, profile physio.Profile) ([]physio.Rule, error) {
	if err := e.ensureReady(ctx); err != nil {
		return nil, err
	}

	var out []physio.Rule
	for _, rule := range e.rules.All() {
		if rule.Condition.Matches(profile) {
			out = append(out, rule)
		}
	}
	return out, nil
}

// Mode reports how queries are currently answered: ModeVector or
// ModeKeyword.
func (e *Engine) Mode() string {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fallback || e.embedder == nil || e.index == nil {
		return ModeKeyword
	}
	return ModeVector
}

// RuleCount returns the number of loaded rules, 0 before the first
// query.
func (e *Engine) RuleCount() int {
	return e.rules.Len()
}

// ensureReady loads the rule table and builds the vector index once.
// Concurrent first queries serialize here; later calls return
// immediately.
func (e *Engine) ensureReady(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.ready {
		return nil
	}

	if err := e.rules.Load(); err != nil {
		return fmt.Errorf("load rules: %w", err)
	}

	if e.embedder == nil || e.index == nil {
		e.fallback = true
		e.ready = true
		return nil
	}

	switch {
	case e.rules.Len() == 0:
		// Nothing to index. Keyword matching over an empty table
		// returns nothing too, so skip the vector path without noise.
		e.fallback = true

	case e.index.Count() == 0:
		if err := e.buildIndex(ctx); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			e.fallback = true
			e.logger.Warn("vector index build failed, downgrading to keyword matching",
				"embedder", e.embedder.Name(),
				"error", err)
		}
	}

	e.ready = true
	return nil
}

func (e *Engine) buildIndex(ctx context.Context) error {
	rules := e.rules.All()
	if len(rules) == 0 {
		return nil
	}

	ids := make([]string, len(rules))
	docs := make([]string, len(rules))
	for i, rule := range rules {
		ids[i] = rule.ID
		docs[i] = BuildDocument(rule)
	}

	if err := e.embedder.Prepare(docs); err != nil {
		return fmt.Errorf("prepare embedder: %w", err)
	}
	vectors, err := e.embedder.Embed(ctx, docs)
	if err != nil {
		return fmt.Errorf("embed rule documents: %w", err)
	}
	if err := e.index.Add(ids, vectors); err != nil {
		return fmt.Errorf("index rule vectors: %w", err)
	}

	e.logger.Debug("vector index built",
		"embedder", e.embedder.Name(),
		"rules", len(rules),
		"dimension", e.embedder.Dimension())
	return nil
}

func (e *Engine) vectorRetrieve(ctx context.Context, profile physio.Profile, n int) ([]physio.RetrievedRule, error) {
	query := BuildQuery(profile)

	vectors, err := e.embedder.Embed(ctx, []string{query})
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	matches, err := e.index.Query(vectors[0], n)
	if err != nil {
		return nil, fmt.Errorf("query index: %w", err)
	}

	out := make([]physio.RetrievedRule, 0, len(matches))
	for _, match := range matches {
		rule, ok := e.rules.Get(match.ID)
		if !ok {
			continue
		}
		out = append(out, physio.RetrievedRule{
			Rule:             rule,
			RelevanceScore:   1 / (1 + match.Distance),
			MatchedCondition: query,
		})
	}
	return out, nil
}

func (e *Engine) keywordRetrieve(profile physio.Profile, n int) []physio.RetrievedRule {
	var matched []physio.RetrievedRule
	for _, rule := range e.rules.All() {
		if rule.Condition.Matches(profile) {
			matched = append(matched, physio.RetrievedRule{
				Rule:             rule,
				RelevanceScore:   keywordRelevance,
				MatchedCondition: rule.Condition.String(),
			})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].RelevanceScore > matched[j].RelevanceScore
	})
	if n > 0 && n < len(matched) {
		matched = matched[:n]
	}
	return matched
}

func (e *Engine) vectorMode() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	return !e.fallback
}

// downgrade permanently switches the engine to keyword matching. The
// first caller logs; later calls are no-ops.
func (e *Engine) downgrade(reason string, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.fallback {
		return
	}
	e.fallback = true
	e.logger.Warn("vector retrieval unavailable, downgrading to keyword matching",
		"reason", reason,
		"error", err)
}
