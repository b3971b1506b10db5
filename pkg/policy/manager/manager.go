package manager

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"aromatiq-hq/neroli/pkg/compliance"
	"aromatiq-hq/neroli/pkg/config"
	"aromatiq-hq/neroli/pkg/physio"
	"aromatiq-hq/neroli/pkg/policy"
	"aromatiq-hq/neroli/pkg/retrieval"
	"aromatiq-hq/neroli/pkg/retrieval/embedding"
)

// Manager coordinates the lifecycle of the table-backed components:
// regulatory tables, physiological rules, the compliance validator,
// and the retrieval engine. It builds them as one Bundle, serves the
// current bundle to callers, and hot-reloads on table file changes.
//
// Reload is build-new-and-swap: a fresh bundle is constructed from
// disk, and only if every table loads cleanly does it replace the
// current one. A failed reload keeps the previous bundle serving.
type Manager struct {
	config *config.Config
	logger *slog.Logger

	// newEmbedder builds the embedder for each bundle. Swapped in
	// tests; defaults to the config-driven builder.
	newEmbedder func() (retrieval.Embedder, error)

	// State management
	mu            sync.RWMutex
	bundle        *Bundle
	generation    uint64
	lastLoadTime  time.Time
	lastLoadError error

	// Watch management
	watchMu     sync.Mutex
	watchCancel context.CancelFunc
}

// NewManager creates a table manager. No tables are read until Load.
func NewManager(cfg *config.Config, logger *slog.Logger) (*Manager, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	m := &Manager{
		config: cfg,
		logger: logger.With("component", "policy.manager"),
	}
	m.newEmbedder = m.configuredEmbedder

	return m, nil
}

// Load builds a bundle from the configured table files and makes it
// current. The first successful Load must complete before Bundle
// returns anything.
func (m *Manager) Load() error {
	return m.rebuild("load")
}

// Reload rebuilds the bundle from disk and swaps it in atomically.
// On failure the previous bundle stays active and the error is
// recorded in Status.
func (m *Manager) Reload() error {
	return m.rebuild("reload")
}

func (m *Manager) rebuild(op string) error {
	startTime := time.Now()
	m.logger.Info("Loading tables",
		"op", op,
		"regulatory_path", m.config.Tables.RegulatoryPath,
		"rules_path", m.config.Tables.RulesPath,
	)

	bundle, err := m.buildBundle()

	m.mu.Lock()
	defer m.mu.Unlock()

	if err != nil {
		m.lastLoadError = err
		m.logger.Error("Table load failed, keeping previous tables",
			"op", op,
			"error", err,
			"duration_ms", time.Since(startTime).Milliseconds(),
		)
		return err
	}

	m.bundle = bundle
	m.generation++
	m.lastLoadTime = time.Now()
	m.lastLoadError = nil

	m.logger.Info("Tables loaded",
		"op", op,
		"generation", m.generation,
		"rules", bundle.Rules.Len(),
		"restricted", len(bundle.Tables.RestrictedSubstances()),
		"allergens", len(bundle.Tables.Allergens()),
		"duration_ms", time.Since(startTime).Milliseconds(),
	)

	return nil
}

// buildBundle constructs a complete bundle from disk. Missing table
// files yield empty repositories; malformed ones fail the build.
func (m *Manager) buildBundle() (*Bundle, error) {
	tables := policy.NewRepository(m.config.Tables.RegulatoryPath, m.logger)
	if err := tables.Load(); err != nil {
		return nil, &LoadError{Path: m.config.Tables.RegulatoryPath, Cause: err}
	}

	rules := physio.NewRepository(m.config.Tables.RulesPath, m.logger)
	if err := rules.Load(); err != nil {
		return nil, &LoadError{Path: m.config.Tables.RulesPath, Cause: err}
	}

	validator, err := compliance.NewValidator(tables, m.logger)
	if err != nil {
		return nil, fmt.Errorf("create validator: %w", err)
	}

	embedder, err := m.newEmbedder()
	if err != nil {
		return nil, err
	}

	engine, err := retrieval.NewEngine(rules, retrieval.Options{
		Embedder: embedder,
		TopK:     m.config.Retrieval.TopK,
		Logger:   m.logger,
	})
	if err != nil {
		return nil, fmt.Errorf("create retrieval engine: %w", err)
	}

	return &Bundle{
		Tables:    tables,
		Rules:     rules,
		Validator: validator,
		Engine:    engine,
	}, nil
}

// configuredEmbedder builds the embedder named in the retrieval
// configuration. Each bundle gets a fresh instance so a corpus-fitted
// embedder never carries state across reloads.
func (m *Manager) configuredEmbedder() (retrieval.Embedder, error) {
	switch m.config.Retrieval.Embedder {
	case "none":
		return nil, nil

	case "openai":
		client, err := embedding.NewClient(embedding.ClientConfig{
			BaseURL:    m.config.Retrieval.OpenAI.BaseURL,
			APIKeyEnv:  m.config.Retrieval.OpenAI.APIKeyEnv,
			Model:      m.config.Retrieval.OpenAI.Model,
			Timeout:    m.config.Retrieval.OpenAI.Timeout,
			MaxRetries: m.config.Retrieval.OpenAI.MaxRetries,
		})
		if err != nil {
			return nil, fmt.Errorf("create embedding client: %w", err)
		}
		return client, nil

	default:
		return embedding.NewTFIDF(), nil
	}
}

// Bundle returns the current bundle, or nil before the first
// successful Load.
func (m *Manager) Bundle() *Bundle {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.bundle
}

// Status returns a snapshot of manager state.
func (m *Manager) Status() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()

	s := Status{
		Generation:   m.generation,
		LastLoadTime: m.lastLoadTime,
	}
	if m.lastLoadError != nil {
		s.LastLoadError = m.lastLoadError.Error()
	}
	if m.bundle != nil {
		s.RetrievalMode = m.bundle.Engine.Mode()
		s.RuleCount = m.bundle.Rules.Len()
		s.RestrictedCount = len(m.bundle.Tables.RestrictedSubstances())
		s.AllergenCount = len(m.bundle.Tables.Allergens())
		s.PhototoxicCount = len(m.bundle.Tables.PhototoxicityLimits())
	}

	return s
}

// Watch starts watching the table files for changes, reloading on
// each debounced change burst. This is a blocking operation that runs
// until the context is cancelled.
func (m *Manager) Watch(ctx context.Context) error {
	if !m.config.Tables.Watch {
		return fmt.Errorf("table watching is not enabled in configuration")
	}

	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchMu.Unlock()
		return fmt.Errorf("watch already started")
	}

	watchCtx, cancel := context.WithCancel(ctx)
	m.watchCancel = cancel
	m.watchMu.Unlock()

	watchConfig := DefaultFileWatcherConfig()
	watchConfig.Paths = []string{
		m.config.Tables.RegulatoryPath,
		m.config.Tables.RulesPath,
	}
	if m.config.Tables.Debounce > 0 {
		watchConfig.DebounceInterval = m.config.Tables.Debounce
	}

	watcher, err := NewFileWatcher(watchConfig, m.logger)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}

	// Start watching in background
	go func() {
		if err := watcher.Watch(watchCtx, func() error {
			return m.Reload()
		}); err != nil {
			m.logger.Error("File watcher error", "error", err)
		}
	}()

	// Wait for context cancellation
	<-watchCtx.Done()

	if err := watcher.Stop(); err != nil {
		m.logger.Error("Failed to stop file watcher", "error", err)
		return err
	}

	return nil
}

// Close performs cleanup and releases resources.
func (m *Manager) Close() error {
	m.watchMu.Lock()
	if m.watchCancel != nil {
		m.watchCancel()
		m.watchCancel = nil
	}
	m.watchMu.Unlock()

	m.logger.Info("Table manager closed")
	return nil
}
