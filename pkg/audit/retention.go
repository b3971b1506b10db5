package audit

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// PrunerConfig controls audit retention enforcement.
type PrunerConfig struct {
	// Days is how long records are kept. Zero disables age-based
	// pruning.
	Days int

	// Schedule is a cron expression for the pruning job, for example
	// "0 3 * * *" for daily at 3 AM. Empty disables the scheduler;
	// Prune can still be invoked directly.
	Schedule string

	// MaxRecords caps the number of stored records. Zero means
	// unlimited. When exceeded, the oldest records are removed first.
	MaxRecords int64
}

// Pruner enforces the retention policy on the audit store.
//
// Pruning happens in two phases:
//  1. Age-based: delete records older than the retention window
//  2. Count-based: if total records > MaxRecords, delete oldest
//
// Both can run together (e.g. delete old records AND limit total count).
type Pruner struct {
	store  *Store
	config PrunerConfig
	cron   *cron.Cron
	logger *slog.Logger

	mu      sync.Mutex
	running bool
}

// NewPruner creates a retention pruner for the given store.
func NewPruner(store *Store, config PrunerConfig, logger *slog.Logger) *Pruner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pruner{
		store:  store,
		config: config,
		cron:   cron.New(),
		logger: logger.With("component", "audit.retention"),
	}
}

// Prune applies the retention policy once and returns the total number
// of records deleted.
func (p *Pruner) Prune(ctx context.Context) (int64, error) {
	var total int64

	if p.config.Days > 0 {
		deleted, err := p.pruneByAge(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by age failed: %w", err)
		}
		total += deleted
	}

	if p.config.MaxRecords > 0 {
		deleted, err := p.pruneByCount(ctx)
		if err != nil {
			return total, fmt.Errorf("prune by count failed: %w", err)
		}
		total += deleted
	}

	if total > 0 {
		p.logger.Info("audit pruning completed",
			"deleted", total,
			"retention_days", p.config.Days,
			"max_records", p.config.MaxRecords,
		)
	} else {
		p.logger.Debug("audit pruning completed, nothing to delete")
	}

	return total, nil
}

// pruneByAge deletes records older than the retention window.
func (p *Pruner) pruneByAge(ctx context.Context) (int64, error) {
	cutoff := time.Now().AddDate(0, 0, -p.config.Days)

	deleted, err := p.store.Delete(ctx, &Query{End: &cutoff})
	if err != nil {
		return 0, NewRetentionError(p.config.Days, err)
	}
	return deleted, nil
}

// pruneByCount deletes the oldest records when the total exceeds
// MaxRecords.
func (p *Pruner) pruneByCount(ctx context.Context) (int64, error) {
	count, err := p.store.Count(ctx, nil)
	if err != nil {
		return 0, NewRetentionError(p.config.Days, err)
	}
	if count <= p.config.MaxRecords {
		return 0, nil
	}
	return p.store.DeleteOldest(ctx, count-p.config.MaxRecords)
}

// Start schedules periodic pruning according to the configured cron
// expression. The scheduler stops when ctx is cancelled or Stop is
// called.
func (p *Pruner) Start(ctx context.Context) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.config.Schedule == "" {
		p.logger.Info("prune schedule not configured, skipping scheduler")
		return nil
	}

	// Validate cron expression
	if _, err := cron.ParseStandard(p.config.Schedule); err != nil {
		return fmt.Errorf("invalid cron schedule %q: %w", p.config.Schedule, err)
	}

	_, err := p.cron.AddFunc(p.config.Schedule, func() {
		if _, err := p.Prune(ctx); err != nil {
			p.logger.Error("scheduled pruning failed", "error", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to schedule pruning: %w", err)
	}

	p.cron.Start()
	p.running = true

	p.logger.Info("retention scheduler started",
		"schedule", p.config.Schedule,
		"retention_days", p.config.Days,
		"max_records", p.config.MaxRecords,
	)

	go func() {
		<-ctx.Done()
		p.Stop()
	}()

	return nil
}

// Stop halts the scheduler and waits for a running job to finish.
// Safe to call multiple times.
func (p *Pruner) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.running {
		return
	}
	stopCtx := p.cron.Stop()
	<-stopCtx.Done()
	p.running = false
	p.logger.Info("retention scheduler stopped")
}

// IsRunning reports whether the scheduler is active.
func (p *Pruner) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}

// NextPruning returns the next scheduled run, or nil when no schedule
// is active.
func (p *Pruner) NextPruning() *time.Time {
	p.mu.Lock()
	defer p.mu.Unlock()

	entries := p.cron.Entries()
	if len(entries) == 0 {
		return nil
	}
	next := entries[0].Next
	return &next
}
