package audit

import (
	"context"
	"testing"
	"time"
)

func seedRecords(t *testing.T, store *Store, ages ...int) {
	t.Helper()

	ctx := context.Background()
	now := time.Now()
	for i, days := range ages {
		rec := &Record{
			Timestamp: now.AddDate(0, 0, -days),
			Source:    SourceAPI,
			Category:  "cat1",
			Compliant: i%2 == 0,
		}
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert() failed: %v", err)
		}
	}
}

func TestPruner_PruneByAge(t *testing.T) {
	store, _ := openTestStore(t)
	seedRecords(t, store, 10, 8, 5, 3)

	pruner := NewPruner(store, PrunerConfig{Days: 7}, nil)

	ctx := context.Background()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted records, got %d", deleted)
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 remaining records, got %d", count)
	}
}

func TestPruner_PruneByCount(t *testing.T) {
	store, _ := openTestStore(t)
	seedRecords(t, store, 10, 8, 5, 3, 1)

	pruner := NewPruner(store, PrunerConfig{MaxRecords: 2}, nil)

	ctx := context.Background()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted records, got %d", deleted)
	}

	// The two newest records survive
	records, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 remaining records, got %d", len(records))
	}
	cutoff := time.Now().AddDate(0, 0, -4)
	for _, rec := range records {
		if rec.Timestamp.Before(cutoff) {
			t.Errorf("Old record %s should have been pruned", rec.ID)
		}
	}
}

func TestPruner_BothPhases(t *testing.T) {
	store, _ := openTestStore(t)
	seedRecords(t, store, 10, 8, 5, 3, 1)

	pruner := NewPruner(store, PrunerConfig{Days: 7, MaxRecords: 2}, nil)

	ctx := context.Background()
	deleted, err := pruner.Prune(ctx)
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	// Age phase removes 2, count phase removes 1 of the 3 left
	if deleted != 3 {
		t.Errorf("Expected 3 deleted records, got %d", deleted)
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 2 {
		t.Errorf("Expected 2 remaining records, got %d", count)
	}
}

func TestPruner_RetentionDisabled(t *testing.T) {
	store, _ := openTestStore(t)
	seedRecords(t, store, 100, 50)

	pruner := NewPruner(store, PrunerConfig{}, nil)

	deleted, err := pruner.Prune(context.Background())
	if err != nil {
		t.Fatalf("Prune() failed: %v", err)
	}
	if deleted != 0 {
		t.Errorf("Expected no deletions with retention disabled, got %d", deleted)
	}
}

func TestPruner_StartWithoutSchedule(t *testing.T) {
	store, _ := openTestStore(t)
	pruner := NewPruner(store, PrunerConfig{Days: 30}, nil)

	if err := pruner.Start(context.Background()); err != nil {
		t.Fatalf("Start() without schedule failed: %v", err)
	}
	if pruner.IsRunning() {
		t.Error("Scheduler should not run without a schedule")
	}
	if pruner.NextPruning() != nil {
		t.Error("NextPruning() should be nil without a schedule")
	}
}

func TestPruner_StartInvalidSchedule(t *testing.T) {
	store, _ := openTestStore(t)
	pruner := NewPruner(store, PrunerConfig{Schedule: "not a cron expr"}, nil)

	if err := pruner.Start(context.Background()); err == nil {
		t.Error("Start() should reject an invalid cron schedule")
	}
}

func TestPruner_StartAndStop(t *testing.T) {
	store, _ := openTestStore(t)
	pruner := NewPruner(store, PrunerConfig{Days: 30, Schedule: "0 3 * * *"}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := pruner.Start(ctx); err != nil {
		t.Fatalf("Start() failed: %v", err)
	}
	if !pruner.IsRunning() {
		t.Error("Scheduler should be running after Start()")
	}

	next := pruner.NextPruning()
	if next == nil {
		t.Fatal("NextPruning() returned nil for an active schedule")
	}
	if !next.After(time.Now()) {
		t.Errorf("Next pruning %v should be in the future", next)
	}

	pruner.Stop()
	if pruner.IsRunning() {
		t.Error("Scheduler should be stopped after Stop()")
	}

	// Stop is idempotent
	pruner.Stop()
}

func TestPruner_StoreSurvivesReopen(t *testing.T) {
	store, dbPath := openTestStore(t)
	seedRecords(t, store, 1)

	if err := store.Close(); err != nil {
		t.Fatalf("Close() failed: %v", err)
	}

	reopened, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() after close failed: %v", err)
	}
	defer reopened.Close()

	count, err := reopened.Count(context.Background(), nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 1 {
		t.Errorf("Expected 1 record after reopen, got %d", count)
	}
}
