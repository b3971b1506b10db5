package audit

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// openTestStore creates a temporary audit store for testing.
func openTestStore(t *testing.T) (*Store, string) {
	t.Helper()

	dbPath := filepath.Join(t.TempDir(), "audit.db")
	store, err := Open(dbPath, nil)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	return store, dbPath
}

func TestStore_Initialize(t *testing.T) {
	_, dbPath := openTestStore(t)

	if _, err := os.Stat(dbPath); os.IsNotExist(err) {
		t.Error("Database file was not created")
	}
}

func TestStore_InsertAndList(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	rec := &Record{
		Source:       SourceAPI,
		Category:     "cat1",
		Compliant:    false,
		Violations:   2,
		Declarations: 1,
		Summary:      "Formula has 2 critical violation(s) that must be resolved for compliance.",
	}
	if err := store.Insert(ctx, rec); err != nil {
		t.Fatalf("Insert() failed: %v", err)
	}

	// Insert fills in identity and timestamp
	if rec.ID == "" {
		t.Error("Insert() did not assign an ID")
	}
	if rec.Timestamp.IsZero() {
		t.Error("Insert() did not assign a timestamp")
	}

	records, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("Expected 1 record, got %d", len(records))
	}

	got := records[0]
	if got.ID != rec.ID {
		t.Errorf("Expected ID %q, got %q", rec.ID, got.ID)
	}
	if got.Source != SourceAPI {
		t.Errorf("Expected source %q, got %q", SourceAPI, got.Source)
	}
	if got.Category != "cat1" {
		t.Errorf("Expected category cat1, got %q", got.Category)
	}
	if got.Compliant {
		t.Error("Expected non-compliant record")
	}
	if got.Violations != 2 || got.Declarations != 1 {
		t.Errorf("Expected 2 violations and 1 declaration, got %d and %d",
			got.Violations, got.Declarations)
	}
	if got.Summary != rec.Summary {
		t.Errorf("Summary mismatch: got %q", got.Summary)
	}
	if !got.Timestamp.Equal(rec.Timestamp) {
		t.Errorf("Expected timestamp %v, got %v", rec.Timestamp, got.Timestamp)
	}
}

func TestStore_ListFilters(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	seed := []*Record{
		{ID: "a", Timestamp: now.AddDate(0, 0, -10), Source: SourceAPI, Category: "cat1", Compliant: true},
		{ID: "b", Timestamp: now.AddDate(0, 0, -5), Source: SourceCLI, Category: "cat2", Compliant: false, Violations: 1},
		{ID: "c", Timestamp: now.AddDate(0, 0, -1), Source: SourceAPI, Category: "cat1", Compliant: false, Violations: 3},
		{ID: "d", Timestamp: now, Source: SourceCLI, Category: "cat1", Compliant: true},
	}
	for _, rec := range seed {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s) failed: %v", rec.ID, err)
		}
	}

	cutoff := now.AddDate(0, 0, -3)
	compliant := true

	tests := []struct {
		name    string
		query   *Query
		wantIDs []string
	}{
		{
			name:    "no filters newest first",
			query:   &Query{},
			wantIDs: []string{"d", "c", "b", "a"},
		},
		{
			name:    "by source",
			query:   &Query{Source: SourceCLI},
			wantIDs: []string{"d", "b"},
		},
		{
			name:    "by category",
			query:   &Query{Category: "cat2"},
			wantIDs: []string{"b"},
		},
		{
			name:    "by compliance",
			query:   &Query{Compliant: &compliant},
			wantIDs: []string{"d", "a"},
		},
		{
			name:    "since cutoff",
			query:   &Query{Start: &cutoff},
			wantIDs: []string{"d", "c"},
		},
		{
			name:    "before cutoff",
			query:   &Query{End: &cutoff},
			wantIDs: []string{"b", "a"},
		},
		{
			name:    "limit and offset",
			query:   &Query{Limit: 2, Offset: 1},
			wantIDs: []string{"c", "b"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			records, err := store.List(ctx, tt.query)
			if err != nil {
				t.Fatalf("List() failed: %v", err)
			}
			if len(records) != len(tt.wantIDs) {
				t.Fatalf("Expected %d records, got %d", len(tt.wantIDs), len(records))
			}
			for i, want := range tt.wantIDs {
				if records[i].ID != want {
					t.Errorf("Record %d: expected ID %q, got %q", i, want, records[i].ID)
				}
			}
		})
	}
}

func TestStore_CountAndDelete(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"old-1", "old-2", "recent"} {
		rec := &Record{
			ID:        id,
			Timestamp: now.AddDate(0, 0, -10+3*i),
			Source:    SourceAPI,
			Category:  "cat1",
			Compliant: true,
		}
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s) failed: %v", id, err)
		}
	}

	count, err := store.Count(ctx, nil)
	if err != nil {
		t.Fatalf("Count() failed: %v", err)
	}
	if count != 3 {
		t.Fatalf("Expected 3 records, got %d", count)
	}

	cutoff := now.AddDate(0, 0, -6)
	deleted, err := store.Delete(ctx, &Query{End: &cutoff})
	if err != nil {
		t.Fatalf("Delete() failed: %v", err)
	}
	if deleted != 2 {
		t.Errorf("Expected 2 deleted, got %d", deleted)
	}

	records, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 1 || records[0].ID != "recent" {
		t.Errorf("Expected only the recent record to survive, got %v", records)
	}
}

func TestStore_DeleteOldest(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	now := time.Now()
	ids := []string{"r1", "r2", "r3", "r4", "r5"}
	for i, id := range ids {
		rec := &Record{
			ID:        id,
			Timestamp: now.Add(time.Duration(i) * time.Minute),
			Source:    SourceCLI,
			Category:  "cat2",
			Compliant: true,
		}
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s) failed: %v", id, err)
		}
	}

	deleted, err := store.DeleteOldest(ctx, 3)
	if err != nil {
		t.Fatalf("DeleteOldest() failed: %v", err)
	}
	if deleted != 3 {
		t.Errorf("Expected 3 deleted, got %d", deleted)
	}

	records, err := store.List(ctx, nil)
	if err != nil {
		t.Fatalf("List() failed: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("Expected 2 survivors, got %d", len(records))
	}
	if records[0].ID != "r5" || records[1].ID != "r4" {
		t.Errorf("Expected newest records r5, r4 to survive, got %s, %s",
			records[0].ID, records[1].ID)
	}

	// Zero and negative are no-ops
	if n, err := store.DeleteOldest(ctx, 0); err != nil || n != 0 {
		t.Errorf("DeleteOldest(0) = (%d, %v), expected (0, nil)", n, err)
	}
}

func TestStore_Stats(t *testing.T) {
	store, _ := openTestStore(t)
	ctx := context.Background()

	stats, err := store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Total != 0 {
		t.Errorf("Expected empty store, got total %d", stats.Total)
	}
	if !stats.Oldest.IsZero() || !stats.Newest.IsZero() {
		t.Error("Expected zero timestamps for empty store")
	}

	now := time.Now()
	seed := []*Record{
		{ID: "s1", Timestamp: now.Add(-2 * time.Hour), Source: SourceAPI, Category: "cat1", Compliant: true},
		{ID: "s2", Timestamp: now.Add(-time.Hour), Source: SourceAPI, Category: "cat1", Compliant: false, Violations: 1},
		{ID: "s3", Timestamp: now, Source: SourceCLI, Category: "cat2", Compliant: true},
	}
	for _, rec := range seed {
		if err := store.Insert(ctx, rec); err != nil {
			t.Fatalf("Insert(%s) failed: %v", rec.ID, err)
		}
	}

	stats, err = store.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() failed: %v", err)
	}
	if stats.Total != 3 {
		t.Errorf("Expected total 3, got %d", stats.Total)
	}
	if stats.Compliant != 2 {
		t.Errorf("Expected 2 compliant, got %d", stats.Compliant)
	}
	if stats.NonCompliant != 1 {
		t.Errorf("Expected 1 non-compliant, got %d", stats.NonCompliant)
	}
	if !stats.Oldest.Equal(seed[0].Timestamp) {
		t.Errorf("Expected oldest %v, got %v", seed[0].Timestamp, stats.Oldest)
	}
	if !stats.Newest.Equal(seed[2].Timestamp) {
		t.Errorf("Expected newest %v, got %v", seed[2].Timestamp, stats.Newest)
	}
}
