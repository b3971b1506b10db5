package catalog

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	_ "modernc.org/sqlite" // SQLite driver
)

// Note type classes, ordered by volatility.
const (
	NoteTop   = "top"
	NoteHeart = "heart"
	NoteBase  = "base"
)

// defaultBusyTimeout is how long a statement waits for a locked
// database before failing.
const defaultBusyTimeout = 5 * time.Second

// Ingredient is a canonical fragrance material record.
type Ingredient struct {
	Name        string   `json:"name"`
	CAS         string   `json:"cas"`
	Family      string   `json:"family"`
	NoteType    string   `json:"note_type"`
	LogP        float64  `json:"logp"`
	Descriptors []string `json:"descriptors,omitempty"`
}

// Filter narrows a List call. Zero-value fields match everything.
type Filter struct {
	NoteType string
	Family   string
}

// Store is the SQLite-backed ingredient catalog. An empty database is
// seeded with the canonical material set on first open, so a fresh
// deployment can resolve names immediately.
type Store struct {
	db        *sql.DB
	path      string
	logger    *slog.Logger
	mu        sync.RWMutex
	closeOnce sync.Once

	lookupStmt *sql.Stmt
	searchStmt *sql.Stmt
	countStmt  *sql.Stmt
}

// Open opens (creating and seeding if necessary) the catalog database
// at path.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if path == "" {
		return nil, fmt.Errorf("catalog path cannot be empty")
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "catalog")

	// SQLite creates a missing file but not a missing directory.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create catalog directory: %w", err)
		}
	}

	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=%d&_synchronous=NORMAL",
		path, int(defaultBusyTimeout.Milliseconds()))

	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open catalog database: %w", err)
	}

	// SQLite only supports a single writer.
	db.SetMaxOpenConns(1)
	db.SetMaxIdleConns(1)
	db.SetConnMaxLifetime(0)

	s := &Store{
		db:     db,
		path:   path,
		logger: logger,
	}

	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize catalog schema: %w", err)
	}
	seeded, err := s.seed()
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to seed catalog: %w", err)
	}
	if err := s.prepareStatements(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to prepare catalog statements: %w", err)
	}

	count, err := s.Count(context.Background())
	if err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("Ingredient catalog opened",
		"path", path,
		"ingredients", count,
		"seeded", seeded,
	)

	return s, nil
}

func (s *Store) initSchema() error {
	_, err := s.db.Exec(Schema)
	return err
}

// seed loads the canonical material set into an empty catalog. A
// non-empty catalog is left untouched, so operator edits survive
// restarts. Returns whether seeding ran.
func (s *Store) seed() (bool, error) {
	var count int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM ingredients`).Scan(&count); err != nil {
		return false, err
	}
	if count > 0 {
		return false, nil
	}

	tx, err := s.db.Begin()
	if err != nil {
		return false, err
	}

	stmt, err := tx.Prepare(insertIngredient)
	if err != nil {
		tx.Rollback()
		return false, err
	}
	defer stmt.Close()

	for _, ing := range seedIngredients {
		_, err := stmt.Exec(ing.Name, ing.CAS, ing.Family, ing.NoteType, ing.LogP,
			strings.Join(ing.Descriptors, ","))
		if err != nil {
			tx.Rollback()
			return false, fmt.Errorf("failed to seed %q: %w", ing.Name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, err
	}
	return true, nil
}

func (s *Store) prepareStatements() error {
	var err error

	s.lookupStmt, err = s.db.Prepare(`
		SELECT ` + selectColumns + `
		FROM ingredients
		WHERE name = ?
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare lookup statement: %w", err)
	}

	// Fallback match in either direction: the query contains a catalog
	// name ("bergamot oil expressed") or a catalog name contains the
	// query ("iso e"). Shortest name wins.
	s.searchStmt, err = s.db.Prepare(`
		SELECT ` + selectColumns + `
		FROM ingredients
		WHERE instr(lower(?1), lower(name)) > 0 OR instr(lower(name), lower(?1)) > 0
		ORDER BY length(name)
		LIMIT 1
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare search statement: %w", err)
	}

	s.countStmt, err = s.db.Prepare(`SELECT COUNT(*) FROM ingredients`)
	if err != nil {
		return fmt.Errorf("failed to prepare count statement: %w", err)
	}

	return nil
}

// Lookup resolves an ingredient name to its canonical record. Exact
// matches (case-insensitive) win; otherwise a bidirectional substring
// match is tried. Returns nil without error when nothing matches.
func (s *Store) Lookup(ctx context.Context, name string) (*Ingredient, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("ingredient name cannot be empty")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	ing, err := scanIngredient(s.lookupStmt.QueryRowContext(ctx, name))
	if err == sql.ErrNoRows {
		ing, err = scanIngredient(s.searchStmt.QueryRowContext(ctx, name))
	}
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to look up ingredient: %w", err)
	}
	return ing, nil
}

// List returns ingredients matching the filter, ordered by name.
func (s *Store) List(ctx context.Context, filter Filter) ([]Ingredient, error) {
	query := `SELECT ` + selectColumns + ` FROM ingredients`
	var conds []string
	var args []interface{}
	if filter.NoteType != "" {
		conds = append(conds, "note_type = ?")
		args = append(args, strings.ToLower(filter.NoteType))
	}
	if filter.Family != "" {
		conds = append(conds, "family = ?")
		args = append(args, strings.ToLower(filter.Family))
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY name"

	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	defer rows.Close()

	var ingredients []Ingredient
	for rows.Next() {
		ing, err := scanIngredient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ingredient: %w", err)
		}
		ingredients = append(ingredients, *ing)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ingredients: %w", err)
	}

	return ingredients, nil
}

// Count returns the number of cataloged ingredients.
func (s *Store) Count(ctx context.Context) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int
	if err := s.countStmt.QueryRowContext(ctx).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count ingredients: %w", err)
	}
	return count, nil
}

// Close releases the database. Close is idempotent.
func (s *Store) Close() error {
	var closeErr error

	s.closeOnce.Do(func() {
		if s.lookupStmt != nil {
			s.lookupStmt.Close()
		}
		if s.searchStmt != nil {
			s.searchStmt.Close()
		}
		if s.countStmt != nil {
			s.countStmt.Close()
		}
		if s.db != nil {
			_, _ = s.db.Exec("PRAGMA wal_checkpoint(TRUNCATE)")
			closeErr = s.db.Close()
		}
	})

	return closeErr
}

// scanner covers both *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...interface{}) error
}

func scanIngredient(row scanner) (*Ingredient, error) {
	var ing Ingredient
	var descriptors string
	if err := row.Scan(&ing.Name, &ing.CAS, &ing.Family, &ing.NoteType, &ing.LogP, &descriptors); err != nil {
		return nil, err
	}
	if descriptors != "" {
		ing.Descriptors = strings.Split(descriptors, ",")
	}
	return &ing, nil
}
