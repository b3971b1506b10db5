package audit

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

// defaultListLimit bounds List results when the query gives no limit.
const defaultListLimit = 100

// Store persists audit records in a SQLite database.
type Store struct {
	db     *sql.DB
	logger *slog.Logger
}

// Open opens the audit database at path, creating the directory, file,
// and schema if they do not exist yet.
func Open(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	logger = logger.With("component", "audit.store")

	// SQLite creates a missing file but not a missing directory.
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, NewStorageError("create_directory", err)
		}
	}

	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, NewStorageError("open", err)
	}

	s := &Store{db: db, logger: logger}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("audit store opened", "path", path)
	return s, nil
}

// initialize enables WAL mode and creates the schema.
func (s *Store) initialize() error {
	if _, err := s.db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		return NewStorageError("enable_wal", err)
	}
	if _, err := s.db.Exec("PRAGMA busy_timeout=5000;"); err != nil {
		return NewStorageError("set_busy_timeout", err)
	}
	if _, err := s.db.Exec(Schema); err != nil {
		return NewStorageError("create_schema", err)
	}
	return nil
}

// Insert persists an audit record. A missing ID is filled with a fresh
// UUID and a zero timestamp with the current time.
func (s *Store) Insert(ctx context.Context, rec *Record) error {
	if rec.ID == "" {
		rec.ID = uuid.New().String()
	}
	if rec.Timestamp.IsZero() {
		rec.Timestamp = time.Now()
	}

	const query = `
		INSERT INTO audit_records (
			id, timestamp, source, category, compliant, violations, declarations, summary
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`
	_, err := s.db.ExecContext(ctx, query,
		rec.ID, rec.Timestamp.UnixNano(), rec.Source, rec.Category,
		rec.Compliant, rec.Violations, rec.Declarations, rec.Summary,
	)
	if err != nil {
		return NewStorageError("insert", err)
	}
	return nil
}

// List retrieves audit records matching the query, newest first.
// A nil query returns the most recent records up to the default limit.
func (s *Store) List(ctx context.Context, query *Query) ([]*Record, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT id, timestamp, source, category, compliant, violations, declarations, summary FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}
	sqlQuery += " ORDER BY timestamp DESC"

	limit := defaultListLimit
	if query.Limit > 0 {
		limit = query.Limit
	}
	sqlQuery += fmt.Sprintf(" LIMIT %d", limit)
	if query.Offset > 0 {
		sqlQuery += fmt.Sprintf(" OFFSET %d", query.Offset)
	}

	rows, err := s.db.QueryContext(ctx, sqlQuery, args...)
	if err != nil {
		return nil, NewStorageError("list", err)
	}
	defer rows.Close()

	records := []*Record{}
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, NewStorageError("scan", err)
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, NewStorageError("list", err)
	}
	return records, nil
}

// Count returns the number of records matching the query filters.
func (s *Store) Count(ctx context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	sqlQuery := "SELECT COUNT(*) FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, sqlQuery, args...).Scan(&count); err != nil {
		return 0, NewStorageError("count", err)
	}
	return count, nil
}

// Delete removes records matching the query filters and returns the
// number deleted. Used by age-based retention pruning.
func (s *Store) Delete(ctx context.Context, query *Query) (int64, error) {
	if query == nil {
		query = &Query{}
	}
	where, args := buildWhereClause(query)

	sqlQuery := "DELETE FROM audit_records"
	if where != "" {
		sqlQuery += " WHERE " + where
	}

	result, err := s.db.ExecContext(ctx, sqlQuery, args...)
	if err != nil {
		return 0, NewStorageError("delete", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("delete", err)
	}
	return deleted, nil
}

// DeleteOldest removes the n oldest records. Used by count-based
// retention pruning.
func (s *Store) DeleteOldest(ctx context.Context, n int64) (int64, error) {
	if n <= 0 {
		return 0, nil
	}

	const query = `
		DELETE FROM audit_records WHERE id IN (
			SELECT id FROM audit_records ORDER BY timestamp ASC LIMIT ?
		)
	`
	result, err := s.db.ExecContext(ctx, query, n)
	if err != nil {
		return 0, NewStorageError("delete_oldest", err)
	}
	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, NewStorageError("delete_oldest", err)
	}
	return deleted, nil
}

// Stats returns aggregate counts over the whole audit trail.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(SUM(CASE WHEN compliant THEN 1 ELSE 0 END), 0),
		       COALESCE(MIN(timestamp), 0),
		       COALESCE(MAX(timestamp), 0)
		FROM audit_records
	`
	var stats Stats
	var oldest, newest int64
	if err := s.db.QueryRowContext(ctx, query).Scan(&stats.Total, &stats.Compliant, &oldest, &newest); err != nil {
		return nil, NewStorageError("stats", err)
	}
	stats.NonCompliant = stats.Total - stats.Compliant
	if stats.Total > 0 {
		stats.Oldest = time.Unix(0, oldest)
		stats.Newest = time.Unix(0, newest)
	}
	return &stats, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if err := s.db.Close(); err != nil {
		return NewStorageError("close", err)
	}
	s.logger.Info("audit store closed")
	return nil
}

// buildWhereClause builds a SQL WHERE clause from query filters.
// Returns the clause (without the "WHERE" keyword) and its arguments.
func buildWhereClause(query *Query) (string, []interface{}) {
	var conditions []string
	var args []interface{}

	if query.Start != nil {
		conditions = append(conditions, "timestamp >= ?")
		args = append(args, query.Start.UnixNano())
	}
	if query.End != nil {
		conditions = append(conditions, "timestamp <= ?")
		args = append(args, query.End.UnixNano())
	}
	if query.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, query.Source)
	}
	if query.Category != "" {
		conditions = append(conditions, "category = ?")
		args = append(args, query.Category)
	}
	if query.Compliant != nil {
		conditions = append(conditions, "compliant = ?")
		args = append(args, *query.Compliant)
	}

	return strings.Join(conditions, " AND "), args
}

// scanRecord scans a database row into a Record.
func scanRecord(rows *sql.Rows) (*Record, error) {
	var rec Record
	var ts int64
	var summary sql.NullString

	err := rows.Scan(&rec.ID, &ts, &rec.Source, &rec.Category,
		&rec.Compliant, &rec.Violations, &rec.Declarations, &summary)
	if err != nil {
		return nil, err
	}

	rec.Timestamp = time.Unix(0, ts)
	if summary.Valid {
		rec.Summary = summary.String
	}
	return &rec, nil
}
