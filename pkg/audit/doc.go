// Package audit persists a trail of compliance validation outcomes in
// a local SQLite database.
//
// Every recorded validation becomes one immutable Record: who asked
// (the HTTP API or the CLI), which product category was checked, and
// the verdict in numbers (critical violations, allergen declarations)
// plus the summary line. Records are written through the mattn
// go-sqlite3 driver with WAL mode enabled so the server can insert
// while the CLI reads.
//
// Retention is enforced by a Pruner that runs on a cron schedule.
// Pruning is two-phase: records older than the retention window go
// first, then the oldest survivors are trimmed until the record cap is
// met.
package audit
