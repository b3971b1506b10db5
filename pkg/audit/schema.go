package audit

// Schema contains the SQL statements to create the audit trail schema.
// Timestamps are stored as Unix nanoseconds so ordering never depends
// on string formats or time zones.
const Schema = `
CREATE TABLE IF NOT EXISTS audit_records (
    id TEXT PRIMARY KEY,
    timestamp INTEGER NOT NULL,
    source TEXT NOT NULL,
    category TEXT NOT NULL,
    compliant BOOLEAN NOT NULL,
    violations INTEGER NOT NULL,
    declarations INTEGER NOT NULL,
    summary TEXT
);

CREATE INDEX IF NOT EXISTS idx_audit_timestamp ON audit_records(timestamp);
CREATE INDEX IF NOT EXISTS idx_audit_category ON audit_records(category);
CREATE INDEX IF NOT EXISTS idx_audit_compliant ON audit_records(compliant);
`
