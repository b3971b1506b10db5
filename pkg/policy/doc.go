// Package policy loads and serves the regulatory limit tables that
// compliance validation runs against.
//
// The table source is a single JSON document with four sections:
// restricted substances (per-category concentration caps, zero means
// banned), allergens requiring declaration (per-category thresholds,
// zero means banned), phototoxicity limits, and total allergen caps.
//
// The Repository reads its source once. A missing source yields empty
// tables, which callers must treat as "no restrictions known" rather
// than "everything is safe". A malformed source is a *TableError and
// should abort startup.
package policy
