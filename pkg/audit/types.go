package audit

import "time"

// Record sources, identifying which surface ran the validation.
const (
	SourceAPI = "api"
	SourceCLI = "cli"
)

// Record is a single audit trail entry describing the outcome of one
// compliance validation.
type Record struct {
	// ID is a UUID v4, assigned on insert when empty.
	ID string `json:"id"`

	// Timestamp is when the validation ran.
	Timestamp time.Time `json:"timestamp"`

	// Source identifies the surface that requested the validation
	// (SourceAPI or SourceCLI).
	Source string `json:"source"`

	// Category is the product category the formula was validated
	// against ("cat1" or "cat2").
	Category string `json:"category"`

	// Compliant reports whether the formula passed without critical
	// violations.
	Compliant bool `json:"compliant"`

	// Violations is the number of critical violations found.
	Violations int `json:"violations"`

	// Declarations is the number of allergens requiring label
	// declaration.
	Declarations int `json:"declarations"`

	// Summary is the verdict line from the compliance report.
	Summary string `json:"summary"`
}

// Query defines filter parameters for listing audit records.
// Zero-valued fields are not applied.
type Query struct {
	// Start and End bound the timestamp range (inclusive).
	Start *time.Time `json:"start,omitempty"`
	End   *time.Time `json:"end,omitempty"`

	// Source filters by record source.
	Source string `json:"source,omitempty"`

	// Category filters by product category.
	Category string `json:"category,omitempty"`

	// Compliant filters by compliance outcome.
	Compliant *bool `json:"compliant,omitempty"`

	// Limit caps the number of records returned. Zero means the
	// default of 100.
	Limit int `json:"limit,omitempty"`

	// Offset skips the first N records.
	Offset int `json:"offset,omitempty"`
}

// Stats summarizes the audit trail contents.
type Stats struct {
	Total        int64     `json:"total"`
	Compliant    int64     `json:"compliant"`
	NonCompliant int64     `json:"non_compliant"`
	Oldest       time.Time `json:"oldest"`
	Newest       time.Time `json:"newest"`
}
