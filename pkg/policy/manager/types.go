package manager

import (
	"time"

	"aromatiq-hq/neroli/pkg/compliance"
	"aromatiq-hq/neroli/pkg/physio"
	"aromatiq-hq/neroli/pkg/policy"
	"aromatiq-hq/neroli/pkg/retrieval"
)

// Bundle is one consistent generation of the table-backed components.
// All four members read from the same table snapshot; a reload builds a
// complete replacement bundle and swaps it in atomically, so callers
// holding a bundle never observe a half-updated view.
type Bundle struct {
	// Tables is the regulatory table repository.
	Tables *policy.Repository

	// Rules is the physiological rule repository.
	Rules *physio.Repository

	// Validator checks formulas against Tables.
	Validator *compliance.Validator

	// Engine retrieves rules from Rules for a physiological profile.
	Engine *retrieval.Engine
}

// Status is a point-in-time snapshot of manager state, suitable for
// health endpoints and CLI inspection.
type Status struct {
	// Generation counts successful loads since the manager was created.
	// Zero means no bundle has been loaded yet.
	Generation uint64 `json:"generation"`

	// LastLoadTime is the timestamp of the last successful load.
	LastLoadTime time.Time `json:"last_load_time"`

	// LastLoadError is the message from the most recent failed load
	// attempt. Empty when the last attempt succeeded.
	LastLoadError string `json:"last_load_error,omitempty"`

	// RetrievalMode is the mode the current engine reports.
	RetrievalMode string `json:"retrieval_mode"`

	// RuleCount is the number of physiological rules loaded.
	RuleCount int `json:"rule_count"`

	// RestrictedCount is the number of restricted-substance entries.
	RestrictedCount int `json:"restricted_count"`

	// AllergenCount is the number of allergen declaration entries.
	AllergenCount int `json:"allergen_count"`

	// PhototoxicCount is the number of phototoxicity limit entries.
	PhototoxicCount int `json:"phototoxic_count"`
}
