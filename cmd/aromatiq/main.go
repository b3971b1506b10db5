// Aromatiq Neroli is a decision-support backend for perfume formulation.
//
// It validates candidate formulas against IFRA-style regulatory tables,
// retrieves physiological adaptation rules for skin profiles, simulates
// EEG and skin-pH readings, and profiles formulas against the
// ingredient catalog:
//   - Compliance validation with restriction, phototoxicity, and
//     allergen checks
//   - Dual-mode rule retrieval (vector similarity with keyword fallback)
//   - Persistent audit trail for every recorded validation
//   - Hot reload of regulatory and rule tables
//
// Usage:
//
//	# Start server with default configuration
//	aromatiq serve
//
//	# Start with custom configuration file
//	aromatiq serve --config /path/to/neroli.yaml
//
//	# Validate a formula file
//	aromatiq validate --file formula.json --category cat1
//
//	# Search physiological rules for a skin profile
//	aromatiq rules search --profile '{"ph": 4.5}'
//
//	# Look up an ingredient
//	aromatiq catalog lookup "Bergamot Oil"
//
//	# Query the audit trail
//	aromatiq audit query --time-range "2026-08-01T00:00:00Z/2026-08-26T00:00:00Z"
//
//	# Show version information
//	aromatiq version
package main

import "github.com/joho/godotenv"

func main() {
	// NEROLI_* overrides may live in a .env file next to the binary.
	_ = godotenv.Load()

	Execute()
}
