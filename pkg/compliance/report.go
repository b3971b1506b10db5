package compliance

import "aromatiq-hq/neroli/pkg/policy"

// ViolationType classifies what a formula violated.
type ViolationType string

const (
	// ViolationBanned flags a substance with a zero concentration cap.
	ViolationBanned ViolationType = "banned"

	// ViolationOverLimit flags a concentration above a non-zero cap.
	ViolationOverLimit ViolationType = "over_limit"

	// ViolationPhototoxicity flags a concentration above a UV-reactivity cap.
	ViolationPhototoxicity ViolationType = "phototoxicity"

	// ViolationAllergenLoad flags the formula-wide allergen sum
	// exceeding the category cap. Emitted at most once per report.
	ViolationAllergenLoad ViolationType = "allergen_load"
)

// Severity grades a violation. Only critical violations make a
// formula non-compliant.
type Severity string

const (
	SeverityCritical Severity = "critical"
	SeverityWarning  Severity = "warning"
	SeverityInfo     Severity = "info"
)

// Ingredient is one component of a candidate formula.
type Ingredient struct {
	Name          string  `json:"name"`
	Concentration float64 `json:"concentration"`
	CAS           string  `json:"cas,omitempty"`
}

// Violation is a single compliance finding. Instances are created
// fresh per validation and never mutated afterwards.
type Violation struct {
	IngredientName       string        `json:"ingredient_name"`
	CASNumber            string        `json:"cas_number,omitempty"`
	Type                 ViolationType `json:"violation_type"`
	CurrentConcentration float64       `json:"current_concentration"`
	MaxAllowed           float64       `json:"max_allowed"`
	Severity             Severity      `json:"severity"`
	Recommendation       string        `json:"recommendation"`
}

// DeclaredAllergen is an ingredient that crossed its declaration
// threshold. Declaration is a labeling duty, not a violation.
type DeclaredAllergen struct {
	Name          string  `json:"name"`
	CAS           string  `json:"cas,omitempty"`
	Concentration float64 `json:"concentration"`
	Threshold     float64 `json:"threshold"`
}

// Report is the complete outcome of validating one formula.
type Report struct {
	// IsCompliant is true iff the report holds zero critical violations.
	IsCompliant bool `json:"is_compliant"`

	// Violations in detection order: per-ingredient findings first,
	// then the aggregate allergen-load finding if any.
	Violations []Violation `json:"violations"`

	// AllergensToDeclare lists every declaration duty found.
	AllergensToDeclare []DeclaredAllergen `json:"allergens_to_declare"`

	// TotalAllergenLoad is the summed concentration of all declared
	// allergens.
	TotalAllergenLoad float64 `json:"total_allergen_load"`

	// ProductCategory echoes the category the formula was validated for.
	ProductCategory policy.Category `json:"product_category"`

	// Summary is a one-line human-readable verdict.
	Summary string `json:"summary"`
}

// CriticalCount returns the number of critical violations.
func (r *Report) CriticalCount() int {
	n := 0
	for _, v := range r.Violations {
		if v.Severity == SeverityCritical {
			n++
		}
	}
	return n
}
