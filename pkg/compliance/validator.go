package compliance

import (
	"fmt"
	"log/slog"
	"strings"

	"aromatiq-hq/neroli/pkg/policy"
)

// Validator evaluates candidate formulas against the regulatory limit
// tables. It holds no mutable state of its own and is safe for
// unlimited concurrent use once its repository is loaded.
//
// Validate always returns a report, never an error: unknown ingredient
// names are implicitly within limits, and empty tables produce a
// compliant report.
type Validator struct {
	policies *policy.Repository
	logger   *slog.Logger
}

// NewValidator creates a validator over the given regulatory tables.
func NewValidator(policies *policy.Repository, logger *slog.Logger) (*Validator, error) {
	if policies == nil {
		return nil, fmt.Errorf("policy repository cannot be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &Validator{
		policies: policies,
		logger:   logger.With("component", "compliance.validator"),
	}, nil
}

// Validate checks every ingredient against the restricted-substance,
// phototoxicity, and allergen tables, then the formula-wide allergen
// load against the category cap.
//
// Name matching: restricted substances match on the exact name,
// case-insensitively; phototoxicity and allergen entries match on
// bidirectional substring containment, which catches ingredient-name
// variants at the cost of over-matching short names.
func (v *Validator) Validate(ingredients []Ingredient, category policy.Category) *Report {
	report := &Report{
		Violations:         []Violation{},
		AllergensToDeclare: []DeclaredAllergen{},
		ProductCategory:    category,
	}

	phototoxic := v.policies.PhototoxicityLimits()
	allergens := v.policies.Allergens()

	for _, ing := range ingredients {
		nameLower := strings.ToLower(ing.Name)

		if entry, ok := v.policies.Restricted(ing.Name); ok {
			maxConc := entry.MaxForCategory(category)
			switch {
			case maxConc == 0:
				report.Violations = append(report.Violations, Violation{
					IngredientName:       ing.Name,
					CASNumber:            entry.CAS,
					Type:                 ViolationBanned,
					CurrentConcentration: ing.Concentration,
					MaxAllowed:           0,
					Severity:             SeverityCritical,
					Recommendation:       recommendRemoval(ing.Name, entry.Reason),
				})
			case ing.Concentration > maxConc:
				report.Violations = append(report.Violations, Violation{
					IngredientName:       ing.Name,
					CASNumber:            entry.CAS,
					Type:                 ViolationOverLimit,
					CurrentConcentration: ing.Concentration,
					MaxAllowed:           maxConc,
					Severity:             SeverityCritical,
					Recommendation:       recommendReduction(ing.Name, maxConc, entry.Reason),
				})
			}
		}

		for _, p := range phototoxic {
			if !substringMatch(nameLower, strings.ToLower(p.Name)) {
				continue
			}
			if ing.Concentration > p.MaxConcentrationCat1 {
				report.Violations = append(report.Violations, Violation{
					IngredientName:       ing.Name,
					Type:                 ViolationPhototoxicity,
					CurrentConcentration: ing.Concentration,
					MaxAllowed:           p.MaxConcentrationCat1,
					Severity:             SeverityCritical,
					Recommendation: strings.TrimSpace(fmt.Sprintf(
						"Reduce %s to max %g%% for phototoxicity. %s",
						ing.Name, p.MaxConcentrationCat1, p.Reason)),
				})
			}
		}

		for _, a := range allergens {
			if !substringMatch(nameLower, strings.ToLower(a.Name)) {
				continue
			}
			threshold := a.ThresholdForCategory(category)
			if threshold == 0 {
				report.Violations = append(report.Violations, Violation{
					IngredientName:       ing.Name,
					CASNumber:            a.CAS,
					Type:                 ViolationBanned,
					CurrentConcentration: ing.Concentration,
					MaxAllowed:           0,
					Severity:             SeverityCritical,
					Recommendation:       fmt.Sprintf("Remove %s - banned allergen", ing.Name),
				})
			} else if ing.Concentration >= threshold {
				report.AllergensToDeclare = append(report.AllergensToDeclare, DeclaredAllergen{
					Name:          ing.Name,
					CAS:           a.CAS,
					Concentration: ing.Concentration,
					Threshold:     threshold,
				})
				report.TotalAllergenLoad += ing.Concentration
			}
		}
	}

	maxTotal := v.policies.TotalAllergenCap(category)
	if report.TotalAllergenLoad > maxTotal {
		report.Violations = append(report.Violations, Violation{
			IngredientName:       "Total Allergens",
			Type:                 ViolationAllergenLoad,
			CurrentConcentration: report.TotalAllergenLoad,
			MaxAllowed:           maxTotal,
			Severity:             SeverityWarning,
			Recommendation: fmt.Sprintf(
				"Total allergen load %.2f%% exceeds %g%% recommendation",
				report.TotalAllergenLoad, maxTotal),
		})
	}

	critical := report.CriticalCount()
	report.IsCompliant = critical == 0

	switch {
	case report.IsCompliant && len(report.Violations) == 0:
		report.Summary = "Formula is fully compliant with no issues detected."
	case report.IsCompliant:
		report.Summary = fmt.Sprintf(
			"Formula is compliant with %d warning(s). %d allergen(s) require declaration.",
			len(report.Violations), len(report.AllergensToDeclare))
	default:
		report.Summary = fmt.Sprintf(
			"Formula has %d critical violation(s) that must be resolved for compliance.",
			critical)
	}

	v.logger.Debug("formula validated",
		"category", category,
		"ingredients", len(ingredients),
		"violations", len(report.Violations),
		"critical", critical,
		"compliant", report.IsCompliant,
	)

	return report
}

// MaxAllowedConcentration returns the effective concentration ceiling
// for an ingredient name: the restricted-substance cap if the exact
// name is restricted, else the first phototoxicity cap whose entry
// matches by substring. The second return is false when the ingredient
// is unrestricted, which is distinct from a cap of zero.
func (v *Validator) MaxAllowedConcentration(name string, category policy.Category) (float64, bool) {
	if entry, ok := v.policies.Restricted(name); ok {
		return entry.MaxForCategory(category), true
	}

	nameLower := strings.ToLower(name)
	for _, p := range v.policies.PhototoxicityLimits() {
		if substringMatch(nameLower, strings.ToLower(p.Name)) {
			return p.MaxConcentrationCat1, true
		}
	}

	return 0, false
}

// IsAllergen reports whether any allergen entry matches the name by
// substring in either direction.
func (v *Validator) IsAllergen(name string) bool {
	nameLower := strings.ToLower(name)
	for _, a := range v.policies.Allergens() {
		if substringMatch(nameLower, strings.ToLower(a.Name)) {
			return true
		}
	}
	return false
}

// substringMatch reports containment in either direction. Both inputs
// must already be lowercased.
func substringMatch(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

func recommendRemoval(name, reason string) string {
	return strings.TrimSpace(fmt.Sprintf("Remove %s - banned substance. %s", name, reason))
}

func recommendReduction(name string, maxConc float64, reason string) string {
	return strings.TrimSpace(fmt.Sprintf("Reduce %s to max %g%%. %s", name, maxConc, reason))
}
