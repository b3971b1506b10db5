package policy

import "encoding/json"

// Category selects which concentration column of the regulatory table
// applies to a product.
type Category string

const (
	// CategoryLeaveOn covers products that stay on skin (cat1).
	CategoryLeaveOn Category = "cat1"

	// CategoryRinseOff covers products that are washed off (cat2).
	CategoryRinseOff Category = "cat2"
)

// Valid reports whether the category is a known table column.
func (c Category) Valid() bool {
	return c == CategoryLeaveOn || c == CategoryRinseOff
}

// Default concentration ceilings applied when a table entry omits the
// corresponding field.
const (
	defaultPhototoxicityMax   = 100.0
	defaultAllergenThreshold  = 0.001
	defaultTotalAllergenLimit = 1.0
)

// RestrictedSubstance is a regulatory entry capping the concentration
// of a named ingredient per product category. A cap of zero bans the
// substance outright.
type RestrictedSubstance struct {
	Name                 string  `json:"name"`
	CAS                  string  `json:"cas,omitempty"`
	MaxConcentrationCat1 float64 `json:"max_concentration_cat1"`
	MaxConcentrationCat2 float64 `json:"max_concentration_cat2"`
	Reason               string  `json:"reason,omitempty"`
}

// MaxForCategory returns the concentration cap for the category.
// Unknown categories fall back to the leave-on column.
func (s RestrictedSubstance) MaxForCategory(c Category) float64 {
	if c == CategoryRinseOff {
		return s.MaxConcentrationCat2
	}
	return s.MaxConcentrationCat1
}

// AllergenDeclaration is a regulatory entry requiring an allergen to
// be declared at or above a per-category concentration threshold. A
// threshold of zero bans the allergen.
type AllergenDeclaration struct {
	Name          string  `json:"name"`
	CAS           string  `json:"cas,omitempty"`
	ThresholdCat1 float64 `json:"threshold_cat1"`
	ThresholdCat2 float64 `json:"threshold_cat2"`
}

// UnmarshalJSON applies the declaration threshold default to omitted
// fields, so that an entry without thresholds still requires
// declaration at trace level rather than banning the allergen.
func (a *AllergenDeclaration) UnmarshalJSON(data []byte) error {
	type shape struct {
		Name          string   `json:"name"`
		CAS           string   `json:"cas"`
		ThresholdCat1 *float64 `json:"threshold_cat1"`
		ThresholdCat2 *float64 `json:"threshold_cat2"`
	}

	var raw shape
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	a.Name = raw.Name
	a.CAS = raw.CAS

	a.ThresholdCat1 = defaultAllergenThreshold
	if raw.ThresholdCat1 != nil {
		a.ThresholdCat1 = *raw.ThresholdCat1
	}
	a.ThresholdCat2 = defaultAllergenThreshold
	if raw.ThresholdCat2 != nil {
		a.ThresholdCat2 = *raw.ThresholdCat2
	}

	return nil
}

// ThresholdForCategory returns the declaration threshold for the
// category. Unknown categories fall back to the leave-on column.
func (a AllergenDeclaration) ThresholdForCategory(c Category) float64 {
	if c == CategoryRinseOff {
		return a.ThresholdCat2
	}
	return a.ThresholdCat1
}

// PhototoxicityLimit caps UV-reactive ingredients. The table carries a
// single ceiling that applies to every category.
type PhototoxicityLimit struct {
	Name                 string  `json:"name"`
	MaxConcentrationCat1 float64 `json:"max_concentration_cat1"`
	Reason               string  `json:"reason,omitempty"`
}

// UnmarshalJSON applies the permissive phototoxicity default when the
// ceiling is omitted.
func (p *PhototoxicityLimit) UnmarshalJSON(data []byte) error {
	type shape struct {
		Name                 string   `json:"name"`
		MaxConcentrationCat1 *float64 `json:"max_concentration_cat1"`
		Reason               string   `json:"reason"`
	}

	var raw shape
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	p.Name = raw.Name
	p.Reason = raw.Reason

	p.MaxConcentrationCat1 = defaultPhototoxicityMax
	if raw.MaxConcentrationCat1 != nil {
		p.MaxConcentrationCat1 = *raw.MaxConcentrationCat1
	}

	return nil
}

// TotalAllergenLimit caps the summed concentration of all declared
// allergens in a formula.
type TotalAllergenLimit struct {
	MaxTotalPercentage float64 `json:"max_total_percentage"`
}

// totalAllergenLimits is the per-category section of the table.
type totalAllergenLimits struct {
	Cat1LeaveOn  *TotalAllergenLimit `json:"cat1_leave_on,omitempty"`
	Cat2RinseOff *TotalAllergenLimit `json:"cat2_rinse_off,omitempty"`
}

// forCategory returns the configured cap, or the default when the
// section or category entry is absent.
func (t totalAllergenLimits) forCategory(c Category) float64 {
	var limit *TotalAllergenLimit
	if c == CategoryRinseOff {
		limit = t.Cat2RinseOff
	} else {
		limit = t.Cat1LeaveOn
	}

	if limit == nil {
		return defaultTotalAllergenLimit
	}
	return limit.MaxTotalPercentage
}

// table is the on-disk shape of the regulatory policy source.
type table struct {
	RestrictedSubstances         []RestrictedSubstance `json:"restricted_substances"`
	AllergensDeclarationRequired []AllergenDeclaration `json:"allergens_declaration_required"`
	PhototoxicityLimits          []PhototoxicityLimit  `json:"phototoxicity_limits"`
	TotalAllergenLimits          totalAllergenLimits   `json:"total_allergen_limits"`
}
