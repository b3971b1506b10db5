// Package compliance validates candidate formulas against the
// regulatory limit tables served by package policy.
//
// The Validator runs four checks per formula: restricted substances
// (exact name, case-insensitive), phototoxicity caps and allergen
// declaration thresholds (both matched by bidirectional substring
// containment), and the formula-wide total allergen load. Findings are
// graded by severity; only critical findings make a formula
// non-compliant, so an excessive allergen load alone yields a warning
// and a compliant report.
//
// Validate never returns an error: an ingredient matching no table
// entry is implicitly within limits.
//
//	report := validator.Validate([]compliance.Ingredient{
//	    {Name: "Bergamot Oil", Concentration: 0.3},
//	}, policy.CategoryLeaveOn)
//	if !report.IsCompliant {
//	    for _, v := range report.Violations {
//	        fmt.Println(v.Severity, v.Recommendation)
//	    }
//	}
package compliance
