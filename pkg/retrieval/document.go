package retrieval

import (
	"fmt"
	"strconv"
	"strings"

	"aromatiq-hq/neroli/pkg/physio"
)

// BuildDocument renders a rule as the text that gets embedded into the
// vector index. Besides the rule's own fields it appends domain hints
// so that profile queries phrased in skin-chemistry terms land near
// the rules they should.
func BuildDocument(r physio.Rule) string {
	parts := []string{
		"Condition: " + r.Condition.String(),
		"Affects: " + r.Target,
		"Action: " + r.Action,
	}
	if r.Factor != nil && *r.Factor != 0 {
		parts = append(parts, "Adjustment factor: "+strconv.FormatFloat(*r.Factor, 'g', -1, 64))
	}
	if r.Reasoning != "" {
		parts = append(parts, "Reasoning: "+r.Reasoning)
	}
	if hints := semanticHints(r); len(hints) > 0 {
		parts = append(parts, "Related concepts: "+strings.Join(hints, ", "))
	}
	return strings.Join(parts, " | ")
}

// semanticHints expands a condition into the skin-chemistry vocabulary
// its matching profiles are described with.
func semanticHints(r physio.Rule) []string {
	cond := r.Condition

	switch cond.Parameter {
	case physio.ParamPH:
		if cond.Value.Kind != physio.ValueNumber {
			return nil
		}
		if cond.Operator == physio.OperatorLess && cond.Value.Num <= 5.5 {
			return []string{"acidic skin", "dry skin chemistry", "faster evaporation"}
		}
		if cond.Operator == physio.OperatorGreater && cond.Value.Num >= 5.5 {
			return []string{"alkaline skin", "oily skin chemistry", "slower breakdown"}
		}

	case physio.ParamSkinType:
		if valueMentions(cond.Value, "dry") {
			return []string{"low sebum", "faster absorption", "needs moisturizing bases"}
		}
		if valueMentions(cond.Value, "oily") {
			return []string{"high sebum", "better projection", "avoid heavy oils"}
		}

	case physio.ParamTemperature:
		if cond.Value.Kind != physio.ValueNumber {
			return nil
		}
		if cond.Operator == physio.OperatorGreater && cond.Value.Num >= 37 {
			return []string{"warm skin", "faster diffusion", "enhanced projection"}
		}
		if cond.Operator == physio.OperatorLess && cond.Value.Num <= 36 {
			return []string{"cool skin", "slower evaporation", "subtle sillage"}
		}
	}
	return nil
}

// valueMentions reports whether a string or list value contains the
// given word, case-insensitively.
func valueMentions(v physio.Value, word string) bool {
	switch v.Kind {
	case physio.ValueString:
		return strings.Contains(strings.ToLower(v.Str), word)
	case physio.ValueList:
		for _, elem := range v.List {
			if strings.Contains(strings.ToLower(elem), word) {
				return true
			}
		}
	}
	return false
}

// BuildQuery renders a profile as the semantic query text matched
// against rule documents. The same expansion vocabulary used in
// BuildDocument keeps queries and documents in a shared term space.
func BuildQuery(p physio.Profile) string {
	var parts []string

	if ph, ok := p.Float(physio.ParamPH); ok {
		parts = append(parts, fmt.Sprintf("pH level %g", ph))
		if ph < 5.2 {
			parts = append(parts, "acidic skin chemistry faster evaporation")
		} else if ph > 5.8 {
			parts = append(parts, "alkaline skin chemistry slower breakdown")
		}
	}

	if skin, ok := p.String(physio.ParamSkinType); ok {
		skin = strings.ToLower(skin)
		parts = append(parts, "skin type "+skin)
		switch skin {
		case "dry":
			parts = append(parts, "low sebum fast absorption")
		case "oily":
			parts = append(parts, "high sebum enhanced projection")
		}
	}

	if temp, ok := p.Float(physio.ParamTemperature); ok {
		parts = append(parts, fmt.Sprintf("body temperature %g", temp))
		if temp > 37 {
			parts = append(parts, "warm skin fast diffusion")
		} else if temp < 36 {
			parts = append(parts, "cool skin slow evaporation")
		}
	}

	if allergies, ok := p.Strings(physio.ParamAllergies); ok {
		for _, allergen := range allergies {
			parts = append(parts, "allergen sensitivity "+allergen)
		}
	}

	return strings.Join(parts, " ")
}
