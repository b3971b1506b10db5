package physio

import "fmt"

// Operator is a comparison applied between a profile parameter and a
// condition value.
type Operator string

const (
	// OperatorLess matches when both operands are numeric and the
	// profile value is strictly below the condition value.
	OperatorLess Operator = "<"

	// OperatorGreater matches when both operands are numeric and the
	// profile value is strictly above the condition value.
	OperatorGreater Operator = ">"

	// OperatorEqual matches on type-sensitive equality.
	OperatorEqual Operator = "=="

	// OperatorContains matches when the profile value is a list and
	// the condition value is one of its elements.
	OperatorContains Operator = "contains"
)

// Condition gates a rule on a single profile parameter.
type Condition struct {
	Parameter string   `json:"parameter"`
	Operator  Operator `json:"operator"`
	Value     Value    `json:"value"`
}

// String renders the condition as "parameter operator value",
// the form used in rule documents and retrieval results.
func (c Condition) String() string {
	return fmt.Sprintf("%s %s %s", c.Parameter, c.Operator, c.Value)
}

// Rule is a single physiological correction rule: when its condition
// holds for a profile, the named target should be adjusted by the named
// action, optionally scaled by Factor. Rules are immutable once loaded.
type Rule struct {
	// ID uniquely identifies the rule within its table.
	ID string `json:"id"`

	// Condition selects the profiles this rule applies to.
	Condition Condition `json:"condition"`

	// Target names what the rule adjusts (e.g. "top_notes", "fixatives").
	Target string `json:"target"`

	// Action names how the target is adjusted (e.g. "increase", "substitute").
	Action string `json:"action"`

	// Factor optionally scales the adjustment.
	Factor *float64 `json:"factor,omitempty"`

	// Threshold optionally bounds the adjustment.
	Threshold map[string]interface{} `json:"threshold,omitempty"`

	// Substitute optionally names replacement ingredients.
	Substitute map[string]interface{} `json:"substitute,omitempty"`

	// Reasoning is free-text background for the rule.
	Reasoning string `json:"reasoning,omitempty"`
}

// RetrievedRule pairs a rule with the relevance score and the
// matched-condition description a retrieval produced it under.
// Instances are created per query and not persisted.
type RetrievedRule struct {
	Rule           Rule    `json:"rule"`
	RelevanceScore float64 `json:"relevance_score"`

	// MatchedCondition describes what the rule was matched against:
	// the rule's own condition in fallback mode, the semantic query
	// text in vector mode.
	MatchedCondition string `json:"matched_condition"`
}
