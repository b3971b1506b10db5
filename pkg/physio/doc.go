// Package physio defines physiological correction rules and their
// evaluation against user profiles.
//
// A Rule pairs a single Condition (parameter, operator, value) with
// the adjustment it prescribes (target, action, optional factor). The
// Repository loads the rule table from a JSON source once and serves
// it read-only for the rest of the process lifetime.
//
// # Condition Values
//
// The value field of a condition is dynamically shaped in the table:
// it may hold a number, a string, or a list of strings. Value models
// this as a tagged union; operator evaluation dispatches on the tag
// and fails closed (non-match) on any tag/operator mismatch:
//
//	cond := physio.Condition{
//	    Parameter: physio.ParamPH,
//	    Operator:  physio.OperatorLess,
//	    Value:     physio.NumberValue(5.2),
//	}
//	cond.Matches(physio.Profile{"ph": 4.8}) // true
//	cond.Matches(physio.Profile{"ph": "4.8"}) // false, not numeric
//
// # Load Semantics
//
// A missing table file yields an empty rule set, not an error; callers
// must treat "no rules known" as distinct from "rule matched nothing".
// A malformed table is a *TableError and should abort startup.
package physio
