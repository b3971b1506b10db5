package physio

// Matches reports whether the condition holds for the profile.
//
// Operator semantics:
//   - "<", ">": both operands must be numeric.
//   - "==": type-sensitive equality (number to number, string to string).
//   - "contains": the profile value must be a list holding the
//     condition value as an element.
//
// A missing parameter, a null condition value, or an operand type
// mismatch is a non-match, never an error.
func (c Condition) Matches(p Profile) bool {
	raw, ok := p[c.Parameter]
	if !ok || raw == nil || c.Value.IsNull() {
		return false
	}

	switch c.Operator {
	case OperatorLess:
		u, ok := toFloat64(raw)
		return ok && c.Value.Kind == ValueNumber && u < c.Value.Num

	case OperatorGreater:
		u, ok := toFloat64(raw)
		return ok && c.Value.Kind == ValueNumber && u > c.Value.Num

	case OperatorEqual:
		return equalValue(raw, c.Value)

	case OperatorContains:
		return containsValue(raw, c.Value)

	default:
		return false
	}
}

// equalValue compares a profile value against a condition value without
// cross-kind coercion. Numeric widths are normalized before comparing.
func equalValue(raw interface{}, v Value) bool {
	switch v.Kind {
	case ValueNumber:
		u, ok := toFloat64(raw)
		return ok && u == v.Num

	case ValueString:
		s, ok := raw.(string)
		return ok && s == v.Str

	case ValueList:
		items, ok := toStringList(raw)
		if !ok || len(items) != len(v.List) {
			return false
		}
		for i := range items {
			if items[i] != v.List[i] {
				return false
			}
		}
		return true

	default:
		return false
	}
}

// containsValue reports whether the profile value is a list containing
// the condition value.
func containsValue(raw interface{}, v Value) bool {
	switch items := raw.(type) {
	case []string:
		if v.Kind != ValueString {
			return false
		}
		for _, item := range items {
			if item == v.Str {
				return true
			}
		}
		return false

	case []interface{}:
		for _, item := range items {
			switch v.Kind {
			case ValueString:
				if s, ok := item.(string); ok && s == v.Str {
					return true
				}
			case ValueNumber:
				if f, ok := toFloat64(item); ok && f == v.Num {
					return true
				}
			}
		}
		return false

	default:
		return false
	}
}

// toStringList normalizes the list shapes a profile value may carry.
func toStringList(raw interface{}) ([]string, bool) {
	switch items := raw.(type) {
	case []string:
		return items, true
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, elem := range items {
			s, ok := elem.(string)
			if !ok {
				return nil, false
			}
			out = append(out, s)
		}
		return out, true
	default:
		return nil, false
	}
}

// toFloat64 converts any numeric value to float64.
func toFloat64(v interface{}) (float64, bool) {
	switch val := v.(type) {
	case float64:
		return val, true
	case float32:
		return float64(val), true
	case int:
		return float64(val), true
	case int8:
		return float64(val), true
	case int16:
		return float64(val), true
	case int32:
		return float64(val), true
	case int64:
		return float64(val), true
	case uint:
		return float64(val), true
	case uint8:
		return float64(val), true
	case uint16:
		return float64(val), true
	case uint32:
		return float64(val), true
	case uint64:
		return float64(val), true
	default:
		return 0, false
	}
}
