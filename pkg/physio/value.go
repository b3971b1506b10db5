package physio

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ValueKind identifies which variant a condition Value holds.
// Condition values have no automatic coercion between kinds.
type ValueKind string

const (
	ValueNull   ValueKind = "null"
	ValueNumber ValueKind = "number"
	ValueString ValueKind = "string"
	ValueList   ValueKind = "list"
)

// Value is the right-hand operand of a rule condition. It is a tagged
// union over the shapes the rule table may carry in a single field:
// a number, a string, or a list of strings. A null or absent value
// never matches any profile.
type Value struct {
	Kind ValueKind
	Num  float64
	Str  string
	List []string
}

// NumberValue returns a numeric Value.
func NumberValue(n float64) Value {
	return Value{Kind: ValueNumber, Num: n}
}

// StringValue returns a string Value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// ListValue returns a list Value.
func ListValue(items ...string) Value {
	return Value{Kind: ValueList, List: items}
}

// IsNull returns true if the value holds no variant.
func (v Value) IsNull() bool {
	return v.Kind == ValueNull || v.Kind == ""
}

// String renders the value the way rule documents and matched-condition
// descriptions present it.
func (v Value) String() string {
	switch v.Kind {
	case ValueNumber:
		return strconv.FormatFloat(v.Num, 'g', -1, 64)
	case ValueString:
		return v.Str
	case ValueList:
		return strings.Join(v.List, ", ")
	default:
		return "null"
	}
}

// UnmarshalJSON decodes a rule-table value into the matching variant.
// Lists must contain only strings; anything else in the field is a
// malformed table.
func (v *Value) UnmarshalJSON(data []byte) error {
	var raw interface{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch val := raw.(type) {
	case nil:
		*v = Value{Kind: ValueNull}
		return nil
	case float64:
		*v = Value{Kind: ValueNumber, Num: val}
		return nil
	case string:
		*v = Value{Kind: ValueString, Str: val}
		return nil
	case []interface{}:
		items := make([]string, 0, len(val))
		for i, elem := range val {
			s, ok := elem.(string)
			if !ok {
				return fmt.Errorf("condition value list element %d: expected string, got %T", i, elem)
			}
			items = append(items, s)
		}
		*v = Value{Kind: ValueList, List: items}
		return nil
	default:
		return fmt.Errorf("condition value: unsupported type %T", raw)
	}
}

// MarshalJSON encodes the value back to its table representation.
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case ValueNumber:
		return json.Marshal(v.Num)
	case ValueString:
		return json.Marshal(v.Str)
	case ValueList:
		return json.Marshal(v.List)
	default:
		return []byte("null"), nil
	}
}
