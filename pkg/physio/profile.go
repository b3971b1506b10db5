package physio

// Well-known profile parameters. Rule conditions may reference any
// parameter name; these are the ones the retrieval layer builds
// semantic queries from.
const (
	ParamPH          = "ph"
	ParamSkinType    = "skin_type"
	ParamTemperature = "temperature"
	ParamAllergies   = "allergies"
)

// Profile is the physiological state rules are evaluated against.
// Values are dynamically typed the way a decoded JSON body carries
// them: numbers as float64, strings, and lists as []interface{} or
// []string. Absent parameters simply never match.
type Profile map[string]interface{}

// Float returns the named parameter as a float64. The second return
// is false when the parameter is absent or not numeric.
func (p Profile) Float(param string) (float64, bool) {
	raw, ok := p[param]
	if !ok {
		return 0, false
	}
	return toFloat64(raw)
}

// String returns the named parameter as a string.
func (p Profile) String(param string) (string, bool) {
	raw, ok := p[param]
	if !ok {
		return "", false
	}
	s, ok := raw.(string)
	return s, ok
}

// Strings returns the named parameter as a list of strings, accepting
// both []string and decoded-JSON []interface{} shapes. Non-string
// elements are skipped.
func (p Profile) Strings(param string) ([]string, bool) {
	raw, ok := p[param]
	if !ok {
		return nil, false
	}

	switch items := raw.(type) {
	case []string:
		return items, true
	case []interface{}:
		out := make([]string, 0, len(items))
		for _, elem := range items {
			if s, ok := elem.(string); ok {
				out = append(out, s)
			}
		}
		return out, true
	default:
		return nil, false
	}
}
