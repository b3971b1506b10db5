package formula

import "strings"

// promptNames pairs trigger words with the name they evoke. Checked in
// order; the first pair with a matching trigger wins.
var promptNames = []struct {
	triggers []string
	name     string
}{
	{[]string{"morning", "fresh"}, "Dawn Whisper"},
	{[]string{"night", "evening"}, "Midnight Reverie"},
	{[]string{"rain", "petrichor"}, "After the Rain"},
	{[]string{"garden", "flower"}, "Secret Garden"},
	{[]string{"ocean", "sea"}, "Ocean Drift"},
	{[]string{"forest", "wood"}, "Forest Path"},
}

// Names for the four valence-arousal quadrants when the prompt offers
// no imagery to borrow.
const (
	namePositiveAroused = "Radiant Energy"
	namePositiveCalm    = "Serene Bliss"
	nameNegativeAroused = "Bold Intensity"
	nameNegativeCalm    = "Deep Contemplation"
)

// SuggestName proposes a name for the composition. Imagery in the
// prompt takes precedence; otherwise the name falls back to the
// emotional quadrant of the valence-arousal pair. Same inputs, same
// name.
func SuggestName(prompt string, valence, arousal float64) string {
	if prompt != "" {
		lower := strings.ToLower(prompt)
		for _, pn := range promptNames {
			for _, trigger := range pn.triggers {
				if strings.Contains(lower, trigger) {
					return pn.name
				}
			}
		}
	}

	if valence >= 0 {
		if arousal >= 0.5 {
			return namePositiveAroused
		}
		return namePositiveCalm
	}
	if arousal >= 0.5 {
		return nameNegativeAroused
	}
	return nameNegativeCalm
}
