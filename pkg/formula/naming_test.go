package formula

import "testing"

func TestSuggestName(t *testing.T) {
	tests := []struct {
		name    string
		prompt  string
		valence float64
		arousal float64
		want    string
	}{
		{"morning prompt", "a fresh morning walk", 0, 0, "Dawn Whisper"},
		{"evening prompt", "warm summer evening", 0, 0, "Midnight Reverie"},
		{"rain prompt", "petrichor after a storm", 0, 0, "After the Rain"},
		{"garden prompt", "wildflower garden", 0, 0, "Secret Garden"},
		{"ocean prompt", "salt and sea spray", 0, 0, "Ocean Drift"},
		{"forest prompt", "deep cedar wood", 0, 0, "Forest Path"},
		{"earlier imagery wins", "fresh rain in the forest", 0, 0, "Dawn Whisper"},
		{"positive aroused fallback", "", 0.5, 0.8, "Radiant Energy"},
		{"positive calm fallback", "", 0.5, 0.2, "Serene Bliss"},
		{"negative aroused fallback", "", -0.5, 0.8, "Bold Intensity"},
		{"negative calm fallback", "", -0.5, 0.2, "Deep Contemplation"},
		{"prompt without imagery falls back", "something spicy", 0.5, 0.7, "Radiant Energy"},
		{"zero valence counts as positive", "", 0, 0.5, "Radiant Energy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SuggestName(tt.prompt, tt.valence, tt.arousal); got != tt.want {
				t.Errorf("SuggestName(%q, %v, %v) = %q, want %q",
					tt.prompt, tt.valence, tt.arousal, got, tt.want)
			}
		})
	}
}

func TestSuggestNameDeterministic(t *testing.T) {
	first := SuggestName("a quiet garden at dusk", 0.2, 0.3)
	for i := 0; i < 5; i++ {
		if got := SuggestName("a quiet garden at dusk", 0.2, 0.3); got != first {
			t.Fatalf("run %d = %q, want %q", i, got, first)
		}
	}
}
