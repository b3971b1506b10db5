package biosignal

import (
	"math"
	"strings"
	"time"
)

// Resting-state band power baselines in microvolts.
const (
	baselineAlpha = 10.0
	baselineTheta = 8.0
)

// Confidence grows with lexical evidence: a text matching no lexicon
// entries is a neutral guess, one matching several is a strong read.
const (
	confidenceFloor  = 0.60
	confidencePerHit = 0.05
	confidenceCeil   = 0.98
)

// Affect lexicons for scent vocabulary. Weights are summed over
// substring matches, so "sunshine everywhere" scores "sunshine" once no
// matter how often it appears. A word can carry both a valence and an
// arousal weight ("calm" is pleasant and sedating at the same time).
var (
	positiveValence = map[string]float64{
		"happy": 0.3, "joy": 0.35, "love": 0.4, "beautiful": 0.25,
		"fresh": 0.2, "bright": 0.2, "warm": 0.15, "soft": 0.1,
		"peaceful": 0.25, "calm": 0.2, "serene": 0.25, "gentle": 0.15,
		"sweet": 0.2, "romantic": 0.3, "dreamy": 0.2, "cozy": 0.2,
		"spring": 0.2, "summer": 0.15, "morning": 0.15, "sunshine": 0.25,
		"garden": 0.15, "flowers": 0.2, "rain": 0.1, "ocean": 0.15,
	}

	negativeValence = map[string]float64{
		"sad": -0.3, "dark": -0.15, "cold": -0.1, "lonely": -0.25,
		"intense": -0.1, "mysterious": -0.05, "deep": -0.05,
		"smoky": -0.1, "heavy": -0.15,
	}

	highArousal = map[string]float64{
		"energy": 0.3, "exciting": 0.35, "vibrant": 0.3, "powerful": 0.25,
		"intense": 0.25, "bold": 0.2, "strong": 0.2, "spicy": 0.15,
		"citrus": 0.15, "electric": 0.3, "party": 0.3, "dance": 0.25,
	}

	lowArousal = map[string]float64{
		"calm": -0.25, "peaceful": -0.3, "relaxing": -0.35, "quiet": -0.2,
		"soft": -0.15, "gentle": -0.2, "meditative": -0.35, "sleep": -0.4,
		"tranquil": -0.3, "serene": -0.3, "evening": -0.15, "night": -0.2,
	}
)

// EEGSignal is a simulated valence-arousal reading together with the
// frontal band powers that would produce it.
type EEGSignal struct {
	Valence    float64   `json:"valence"`
	Arousal    float64   `json:"arousal"`
	Confidence float64   `json:"confidence"`
	Emotion    string    `json:"emotion_label"`
	Alpha      float64   `json:"raw_alpha"`
	Beta       float64   `json:"raw_beta"`
	Theta      float64   `json:"raw_theta"`
	Timestamp  time.Time `json:"timestamp"`
}

// EEGFromText simulates an EEG-derived affect reading from the emotional
// vocabulary of free text. Valence starts neutral at 0, arousal at the
// 0.5 waking baseline; lexicon weights are summed over matches and the
// results clamped to [-1, 1] and [0, 1]. The same text always produces
// the same reading.
func EEGFromText(text string) EEGSignal {
	lower := strings.ToLower(text)

	valence := 0.0
	arousal := 0.5
	hits := 0

	for word, weight := range positiveValence {
		if strings.Contains(lower, word) {
			valence += weight
			hits++
		}
	}
	for word, weight := range negativeValence {
		if strings.Contains(lower, word) {
			valence += weight
			hits++
		}
	}
	for word, weight := range highArousal {
		if strings.Contains(lower, word) {
			arousal += weight
			hits++
		}
	}
	for word, weight := range lowArousal {
		if strings.Contains(lower, word) {
			arousal += weight
			hits++
		}
	}

	valence = clamp(valence, -1.0, 1.0)
	arousal = clamp(arousal, 0.0, 1.0)

	return signalFor(valence, arousal, hits)
}

// signalFor derives band powers from a valence-arousal pair. Frontal
// alpha asymmetry tracks valence, the beta/alpha ratio tracks arousal,
// and theta rises as arousal falls.
func signalFor(valence, arousal float64, hits int) EEGSignal {
	alpha := baselineAlpha * (1.0 + valence*2.0*0.2)
	beta := alpha * (0.5 + arousal*0.8)
	theta := baselineTheta * (1.5 - arousal*0.5)

	confidence := confidenceFloor + confidencePerHit*float64(hits)
	if confidence > confidenceCeil {
		confidence = confidenceCeil
	}

	return EEGSignal{
		Valence:    round(valence, 3),
		Arousal:    round(arousal, 3),
		Confidence: round(confidence, 3),
		Emotion:    emotionLabel(valence, arousal),
		Alpha:      round(alpha, 2),
		Beta:       round(beta, 2),
		Theta:      round(theta, 2),
		Timestamp:  time.Now().UTC(),
	}
}

// emotionLabel maps a valence-arousal pair onto its circumplex quadrant.
func emotionLabel(valence, arousal float64) string {
	switch {
	case valence >= 0 && arousal >= 0.5:
		return "excited/happy"
	case valence >= 0:
		return "relaxed/content"
	case arousal >= 0.5:
		return "stressed/anxious"
	default:
		return "sad/melancholic"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func round(v float64, places int) float64 {
	scale := math.Pow(10, float64(places))
	return math.Round(v*scale) / scale
}
