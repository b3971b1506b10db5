package biosignal

import (
	"fmt"
	"math"
	"math/rand"
	"strings"
)

// maxColorDistance is the diagonal of the RGB cube, the largest possible
// distance between two samples.
const maxColorDistance = 441.0

// Method values reported on a PHReading.
const (
	MethodColorAnalysis = "color_analysis"
	MethodSimulated     = "simulated"
)

// simulatedConfidence is reported on fabricated readings.
const simulatedConfidence = 0.85

// RGB is an 8-bit color sample taken from an indicator strip.
type RGB struct {
	R int `json:"r"`
	G int `json:"g"`
	B int `json:"b"`
}

// Validate checks that every channel is a legal 8-bit value.
func (c RGB) Validate() error {
	for _, v := range []int{c.R, c.G, c.B} {
		if v < 0 || v > 255 {
			return fmt.Errorf("channel value %d outside 0-255", v)
		}
	}
	return nil
}

// phAnchor ties a reference strip color to the pH it indicates.
type phAnchor struct {
	ph    float64
	color RGB
}

// phScale is the universal indicator chart, ordered by pH.
var phScale = []phAnchor{
	{1.0, RGB{254, 0, 0}},     // dark red
	{2.0, RGB{255, 50, 50}},   // red
	{3.0, RGB{255, 100, 50}},  // red-orange
	{4.0, RGB{255, 150, 0}},   // orange
	{5.0, RGB{255, 200, 0}},   // yellow-orange
	{5.5, RGB{255, 230, 0}},   // yellow
	{6.0, RGB{200, 230, 0}},   // yellow-green
	{6.5, RGB{150, 230, 50}},  // light green
	{7.0, RGB{100, 200, 100}}, // green
	{7.5, RGB{50, 180, 150}},  // blue-green
	{8.0, RGB{50, 150, 200}},  // light blue
	{9.0, RGB{50, 100, 200}},  // blue
	{10.0, RGB{100, 50, 200}}, // purple
	{11.0, RGB{150, 50, 200}}, // violet
	{12.0, RGB{100, 0, 150}},  // dark purple
}

// Typical skin pH by skin type. Sebum keeps oily skin closer to neutral
// while dry skin sits lower on the acid mantle.
var skinTypeRanges = map[string][2]float64{
	"dry":    {5.0, 5.5},
	"normal": {5.2, 5.8},
	"oily":   {5.5, 6.5},
}

// PHReading is an estimated pH with the evidence behind it.
type PHReading struct {
	Value      float64 `json:"ph_value"`
	Confidence float64 `json:"confidence"`
	Color      string  `json:"color_detected"`
	Method     string  `json:"method"`
	Sample     RGB     `json:"raw_rgb"`
}

// EstimatePH matches an RGB sample against the indicator chart and
// returns the pH of the closest anchor. When a neighboring anchor is
// nearly as close as the best match, the estimate is nudged toward it to
// recover in-between readings from the 15-anchor chart. Confidence falls
// linearly with color distance, reaching zero across the RGB cube
// diagonal.
func EstimatePH(sample RGB) PHReading {
	best := 0
	minDist := math.Inf(1)
	for i, anchor := range phScale {
		if d := colorDistance(sample, anchor.color); d < minDist {
			minDist = d
			best = i
		}
	}

	value := phScale[best].ph
	if best > 0 && best < len(phScale)-1 {
		lower := phScale[best-1]
		upper := phScale[best+1]
		lowerDist := colorDistance(sample, lower.color)
		upperDist := colorDistance(sample, upper.color)

		if lowerDist < upperDist && lowerDist < minDist*1.5 {
			ratio := minDist / (minDist + lowerDist)
			value -= (value - lower.ph) * (1 - ratio) * 0.5
		} else if upperDist < minDist*1.5 {
			ratio := minDist / (minDist + upperDist)
			value += (upper.ph - value) * (1 - ratio) * 0.5
		}
	}

	confidence := math.Max(0.0, 1.0-minDist/maxColorDistance)

	return PHReading{
		Value:      round(value, 1),
		Confidence: round(confidence, 2),
		Color:      describeColor(sample),
		Method:     MethodColorAnalysis,
		Sample:     sample,
	}
}

// SimulatePH fabricates a plausible reading for a skin type, drawing
// uniformly from the type's typical range. The reported color is the
// chart anchor closest to the drawn value. Skin type is matched
// case-insensitively.
func SimulatePH(skinType string) (PHReading, error) {
	r, ok := skinTypeRanges[strings.ToLower(skinType)]
	if !ok {
		return PHReading{}, fmt.Errorf("unknown skin type %q", skinType)
	}

	value := round(r[0]+rand.Float64()*(r[1]-r[0]), 1)

	anchor := nearestAnchor(value)
	return PHReading{
		Value:      value,
		Confidence: simulatedConfidence,
		Color:      describeColor(anchor.color),
		Method:     MethodSimulated,
		Sample:     anchor.color,
	}, nil
}

func nearestAnchor(ph float64) phAnchor {
	best := phScale[0]
	for _, anchor := range phScale[1:] {
		if math.Abs(anchor.ph-ph) < math.Abs(best.ph-ph) {
			best = anchor
		}
	}
	return best
}

func colorDistance(a, b RGB) float64 {
	dr := float64(a.R - b.R)
	dg := float64(a.G - b.G)
	db := float64(a.B - b.B)
	return math.Sqrt(dr*dr + dg*dg + db*db)
}

// describeColor names a sample for human-readable reports.
func describeColor(c RGB) string {
	switch {
	case c.R > 200 && c.G < 100 && c.B < 100:
		return "red"
	case c.R > 200 && c.G > 100 && c.G < 200 && c.B < 100:
		return "orange"
	case c.R > 200 && c.G > 200 && c.B < 100:
		return "yellow"
	case c.R < 150 && c.G > 150 && c.B < 100:
		return "green"
	case c.R < 100 && c.G > 100 && c.B > 150:
		return "blue"
	case c.R > 100 && c.G < 100 && c.B > 100:
		return "purple"
	default:
		return fmt.Sprintf("rgb(%d,%d,%d)", c.R, c.G, c.B)
	}
}
