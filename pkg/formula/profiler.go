package formula

import (
	"context"
	"fmt"
	"log/slog"
	"math"

	"aromatiq-hq/neroli/pkg/catalog"
)

// Score scale bounds and the neutral midpoint returned for formulas
// with nothing to measure.
const (
	scoreMin     = 1.0
	scoreMax     = 10.0
	scoreNeutral = 5.0
)

// Catalog resolves ingredient names to canonical records. A nil lookup
// result means the name is unknown.
type Catalog interface {
	Lookup(ctx context.Context, name string) (*catalog.Ingredient, error)
}

// Component is one ingredient of a formula as submitted for profiling.
// Concentration is in percent of the finished product.
type Component struct {
	Name          string  `json:"name"`
	Concentration float64 `json:"concentration"`
}

// ResolvedComponent is a component enriched from the catalog.
type ResolvedComponent struct {
	Name          string  `json:"name"`
	CAS           string  `json:"cas,omitempty"`
	Concentration float64 `json:"concentration"`
	NoteType      string  `json:"note_type"`
	LogP          float64 `json:"logp"`
	InCatalog     bool    `json:"in_catalog"`
}

// NotePyramid is the percentage split of a formula across note classes.
type NotePyramid struct {
	Top   float64 `json:"top"`
	Heart float64 `json:"heart"`
	Base  float64 `json:"base"`
}

// Profile is the result of profiling a formula.
type Profile struct {
	Name        string              `json:"name"`
	NotePyramid NotePyramid         `json:"note_pyramid"`
	Longevity   float64             `json:"longevity_score"`
	Projection  float64             `json:"projection_score"`
	Components  []ResolvedComponent `json:"components"`
}

// Profiler resolves formula components against the catalog and derives
// the profile.
type Profiler struct {
	catalog Catalog
	logger  *slog.Logger
}

// NewProfiler creates a profiler. The catalog may be nil, in which case
// every component falls back to the heart note default.
func NewProfiler(cat Catalog, logger *slog.Logger) *Profiler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Profiler{
		catalog: cat,
		logger:  logger.With("component", "formula.profiler"),
	}
}

// Profile resolves the components and computes the note pyramid, the
// longevity and projection estimates, and a suggested name. The prompt,
// valence, and arousal feed naming only; pass zero values when the
// caller has none.
func (p *Profiler) Profile(ctx context.Context, components []Component, prompt string, valence, arousal float64) (*Profile, error) {
	resolved, err := p.resolve(ctx, components)
	if err != nil {
		return nil, err
	}

	profile := &Profile{
		Name:        SuggestName(prompt, valence, arousal),
		NotePyramid: notePyramid(resolved),
		Longevity:   estimateLongevity(resolved),
		Projection:  estimateProjection(resolved),
		Components:  resolved,
	}

	p.logger.Debug("Profiled formula",
		"components", len(resolved),
		"longevity", profile.Longevity,
		"projection", profile.Projection,
	)

	return profile, nil
}

// resolve enriches each component from the catalog. Unknown materials
// default to heart notes with a neutral logP of zero.
func (p *Profiler) resolve(ctx context.Context, components []Component) ([]ResolvedComponent, error) {
	resolved := make([]ResolvedComponent, 0, len(components))
	for _, c := range components {
		rc := ResolvedComponent{
			Name:          c.Name,
			Concentration: c.Concentration,
			NoteType:      catalog.NoteHeart,
		}

		if p.catalog != nil {
			ing, err := p.catalog.Lookup(ctx, c.Name)
			if err != nil {
				return nil, fmt.Errorf("catalog lookup for %q: %w", c.Name, err)
			}
			if ing != nil {
				rc.CAS = ing.CAS
				rc.NoteType = ing.NoteType
				rc.LogP = ing.LogP
				rc.InCatalog = true
			} else {
				p.logger.Debug("Ingredient not in catalog, defaulting to heart note", "name", c.Name)
			}
		}

		resolved = append(resolved, rc)
	}
	return resolved, nil
}

// notePyramid splits total concentration across the note classes.
// "middle" is accepted as a synonym for heart.
func notePyramid(components []ResolvedComponent) NotePyramid {
	var top, heart, base float64
	for _, c := range components {
		switch c.NoteType {
		case catalog.NoteTop:
			top += c.Concentration
		case catalog.NoteBase:
			base += c.Concentration
		case catalog.NoteHeart, "middle":
			heart += c.Concentration
		}
	}

	total := top + heart + base
	if total == 0 {
		return NotePyramid{}
	}

	return NotePyramid{
		Top:   round1(100 * top / total),
		Heart: round1(100 * heart / total),
		Base:  round1(100 * base / total),
	}
}

// estimateLongevity scores how long the formula lasts on skin. Heavier
// molecules (higher logP) and a larger base note share both extend it.
func estimateLongevity(components []ResolvedComponent) float64 {
	total := totalConcentration(components)
	if total <= 0 {
		return scoreNeutral
	}

	var weighted, base float64
	for _, c := range components {
		weighted += c.LogP * c.Concentration
		if c.NoteType == catalog.NoteBase {
			base += c.Concentration
		}
	}
	avgLogP := weighted / total

	score := scoreNeutral + (avgLogP-2.5)*1.5
	score += (base / total) * 3.0

	return round1(clampScore(score))
}

// estimateProjection scores how far the formula radiates. Top notes
// carry the opening, and higher total concentration projects further,
// topping out at a 20 percent dose.
func estimateProjection(components []ResolvedComponent) float64 {
	total := totalConcentration(components)
	if total <= 0 {
		return scoreNeutral
	}

	var top float64
	for _, c := range components {
		if c.NoteType == catalog.NoteTop {
			top += c.Concentration
		}
	}

	score := 4.0 + (top/total)*4.0 + math.Min(2.0, total/20.0)

	return round1(clampScore(score))
}

func totalConcentration(components []ResolvedComponent) float64 {
	var total float64
	for _, c := range components {
		total += c.Concentration
	}
	return total
}

func clampScore(score float64) float64 {
	return math.Min(scoreMax, math.Max(scoreMin, score))
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
