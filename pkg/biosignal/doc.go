// Package biosignal provides simulated physiological inputs for formula
// personalization: an EEG-style valence-arousal simulator driven by the
// emotional vocabulary of free text, and a colorimetric pH estimator
// that matches RGB samples from indicator strips against a universal
// reference chart.
//
// Both are stand-ins for instrument data. The EEG simulator scores text
// against affect lexicons and derives the band powers a reading with
// that valence and arousal would show; it is fully deterministic. The pH
// estimator works from a 15-anchor indicator chart, interpolating
// between neighboring anchors when a sample falls between them, and can
// also fabricate in-range readings per skin type for demonstrations.
package biosignal
