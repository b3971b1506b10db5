// Package formula profiles perfume formulas: it classifies components
// into the top/heart/base note pyramid, estimates longevity and
// projection on a 1-10 scale, and suggests a name for the composition.
//
// Components are resolved against the ingredient catalog for their note
// class and logP; materials the catalog does not know default to heart
// notes so a partially recognized formula still profiles. Longevity
// rises with the concentration-weighted average logP and the base note
// share; projection rises with the top note share and the total
// concentration. All outputs are deterministic.
package formula
