// Package retrieval finds the physiological correction rules relevant
// to a profile.
//
// # Modes
//
// The engine answers queries in one of two modes. Vector mode embeds
// each rule as a text document, indexes the vectors, embeds the
// incoming profile as a query, and ranks rules by cosine distance
// with relevance 1/(1+distance). Keyword mode evaluates each rule's
// condition directly against the profile and scores every match a
// fixed 0.9.
//
// Vector mode is the default whenever an embedder is configured.
// Any failure on that path, at index build or at query time, moves
// the engine to keyword mode for the rest of its lifetime; callers
// see results, not errors.
//
// # Laziness
//
// The rule table is loaded and the index is built on the first query,
// under a mutex, exactly once. Constructing an engine is free and
// cannot fail on I/O.
package retrieval
