// Package embedding provides text embedders for rule retrieval.
//
// Two implementations are included: TFIDF, a corpus-fitted local
// embedder with no external dependencies, and Client, an
// OpenAI-compatible HTTP client that also speaks the Ollama response
// shape. Both satisfy the Embedder interface consumed by the
// retrieval engine.
package embedding
