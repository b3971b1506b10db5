// Package index stores rule embeddings and answers nearest-neighbor
// queries by cosine distance.
package index
