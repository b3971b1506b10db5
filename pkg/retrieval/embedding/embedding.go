package embedding

import "context"

// Embedder turns texts into vectors in a shared embedding space.
//
// Implementations may be local (TFIDF) or remote (Client). The
// retrieval engine treats the capability as optional: construction or
// embedding failures downgrade retrieval to its keyword fallback
// rather than surfacing errors to callers.
type Embedder interface {
	// Name identifies the implementation ("tfidf", "openai").
	Name() string

	// Prepare fits the embedder to the document corpus it will embed.
	// Remote embedders need no preparation and return nil.
	Prepare(corpus []string) error

	// Dimension returns the vector dimensionality. Remote embedders
	// report 0 until the first successful Embed.
	Dimension() int

	// Embed returns one vector per input text, in input order.
	Embed(ctx context.Context, texts []string) ([][]float64, error)
}
