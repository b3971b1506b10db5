package index

import (
	"fmt"
	"math"
	"sort"
	"sync"
)

// Match pairs a stored vector ID with its distance from a query.
// Distance is 1 - cosine similarity, so lower is closer.
type Match struct {
	ID       string
	Distance float64
}

// Memory is a brute-force in-memory vector index. Every query scans
// all stored vectors, which is the right trade-off for rule sets in
// the tens to low thousands.
type Memory struct {
	mu        sync.RWMutex
	dimension int
	ids       []string
	vectors   [][]float64
}

// NewMemory creates an empty index. The vector dimension is fixed by
// the first Add call.
func NewMemory() *Memory {
	return &Memory{}
}

// Add stores vectors under the given IDs. All vectors must share the
// dimension established by the first call.
func (m *Memory) Add(ids []string, vectors [][]float64) error {
	if len(ids) != len(vectors) {
		return fmt.Errorf("ids/vectors length mismatch: %d vs %d", len(ids), len(vectors))
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for i, vec := range vectors {
		if len(vec) == 0 {
			return fmt.Errorf("vector for %q is empty", ids[i])
		}
		if m.dimension == 0 {
			m.dimension = len(vec)
		}
		if len(vec) != m.dimension {
			return fmt.Errorf("vector for %q has dimension %d, index uses %d", ids[i], len(vec), m.dimension)
		}
	}

	m.ids = append(m.ids, ids...)
	m.vectors = append(m.vectors, vectors...)
	return nil
}

// Query returns up to n matches sorted by ascending distance. A
// non-positive n returns every stored vector.
func (m *Memory) Query(vector []float64, n int) ([]Match, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.ids) == 0 {
		return nil, nil
	}
	if len(vector) != m.dimension {
		return nil, fmt.Errorf("query has dimension %d, index uses %d", len(vector), m.dimension)
	}

	matches := make([]Match, len(m.ids))
	for i, stored := range m.vectors {
		matches[i] = Match{ID: m.ids[i], Distance: 1 - cosine(vector, stored)}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if n > 0 && n < len(matches) {
		matches = matches[:n]
	}
	return matches, nil
}

// Count returns the number of stored vectors.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.ids)
}

// Clear drops all stored vectors and resets the dimension.
func (m *Memory) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.ids = nil
	m.vectors = nil
	m.dimension = 0
}

// cosine is the cosine similarity of two equal-length vectors.
// Zero-norm vectors have similarity 0 with everything.
func cosine(a, b []float64) float64 {
	var dot, na, nb float64
	for i := range a {
		dot += a[i] * b[i]
		na += a[i] * a[i]
		nb += b[i] * b[i]
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
