package embedding

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"sort"
	"strings"
)

// TFIDF is a local, deterministic embedder: it fits a vocabulary and
// smoothed inverse document frequencies to the prepared corpus and
// produces L2-normalized term-frequency vectors. It needs no network
// and is the default capability for rule retrieval.
type TFIDF struct {
	vocabulary   map[string]int
	idf          []float64
	dimension    int
	prepared     bool
	tokenPattern *regexp.Regexp
	stopwords    map[string]struct{}
}

// NewTFIDF creates an unprepared TF-IDF embedder.
func NewTFIDF() *TFIDF {
	return &TFIDF{
		vocabulary:   make(map[string]int),
		tokenPattern: regexp.MustCompile(`\p{L}+(?:['’]\p{L}+)*`),
		stopwords:    defaultStopwords(),
	}
}

// Name returns the identifier of this embedder.
func (t *TFIDF) Name() string { return "tfidf" }

// Dimension returns the vocabulary size. Zero before Prepare.
func (t *TFIDF) Dimension() int { return t.dimension }

// Prepare fits the vocabulary and IDF weights to the corpus.
func (t *TFIDF) Prepare(corpus []string) error {
	if len(corpus) == 0 {
		return fmt.Errorf("empty corpus")
	}

	df := make(map[string]int)
	for _, text := range corpus {
		seen := make(map[string]struct{})
		for _, tok := range t.tokenize(text) {
			if _, ok := seen[tok]; ok {
				continue
			}
			seen[tok] = struct{}{}
			df[tok]++
		}
	}
	if len(df) == 0 {
		return fmt.Errorf("no tokens found in corpus")
	}

	// Stable vocabulary ordering so vectors are reproducible across runs.
	terms := make([]string, 0, len(df))
	for term := range df {
		terms = append(terms, term)
	}
	sort.Strings(terms)

	t.vocabulary = make(map[string]int, len(terms))
	t.idf = make([]float64, len(terms))
	n := float64(len(corpus))
	for i, term := range terms {
		t.vocabulary[term] = i
		t.idf[i] = math.Log((1+n)/(1+float64(df[term]))) + 1.0
	}
	t.dimension = len(terms)
	t.prepared = true

	return nil
}

// Embed computes one TF-IDF vector per text. Texts sharing no
// vocabulary with the corpus produce zero vectors.
func (t *TFIDF) Embed(_ context.Context, texts []string) ([][]float64, error) {
	if !t.prepared {
		return nil, fmt.Errorf("tfidf embedder not prepared")
	}

	out := make([][]float64, len(texts))
	for i, text := range texts {
		out[i] = t.embedOne(text)
	}
	return out, nil
}

func (t *TFIDF) embedOne(text string) []float64 {
	vec := make([]float64, t.dimension)

	tf := make(map[int]int)
	total := 0
	for _, tok := range t.tokenize(text) {
		if idx, ok := t.vocabulary[tok]; ok {
			tf[idx]++
			total++
		}
	}
	if total == 0 {
		return vec
	}

	for idx, count := range tf {
		vec[idx] = float64(count) / float64(total) * t.idf[idx]
	}

	norm := 0.0
	for _, v := range vec {
		norm += v * v
	}
	if norm > 0 {
		norm = math.Sqrt(norm)
		for i := range vec {
			vec[i] /= norm
		}
	}

	return vec
}

func (t *TFIDF) tokenize(text string) []string {
	raw := t.tokenPattern.FindAllString(strings.ToLower(text), -1)
	out := raw[:0]
	for _, tok := range raw {
		if _, isStop := t.stopwords[tok]; isStop {
			continue
		}
		out = append(out, tok)
	}
	return out
}

func defaultStopwords() map[string]struct{} {
	words := []string{
		"a", "an", "the", "and", "or", "but", "if", "then", "else",
		"for", "to", "of", "in", "on", "at", "by", "with", "as",
		"is", "are", "was", "were", "be", "been", "being", "it",
		"this", "that", "these", "those", "from", "up", "down",
		"over", "under", "than", "so", "such", "into", "about",
		"between", "through", "during", "before", "after", "above",
		"below", "out", "off", "own", "same", "too", "very", "can",
		"will", "just", "now",
	}
	m := make(map[string]struct{}, len(words))
	for _, w := range words {
		m[w] = struct{}{}
	}
	return m
}
