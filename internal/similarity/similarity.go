// Package similarity scores the relevance of a draft to a persona profile.
//
// The primary path embeds both texts with a semantic model and compares
// them by cosine similarity. When no embedding backend is available, or a
// call to it fails, scoring falls back to a lexical Jaccard overlap that is
// deterministic and side-effect-free.
package similarity

import (
	"context"
	"math"
	"strings"
)

// Scorer returns a relevance score in [0,1] for two text blobs.
type Scorer interface {
	Score(ctx context.Context, a, b string) float64
}

// stopWords is the fixed set removed before lexical comparison. Small on
// purpose: the fallback only needs to stop function words from dominating
// short subjects.
var stopWords = map[string]struct{}{
	"the": {}, "a": {}, "an": {}, "and": {}, "or": {}, "but": {},
	"in": {}, "on": {}, "at": {}, "to": {}, "for": {}, "of": {}, "with": {},
}

// Lexical scores by word-set Jaccard overlap. It is the construction-time
// and call-time fallback for the embedding scorer, and usable on its own.
type Lexical struct{}

// Score implements Scorer.
func (Lexical) Score(_ context.Context, a, b string) float64 {
	return Jaccard(a, b)
}

// Jaccard computes |intersection|/|union| over lower-cased,
// whitespace-split, stop-word-filtered token sets. It returns 0 when either
// side is empty after filtering. Symmetric by construction.
func Jaccard(a, b string) float64 {
	setA := tokenSet(a)
	setB := tokenSet(b)
	if len(setA) == 0 || len(setB) == 0 {
		return 0.0
	}

	intersection := 0
	for w := range setA {
		if _, ok := setB[w]; ok {
			intersection++
		}
	}
	union := len(setA) + len(setB) - intersection
	return float64(intersection) / float64(union)
}

func tokenSet(s string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, w := range strings.Fields(strings.ToLower(s)) {
		if _, stop := stopWords[w]; stop {
			continue
		}
		set[w] = struct{}{}
	}
	return set
}

// Cosine computes dot(a,b)/(|a||b|), clamped to [0,1]: negative cosine
// carries no meaning for relevance scoring. Returns 0 for mismatched or
// zero-magnitude vectors.
func Cosine(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0.0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0.0
	}
	score := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if score < 0 {
		return 0.0
	}
	if score > 1 {
		return 1.0
	}
	return score
}
