// Package similarity scores embedding vectors against each other.
package similarity

import "math"

// Score computes the cosine similarity between two vectors.
//
// Returns a value in [-1, 1]. Empty, zero-norm or mismatched-dimension inputs
// score 0.
func Score(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dotProduct, normA, normB float64
	for i := range a {
		dotProduct += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}

	if normA == 0 || normB == 0 {
		return 0
	}

	similarity := dotProduct / math.Sqrt(normA*normB)
	// Clamp to [-1, 1] to handle floating point errors
	if similarity > 1 {
		similarity = 1
	}
	if similarity < -1 {
		similarity = -1
	}
	return similarity
}

// BestMatch returns the highest Score over every (candidate, reference) pair.
//
// A single strong pair is enough: one candidate resembling one reference
// counts as a match. Returns 0 when either set is empty.
func BestMatch(candidates, references [][]float32) float64 {
	best := 0.0
	found := false
	for _, c := range candidates {
		for _, r := range references {
			s := Score(c, r)
			if !found || s > best {
				best = s
				found = true
			}
		}
	}
	return best
}
