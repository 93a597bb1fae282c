package retrieval

import "math"

// epsilon guards the cosine denominator against zero vectors.
const epsilon = 1e-12

// Cosine returns the cosine similarity of two vectors, accumulating in
// float64 for stability. Mismatched lengths score over the shorter
// prefix; zero vectors score 0.
func Cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		av, bv := float64(a[i]), float64(b[i])
		dot += av * bv
		normA += av * av
		normB += bv * bv
	}
	return dot / (math.Sqrt(normA)*math.Sqrt(normB) + epsilon)
}
