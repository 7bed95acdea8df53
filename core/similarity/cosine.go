// Package similarity implements the vector scoring used by retrieval.
package similarity

import (
	"math"

	"github.com/stayline/guestqa/core/errors"
)

// Cosine computes the cosine similarity of two equal-length vectors.
// The result is in [-1, 1]. A zero vector on either side yields 0 rather
// than NaN. Mismatched lengths indicate an embedding model mismatch and
// return ErrDimensionMismatch.
func Cosine(a, b []float64) (float64, error) {
	if len(a) != len(b) {
		return 0, errors.Newf(errors.ErrDimensionMismatch, "vector dimension mismatch: %d vs %d", len(a), len(b))
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	if normA == 0 || normB == 0 {
		return 0, nil
	}

	return dot / (math.Sqrt(normA) * math.Sqrt(normB)), nil
}
