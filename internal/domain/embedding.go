package domain

import "context"

// Vectorizer turns text into a fixed-dimension dense vector.
//
// Implementations must return a zero vector of their configured
// dimension, not an error, for empty text or an unavailable model:
// downstream code relies on the vector length invariant always holding.
type Vectorizer interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// Dimension returns the fixed embedding dimension.
	Dimension() int
}

// HealthChecker is an optional capability of a Vectorizer.
type HealthChecker interface {
	HealthCheck(ctx context.Context) error
}

// ZeroVector returns the all-zero embedding of the given dimension.
func ZeroVector(dim int) []float32 {
	return make([]float32, dim)
}
