package search

import (
	"context"

	"github.com/nestvec/nestvec/internal/domain/search/filter"
	"github.com/nestvec/nestvec/internal/domain/search/result"
)

// Repository defines the storage contract for retrieval operations.
type Repository interface {
	SearchKNN(
		ctx context.Context, vector []float32, filters filter.Expression, topK int,
	) ([]result.Match, error)

	SearchBM25(
		ctx context.Context, query string, filters filter.Expression, topK int,
	) ([]result.Match, error)

	SearchList(
		ctx context.Context, filters filter.Expression, offset, limit int,
	) ([]result.Match, error)

	SupportsTextSearch(ctx context.Context) bool
}

// Vectorizer turns the query text into a dense vector.
type Vectorizer interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
