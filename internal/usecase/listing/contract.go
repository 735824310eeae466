package listing

import (
	"context"

	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// Repository defines the storage contract for the listing lifecycle.
type Repository interface {
	EnsureIndex(ctx context.Context, vectorDim int) error
	Upsert(ctx context.Context, l *domlisting.Listing) (bool, error)
	UpsertMulti(ctx context.Context, listings []*domlisting.Listing) error
	Get(ctx context.Context, id string) (domlisting.Listing, error)
	Delete(ctx context.Context, id string) error
	Clear(ctx context.Context, vectorDim int) (int, error)
	Count(ctx context.Context) (int, error)
}

// Vectorizer derives the semantic vector for a listing.
type Vectorizer interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	Dimension() int
}
