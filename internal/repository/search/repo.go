package search

import (
	"context"
	"fmt"
	"strings"

	"github.com/nestvec/nestvec/internal/db"
	"github.com/nestvec/nestvec/internal/domain"
	"github.com/nestvec/nestvec/internal/domain/listing"
	"github.com/nestvec/nestvec/internal/domain/search/filter"
	"github.com/nestvec/nestvec/internal/domain/search/result"
	repolisting "github.com/nestvec/nestvec/internal/repository/listing"
)

// store is the consumer interface for retrieval operations (ISP).
type store interface {
	SearchKNN(ctx context.Context, q *db.KNNQuery) (*db.SearchResult, error)
	SearchBM25(ctx context.Context, q *db.TextQuery) (*db.SearchResult, error)
	SearchList(ctx context.Context, q *db.ListQuery) (*db.SearchResult, error)
	SupportsTextSearch(ctx context.Context) bool
}

// Repo implements usecase/search.Repository.
type Repo struct {
	store store
}

// New creates a search repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// SupportsTextSearch proxies the capability check from the store.
func (r *Repo) SupportsTextSearch(ctx context.Context) bool {
	return r.store.SupportsTextSearch(ctx)
}

// SearchKNN performs a dense similarity search with attribute pre-filtering.
// Scores come back as cosine similarity in [0,1].
func (r *Repo) SearchKNN(
	ctx context.Context, vector []float32, filters filter.Expression, topK int,
) ([]result.Match, error) {
	q := &db.KNNQuery{
		IndexName:    repolisting.IndexName(),
		VectorField:  listing.FieldVector,
		Filters:      filters,
		Vector:       vector,
		K:            topK,
		ReturnFields: append(repolisting.ReturnFields(), "__vector_score"),
	}

	sr, err := r.store.SearchKNN(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}

	return parseScored(sr), nil
}

// SearchBM25 performs a sparse lexical search over the semantic text with
// attribute pre-filtering. Scores are raw BM25 weights.
func (r *Repo) SearchBM25(
	ctx context.Context, query string, filters filter.Expression, topK int,
) ([]result.Match, error) {
	if !r.store.SupportsTextSearch(ctx) {
		return nil, domain.ErrLexicalSearchUnavailable
	}

	q := &db.TextQuery{
		IndexName:    repolisting.IndexName(),
		TextField:    listing.FieldSemanticStr,
		Query:        query,
		Filters:      filters,
		TopK:         topK,
		ReturnFields: repolisting.ReturnFields(),
	}

	sr, err := r.store.SearchBM25(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}

	return parseScored(sr), nil
}

// SearchList performs a filter-only paginated fetch with no ranking signal.
func (r *Repo) SearchList(
	ctx context.Context, filters filter.Expression, offset, limit int,
) ([]result.Match, error) {
	q := &db.ListQuery{
		IndexName:    repolisting.IndexName(),
		Filters:      filters,
		Offset:       offset,
		Limit:        limit,
		ReturnFields: repolisting.ReturnFields(),
	}

	sr, err := r.store.SearchList(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("search list: %w", err)
	}

	if sr == nil || sr.Total == 0 {
		return nil, nil
	}

	matches := make([]result.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		matches = append(matches, result.New(mapEntry(entry)))
	}
	return matches, nil
}

func parseScored(sr *db.SearchResult) []result.Match {
	if sr == nil || sr.Total == 0 {
		return nil
	}

	matches := make([]result.Match, 0, len(sr.Entries))
	for _, entry := range sr.Entries {
		matches = append(matches, result.NewScored(mapEntry(entry), entry.Score))
	}
	return matches
}

func mapEntry(entry db.SearchEntry) listing.Listing {
	id := entry.Fields[listing.FieldID]
	if id == "" {
		id = extractID(entry.Key)
	}
	return repolisting.MapListing(id, entry.Fields)
}

func extractID(key string) string {
	prefix := fmt.Sprintf("%s%s:", domain.KeyPrefix, domain.ListingCollection)
	return strings.TrimPrefix(key, prefix)
}
