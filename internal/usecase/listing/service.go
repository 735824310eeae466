package listing

import (
	"context"
	"fmt"

	"github.com/nestvec/nestvec/internal/domain"
	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// Service handles the listing lifecycle with automatic vectorization.
type Service struct {
	repo  Repository
	embed Vectorizer
}

// New creates a listing service.
func New(repo Repository, embed Vectorizer) *Service {
	return &Service{repo: repo, embed: embed}
}

// EnsureIndex creates the listing index sized to the vectorizer's
// dimension if it does not exist yet.
func (s *Service) EnsureIndex(ctx context.Context) error {
	return s.repo.EnsureIndex(ctx, s.embed.Dimension())
}

// Insert validates, vectorizes, and writes one listing as a full
// overwrite. The semantic vector is always regenerated from
// SemanticStr; a vector supplied by the caller never survives.
// Returns true if the listing was created, false if replaced.
func (s *Service) Insert(ctx context.Context, l *domlisting.Listing) (bool, error) {
	if err := s.vectorize(ctx, l); err != nil {
		return false, err
	}

	created, err := s.repo.Upsert(ctx, l)
	if err != nil {
		return false, fmt.Errorf("upsert listing: %w", err)
	}
	return created, nil
}

// InsertBatch validates and vectorizes every listing, then writes the
// whole batch in one round-trip. A single invalid listing rejects the
// batch before anything is written.
func (s *Service) InsertBatch(ctx context.Context, listings []*domlisting.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	for _, l := range listings {
		if err := s.vectorize(ctx, l); err != nil {
			return err
		}
	}

	if err := s.repo.UpsertMulti(ctx, listings); err != nil {
		return fmt.Errorf("upsert batch: %w", err)
	}
	return nil
}

// Get returns a listing by ID.
func (s *Service) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	if id == "" {
		return domlisting.Listing{}, fmt.Errorf("%w: empty listing id", domain.ErrInvalidRequest)
	}

	l, err := s.repo.Get(ctx, id)
	if err != nil {
		return domlisting.Listing{}, fmt.Errorf("get listing %s: %w", id, err)
	}
	return l, nil
}

// Delete removes a listing by ID.
func (s *Service) Delete(ctx context.Context, id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty listing id", domain.ErrInvalidRequest)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete listing %s: %w", id, err)
	}
	return nil
}

// Clear removes every listing and returns how many were deleted. The
// repository rebuilds an empty index, sized for the active embedder.
func (s *Service) Clear(ctx context.Context) (int, error) {
	n, err := s.repo.Clear(ctx, s.embed.Dimension())
	if err != nil {
		return 0, fmt.Errorf("clear listings: %w", err)
	}
	return n, nil
}

// Stats describes the current state of the listing store.
type Stats struct {
	Total int `json:"total_listings"`
}

// Stats returns store statistics.
func (s *Service) Stats(ctx context.Context) (Stats, error) {
	n, err := s.repo.Count(ctx)
	if err != nil {
		return Stats{}, fmt.Errorf("count listings: %w", err)
	}
	return Stats{Total: n}, nil
}

// vectorize validates the listing and regenerates its semantic vector.
func (s *Service) vectorize(ctx context.Context, l *domlisting.Listing) error {
	if err := l.Validate(); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrInvalidListing, err)
	}

	vec, err := s.embed.Embed(ctx, l.SemanticStr)
	if err != nil {
		return fmt.Errorf("vectorize listing %s: %w", l.ID, err)
	}

	l.SetVector(vec)
	return nil
}
