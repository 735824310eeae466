package listing

import (
	"context"
	"errors"
	"fmt"

	"github.com/nestvec/nestvec/internal/db"
	"github.com/nestvec/nestvec/internal/domain"
	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// store is the consumer interface for listing persistence (ISP).
type store interface {
	HSet(ctx context.Context, key string, fields map[string]string) error
	HSetMulti(ctx context.Context, items []db.HashSetItem) error
	HGetAll(ctx context.Context, key string) (map[string]string, error)
	Del(ctx context.Context, keys ...string) error
	Exists(ctx context.Context, key string) (bool, error)
	Scan(ctx context.Context, pattern string) ([]string, error)
	CreateIndex(ctx context.Context, def *db.IndexDefinition) error
	DropIndex(ctx context.Context, name string) error
	IndexExists(ctx context.Context, name string) (bool, error)
	SearchCount(ctx context.Context, index string) (int, error)
}

// Repo implements usecase/listing.Repository.
type Repo struct {
	store store
}

// New creates a listing repository.
func New(s store) *Repo {
	return &Repo{store: s}
}

// EnsureIndex creates the listing index if it does not exist yet.
func (r *Repo) EnsureIndex(ctx context.Context, vectorDim int) error {
	name := IndexName()

	exists, err := r.store.IndexExists(ctx, name)
	if err != nil {
		return fmt.Errorf("check index %s: %w", name, err)
	}
	if exists {
		return nil
	}

	if err := r.store.CreateIndex(ctx, indexDefinition(vectorDim)); err != nil {
		if errors.Is(err, db.ErrIndexExists) {
			return nil
		}
		return fmt.Errorf("create index %s: %w", name, err)
	}
	return nil
}

// Upsert writes a listing as a full overwrite. Returns true if created.
func (r *Repo) Upsert(ctx context.Context, l *domlisting.Listing) (bool, error) {
	key := Key(l.ID)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return false, fmt.Errorf("check exists %s: %w", key, err)
	}

	// Full overwrite: drop stale fields left from a previous version.
	if exists {
		if err := r.store.Del(ctx, key); err != nil {
			return false, fmt.Errorf("del %s: %w", key, err)
		}
	}

	if err := r.store.HSet(ctx, key, ListingFields(l)); err != nil {
		return false, fmt.Errorf("hset %s: %w", key, err)
	}
	return !exists, nil
}

// UpsertMulti writes a batch of listings in one pipelined round-trip.
// Like Upsert, each write is a full overwrite: all batch keys are
// deleted up front so stale fields from a previous version cannot
// survive a replacement.
func (r *Repo) UpsertMulti(ctx context.Context, listings []*domlisting.Listing) error {
	if len(listings) == 0 {
		return nil
	}

	keys := make([]string, 0, len(listings))
	items := make([]db.HashSetItem, 0, len(listings))
	for _, l := range listings {
		keys = append(keys, Key(l.ID))
		items = append(items, db.HashSetItem{
			Key:    Key(l.ID),
			Fields: ListingFields(l),
		})
	}

	if err := r.store.Del(ctx, keys...); err != nil {
		return fmt.Errorf("del batch: %w", err)
	}

	if err := r.store.HSetMulti(ctx, items); err != nil {
		return fmt.Errorf("hset multi: %w", err)
	}
	return nil
}

// Get returns a listing by ID.
func (r *Repo) Get(ctx context.Context, id string) (domlisting.Listing, error) {
	key := Key(id)

	fields, err := r.store.HGetAll(ctx, key)
	if err != nil {
		if errors.Is(err, db.ErrKeyNotFound) {
			return domlisting.Listing{}, domain.ErrListingNotFound
		}
		return domlisting.Listing{}, fmt.Errorf("hgetall %s: %w", key, err)
	}

	return MapListing(id, fields), nil
}

// Delete removes a listing by ID.
func (r *Repo) Delete(ctx context.Context, id string) error {
	key := Key(id)

	exists, err := r.store.Exists(ctx, key)
	if err != nil {
		return fmt.Errorf("check exists %s: %w", key, err)
	}
	if !exists {
		return domain.ErrListingNotFound
	}

	if err := r.store.Del(ctx, key); err != nil {
		return fmt.Errorf("del %s: %w", key, err)
	}
	return nil
}

// Clear removes all listings and returns how many keys were deleted.
// The search index is dropped and rebuilt empty so no stale index
// entries outlive their hashes.
func (r *Repo) Clear(ctx context.Context, vectorDim int) (int, error) {
	keys, err := r.store.Scan(ctx, keyPattern())
	if err != nil {
		return 0, fmt.Errorf("scan listings: %w", err)
	}

	if len(keys) > 0 {
		if err := r.store.Del(ctx, keys...); err != nil {
			return 0, fmt.Errorf("del listings: %w", err)
		}
	}

	if err := r.store.DropIndex(ctx, IndexName()); err != nil && !errors.Is(err, db.ErrIndexNotFound) {
		return 0, fmt.Errorf("drop index %s: %w", IndexName(), err)
	}
	if err := r.store.CreateIndex(ctx, indexDefinition(vectorDim)); err != nil && !errors.Is(err, db.ErrIndexExists) {
		return 0, fmt.Errorf("recreate index %s: %w", IndexName(), err)
	}
	return len(keys), nil
}

// Count returns the number of indexed listings.
func (r *Repo) Count(ctx context.Context) (int, error) {
	n, err := r.store.SearchCount(ctx, IndexName())
	if err != nil {
		return 0, fmt.Errorf("search count: %w", err)
	}
	return n, nil
}
