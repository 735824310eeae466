package domain

import "errors"

// Sentinel errors shared across layers. The HTTP boundary maps these to
// status codes; everything else wraps them with context.
var (
	ErrListingNotFound = errors.New("listing not found")
	ErrInvalidListing  = errors.New("invalid listing")
	ErrInvalidRequest  = errors.New("invalid search request")

	// ErrLexicalSearchUnavailable marks a storage engine without sparse
	// text search. The hybrid path degrades to vector-only on it.
	ErrLexicalSearchUnavailable = errors.New("lexical search not supported by storage engine")

	ErrEmbeddingProviderError = errors.New("embedding provider error")
	ErrStorageUnavailable     = errors.New("storage engine unavailable")
)
