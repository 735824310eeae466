package result

import "github.com/nestvec/nestvec/internal/domain/listing"

// Match is a single ranked search hit. Score and DistanceKM are
// attached only when the retrieval path produced them: similarity for
// scored modes, distance for circular geo queries.
type Match struct {
	Listing    listing.Listing `json:"listing"`
	Score      *float64        `json:"similarity_score,omitempty"`
	DistanceKM *float64        `json:"distance_km,omitempty"`
}

// New creates an unscored match.
func New(l listing.Listing) Match {
	return Match{Listing: l}
}

// NewScored creates a match carrying a similarity score.
func NewScored(l listing.Listing, score float64) Match {
	return Match{Listing: l, Score: &score}
}

// WithDistance returns a copy of the match with the exact distance attached.
func (m Match) WithDistance(km float64) Match {
	m.DistanceKM = &km
	return m
}

// HasScore reports whether a similarity score is attached.
func (m Match) HasScore() bool { return m.Score != nil }
