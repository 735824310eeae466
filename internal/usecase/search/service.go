package search

import (
	"context"
	"fmt"
	"math"
	"sort"

	"go.uber.org/zap"

	"github.com/nestvec/nestvec/internal/domain"
	"github.com/nestvec/nestvec/internal/domain/geo"
	"github.com/nestvec/nestvec/internal/domain/search/filter"
	"github.com/nestvec/nestvec/internal/domain/search/query"
	"github.com/nestvec/nestvec/internal/domain/search/result"
	"github.com/nestvec/nestvec/internal/logger"
	"github.com/nestvec/nestvec/internal/metrics"
)

// overFetchCap bounds the widened fetch for circular geo queries. The
// bounding-box pre-filter is a superset of the circle, so the engine is
// asked for more rows than one page before the exact distance cut.
const overFetchCap = 100

// Service executes listing searches across vector, lexical, and hybrid
// retrieval, with attribute pre-filtering and geo post-processing.
type Service struct {
	repo  Repository
	embed Vectorizer
}

// New creates a search service.
func New(repo Repository, embed Vectorizer) *Service {
	return &Service{repo: repo, embed: embed}
}

// Search runs one search request end to end: compile filters, retrieve,
// fuse if hybrid, refine geo, then paginate. The returned page is
// ordered by distance when a circle is present, by score when the
// request carried a query, and by engine order otherwise.
func (s *Service) Search(ctx context.Context, p *query.Params) ([]result.Match, error) {
	p.Normalize()
	if !p.Mode.IsValid() {
		return nil, fmt.Errorf("%w: unknown retrieval type %q", domain.ErrInvalidRequest, p.Mode)
	}

	filters := filter.Compile(p)
	circle, hasCircle := validCircle(p)

	// Filter-only search without geo refinement pages natively in the
	// engine; every other path over-fetches and pages after the cut.
	if !p.HasQuery() && !hasCircle {
		matches, err := s.repo.SearchList(ctx, filters, p.Offset, p.Limit)
		if err != nil {
			metrics.SearchRequestsTotal.WithLabelValues("filter", "error").Inc()
			return nil, fmt.Errorf("search list: %w", err)
		}
		metrics.SearchRequestsTotal.WithLabelValues("filter", "success").Inc()
		return matches, nil
	}

	matches, err := s.retrieve(ctx, p, filters, hasCircle)
	if err != nil {
		metrics.SearchRequestsTotal.WithLabelValues(s.modeLabel(p), "error").Inc()
		return nil, err
	}
	metrics.SearchRequestsTotal.WithLabelValues(s.modeLabel(p), "success").Inc()

	if p.Confidence > 0 {
		matches = filterByConfidence(matches, p.Confidence)
	}

	if hasCircle {
		matches = refineCircle(matches, circle)
	}

	return paginate(matches, p.Offset, p.Limit), nil
}

// retrieve dispatches to the retrieval path and over-fetches enough
// rows for the later offset slice (and the circle cut, if any).
func (s *Service) retrieve(
	ctx context.Context, p *query.Params, filters filter.Expression, hasCircle bool,
) ([]result.Match, error) {
	fetch := fetchSize(p, hasCircle)

	// No semantic query: pure attribute filtering ahead of the
	// distance cut. Pagination happens after the cut.
	if !p.HasQuery() {
		matches, err := s.repo.SearchList(ctx, filters, 0, fetch)
		if err != nil {
			return nil, fmt.Errorf("search list: %w", err)
		}
		return matches, nil
	}

	switch p.Mode {
	case query.ModeVector:
		return s.searchVector(ctx, p, filters, fetch)
	case query.ModeLexical:
		return s.searchLexical(ctx, p, filters, fetch)
	case query.ModeHybrid:
		return s.searchHybrid(ctx, p, filters, fetch)
	default:
		return nil, fmt.Errorf("%w: unknown retrieval type %q", domain.ErrInvalidRequest, p.Mode)
	}
}

func (s *Service) searchVector(
	ctx context.Context, p *query.Params, filters filter.Expression, topK int,
) ([]result.Match, error) {
	vec, err := s.embed.Embed(ctx, p.Query)
	if err != nil {
		return nil, fmt.Errorf("vectorize query: %w", err)
	}

	matches, err := s.repo.SearchKNN(ctx, vec, filters, topK)
	if err != nil {
		return nil, fmt.Errorf("search knn: %w", err)
	}
	return matches, nil
}

func (s *Service) searchLexical(
	ctx context.Context, p *query.Params, filters filter.Expression, topK int,
) ([]result.Match, error) {
	matches, err := s.repo.SearchBM25(ctx, p.Query, filters, topK)
	if err != nil {
		return nil, fmt.Errorf("search bm25: %w", err)
	}
	return matches, nil
}

// searchHybrid runs the dense and sparse sub-searches over the same
// filter and fuses them. A sparse-side failure degrades to dense-only
// retrieval; a dense-side failure propagates.
func (s *Service) searchHybrid(
	ctx context.Context, p *query.Params, filters filter.Expression, topK int,
) ([]result.Match, error) {
	dense, err := s.searchVector(ctx, p, filters, topK)
	if err != nil {
		return nil, err
	}

	sparse, err := s.repo.SearchBM25(ctx, p.Query, filters, topK)
	if err != nil {
		logger.FromContext(ctx).Warn("sparse search failed, degrading to dense-only",
			zap.Error(err))
		metrics.HybridFallbacksTotal.Inc()
		return dense, nil
	}

	return fuseWeighted(dense, sparse, *p.Weights, topK), nil
}

func (s *Service) modeLabel(p *query.Params) string {
	if !p.HasQuery() {
		return "filter"
	}
	return string(p.Mode)
}

// fetchSize widens the page to limit+offset so a later slice still has
// rows, and widens further for circles since the bounding box admits
// corner listings the exact cut will drop.
func fetchSize(p *query.Params, hasCircle bool) int {
	base := p.Limit + p.Offset
	if !hasCircle {
		return base
	}
	fetch := 3 * base
	if fetch > overFetchCap {
		fetch = overFetchCap
	}
	if fetch < base {
		fetch = base
	}
	return fetch
}

func validCircle(p *query.Params) (geo.Circle, bool) {
	c, ok := p.CircleRegion()
	if !ok {
		return geo.Circle{}, false
	}
	if !geo.ValidateCoordinates(c.CenterLatitude, c.CenterLongitude) || c.RadiusKM <= 0 {
		return geo.Circle{}, false
	}
	return c, true
}

func filterByConfidence(matches []result.Match, threshold float64) []result.Match {
	kept := matches[:0]
	for _, m := range matches {
		if m.HasScore() && *m.Score < threshold {
			continue
		}
		kept = append(kept, m)
	}
	return kept
}

// refineCircle replaces the bounding-box approximation with the exact
// disk: distances are computed per listing, out-of-radius rows dropped,
// and the page reordered nearest first. Distance ordering overrides any
// similarity ordering.
func refineCircle(matches []result.Match, c geo.Circle) []result.Match {
	out := make([]result.Match, 0, len(matches))
	for _, m := range matches {
		d := geo.HaversineKM(
			c.CenterLatitude, c.CenterLongitude,
			m.Listing.Latitude, m.Listing.Longitude,
		)
		if d > c.RadiusKM {
			continue
		}
		out = append(out, m.WithDistance(roundKM(d)))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return *out[i].DistanceKM < *out[j].DistanceKM
	})
	return out
}

// roundKM rounds to two decimals, the precision reported to clients.
func roundKM(d float64) float64 {
	return math.Round(d*100) / 100
}

// paginate slices one page out of the over-fetched result set.
func paginate(matches []result.Match, offset, limit int) []result.Match {
	if offset >= len(matches) {
		return nil
	}
	end := offset + limit
	if end > len(matches) {
		end = len(matches)
	}
	return matches[offset:end]
}
