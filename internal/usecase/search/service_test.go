package search

import (
	"context"
	"errors"
	"testing"

	"github.com/nestvec/nestvec/internal/domain"
	"github.com/nestvec/nestvec/internal/domain/listing"
	"github.com/nestvec/nestvec/internal/domain/search/filter"
	"github.com/nestvec/nestvec/internal/domain/search/query"
	"github.com/nestvec/nestvec/internal/domain/search/result"
)

// --- Mocks ---

type mockRepo struct {
	knnResults  []result.Match
	knnErr      error
	bm25Results []result.Match
	bm25Err     error
	listResults []result.Match
	listErr     error

	knnCalled  bool
	bm25Called bool
	listCalled bool

	lastTopK   int
	lastOffset int
	lastLimit  int
}

func (m *mockRepo) SearchKNN(
	_ context.Context, _ []float32, _ filter.Expression, topK int,
) ([]result.Match, error) {
	m.knnCalled = true
	m.lastTopK = topK
	return m.knnResults, m.knnErr
}

func (m *mockRepo) SearchBM25(
	_ context.Context, _ string, _ filter.Expression, topK int,
) ([]result.Match, error) {
	m.bm25Called = true
	m.lastTopK = topK
	return m.bm25Results, m.bm25Err
}

func (m *mockRepo) SearchList(
	_ context.Context, _ filter.Expression, offset, limit int,
) ([]result.Match, error) {
	m.listCalled = true
	m.lastOffset = offset
	m.lastLimit = limit
	return m.listResults, m.listErr
}

func (m *mockRepo) SupportsTextSearch(_ context.Context) bool { return true }

type mockEmbedder struct {
	vec    []float32
	err    error
	called bool
}

func (m *mockEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	m.called = true
	return m.vec, m.err
}

func (m *mockEmbedder) Dimension() int { return len(m.vec) }

func scored(id string, score float64) result.Match {
	return result.NewScored(listing.Listing{ID: id}, score)
}

func scoredAt(id string, score, lat, lon float64) result.Match {
	return result.NewScored(listing.Listing{ID: id, Latitude: lat, Longitude: lon}, score)
}

func queryParams(m query.Mode) *query.Params {
	return &query.Params{Query: "river view apartment", Mode: m}
}

// --- Tests ---

func TestSearch_Vector(t *testing.T) {
	repo := &mockRepo{knnResults: []result.Match{scored("a", 0.9)}}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed)

	matches, err := svc.Search(context.Background(), queryParams(query.ModeVector))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if !repo.knnCalled {
		t.Error("expected SearchKNN to be called")
	}
	if repo.bm25Called {
		t.Error("SearchBM25 should not be called in vector mode")
	}
	if !embed.called {
		t.Error("expected Embed to be called")
	}
}

func TestSearch_Lexical(t *testing.T) {
	repo := &mockRepo{bm25Results: []result.Match{scored("a", 0.8)}}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	matches, err := svc.Search(context.Background(), queryParams(query.ModeLexical))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(matches))
	}
	if repo.knnCalled {
		t.Error("SearchKNN should not be called in lexical mode")
	}
	if !repo.bm25Called {
		t.Error("expected SearchBM25 to be called")
	}
	if embed.called {
		t.Error("Embed should not be called in lexical mode")
	}
}

func TestSearch_Hybrid(t *testing.T) {
	repo := &mockRepo{
		knnResults:  []result.Match{scored("a", 0.9), scored("b", 0.5), scored("d", 0.1)},
		bm25Results: []result.Match{scored("b", 2.0), scored("c", 1.0)},
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	matches, err := svc.Search(context.Background(), queryParams(query.ModeHybrid))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.knnCalled || !repo.bm25Called {
		t.Fatal("hybrid mode must run both sub-searches")
	}
	if len(matches) != 4 {
		t.Fatalf("expected 4 fused matches, got %d", len(matches))
	}
	// b appears in both lists so it accumulates weight from each side
	// and must outrank the single-sided hits.
	if matches[0].Listing.ID != "b" {
		t.Errorf("expected overlap listing first, got %q", matches[0].Listing.ID)
	}
}

func TestSearch_HybridSparseFallback(t *testing.T) {
	repo := &mockRepo{
		knnResults: []result.Match{scored("a", 0.9), scored("b", 0.5)},
		bm25Err:    errors.New("bm25 not supported"),
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	matches, err := svc.Search(context.Background(), queryParams(query.ModeHybrid))
	if err != nil {
		t.Fatalf("expected dense-only degradation, got error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 dense matches, got %d", len(matches))
	}
	if matches[0].Listing.ID != "a" {
		t.Errorf("expected dense ordering preserved, got %q first", matches[0].Listing.ID)
	}
}

func TestSearch_HybridDenseFailurePropagates(t *testing.T) {
	repo := &mockRepo{
		knnErr:      errors.New("engine down"),
		bm25Results: []result.Match{scored("a", 1.0)},
	}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	_, err := svc.Search(context.Background(), queryParams(query.ModeHybrid))
	if err == nil {
		t.Fatal("expected dense-side failure to propagate")
	}
}

func TestSearch_EmbedFailurePropagates(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: errors.New("provider timeout")}
	svc := New(repo, embed)

	_, err := svc.Search(context.Background(), queryParams(query.ModeVector))
	if err == nil {
		t.Fatal("expected embedding failure to propagate")
	}
	if repo.knnCalled {
		t.Error("SearchKNN should not run after an embedding failure")
	}
}

func TestSearch_InvalidMode(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	p := &query.Params{Query: "q", Mode: "keyword"}
	_, err := svc.Search(context.Background(), p)
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestSearch_FilterOnlyPagesNatively(t *testing.T) {
	repo := &mockRepo{listResults: []result.Match{
		result.New(listing.Listing{ID: "a"}),
		result.New(listing.Listing{ID: "b"}),
	}}
	svc := New(repo, &mockEmbedder{})

	p := &query.Params{Region: "downtown", Offset: 20, Limit: 2}
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.listCalled {
		t.Fatal("expected SearchList to be called")
	}
	if repo.lastOffset != 20 || repo.lastLimit != 2 {
		t.Errorf("expected native paging offset=20 limit=2, got offset=%d limit=%d",
			repo.lastOffset, repo.lastLimit)
	}
	// The engine already applied the offset; the page must come back
	// untouched instead of being sliced a second time.
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches, got %d", len(matches))
	}
	if matches[0].HasScore() {
		t.Error("filter-only matches must not carry scores")
	}
}

func TestSearch_ConfidenceFilter(t *testing.T) {
	repo := &mockRepo{knnResults: []result.Match{
		scored("a", 0.9),
		scored("b", 0.4),
		scored("c", 0.75),
	}}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	p := queryParams(query.ModeVector)
	p.Confidence = 0.7
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches above threshold, got %d", len(matches))
	}
	for _, m := range matches {
		if *m.Score < 0.7 {
			t.Errorf("listing %q below threshold leaked through", m.Listing.ID)
		}
	}
}

func f64(v float64) *float64 { return &v }

func circleLocation(lat, lon, radius float64) *query.Location {
	return &query.Location{
		CenterLatitude:  f64(lat),
		CenterLongitude: f64(lon),
		RadiusKM:        f64(radius),
	}
}

func TestSearch_CircleRefinement(t *testing.T) {
	// Center at the origin. "near" is ~1.1km north, "far" ~5.6km
	// north, "out" well outside the 6km radius.
	repo := &mockRepo{knnResults: []result.Match{
		scoredAt("far", 0.9, 0.05, 0),
		scoredAt("near", 0.5, 0.01, 0),
		scoredAt("out", 0.99, 0.5, 0),
	}}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	p := queryParams(query.ModeVector)
	p.Location = circleLocation(0, 0, 6)
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 2 {
		t.Fatalf("expected 2 matches inside the circle, got %d", len(matches))
	}
	// Distance ordering overrides similarity ordering.
	if matches[0].Listing.ID != "near" || matches[1].Listing.ID != "far" {
		t.Errorf("expected nearest-first ordering, got %q, %q",
			matches[0].Listing.ID, matches[1].Listing.ID)
	}
	for _, m := range matches {
		if m.DistanceKM == nil {
			t.Fatalf("listing %q missing distance", m.Listing.ID)
		}
	}
	if d := *matches[0].DistanceKM; d != 1.11 {
		t.Errorf("expected distance rounded to 1.11, got %v", d)
	}
}

func TestSearch_CircleFilterOnly(t *testing.T) {
	repo := &mockRepo{listResults: []result.Match{
		result.New(listing.Listing{ID: "in", Latitude: 0.01, Longitude: 0}),
		result.New(listing.Listing{ID: "out", Latitude: 1, Longitude: 1}),
	}}
	svc := New(repo, &mockEmbedder{})

	p := &query.Params{Location: circleLocation(0, 0, 5), Limit: 10}
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.listCalled {
		t.Fatal("expected SearchList to be called")
	}
	if repo.lastOffset != 0 {
		t.Errorf("circle paths must fetch from offset 0, got %d", repo.lastOffset)
	}
	if len(matches) != 1 || matches[0].Listing.ID != "in" {
		t.Fatalf("expected only the in-circle listing, got %+v", matches)
	}
}

func TestSearch_InvalidCircleIgnored(t *testing.T) {
	repo := &mockRepo{knnResults: []result.Match{scoredAt("a", 0.9, 80, 80)}}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	p := queryParams(query.ModeVector)
	p.Location = circleLocation(0, 0, -1)
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 1 {
		t.Fatalf("non-positive radius must disable the circle, got %d matches", len(matches))
	}
	if matches[0].DistanceKM != nil {
		t.Error("disabled circle must not attach distances")
	}
}

func TestSearch_PaginatesOverFetch(t *testing.T) {
	repo := &mockRepo{knnResults: []result.Match{
		scored("a", 0.9), scored("b", 0.8), scored("c", 0.7),
	}}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	p := queryParams(query.ModeVector)
	p.Offset = 1
	p.Limit = 1
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastTopK != 2 {
		t.Errorf("expected over-fetch of limit+offset=2, got %d", repo.lastTopK)
	}
	if len(matches) != 1 || matches[0].Listing.ID != "b" {
		t.Fatalf("expected second page [b], got %+v", matches)
	}
}

func TestSearch_OffsetPastEnd(t *testing.T) {
	repo := &mockRepo{knnResults: []result.Match{scored("a", 0.9)}}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	p := queryParams(query.ModeVector)
	p.Offset = 50
	matches, err := svc.Search(context.Background(), p)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("expected empty page past the end, got %d", len(matches))
	}
}

func TestFetchSize(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		offset    int
		hasCircle bool
		want      int
	}{
		{"plain page", 10, 0, false, 10},
		{"page with offset", 10, 20, false, 30},
		{"circle widens", 10, 0, true, 30},
		{"circle capped", 50, 0, true, 100},
		{"circle floored at base", 60, 60, true, 120},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &query.Params{Limit: tt.limit, Offset: tt.offset}
			if got := fetchSize(p, tt.hasCircle); got != tt.want {
				t.Errorf("fetchSize(limit=%d offset=%d circle=%v) = %d, want %d",
					tt.limit, tt.offset, tt.hasCircle, got, tt.want)
			}
		})
	}
}
