package listing

import (
	"context"
	"errors"
	"testing"

	"github.com/nestvec/nestvec/internal/domain"
	domlisting "github.com/nestvec/nestvec/internal/domain/listing"
)

// --- Mocks ---

type mockRepo struct {
	upsertCreated bool
	upsertErr     error
	multiErr      error
	getListing    domlisting.Listing
	getErr        error
	deleteErr     error
	clearCount    int
	clearErr      error
	count         int
	countErr      error
	ensureErr     error

	lastVectorDim int
	lastUpserted  *domlisting.Listing
	lastBatch     []*domlisting.Listing
	upsertCalled  bool
	multiCalled   bool
}

func (m *mockRepo) EnsureIndex(_ context.Context, dim int) error {
	m.lastVectorDim = dim
	return m.ensureErr
}

func (m *mockRepo) Upsert(_ context.Context, l *domlisting.Listing) (bool, error) {
	m.upsertCalled = true
	m.lastUpserted = l
	return m.upsertCreated, m.upsertErr
}

func (m *mockRepo) UpsertMulti(_ context.Context, ls []*domlisting.Listing) error {
	m.multiCalled = true
	m.lastBatch = ls
	return m.multiErr
}

func (m *mockRepo) Get(_ context.Context, _ string) (domlisting.Listing, error) {
	return m.getListing, m.getErr
}

func (m *mockRepo) Delete(_ context.Context, _ string) error { return m.deleteErr }

func (m *mockRepo) Clear(_ context.Context, dim int) (int, error) {
	m.lastVectorDim = dim
	return m.clearCount, m.clearErr
}

func (m *mockRepo) Count(_ context.Context) (int, error) { return m.count, m.countErr }

type mockEmbedder struct {
	vec    []float32
	err    error
	calls  int
	inputs []string
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.calls++
	m.inputs = append(m.inputs, text)
	return m.vec, m.err
}

func (m *mockEmbedder) Dimension() int { return len(m.vec) }

func validListing(id string) *domlisting.Listing {
	return &domlisting.Listing{
		ID:          id,
		Category:    domlisting.CategoryResale,
		Region:      "downtown",
		Latitude:    31.2,
		Longitude:   121.5,
		SemanticStr: "bright two-bedroom near the river",
	}
}

// --- Tests ---

func TestInsert(t *testing.T) {
	repo := &mockRepo{upsertCreated: true}
	embed := &mockEmbedder{vec: []float32{0.1, 0.2}}
	svc := New(repo, embed)

	l := validListing("L1")
	created, err := svc.Insert(context.Background(), l)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !created {
		t.Error("expected created=true")
	}
	if embed.calls != 1 || embed.inputs[0] != l.SemanticStr {
		t.Errorf("expected one embed call on SemanticStr, got %d calls %v",
			embed.calls, embed.inputs)
	}
	if got := repo.lastUpserted.Vector(); len(got) != 2 {
		t.Errorf("expected vector attached before upsert, got %v", got)
	}
}

func TestInsert_RegeneratesVector(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.5}}
	svc := New(repo, embed)

	l := validListing("L1")
	l.SetVector([]float32{9, 9, 9})
	if _, err := svc.Insert(context.Background(), l); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := repo.lastUpserted.Vector(); len(got) != 1 || got[0] != 0.5 {
		t.Errorf("caller-supplied vector must be replaced, got %v", got)
	}
}

func TestInsert_Invalid(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	l := validListing("L1")
	l.Category = 9
	_, err := svc.Insert(context.Background(), l)
	if !errors.Is(err, domain.ErrInvalidListing) {
		t.Fatalf("expected ErrInvalidListing, got %v", err)
	}
	if repo.upsertCalled {
		t.Error("invalid listing must not reach the repository")
	}
}

func TestInsert_EmbedError(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{err: errors.New("provider down")}
	svc := New(repo, embed)

	_, err := svc.Insert(context.Background(), validListing("L1"))
	if err == nil {
		t.Fatal("expected embedding error to propagate")
	}
	if repo.upsertCalled {
		t.Error("failed vectorization must not reach the repository")
	}
}

func TestInsertBatch(t *testing.T) {
	repo := &mockRepo{}
	embed := &mockEmbedder{vec: []float32{0.1}}
	svc := New(repo, embed)

	batch := []*domlisting.Listing{validListing("L1"), validListing("L2")}
	if err := svc.InsertBatch(context.Background(), batch); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !repo.multiCalled || len(repo.lastBatch) != 2 {
		t.Fatalf("expected one batched write of 2 listings")
	}
	if embed.calls != 2 {
		t.Errorf("expected 2 embed calls, got %d", embed.calls)
	}
	for _, l := range repo.lastBatch {
		if len(l.Vector()) == 0 {
			t.Errorf("listing %s missing vector", l.ID)
		}
	}
}

func TestInsertBatch_RejectsOnInvalid(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{vec: []float32{0.1}})

	bad := validListing("L2")
	bad.Latitude = 200
	batch := []*domlisting.Listing{validListing("L1"), bad}
	err := svc.InsertBatch(context.Background(), batch)
	if !errors.Is(err, domain.ErrInvalidListing) {
		t.Fatalf("expected ErrInvalidListing, got %v", err)
	}
	if repo.multiCalled {
		t.Error("a batch with an invalid listing must not be written")
	}
}

func TestInsertBatch_Empty(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{})

	if err := svc.InsertBatch(context.Background(), nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.multiCalled {
		t.Error("empty batch must be a no-op")
	}
}

func TestGet(t *testing.T) {
	repo := &mockRepo{getListing: *validListing("L1")}
	svc := New(repo, &mockEmbedder{})

	l, err := svc.Get(context.Background(), "L1")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if l.ID != "L1" {
		t.Errorf("expected listing L1, got %q", l.ID)
	}
}

func TestGet_NotFound(t *testing.T) {
	repo := &mockRepo{getErr: domain.ErrListingNotFound}
	svc := New(repo, &mockEmbedder{})

	_, err := svc.Get(context.Background(), "missing")
	if !errors.Is(err, domain.ErrListingNotFound) {
		t.Fatalf("expected ErrListingNotFound, got %v", err)
	}
}

func TestGet_EmptyID(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	_, err := svc.Get(context.Background(), "")
	if !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestDelete_EmptyID(t *testing.T) {
	svc := New(&mockRepo{}, &mockEmbedder{})

	if err := svc.Delete(context.Background(), ""); !errors.Is(err, domain.ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest, got %v", err)
	}
}

func TestClear(t *testing.T) {
	repo := &mockRepo{clearCount: 7}
	svc := New(repo, &mockEmbedder{vec: []float32{0, 0, 0, 0}})

	n, err := svc.Clear(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if n != 7 {
		t.Errorf("expected 7 deleted, got %d", n)
	}
	if repo.lastVectorDim != 4 {
		t.Errorf("expected index rebuild with the embedder dimension, got %d", repo.lastVectorDim)
	}
}

func TestStats(t *testing.T) {
	repo := &mockRepo{count: 42}
	svc := New(repo, &mockEmbedder{})

	st, err := svc.Stats(context.Background())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if st.Total != 42 {
		t.Errorf("expected 42 listings, got %d", st.Total)
	}
}

func TestEnsureIndex_UsesEmbedderDimension(t *testing.T) {
	repo := &mockRepo{}
	svc := New(repo, &mockEmbedder{vec: []float32{0, 0, 0}})

	if err := svc.EnsureIndex(context.Background()); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if repo.lastVectorDim != 3 {
		t.Errorf("expected index dimension 3, got %d", repo.lastVectorDim)
	}
}
