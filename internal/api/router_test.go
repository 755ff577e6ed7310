package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/bookblend/bookblend/internal/blend"
	"github.com/bookblend/bookblend/internal/store"
)

// Mocks

type mockFetcher struct {
	shelves map[string][]blend.RawBook
	err     error
}

func (m *mockFetcher) FetchShelf(_ context.Context, userID, _ string) ([]blend.RawBook, error) {
	if m.err != nil {
		return nil, m.err
	}
	records, ok := m.shelves[userID]
	if !ok {
		return nil, fmt.Errorf("goodreads: reader %s not found", userID)
	}
	return records, nil
}

type mockClassifier struct {
	genres map[string]blend.GenreProfile
}

func (m *mockClassifier) ClassifyGenres(_ context.Context, readerID string, _ []blend.RawBook) (blend.GenreProfile, error) {
	return m.genres[readerID], nil
}

type mockStore struct {
	blends []*store.BlendRecord
}

func (m *mockStore) CreateBlend(_ context.Context, rec *store.BlendRecord) error {
	rec.ID = uuid.New()
	rec.CreatedAt = time.Now()
	m.blends = append(m.blends, rec)
	return nil
}

func (m *mockStore) ListBlends(_ context.Context, readerA, readerB string, _ int) ([]*store.BlendRecord, error) {
	readerA, readerB = store.CanonicalPair(readerA, readerB)
	var out []*store.BlendRecord
	for _, rec := range m.blends {
		if rec.ReaderA == readerA && rec.ReaderB == readerB {
			out = append(out, rec)
		}
	}
	return out, nil
}

func (m *mockStore) Close() error { return nil }

type mockEvents struct {
	published []string
}

func (m *mockEvents) Publish(subject string, _ interface{}) error {
	m.published = append(m.published, subject)
	return nil
}

func (m *mockEvents) Close() {}

// Fixtures

func shelfFixture(first int, rating float64, pages, year int) []blend.RawBook {
	var records []blend.RawBook
	for i := 0; i < 5; i++ {
		id := fmt.Sprintf("%d", first+i)
		r, p, y := rating, pages, year
		records = append(records, blend.RawBook{
			BookID:   id,
			AuthorID: "author-" + id,
			Title:    "Book " + id,
			Author:   "Author " + id,
			Shelves:  []string{blend.ShelfRead},
			Rating:   &r,
			Pages:    &p,
			PubYear:  &y,
		})
	}
	return records
}

type testEnv struct {
	router http.Handler
	store  *mockStore
	events *mockEvents
}

func newTestEnv(t *testing.T, fetcher *mockFetcher, classifier *mockClassifier) *testEnv {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blender := blend.NewBlender(blend.DefaultWeights(), blend.DefaultTuning(), logger)
	st := &mockStore{}
	ev := &mockEvents{}
	return &testEnv{
		router: NewRouter(fetcher, classifier, blender, st, ev, "", logger),
		store:  st,
		events: ev,
	}
}

func defaultEnv(t *testing.T) *testEnv {
	fetcher := &mockFetcher{shelves: map[string][]blend.RawBook{
		"alice": shelfFixture(1, 4, 300, 2015),
		"bob":   shelfFixture(3, 5, 320, 2018),
	}}
	classifier := &mockClassifier{genres: map[string]blend.GenreProfile{
		"alice": {"Fantasy", "Science Fiction"},
		"bob":   {"Fantasy"},
	}}
	return newTestEnv(t, fetcher, classifier)
}

func doGet(t *testing.T, router http.Handler, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("GET", path, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

// Tests

func TestBlendEndpoint(t *testing.T) {
	env := defaultEnv(t)
	rec := doGet(t, env.router, "/api/v1/blend?reader_a=alice&reader_b=bob")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", rec.Code, rec.Body.String())
	}

	var resp BlendResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}

	if resp.ReaderA != "alice" || resp.ReaderB != "bob" {
		t.Errorf("unexpected reader ids: %s, %s", resp.ReaderA, resp.ReaderB)
	}
	wantRaw := 100 * (0.35*3.0/7.0 + 0.25 + 0.15 + 0.075 + 0.095 + 0.047)
	if math.Abs(resp.ScoreRaw-wantRaw) > 1e-9 {
		t.Errorf("score_raw = %f, want %f", resp.ScoreRaw, wantRaw)
	}
	if resp.Score != 100 {
		t.Errorf("score = %f, want 100", resp.Score)
	}
	if len(resp.Components) != 7 {
		t.Errorf("expected 7 components, got %d", len(resp.Components))
	}
	if len(resp.GenresA) != 2 || len(resp.GenresB) != 1 {
		t.Errorf("unexpected genre profiles: %v, %v", resp.GenresA, resp.GenresB)
	}

	// blend was recorded and announced
	if len(env.store.blends) != 1 {
		t.Fatalf("expected 1 stored blend, got %d", len(env.store.blends))
	}
	if env.store.blends[0].Score != 100 {
		t.Errorf("stored score = %f, want 100", env.store.blends[0].Score)
	}
	if len(env.events.published) != 1 || env.events.published[0] != "bookblend.blend.computed" {
		t.Errorf("unexpected events: %v", env.events.published)
	}
}

func TestBlendEndpointSymmetry(t *testing.T) {
	env := defaultEnv(t)
	ab := doGet(t, env.router, "/api/v1/blend?reader_a=alice&reader_b=bob")
	ba := doGet(t, env.router, "/api/v1/blend?reader_a=bob&reader_b=alice")

	var respAB, respBA BlendResponse
	if err := json.Unmarshal(ab.Body.Bytes(), &respAB); err != nil {
		t.Fatal(err)
	}
	if err := json.Unmarshal(ba.Body.Bytes(), &respBA); err != nil {
		t.Fatal(err)
	}
	if respAB.Score != respBA.Score || respAB.ScoreRaw != respBA.ScoreRaw {
		t.Errorf("asymmetric blend: %f/%f vs %f/%f",
			respAB.Score, respAB.ScoreRaw, respBA.Score, respBA.ScoreRaw)
	}
}

func TestBlendEndpointMissingParams(t *testing.T) {
	env := defaultEnv(t)
	rec := doGet(t, env.router, "/api/v1/blend?reader_a=alice")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", rec.Code)
	}
}

func TestBlendEndpointUnknownReader(t *testing.T) {
	env := defaultEnv(t)
	rec := doGet(t, env.router, "/api/v1/blend?reader_a=alice&reader_b=nobody")
	if rec.Code != http.StatusBadGateway {
		t.Errorf("status = %d, want 502", rec.Code)
	}
	if len(env.store.blends) != 0 {
		t.Error("failed blend must not be recorded")
	}
}

func TestBooksEndpoint(t *testing.T) {
	fetcher := &mockFetcher{shelves: map[string][]blend.RawBook{
		"alice": {
			{BookID: "1", AuthorID: "a1", Title: "One", Shelves: []string{"to-read"}},
			{BookID: "1", AuthorID: "a1", Title: "One", Shelves: []string{blend.ShelfRead}},
			{BookID: "", AuthorID: "a2", Title: "No ID", Shelves: []string{blend.ShelfRead}},
		},
	}}
	env := newTestEnv(t, fetcher, &mockClassifier{})

	rec := doGet(t, env.router, "/api/v1/readers/alice/books")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp BooksResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.Books) != 1 {
		t.Fatalf("expected 1 deduplicated book, got %d", len(resp.Books))
	}
	if resp.DroppedRecords != 1 {
		t.Errorf("dropped_records = %d, want 1", resp.DroppedRecords)
	}
	shelves := resp.Books[0].Shelves
	if len(shelves) != 2 {
		t.Errorf("expected unioned shelves, got %v", shelves)
	}
}

func TestSummaryEndpoint(t *testing.T) {
	env := defaultEnv(t)
	rec := doGet(t, env.router, "/api/v1/readers/alice")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}

	var resp ReaderSummary
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.BooksShelved != 5 || resp.BooksRead != 5 {
		t.Errorf("unexpected counts: %+v", resp)
	}
	if resp.MeanRating == nil || *resp.MeanRating != 4 {
		t.Error("expected mean rating 4")
	}
}

func TestHistoryEndpoint(t *testing.T) {
	env := defaultEnv(t)

	// no history yet
	rec := doGet(t, env.router, "/api/v1/blend/history?reader_a=alice&reader_b=bob")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var records []*store.BlendRecord
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 0 {
		t.Errorf("expected empty history, got %d", len(records))
	}

	// compute one, then the pair shows history in either order
	doGet(t, env.router, "/api/v1/blend?reader_a=alice&reader_b=bob")
	rec = doGet(t, env.router, "/api/v1/blend/history?reader_a=bob&reader_b=alice")
	if err := json.Unmarshal(rec.Body.Bytes(), &records); err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Errorf("expected 1 history entry, got %d", len(records))
	}
}

func TestHistoryEndpointWithoutStore(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	blender := blend.NewBlender(blend.DefaultWeights(), blend.DefaultTuning(), logger)
	router := NewRouter(&mockFetcher{}, &mockClassifier{}, blender, nil, nil, "", logger)

	rec := doGet(t, router, "/api/v1/blend/history?reader_a=a&reader_b=b")
	if rec.Code != http.StatusNotImplemented {
		t.Errorf("status = %d, want 501", rec.Code)
	}
}
