package blend

import (
	"math"
	"testing"
)

func floatPtr(v float64) *float64 { return &v }
func intPtr(v int) *int           { return &v }

func TestNormalizeProfileMergesDuplicates(t *testing.T) {
	records := []RawBook{
		{BookID: "b1", AuthorID: "a1", Shelves: []string{"to-read"}, Pages: intPtr(200)},
		{BookID: "b1", AuthorID: "a1", Shelves: []string{"read"}, Rating: floatPtr(4), Pages: intPtr(210)},
		{BookID: "b2", AuthorID: "a2", Shelves: []string{"read"}},
	}

	profile, dropped := NormalizeProfile(records)
	if dropped != 0 {
		t.Errorf("expected 0 dropped, got %d", dropped)
	}
	if len(profile.Books) != 2 {
		t.Fatalf("expected 2 books after merge, got %d", len(profile.Books))
	}

	b1 := profile.Books["b1"]
	if !b1.OnShelf("read") || !b1.OnShelf("to-read") {
		t.Errorf("expected unioned shelves, got %v", b1.ShelfList())
	}
	if b1.Rating == nil || *b1.Rating != 4 {
		t.Error("expected rating from later record")
	}
	if b1.Pages == nil || *b1.Pages != 210 {
		t.Error("expected most recent non-absent pages to win")
	}
}

func TestNormalizeProfileDropsMissingID(t *testing.T) {
	records := []RawBook{
		{BookID: "", AuthorID: "a1", Shelves: []string{"read"}},
		{BookID: "b1", AuthorID: "a1", Shelves: []string{"read"}},
	}

	profile, dropped := NormalizeProfile(records)
	if dropped != 1 {
		t.Errorf("expected 1 dropped record, got %d", dropped)
	}
	if len(profile.Books) != 1 {
		t.Errorf("expected 1 book, got %d", len(profile.Books))
	}
}

func TestNormalizeProfileEmpty(t *testing.T) {
	profile, dropped := NormalizeProfile(nil)
	if dropped != 0 || len(profile.Books) != 0 {
		t.Errorf("expected empty profile, got %d books, %d dropped", len(profile.Books), dropped)
	}
	if got := profile.ReadBooks(); len(got) != 0 {
		t.Errorf("expected no read books, got %d", len(got))
	}
}

func TestDerivedStats(t *testing.T) {
	profile, _ := NormalizeProfile([]RawBook{
		{BookID: "b1", AuthorID: "a1", Shelves: []string{"read"}, Rating: floatPtr(3), Pages: intPtr(100), PubYear: intPtr(1960)},
		{BookID: "b2", AuthorID: "a2", Shelves: []string{"read"}, Rating: floatPtr(5), Pages: intPtr(300), PubYear: intPtr(2015)},
		{BookID: "b3", AuthorID: "a3", Shelves: []string{"read"}, Pages: intPtr(200)},
		// to-read books never contribute to derived stats
		{BookID: "b4", AuthorID: "a4", Shelves: []string{"to-read"}, Rating: floatPtr(1), Pages: intPtr(900), PubYear: intPtr(1800)},
	})

	mean, ok := profile.MeanRating()
	if !ok || mean != 4 {
		t.Errorf("mean rating = %f, %v; want 4, true", mean, ok)
	}

	med, ok := profile.MedianPages()
	if !ok || med != 200 {
		t.Errorf("median pages = %f, %v; want 200, true", med, ok)
	}

	year, ok := profile.MeanPubYear()
	if !ok || math.Abs(year-1987.5) > 1e-9 {
		t.Errorf("mean pub year = %f, %v; want 1987.5, true", year, ok)
	}

	dist, ok := profile.EraDistribution()
	if !ok {
		t.Fatal("expected dated era distribution")
	}
	// 1960 -> 1950-1999, 2015 -> 2010-present; b3 has no year and is excluded
	want := []float64{0, 0.5, 0, 0.5}
	for i := range want {
		if math.Abs(dist[i]-want[i]) > 1e-9 {
			t.Errorf("era bucket %d = %f, want %f", i, dist[i], want[i])
		}
	}
}

func TestDerivedStatsAbsent(t *testing.T) {
	profile, _ := NormalizeProfile([]RawBook{
		{BookID: "b1", AuthorID: "a1", Shelves: []string{"read"}},
	})

	if _, ok := profile.MeanRating(); ok {
		t.Error("expected no mean rating without rated read books")
	}
	if _, ok := profile.MedianPages(); ok {
		t.Error("expected no median pages without paged read books")
	}
	if _, ok := profile.MeanPubYear(); ok {
		t.Error("expected no mean year without dated read books")
	}
	dist, ok := profile.EraDistribution()
	if ok {
		t.Error("expected undated era distribution")
	}
	for i, v := range dist {
		if v != 0 {
			t.Errorf("era bucket %d = %f, want 0", i, v)
		}
	}
}

func TestEraBucketIndex(t *testing.T) {
	tests := []struct {
		year int
		want int
	}{
		{1800, 0},
		{1949, 0},
		{1950, 1},
		{1999, 1},
		{2000, 2},
		{2009, 2},
		{2010, 3},
		{2024, 3},
		{-300, 0}, // BCE years land in the oldest bucket
	}
	for _, tt := range tests {
		if got := eraBucketIndex(tt.year); got != tt.want {
			t.Errorf("eraBucketIndex(%d) = %d, want %d", tt.year, got, tt.want)
		}
	}
}
