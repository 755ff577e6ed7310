package blend

import (
	"fmt"
	"math"
)

// ComponentResult captures one component's contribution to the blend score.
type ComponentResult struct {
	Name      string  `json:"name"`
	Score     float64 `json:"score"`
	Weight    float64 `json:"weight"`
	Weighted  float64 `json:"weighted"`
	Available bool    `json:"available"`
	Reason    string  `json:"reason"`
}

// eraBuckets is the fixed ordered set of publication-year ranges used for the
// era distribution. Max is inclusive.
var eraBuckets = []struct {
	Name string
	Max  int
}{
	{"pre-1950", 1949},
	{"1950-1999", 1999},
	{"2000-2009", 2009},
	{"2010-present", math.MaxInt},
}

func eraBucketIndex(year int) int {
	for i, b := range eraBuckets {
		if year <= b.Max {
			return i
		}
	}
	return len(eraBuckets) - 1
}

// CommonBooksComponent scores shared library membership against combined
// library size. Books both readers have read earn full credit; books both
// have shelved but at most one has read earn half credit. The denominator is
// the union of both full libraries so the same overlap counts for more
// between two small libraries than two huge ones.
func CommonBooksComponent(a, b *ReaderProfile) ComponentResult {
	union := make(map[string]struct{}, len(a.Books)+len(b.Books))
	for id := range a.Books {
		union[id] = struct{}{}
	}
	for id := range b.Books {
		union[id] = struct{}{}
	}
	if len(union) == 0 {
		return ComponentResult{Name: "common_books", Score: 0, Available: false, Reason: "no books on either side"}
	}

	fullCredit := 0
	partialCredit := 0
	for id, bookA := range a.Books {
		bookB, ok := b.Books[id]
		if !ok {
			continue
		}
		if bookA.OnShelf(ShelfRead) && bookB.OnShelf(ShelfRead) {
			fullCredit++
		} else {
			partialCredit++
		}
	}

	score := clamp((float64(fullCredit)+0.5*float64(partialCredit))/float64(len(union)), 0, 1)
	return ComponentResult{
		Name:      "common_books",
		Score:     score,
		Available: true,
		Reason:    fmt.Sprintf("%d read by both, %d partial, %d combined", fullCredit, partialCredit, len(union)),
	}
}

// CommonAuthorsComponent is the Jaccard similarity of the two readers'
// distinct author pools across all shelves.
func CommonAuthorsComponent(a, b *ReaderProfile) ComponentResult {
	poolA := a.AuthorPool()
	poolB := b.AuthorPool()

	inter := 0
	for id := range poolA {
		if _, ok := poolB[id]; ok {
			inter++
		}
	}
	unionSize := len(poolA) + len(poolB) - inter
	if unionSize == 0 {
		return ComponentResult{Name: "common_authors", Score: 0, Available: false, Reason: "no authors on either side"}
	}
	return ComponentResult{
		Name:      "common_authors",
		Score:     float64(inter) / float64(unionSize),
		Available: true,
		Reason:    fmt.Sprintf("%d shared of %d distinct", inter, unionSize),
	}
}

// GenreComponent normalizes shared genres by the smaller profile, so a short
// genre list fully contained in the other's scores 1.0. Labels arrive already
// restricted to the canonical vocabulary; no alias resolution happens here.
func GenreComponent(genresA, genresB GenreProfile) ComponentResult {
	if len(genresA) == 0 || len(genresB) == 0 {
		return ComponentResult{Name: "genre", Score: 0, Available: false, Reason: "missing genre profile"}
	}
	setB := make(map[string]struct{}, len(genresB))
	for _, g := range genresB {
		setB[g] = struct{}{}
	}
	inter := 0
	for _, g := range genresA {
		if _, ok := setB[g]; ok {
			inter++
		}
	}
	minSize := len(genresA)
	if len(genresB) < minSize {
		minSize = len(genresB)
	}
	return ComponentResult{
		Name:      "genre",
		Score:     float64(inter) / float64(minSize),
		Available: true,
		Reason:    fmt.Sprintf("%d shared, smaller profile has %d", inter, minSize),
	}
}

// EraComponent is one minus half the total-variation distance between the two
// readers' era distributions: identical reading eras score 1, disjoint 0.
func EraComponent(a, b *ReaderProfile) ComponentResult {
	distA, okA := a.EraDistribution()
	distB, okB := b.EraDistribution()
	if !okA || !okB {
		return ComponentResult{Name: "era", Score: 0, Available: false, Reason: "no dated read books"}
	}
	var tv float64
	for i := range distA {
		tv += math.Abs(distA[i] - distB[i])
	}
	return ComponentResult{
		Name:      "era",
		Score:     clamp(1-tv/2, 0, 1),
		Available: true,
		Reason:    "era distributions compared",
	}
}

// RatingComponent compares mean ratings over rated read books. span is the
// full width of the rating scale (4 for a 1–5 scale).
func RatingComponent(a, b *ReaderProfile, span float64) ComponentResult {
	meanA, okA := a.MeanRating()
	meanB, okB := b.MeanRating()
	if !okA || !okB {
		return ComponentResult{Name: "rating", Score: 0, Available: false, Reason: "no rated read books"}
	}
	return ComponentResult{
		Name:      "rating",
		Score:     clamp(1-math.Abs(meanA-meanB)/span, 0, 1),
		Available: true,
		Reason:    fmt.Sprintf("means %.2f vs %.2f", meanA, meanB),
	}
}

// LengthComponent compares median page counts over read books with pages
// present. normalizer is the reference span (400 pages) that keeps typical
// cross-genre gaps in the mid-range instead of immediately flooring.
func LengthComponent(a, b *ReaderProfile, normalizer float64) ComponentResult {
	medA, okA := a.MedianPages()
	medB, okB := b.MedianPages()
	if !okA || !okB {
		return ComponentResult{Name: "length", Score: 0, Available: false, Reason: "no paged read books"}
	}
	return ComponentResult{
		Name:      "length",
		Score:     clamp(1-math.Abs(medA-medB)/normalizer, 0, 1),
		Available: true,
		Reason:    fmt.Sprintf("medians %.0f vs %.0f pages", medA, medB),
	}
}

// YearComponent compares mean publication years over dated read books.
func YearComponent(a, b *ReaderProfile, normalizer float64) ComponentResult {
	meanA, okA := a.MeanPubYear()
	meanB, okB := b.MeanPubYear()
	if !okA || !okB {
		return ComponentResult{Name: "year", Score: 0, Available: false, Reason: "no dated read books"}
	}
	return ComponentResult{
		Name:      "year",
		Score:     clamp(1-math.Abs(meanA-meanB)/normalizer, 0, 1),
		Available: true,
		Reason:    fmt.Sprintf("mean years %.0f vs %.0f", meanA, meanB),
	}
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
