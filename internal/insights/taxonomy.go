package insights

import "strings"

// MaxReaderGenres caps a reader's genre profile to keep it tight and useful.
const MaxReaderGenres = 8

// Taxonomy is the canonical genre vocabulary. The classifier, the scoring
// engine and the frontend rely on these exact strings.
var Taxonomy = []string{
	// Core - Fiction
	"Literary Fiction",
	"Contemporary Fiction",
	"Classics",
	"Historical Fiction",
	"Science Fiction",
	"Fantasy",
	"Mystery",
	"Thriller & Crime",
	"Horror",
	"Romance",

	// Core - Nonfiction
	"Memoir",
	"Biography",
	"History",
	"Philosophy",
	"Psychology",
	"Self-Help",
	"Business & Economics",
	"Science & Technology",
	"Poetry",
	"Religion & Spirituality",

	// Flexible - Audience/Form
	"Young Adult",
	"New Adult",
	"Middle Grade",
	"Children's",
	"Short Stories & Essays",
	"Graphic Novels & Comics",

	// Flexible - Identity/Theme
	"LGBTQ+",
	"Cultural & Regional Literature",
	"True Crime",
	"Health, Food & Lifestyle",
}

// aliasContains maps substrings of free-form labels to canonical genres,
// checked in order after an exact match fails. "sci-fi" and "scifi" must be
// tried before the bare "science" heuristic.
var aliasContains = []struct {
	substr string
	genre  string
}{
	{"sci-fi", "Science Fiction"},
	{"scifi", "Science Fiction"},
	{"science fiction", "Science Fiction"},
	{"science", "Science & Technology"},
	{"philosophy", "Philosophy"},
	{"business", "Business & Economics"},
	{"history", "History"},
	{"memoir", "Memoir"},
	{"biograph", "Biography"},
	{"romance", "Romance"},
	{"thriller", "Thriller & Crime"},
	{"crime", "Thriller & Crime"},
	{"mystery", "Mystery"},
	{"poetry", "Poetry"},
	{"horror", "Horror"},
	{"fantasy", "Fantasy"},
	{"young adult", "Young Adult"},
	{"fiction", "Contemporary Fiction"},
}

// Canonicalize maps a free-form genre label to the canonical taxonomy.
// Resolution order: exact case-insensitive match, then substring heuristics.
// Returns false when no mapping exists.
func Canonicalize(label string) (string, bool) {
	s := strings.TrimSpace(label)
	if s == "" {
		return "", false
	}
	low := strings.ToLower(s)

	for _, g := range Taxonomy {
		if low == strings.ToLower(g) {
			return g, true
		}
	}
	for _, a := range aliasContains {
		if strings.Contains(low, a.substr) {
			return a.genre, true
		}
	}
	return "", false
}

// SanitizeGenres canonicalizes, deduplicates and caps a ranked genre list.
// Labels that cannot be resolved to the taxonomy are discarded. Rank order of
// the survivors is preserved.
func SanitizeGenres(labels []string) []string {
	seen := make(map[string]struct{}, len(labels))
	var out []string
	for _, label := range labels {
		genre, ok := Canonicalize(label)
		if !ok {
			continue
		}
		if _, dup := seen[genre]; dup {
			continue
		}
		seen[genre] = struct{}{}
		out = append(out, genre)
		if len(out) >= MaxReaderGenres {
			break
		}
	}
	return out
}
