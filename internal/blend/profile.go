package blend

import (
	"sort"
)

// ShelfRead is the shelf tag that marks a book as actually read.
// All other shelves (to-read, currently-reading, custom tags) count only
// toward partial overlap credit.
const ShelfRead = "read"

// RawBook is one shelved item as delivered by the library fetcher, before
// normalization. Rating, Pages and PubYear are nil when the feed carries no
// value — absence is never encoded as 0.
type RawBook struct {
	BookID   string   `json:"book_id"`
	AuthorID string   `json:"author_id"`
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Shelves  []string `json:"shelves"`
	Rating   *float64 `json:"rating,omitempty"`
	Pages    *int     `json:"pages,omitempty"`
	PubYear  *int     `json:"pub_year,omitempty"`
}

// Book is one deduplicated shelved item in a reader's normalized profile.
// Identity comparisons use ID and AuthorID only; Title and Author are display
// fields carried through for the book-list surface and the genre classifier.
type Book struct {
	ID       string
	AuthorID string
	Title    string
	Author   string
	Shelves  map[string]struct{}
	Rating   *float64
	Pages    *int
	PubYear  *int
}

// OnShelf reports whether the book carries the given shelf tag.
func (b *Book) OnShelf(shelf string) bool {
	_, ok := b.Shelves[shelf]
	return ok
}

// ShelfList returns the book's shelves as a sorted slice.
func (b *Book) ShelfList() []string {
	out := make([]string, 0, len(b.Shelves))
	for s := range b.Shelves {
		out = append(out, s)
	}
	sort.Strings(out)
	return out
}

// ReaderProfile is the canonical in-memory form of one reader's library.
// Books is keyed by book ID; a given ID appears exactly once.
type ReaderProfile struct {
	Books map[string]*Book
}

// GenreProfile is a reader's ranked, deduplicated genre labels drawn from the
// canonical vocabulary. Rank order is preserved but only membership is scored.
type GenreProfile []string

// NormalizeProfile merges raw records into a ReaderProfile. Records sharing a
// book ID collapse into one Book with a unioned shelf set; for scalar fields
// the most recently seen non-absent value wins. Records without a book ID
// cannot establish identity and are dropped; the count of drops is returned
// so the caller can surface the data-quality event.
func NormalizeProfile(records []RawBook) (*ReaderProfile, int) {
	profile := &ReaderProfile{Books: make(map[string]*Book, len(records))}
	dropped := 0

	for _, rec := range records {
		if rec.BookID == "" {
			dropped++
			continue
		}
		book, ok := profile.Books[rec.BookID]
		if !ok {
			book = &Book{ID: rec.BookID, Shelves: make(map[string]struct{})}
			profile.Books[rec.BookID] = book
		}
		for _, shelf := range rec.Shelves {
			if shelf != "" {
				book.Shelves[shelf] = struct{}{}
			}
		}
		if rec.AuthorID != "" {
			book.AuthorID = rec.AuthorID
		}
		if rec.Title != "" {
			book.Title = rec.Title
		}
		if rec.Author != "" {
			book.Author = rec.Author
		}
		if rec.Rating != nil {
			book.Rating = rec.Rating
		}
		if rec.Pages != nil {
			book.Pages = rec.Pages
		}
		if rec.PubYear != nil {
			book.PubYear = rec.PubYear
		}
	}

	return profile, dropped
}

// ReadBooks returns the subset of books on the read shelf.
func (p *ReaderProfile) ReadBooks() []*Book {
	var out []*Book
	for _, b := range p.Books {
		if b.OnShelf(ShelfRead) {
			out = append(out, b)
		}
	}
	return out
}

// AuthorPool returns the distinct author IDs across all shelves.
func (p *ReaderProfile) AuthorPool() map[string]struct{} {
	pool := make(map[string]struct{})
	for _, b := range p.Books {
		if b.AuthorID != "" {
			pool[b.AuthorID] = struct{}{}
		}
	}
	return pool
}

// MeanRating averages ratings over read books that carry one. The second
// return is false when no read book is rated.
func (p *ReaderProfile) MeanRating() (float64, bool) {
	var sum float64
	n := 0
	for _, b := range p.ReadBooks() {
		if b.Rating != nil {
			sum += *b.Rating
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// MedianPages returns the median page count over read books with pages
// present. The second return is false when no read book has a page count.
func (p *ReaderProfile) MedianPages() (float64, bool) {
	var pages []int
	for _, b := range p.ReadBooks() {
		if b.Pages != nil {
			pages = append(pages, *b.Pages)
		}
	}
	if len(pages) == 0 {
		return 0, false
	}
	sort.Ints(pages)
	mid := len(pages) / 2
	if len(pages)%2 == 1 {
		return float64(pages[mid]), true
	}
	return float64(pages[mid-1]+pages[mid]) / 2, true
}

// MeanPubYear averages publication years over read books with a year present.
func (p *ReaderProfile) MeanPubYear() (float64, bool) {
	var sum float64
	n := 0
	for _, b := range p.ReadBooks() {
		if b.PubYear != nil {
			sum += float64(*b.PubYear)
			n++
		}
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}

// EraDistribution buckets the publication years of read books into the fixed
// era buckets and normalizes to fractions summing to 1. Books without a year
// are excluded rather than defaulted. The second return is false when the
// reader has no dated read books, in which case the distribution is all zero.
func (p *ReaderProfile) EraDistribution() ([]float64, bool) {
	dist := make([]float64, len(eraBuckets))
	total := 0
	for _, b := range p.ReadBooks() {
		if b.PubYear == nil {
			continue
		}
		dist[eraBucketIndex(*b.PubYear)]++
		total++
	}
	if total == 0 {
		return dist, false
	}
	for i := range dist {
		dist[i] /= float64(total)
	}
	return dist, true
}
