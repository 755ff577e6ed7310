package api

import (
	"encoding/json"
	"net/http"
	"sort"

	"github.com/go-chi/chi/v5"

	"github.com/bookblend/bookblend/internal/blend"
	"github.com/bookblend/bookblend/internal/goodreads"
)

type ReadersHandler struct {
	fetcher goodreads.Client
}

func NewReadersHandler(f goodreads.Client) *ReadersHandler {
	return &ReadersHandler{fetcher: f}
}

// BookDTO is the wire form of one normalized book.
type BookDTO struct {
	BookID   string   `json:"book_id"`
	AuthorID string   `json:"author_id"`
	Title    string   `json:"title,omitempty"`
	Author   string   `json:"author,omitempty"`
	Shelves  []string `json:"shelves"`
	Rating   *float64 `json:"rating,omitempty"`
	Pages    *int     `json:"pages,omitempty"`
	PubYear  *int     `json:"pub_year,omitempty"`
}

type BooksResponse struct {
	ReaderID       string    `json:"reader_id"`
	Shelf          string    `json:"shelf"`
	Books          []BookDTO `json:"books"`
	DroppedRecords int       `json:"dropped_records"`
}

// Books handles GET /api/v1/readers/{id}/books?shelf=all
func (h *ReadersHandler) Books(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "id")
	shelf := r.URL.Query().Get("shelf")
	if shelf == "" {
		shelf = goodreads.ShelfAll
	}

	records, err := h.fetcher.FetchShelf(r.Context(), readerID, shelf)
	if err != nil {
		fetchFailures.WithLabelValues("goodreads").Inc()
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	profile, dropped := blend.NormalizeProfile(records)
	if dropped > 0 {
		droppedRecords.Add(float64(dropped))
	}

	writeJSON(w, http.StatusOK, BooksResponse{
		ReaderID:       readerID,
		Shelf:          shelf,
		Books:          bookDTOs(profile),
		DroppedRecords: dropped,
	})
}

type ReaderSummary struct {
	ReaderID         string   `json:"reader_id"`
	BooksShelved     int      `json:"books_shelved"`
	BooksRead        int      `json:"books_read"`
	ToRead           int      `json:"to_read"`
	CurrentlyReading int      `json:"currently_reading"`
	MeanRating       *float64 `json:"mean_rating,omitempty"`
	MedianPages      *float64 `json:"median_pages,omitempty"`
}

// Summary handles GET /api/v1/readers/{id}
func (h *ReadersHandler) Summary(w http.ResponseWriter, r *http.Request) {
	readerID := chi.URLParam(r, "id")

	records, err := h.fetcher.FetchShelf(r.Context(), readerID, goodreads.ShelfAll)
	if err != nil {
		fetchFailures.WithLabelValues("goodreads").Inc()
		writeJSON(w, http.StatusBadGateway, map[string]string{"error": err.Error()})
		return
	}

	profile, dropped := blend.NormalizeProfile(records)
	if dropped > 0 {
		droppedRecords.Add(float64(dropped))
	}

	summary := ReaderSummary{
		ReaderID:     readerID,
		BooksShelved: len(profile.Books),
	}
	for _, b := range profile.Books {
		switch {
		case b.OnShelf(blend.ShelfRead):
			summary.BooksRead++
		case b.OnShelf("currently-reading"):
			summary.CurrentlyReading++
		case b.OnShelf("to-read"):
			summary.ToRead++
		}
	}
	if mean, ok := profile.MeanRating(); ok {
		summary.MeanRating = &mean
	}
	if med, ok := profile.MedianPages(); ok {
		summary.MedianPages = &med
	}

	writeJSON(w, http.StatusOK, summary)
}

func bookDTOs(profile *blend.ReaderProfile) []BookDTO {
	out := make([]BookDTO, 0, len(profile.Books))
	for _, b := range profile.Books {
		out = append(out, BookDTO{
			BookID:   b.ID,
			AuthorID: b.AuthorID,
			Title:    b.Title,
			Author:   b.Author,
			Shelves:  b.ShelfList(),
			Rating:   b.Rating,
			Pages:    b.Pages,
			PubYear:  b.PubYear,
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookID < out[j].BookID })
	return out
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
