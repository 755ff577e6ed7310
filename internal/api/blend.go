package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/bookblend/bookblend/internal/blend"
	"github.com/bookblend/bookblend/internal/events"
	"github.com/bookblend/bookblend/internal/goodreads"
	"github.com/bookblend/bookblend/internal/insights"
	"github.com/bookblend/bookblend/internal/store"
)

type BlendHandler struct {
	fetcher    goodreads.Client
	classifier insights.Classifier
	blender    *blend.Blender
	store      store.Store   // nil runs without history
	events     events.Client // nil runs without events
	logger     *slog.Logger
}

func NewBlendHandler(f goodreads.Client, c insights.Classifier, b *blend.Blender,
	s store.Store, e events.Client, logger *slog.Logger) *BlendHandler {
	return &BlendHandler{fetcher: f, classifier: c, blender: b, store: s, events: e, logger: logger}
}

type BlendResponse struct {
	ReaderA string             `json:"reader_a"`
	ReaderB string             `json:"reader_b"`
	GenresA blend.GenreProfile `json:"genres_a"`
	GenresB blend.GenreProfile `json:"genres_b"`
	blend.BlendResult
}

// readerData is the completed fetch+classify pipeline output for one reader.
type readerData struct {
	id      string
	profile *blend.ReaderProfile
	genres  blend.GenreProfile
	dropped int
	err     error
}

// Blend handles GET /api/v1/blend?reader_a=…&reader_b=…
// The two fetch+classify pipelines run concurrently; the engine only sees
// their completed results.
func (h *BlendHandler) Blend(w http.ResponseWriter, r *http.Request) {
	readerA := r.URL.Query().Get("reader_a")
	readerB := r.URL.Query().Get("reader_b")
	if readerA == "" || readerB == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reader_a and reader_b required"})
		return
	}

	pair := [2]*readerData{{id: readerA}, {id: readerB}}
	var wg sync.WaitGroup
	for _, rd := range pair {
		wg.Add(1)
		go func(rd *readerData) {
			defer wg.Done()
			h.loadReader(r.Context(), rd)
		}(rd)
	}
	wg.Wait()

	for _, rd := range pair {
		if rd.err != nil {
			writeJSON(w, http.StatusBadGateway, map[string]string{"error": rd.err.Error()})
			return
		}
	}

	result := h.blender.Compute(pair[0].profile, pair[1].profile, pair[0].genres, pair[1].genres)
	blendsComputed.Inc()
	blendScores.Observe(result.Score)

	h.logger.Info("blend computed",
		"reader_a", readerA,
		"reader_b", readerB,
		"score", result.Score,
		"score_raw", result.ScoreRaw,
	)

	h.record(r.Context(), pair, result)

	writeJSON(w, http.StatusOK, BlendResponse{
		ReaderA:     readerA,
		ReaderB:     readerB,
		GenresA:     pair[0].genres,
		GenresB:     pair[1].genres,
		BlendResult: result,
	})
}

func (h *BlendHandler) loadReader(ctx context.Context, rd *readerData) {
	records, err := h.fetcher.FetchShelf(ctx, rd.id, goodreads.ShelfAll)
	if err != nil {
		fetchFailures.WithLabelValues("goodreads").Inc()
		rd.err = err
		return
	}

	rd.profile, rd.dropped = blend.NormalizeProfile(records)
	if rd.dropped > 0 {
		droppedRecords.Add(float64(rd.dropped))
		h.logger.Warn("dropped records without book id", "reader", rd.id, "dropped", rd.dropped)
		if h.events != nil {
			_ = h.events.Publish(events.SubjectRecordsDropped, events.RecordsDroppedEvent{
				ReaderID:  rd.id,
				Dropped:   rd.dropped,
				Timestamp: time.Now().UTC(),
			})
		}
	}

	rd.genres, err = h.classifier.ClassifyGenres(ctx, rd.id, records)
	if err != nil {
		fetchFailures.WithLabelValues("classifier").Inc()
		rd.err = err
	}
}

// record persists and announces a computed blend. Both sinks are optional and
// failures are logged, never surfaced to the caller.
func (h *BlendHandler) record(ctx context.Context, pair [2]*readerData, result blend.BlendResult) {
	if h.store != nil {
		rec := &store.BlendRecord{
			ReaderA:        pair[0].id,
			ReaderB:        pair[1].id,
			Score:          result.Score,
			ScoreRaw:       result.ScoreRaw,
			Components:     result.Components,
			DroppedRecords: pair[0].dropped + pair[1].dropped,
		}
		if err := h.store.CreateBlend(ctx, rec); err != nil {
			h.logger.Error("failed to record blend", "error", err)
		}
	}
	if h.events != nil {
		_ = h.events.Publish(events.SubjectBlendComputed, events.BlendComputedEvent{
			ReaderA:   pair[0].id,
			ReaderB:   pair[1].id,
			Score:     result.Score,
			ScoreRaw:  result.ScoreRaw,
			Timestamp: time.Now().UTC(),
		})
	}
}

// History handles GET /api/v1/blend/history?reader_a=…&reader_b=…
func (h *BlendHandler) History(w http.ResponseWriter, r *http.Request) {
	readerA := r.URL.Query().Get("reader_a")
	readerB := r.URL.Query().Get("reader_b")
	if readerA == "" || readerB == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "reader_a and reader_b required"})
		return
	}
	if h.store == nil {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": "blend history not configured"})
		return
	}

	records, err := h.store.ListBlends(r.Context(), readerA, readerB, 20)
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	if records == nil {
		records = []*store.BlendRecord{}
	}
	writeJSON(w, http.StatusOK, records)
}
