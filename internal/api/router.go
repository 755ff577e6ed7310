package api

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/bookblend/bookblend/internal/blend"
	"github.com/bookblend/bookblend/internal/events"
	"github.com/bookblend/bookblend/internal/goodreads"
	"github.com/bookblend/bookblend/internal/insights"
	"github.com/bookblend/bookblend/internal/store"
)

func NewRouter(f goodreads.Client, c insights.Classifier, b *blend.Blender,
	s store.Store, e events.Client, apiKey string, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.Recoverer)
	r.Use(chiMiddleware.RequestID)
	r.Use(RequestLogger(logger))
	r.Use(RateLimitMiddleware(60))

	readers := NewReadersHandler(f)
	blends := NewBlendHandler(f, c, b, s, e, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APIKeyMiddleware(apiKey))

		r.Get("/readers/{id}", readers.Summary)
		r.Get("/readers/{id}/books", readers.Books)

		r.Get("/blend", blends.Blend)
		r.Get("/blend/history", blends.History)
	})

	return r
}

func NewMetricsRouter() http.Handler {
	r := chi.NewRouter()
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Handle("/metrics", promhttp.Handler())
	return r
}
