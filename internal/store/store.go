package store

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/bookblend/bookblend/internal/blend"
)

// BlendRecord is one computed blend persisted for history. Reader pairs are
// stored in canonical order (lexicographically smaller id first) so history
// lookups are symmetric.
type BlendRecord struct {
	ID             uuid.UUID               `json:"id"`
	ReaderA        string                  `json:"reader_a"`
	ReaderB        string                  `json:"reader_b"`
	Score          float64                 `json:"score"`
	ScoreRaw       float64                 `json:"score_raw"`
	Components     []blend.ComponentResult `json:"components"`
	DroppedRecords int                     `json:"dropped_records"`
	CreatedAt      time.Time               `json:"created_at"`
}

type Store interface {
	CreateBlend(ctx context.Context, rec *BlendRecord) error
	ListBlends(ctx context.Context, readerA, readerB string, limit int) ([]*BlendRecord, error)
	Close() error
}

// CanonicalPair orders a reader pair for storage and lookup.
func CanonicalPair(readerA, readerB string) (string, string) {
	if readerB < readerA {
		return readerB, readerA
	}
	return readerA, readerB
}
