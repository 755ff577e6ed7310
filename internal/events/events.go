package events

import "time"

const (
	SubjectBlendComputed  = "bookblend.blend.computed"
	SubjectRecordsDropped = "bookblend.fetch.dropped"

	StreamName   = "BOOKBLEND_EVENTS"
	StreamMaxAge = "720h" // 30 days
)

// BlendComputedEvent announces a freshly computed blend for a reader pair.
type BlendComputedEvent struct {
	ReaderA   string    `json:"reader_a"`
	ReaderB   string    `json:"reader_b"`
	Score     float64   `json:"score"`
	ScoreRaw  float64   `json:"score_raw"`
	Timestamp time.Time `json:"timestamp"`
}

// RecordsDroppedEvent flags raw records discarded during normalization for a
// reader, a data-quality signal rather than a failure.
type RecordsDroppedEvent struct {
	ReaderID  string    `json:"reader_id"`
	Dropped   int       `json:"dropped"`
	Timestamp time.Time `json:"timestamp"`
}
