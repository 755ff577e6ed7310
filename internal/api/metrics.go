package api

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	blendsComputed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookblend_blends_total",
		Help: "Number of blend computations served.",
	})

	blendScores = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "bookblend_score",
		Help:    "Distribution of calibrated blend scores.",
		Buckets: prometheus.LinearBuckets(40, 10, 7),
	})

	fetchFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookblend_upstream_failures_total",
		Help: "Upstream fetch and classification failures.",
	}, []string{"source"})

	droppedRecords = promauto.NewCounter(prometheus.CounterOpts{
		Name: "bookblend_dropped_records_total",
		Help: "Raw book records dropped during normalization for missing identity.",
	})
)
