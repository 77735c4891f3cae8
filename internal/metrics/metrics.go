// Package metrics holds the Prometheus collectors for feeds, tag queries,
// interaction state and the HTTP API.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Feed Metrics
	FeedServed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_feed_served_total",
			Help: "Total number of feed items served",
		},
		[]string{"kind"},
	)

	FeedExhausted = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_feed_exhausted_total",
			Help: "Total number of feed calls that found no unseen item",
		},
		[]string{"kind"},
	)

	FeedRecirculated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_feed_recirculated_total",
			Help: "Total number of feed items served from an already seen batch",
		},
		[]string{"kind"},
	)

	FeedAttempts = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_feed_attempts",
			Help:    "Candidate batches drawn per feed call",
			Buckets: []float64{1, 2, 3, 4, 5, 8},
		},
		[]string{"kind"},
	)

	// Interaction State Metrics
	StateOperations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "media_state_operations_total",
			Help: "Total number of interaction state operations",
		},
		[]string{"kind", "operation", "result"}, // result: "ok", "error"
	)

	// Tag Query Metrics
	TagQueryDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "media_tag_query_duration_seconds",
			Help:    "Duration of tag set queries in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	TagQueryErrors = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "media_tag_query_errors_total",
			Help: "Total number of failed tag set queries",
		},
	)

	TagQueryTags = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_tag_query_tags",
			Help:    "Number of normalized tags per query side",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13},
		},
		[]string{"side"}, // "include", "exclude"
	)

	// API Metrics
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "media_api_request_duration_seconds",
			Help:    "Duration of HTTP API requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordFeedCall records one completed feed call.
func RecordFeedCall(kind string, attempts int, served bool) {
	FeedAttempts.WithLabelValues(kind).Observe(float64(attempts))
	if served {
		FeedServed.WithLabelValues(kind).Inc()
	} else {
		FeedExhausted.WithLabelValues(kind).Inc()
	}
}

func RecordRecirculation(kind string) {
	FeedRecirculated.WithLabelValues(kind).Inc()
}

func RecordStateOp(kind, operation string, err error) {
	result := "ok"
	if err != nil {
		result = "error"
	}
	StateOperations.WithLabelValues(kind, operation, result).Inc()
}

func RecordTagQuery(includes, excludes int, duration time.Duration, err error) {
	TagQueryDuration.Observe(duration.Seconds())
	TagQueryTags.WithLabelValues("include").Observe(float64(includes))
	TagQueryTags.WithLabelValues("exclude").Observe(float64(excludes))
	if err != nil {
		TagQueryErrors.Inc()
	}
}

func RecordAPIRequest(method, route, status string, duration time.Duration) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration.Seconds())
}
