// Package observability holds the Prometheus metrics and tracing helpers of the feed service.
package observability

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "gotweet"

// OutcomeOK labels a successful call in FeedMetrics.Queries; failures carry the error kind.
const OutcomeOK = "ok"

// FeedMetrics are registered on the registerer passed to NewFeedMetrics, never the global one.
type FeedMetrics struct {
	// Queries counts engine calls. Labels: mode, outcome (ok, or the error kind)
	Queries *prometheus.CounterVec

	// QueryDuration measures engine calls end to end. Labels: mode
	QueryDuration *prometheus.HistogramVec

	// PageSize tracks how many tweets a page returned. Labels: mode
	PageSize *prometheus.HistogramVec

	// ViewWriteFailures counts view increments that failed after the page was fetched.
	ViewWriteFailures prometheus.Counter

	// HashtagsResolved counts hashtag names resolved through find-or-create.
	HashtagsResolved prometheus.Counter
}

func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	f := promauto.With(reg)
	return &FeedMetrics{
		Queries: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "queries_total",
			Help:      "Feed engine calls by mode and outcome",
		}, []string{"mode", "outcome"}),
		QueryDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "query_duration_seconds",
			Help:      "Feed engine call latency in seconds",
			Buckets:   []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5},
		}, []string{"mode"}),
		PageSize: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "page_size",
			Help:      "Tweets returned per page",
			Buckets:   []float64{0, 1, 5, 10, 20, 50, 100},
		}, []string{"mode"}),
		ViewWriteFailures: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "feed",
			Name:      "view_write_failures_total",
			Help:      "View count increments that failed after the page was fetched",
		}),
		HashtagsResolved: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "hashtags",
			Name:      "resolved_total",
			Help:      "Hashtag names resolved through find-or-create",
		}),
	}
}

// ObserveQuery records one engine call.
func (m *FeedMetrics) ObserveQuery(mode, outcome string, started time.Time, pageSize int) {
	m.Queries.WithLabelValues(mode, outcome).Inc()
	m.QueryDuration.WithLabelValues(mode).Observe(time.Since(started).Seconds())
	if outcome == OutcomeOK {
		m.PageSize.WithLabelValues(mode).Observe(float64(pageSize))
	}
}
