package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Feed fetch outcomes.
const (
	OutcomeOK    = "ok"
	OutcomeEmpty = "empty"
	OutcomeError = "error"
)

// FeedMetrics records product feed activity.
type FeedMetrics struct {
	fetches     *prometheus.CounterVec
	duration    prometheus.Histogram
	cacheHits   prometheus.Counter
	cacheMisses prometheus.Counter
	items       prometheus.Histogram
}

// NewFeedMetrics registers the feed metrics on the provided registerer.
// A nil registerer yields a no-op recorder.
func NewFeedMetrics(reg prometheus.Registerer) *FeedMetrics {
	if reg == nil {
		return &FeedMetrics{}
	}
	fetches := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "storefront_feed_fetches_total",
		Help: "Product feed page fetches by outcome.",
	}, []string{"outcome"})
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_feed_fetch_duration_seconds",
		Help:    "Duration of product feed page fetches in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_feed_cache_hits_total",
		Help: "Product feed pages served from cache.",
	})
	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "storefront_feed_cache_misses_total",
		Help: "Product feed pages not found in cache.",
	})
	items := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "storefront_feed_page_items",
		Help:    "Number of products returned per feed page.",
		Buckets: []float64{0, 1, 4, 8, 16, 32, 64, 100},
	})
	reg.MustRegister(fetches, duration, cacheHits, cacheMisses, items)
	return &FeedMetrics{
		fetches:     fetches,
		duration:    duration,
		cacheHits:   cacheHits,
		cacheMisses: cacheMisses,
		items:       items,
	}
}

// ObserveFetch records one page fetch.
func (m *FeedMetrics) ObserveFetch(outcome string, items int, duration time.Duration) {
	if m == nil || m.fetches == nil {
		return
	}
	m.fetches.WithLabelValues(normalizeLabel(outcome)).Inc()
	m.duration.Observe(duration.Seconds())
	m.items.Observe(float64(items))
}

// CacheHit increments the cache hit counter.
func (m *FeedMetrics) CacheHit() {
	if m == nil || m.cacheHits == nil {
		return
	}
	m.cacheHits.Inc()
}

// CacheMiss increments the cache miss counter.
func (m *FeedMetrics) CacheMiss() {
	if m == nil || m.cacheMisses == nil {
		return
	}
	m.cacheMisses.Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
