package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Resolution outcome labels.
const (
	OutcomeFound    = "found"
	OutcomeNotFound = "not_found"
	OutcomeInvalid  = "invalid"
	OutcomeError    = "error"
)

// Cache result labels.
const (
	CacheHit   = "hit"
	CacheMiss  = "miss"
	CacheError = "error"
)

// PricingMetrics records price resolution latency, outcomes and cache effectiveness.
type PricingMetrics struct {
	duration *prometheus.HistogramVec
	total    *prometheus.CounterVec
	cache    *prometheus.CounterVec
}

// NewPricingMetrics registers the pricing metrics on the provided registerer.
func NewPricingMetrics(reg prometheus.Registerer) *PricingMetrics {
	if reg == nil {
		return &PricingMetrics{}
	}
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "price_resolution_duration_seconds",
		Help:    "Duration of price resolutions in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"outcome"})
	total := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_resolution_total",
		Help: "Price resolutions by outcome.",
	}, []string{"outcome"})
	cache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "price_cache_total",
		Help: "Resolution cache lookups by result.",
	}, []string{"result"})
	reg.MustRegister(duration, total, cache)
	return &PricingMetrics{
		duration: duration,
		total:    total,
		cache:    cache,
	}
}

// ObserveResolution records one resolution with its outcome label.
func (m *PricingMetrics) ObserveResolution(outcome string, duration time.Duration) {
	if m == nil || m.duration == nil || m.total == nil {
		return
	}
	label := normalizeLabel(outcome)
	m.duration.WithLabelValues(label).Observe(duration.Seconds())
	m.total.WithLabelValues(label).Inc()
}

// IncCache increments the cache counter for the given result.
func (m *PricingMetrics) IncCache(result string) {
	if m == nil || m.cache == nil {
		return
	}
	m.cache.WithLabelValues(normalizeLabel(result)).Inc()
}

func normalizeLabel(value string) string {
	if value == "" {
		return "unknown"
	}
	return value
}
