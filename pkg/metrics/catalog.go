package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// CatalogMetrics records how the catalog read/write paths behave under drift
// and outages.
type CatalogMetrics struct {
	queryDuration  *prometheus.HistogramVec
	fallbackServed prometheus.Counter
	schemaRetries  *prometheus.CounterVec
	cacheHits      *prometheus.CounterVec
}

// NewCatalogMetrics registers the catalog metrics on the provided registerer.
func NewCatalogMetrics(reg prometheus.Registerer) *CatalogMetrics {
	if reg == nil {
		return &CatalogMetrics{}
	}
	queryDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "catalog_query_duration_seconds",
		Help:    "Duration of catalog store operations in seconds.",
		Buckets: prometheus.DefBuckets,
	}, []string{"operation"})
	fallbackServed := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_fallback_served_total",
		Help: "Responses served from the built-in fallback dataset.",
	})
	schemaRetries := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_schema_retry_total",
		Help: "Statements retried after an undefined column or table.",
	}, []string{"operation"})
	cacheHits := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_cache_events_total",
		Help: "List cache hits and misses.",
	}, []string{"outcome"})
	reg.MustRegister(queryDuration, fallbackServed, schemaRetries, cacheHits)
	return &CatalogMetrics{
		queryDuration:  queryDuration,
		fallbackServed: fallbackServed,
		schemaRetries:  schemaRetries,
		cacheHits:      cacheHits,
	}
}

// ObserveQueryDuration records how long the named store operation took.
func (c *CatalogMetrics) ObserveQueryDuration(operation string, duration time.Duration) {
	if c == nil || c.queryDuration == nil {
		return
	}
	c.queryDuration.WithLabelValues(normalizeLabel(operation)).Observe(duration.Seconds())
}

// IncFallbackServed increments the fallback dataset counter.
func (c *CatalogMetrics) IncFallbackServed() {
	if c == nil || c.fallbackServed == nil {
		return
	}
	c.fallbackServed.Inc()
}

// IncSchemaRetry increments the drift retry counter for the named operation.
func (c *CatalogMetrics) IncSchemaRetry(operation string) {
	if c == nil || c.schemaRetries == nil {
		return
	}
	c.schemaRetries.WithLabelValues(normalizeLabel(operation)).Inc()
}

// IncCacheHit increments the list cache hit counter.
func (c *CatalogMetrics) IncCacheHit() {
	if c == nil || c.cacheHits == nil {
		return
	}
	c.cacheHits.WithLabelValues("hit").Inc()
}

// IncCacheMiss increments the list cache miss counter.
func (c *CatalogMetrics) IncCacheMiss() {
	if c == nil || c.cacheHits == nil {
		return
	}
	c.cacheHits.WithLabelValues("miss").Inc()
}

func normalizeLabel(operation string) string {
	if operation == "" {
		return "unknown"
	}
	return operation
}
