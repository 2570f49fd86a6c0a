package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	pkgredis "github.com/parmaperfumes/catalog-backend/pkg/redis"

	"github.com/parmaperfumes/catalog-backend/pkg/logger"
	"github.com/parmaperfumes/catalog-backend/pkg/metrics"
)

// ListCache keeps serialized live listings in redis for the public read
// window. It only ever caches live provenance; fallback responses are cheap
// to rebuild and must not mask a store coming back.
type ListCache struct {
	client  *pkgredis.Client
	ttl     time.Duration
	logg    *logger.Logger
	metrics *metrics.CatalogMetrics
}

// NewListCache wires the cache. A nil client yields a nil cache, and every
// method on a nil cache is a no-op.
func NewListCache(client *pkgredis.Client, ttl time.Duration, logg *logger.Logger, m *metrics.CatalogMetrics) *ListCache {
	if client == nil {
		return nil
	}
	return &ListCache{client: client, ttl: ttl, logg: logg, metrics: m}
}

func variantKey(includeInactive bool) string {
	if includeInactive {
		return "all"
	}
	return "active"
}

// Get returns the cached listing, or false on miss or any redis failure.
func (c *ListCache) Get(ctx context.Context, includeInactive bool) ([]CatalogItem, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.client.Get(ctx, c.client.CatalogListKey(variantKey(includeInactive)))
	if err != nil {
		if !errors.Is(err, pkgredis.ErrCacheMiss) && c.logg != nil {
			c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog.cache_read_failed")
		}
		c.metrics.IncCacheMiss()
		return nil, false
	}
	var items []CatalogItem
	if err := json.Unmarshal([]byte(raw), &items); err != nil {
		c.metrics.IncCacheMiss()
		return nil, false
	}
	c.metrics.IncCacheHit()
	return items, true
}

// Set stores the listing. Failures are logged, never surfaced.
func (c *ListCache) Set(ctx context.Context, includeInactive bool, items []CatalogItem) {
	if c == nil {
		return
	}
	payload, err := json.Marshal(items)
	if err != nil {
		return
	}
	key := c.client.CatalogListKey(variantKey(includeInactive))
	if err := c.client.Set(ctx, key, string(payload), c.ttl); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog.cache_write_failed")
	}
}

// Invalidate drops both listing variants after a mutation.
func (c *ListCache) Invalidate(ctx context.Context) {
	if c == nil {
		return
	}
	keys := []string{
		c.client.CatalogListKey("active"),
		c.client.CatalogListKey("all"),
	}
	if err := c.client.Del(ctx, keys...); err != nil && c.logg != nil {
		c.logg.Warn(c.logg.WithField(ctx, "error", err.Error()), "catalog.cache_invalidate_failed")
	}
}
