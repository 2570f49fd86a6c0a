package catalog

import (
	"fmt"
	"time"

	"github.com/parmaperfumes/catalog-backend/pkg/config"
)

// DataSourceHeader carries the provenance marker on fallback responses so
// operational tooling can tell canned data from live data at a glance.
const DataSourceHeader = "X-Data-Source"

// CachePolicy decides cache-control directives by provenance: live responses
// get a short public window with background revalidation, fallback responses
// cache longer since the dataset never changes underneath the CDN.
type CachePolicy struct {
	liveMaxAge         time.Duration
	liveRevalidate     time.Duration
	fallbackMaxAge     time.Duration
	fallbackRevalidate time.Duration
}

// NewCachePolicy builds the policy from configuration.
func NewCachePolicy(cfg config.CacheConfig) *CachePolicy {
	return &CachePolicy{
		liveMaxAge:         cfg.LiveMaxAge,
		liveRevalidate:     cfg.LiveRevalidate,
		fallbackMaxAge:     cfg.FallbackMaxAge,
		fallbackRevalidate: cfg.FallbackRevalidate,
	}
}

// CacheControl returns the Cache-Control value for a read response.
func (p *CachePolicy) CacheControl(provenance Provenance) string {
	maxAge, revalidate := p.liveMaxAge, p.liveRevalidate
	if provenance == ProvenanceFallback {
		maxAge, revalidate = p.fallbackMaxAge, p.fallbackRevalidate
	}
	return fmt.Sprintf("public, s-maxage=%d, stale-while-revalidate=%d",
		int(maxAge.Seconds()), int(revalidate.Seconds()))
}

// MutationCacheControl returns the directive for mutation responses, which
// must never be cached.
func (p *CachePolicy) MutationCacheControl() string {
	return "no-store"
}

// DataSource returns the provenance marker value, or "" when no marker should
// be emitted (live responses stay unmarked).
func (p *CachePolicy) DataSource(provenance Provenance) string {
	if provenance == ProvenanceFallback {
		return string(ProvenanceFallback)
	}
	return ""
}
