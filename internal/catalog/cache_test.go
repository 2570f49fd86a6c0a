package catalog

import (
	"context"
	"testing"
	"time"
)

func TestNilListCacheIsSafe(t *testing.T) {
	cache := NewListCache(nil, 10*time.Second, nil, nil)
	if cache != nil {
		t.Fatal("nil client must yield nil cache")
	}

	ctx := context.Background()
	if items, ok := cache.Get(ctx, false); ok || items != nil {
		t.Fatal("nil cache must always miss")
	}
	cache.Set(ctx, false, []CatalogItem{})
	cache.Invalidate(ctx)
}
