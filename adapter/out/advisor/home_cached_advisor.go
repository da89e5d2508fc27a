package advisor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/cache"
	"ruralhome_server/pkg/logger"
)

// Cached memoizes successful suggestions per prompt text. Failures are not cached.
type Cached struct {
	next  out.RegionAdvisor
	store cache.JSONStore
	ttl   time.Duration
}

var _ out.RegionAdvisor = (*Cached)(nil)

func NewCached(next out.RegionAdvisor, store cache.JSONStore, ttl time.Duration) *Cached {
	if ttl <= 0 {
		ttl = 6 * time.Hour
	}
	return &Cached{next: next, store: store, ttl: ttl}
}

func cacheKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "advisor:" + hex.EncodeToString(sum[:16])
}

func (c *Cached) SuggestRegions(ctx context.Context, freeTextPreferences string) ([]domain.RegionCode, error) {
	key := cacheKey(freeTextPreferences)

	var cached []domain.RegionCode
	found, err := c.store.GetJSON(ctx, key, &cached)
	if err != nil {
		logger.WithError(err).Warn("[RegionAdvisor] cache read failed")
	}
	if found && len(cached) > 0 {
		return cached, nil
	}

	regions, err := c.next.SuggestRegions(ctx, freeTextPreferences)
	if err != nil {
		return nil, err
	}
	if err := c.store.SetJSON(ctx, key, regions, c.ttl); err != nil {
		logger.WithError(err).Warn("[RegionAdvisor] cache write failed")
	}
	return regions, nil
}
