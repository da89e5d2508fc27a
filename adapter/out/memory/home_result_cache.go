package memory

import (
	"context"
	"sync"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"

	"github.com/google/uuid"
)

type cachedEntry struct {
	results   out.CachedResults
	expiresAt time.Time
}

// ResultCache holds each user's last result set with a TTL.
type ResultCache struct {
	mu      sync.RWMutex
	entries map[uuid.UUID]cachedEntry
	ttl     time.Duration
	now     func() time.Time
}

var _ out.ResultCache = (*ResultCache)(nil)

// NewResultCache with ttl <= 0 keeps entries until overwritten.
func NewResultCache(ttl time.Duration) *ResultCache {
	return &ResultCache{
		entries: make(map[uuid.UUID]cachedEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (c *ResultCache) PutResults(ctx context.Context, userID uuid.UUID, pref domain.PreferenceVector, items []domain.ScoredCandidate) error {
	cp := make([]domain.ScoredCandidate, len(items))
	copy(cp, items)

	entry := cachedEntry{results: out.CachedResults{Preference: pref, Items: cp}}
	if c.ttl > 0 {
		entry.expiresAt = c.now().Add(c.ttl)
	}

	c.mu.Lock()
	c.entries[userID] = entry
	c.mu.Unlock()
	return nil
}

func (c *ResultCache) GetResults(ctx context.Context, userID uuid.UUID) (*out.CachedResults, error) {
	c.mu.RLock()
	entry, ok := c.entries[userID]
	c.mu.RUnlock()

	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		c.mu.Lock()
		delete(c.entries, userID)
		c.mu.Unlock()
		return nil, nil
	}

	res := entry.results
	return &res, nil
}
