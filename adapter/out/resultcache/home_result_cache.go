// Package resultcache stores each user's last result set in a JSON store
// (Redis in production) so accept can resolve a candidate by id.
package resultcache

import (
	"context"
	"fmt"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/cache"

	"github.com/google/uuid"
)

const DefaultTTL = 30 * time.Minute

type Store struct {
	store cache.JSONStore
	ttl   time.Duration
}

var _ out.ResultCache = (*Store)(nil)

func New(store cache.JSONStore, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{store: store, ttl: ttl}
}

func key(userID uuid.UUID) string {
	return "results:" + userID.String()
}

func (s *Store) PutResults(ctx context.Context, userID uuid.UUID, pref domain.PreferenceVector, items []domain.ScoredCandidate) error {
	if items == nil {
		items = []domain.ScoredCandidate{}
	}
	entry := out.CachedResults{Preference: pref, Items: items}
	if err := s.store.SetJSON(ctx, key(userID), entry, s.ttl); err != nil {
		return fmt.Errorf("cache results: %w", err)
	}
	return nil
}

func (s *Store) GetResults(ctx context.Context, userID uuid.UUID) (*out.CachedResults, error) {
	var entry out.CachedResults
	found, err := s.store.GetJSON(ctx, key(userID), &entry)
	if err != nil {
		return nil, fmt.Errorf("load cached results: %w", err)
	}
	if !found {
		return nil, nil
	}
	return &entry, nil
}
