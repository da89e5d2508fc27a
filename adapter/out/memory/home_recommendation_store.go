// Package memory provides in-process implementations of the recommendation
// ports for tests and single-node development runs.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"

	"github.com/google/uuid"
)

type recKey struct {
	userID      uuid.UUID
	candidateID string
}

// RecommendationStore keeps accepted recommendations keyed by (user, candidate).
type RecommendationStore struct {
	mu     sync.RWMutex
	rows   map[recKey]*domain.Recommendation
	nextID int64
	now    func() time.Time
}

var _ out.RecommendationStore = (*RecommendationStore)(nil)

func NewRecommendationStore() *RecommendationStore {
	return &RecommendationStore{
		rows: make(map[recKey]*domain.Recommendation),
		now:  time.Now,
	}
}

func (s *RecommendationStore) Create(ctx context.Context, userID uuid.UUID, candidate domain.Candidate, matchScore int) (*domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	key := recKey{userID: userID, candidateID: candidate.ID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if existing, ok := s.rows[key]; ok {
		cp := *existing
		return &cp, nil
	}

	s.nextID++
	rec := &domain.Recommendation{
		ID:          s.nextID,
		UserID:      userID,
		CandidateID: candidate.ID,
		Snapshot:    candidate,
		MatchScore:  matchScore,
		CreatedAt:   s.now().UTC(),
	}
	s.rows[key] = rec

	cp := *rec
	return &cp, nil
}

func (s *RecommendationStore) Delete(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	key := recKey{userID: userID, candidateID: candidateID}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.rows[key]; !ok {
		return 0, nil
	}
	delete(s.rows, key)
	return 1, nil
}

func (s *RecommendationStore) ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	recs := make([]*domain.Recommendation, 0)
	for k, r := range s.rows {
		if k.userID != userID {
			continue
		}
		cp := *r
		recs = append(recs, &cp)
	}
	s.mu.RUnlock()

	// newest first; ids break same-instant ties
	sort.Slice(recs, func(i, j int) bool {
		if recs[i].CreatedAt.Equal(recs[j].CreatedAt) {
			return recs[i].ID > recs[j].ID
		}
		return recs[i].CreatedAt.After(recs[j].CreatedAt)
	})
	return recs, nil
}

// Len returns the total row count across users.
func (s *RecommendationStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows)
}
