package out

import (
	"context"

	"ruralhome_server/core/domain"

	"github.com/google/uuid"
)

// RecommendationStore 사용자가 수락한 추천 저장소
type RecommendationStore interface {
	// Create is idempotent per (userID, candidate.ID): an existing record is returned unchanged.
	Create(ctx context.Context, userID uuid.UUID, candidate domain.Candidate, matchScore int) (*domain.Recommendation, error)
	// Delete returns the number of removed rows (0 or 1). Missing pairs are not an error.
	Delete(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error)
	// ListByUser orders by creation time, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error)
}
