package in

import (
	"context"

	"ruralhome_server/core/domain"

	"github.com/google/uuid"
)

// RecommendationService 추천 파이프라인 진입점
type RecommendationService interface {
	Recommend(ctx context.Context, userID uuid.UUID, req *RecommendRequest) (*domain.RecommendResult, error)
	Accept(ctx context.Context, userID uuid.UUID, candidateID string) (*domain.Recommendation, error)
	Reject(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error)
	ListSaved(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error)
}

// RecommendRequest carries the questionnaire answers plus optional free text
// that is appended to the advisor prompt.
type RecommendRequest struct {
	Preference domain.PreferenceVector `json:"preference"`
	FreeText   string                  `json:"free_text,omitempty"`
}
