package out

import (
	"context"

	"ruralhome_server/core/domain"

	"github.com/google/uuid"
)

// ResultCache keeps each user's last assembled result set so an accept
// can be resolved by candidate id alone.
type ResultCache interface {
	PutResults(ctx context.Context, userID uuid.UUID, pref domain.PreferenceVector, items []domain.ScoredCandidate) error
	GetResults(ctx context.Context, userID uuid.UUID) (*CachedResults, error)
}

// CachedResults is nil-able; a cache miss returns (nil, nil).
type CachedResults struct {
	Preference domain.PreferenceVector  `json:"preference"`
	Items      []domain.ScoredCandidate `json:"items"`
}
