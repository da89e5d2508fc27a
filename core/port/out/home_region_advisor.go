package out

import (
	"context"

	"ruralhome_server/core/domain"
)

// RegionAdvisor 자유 서술 선호도를 받아 우선 조회할 지역 코드를 추천
// Implementations may fail freely; callers fall back to domain.AllRegions.
type RegionAdvisor interface {
	SuggestRegions(ctx context.Context, freeTextPreferences string) ([]domain.RegionCode, error)
}
