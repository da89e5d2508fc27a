package out

import (
	"context"

	"ruralhome_server/core/domain"
)

// SourceFetcher 외부 빈집 피드에서 지역 단위로 매물 조회
type SourceFetcher interface {
	FetchRegion(ctx context.Context, region domain.RegionCode, limit int) ([]domain.Candidate, error)
}

// UserListingRepository 사용자 등록 매물 풀
type UserListingRepository interface {
	ListActive(ctx context.Context, limit int) ([]domain.Candidate, error)
}
