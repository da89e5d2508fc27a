package advisor

import (
	"context"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
)

// Static always suggests the same regions. Used when no LLM key is configured
// and in pipeline tests.
type Static struct {
	regions []domain.RegionCode
}

var _ out.RegionAdvisor = (*Static)(nil)

func NewStatic(regions ...domain.RegionCode) *Static {
	cp := make([]domain.RegionCode, len(regions))
	copy(cp, regions)
	return &Static{regions: cp}
}

func (s *Static) SuggestRegions(ctx context.Context, freeTextPreferences string) ([]domain.RegionCode, error) {
	if len(s.regions) == 0 {
		return domain.AllRegions(), nil
	}
	out := make([]domain.RegionCode, len(s.regions))
	copy(out, s.regions)
	return out, nil
}
