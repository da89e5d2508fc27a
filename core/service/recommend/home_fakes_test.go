package recommend

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"ruralhome_server/core/domain"
)

var errFeedDown = errors.New("feed: connection reset")

// fakeSource returns perRegion listings for every region except those in
// failing, and blocks until ctx ends for regions in hanging.
type fakeSource struct {
	mu        sync.Mutex
	perRegion int
	failing   map[domain.RegionCode]bool
	hanging   map[domain.RegionCode]bool
	calls     map[domain.RegionCode]int
	build     func(region domain.RegionCode, i int) domain.Candidate
}

func newFakeSource(perRegion int) *fakeSource {
	return &fakeSource{
		perRegion: perRegion,
		failing:   make(map[domain.RegionCode]bool),
		hanging:   make(map[domain.RegionCode]bool),
		calls:     make(map[domain.RegionCode]int),
	}
}

func (f *fakeSource) FetchRegion(ctx context.Context, region domain.RegionCode, limit int) ([]domain.Candidate, error) {
	f.mu.Lock()
	f.calls[region]++
	failing, hanging := f.failing[region], f.hanging[region]
	f.mu.Unlock()

	if hanging {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if failing {
		return nil, errFeedDown
	}

	n := min(f.perRegion, limit)
	items := make([]domain.Candidate, 0, n)
	for i := 0; i < n; i++ {
		if f.build != nil {
			items = append(items, f.build(region, i))
			continue
		}
		items = append(items, domain.Candidate{
			ID:       fmt.Sprintf("feed-%s-%d", region, i),
			Location: domain.Location{DistrictName: region.Name()},
			Origin:   domain.OriginFeed,
		})
	}
	return items, nil
}

func (f *fakeSource) callCount(region domain.RegionCode) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[region]
}

func (f *fakeSource) calledRegions() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeAdvisor blocks until ctx ends when block is set.
type fakeAdvisor struct {
	regions []domain.RegionCode
	err     error
	block   bool
	prompt  string
}

func (a *fakeAdvisor) SuggestRegions(ctx context.Context, text string) ([]domain.RegionCode, error) {
	a.prompt = text
	if a.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return a.regions, a.err
}

type fakeListings struct {
	items []domain.Candidate
	err   error
}

func (l *fakeListings) ListActive(ctx context.Context, limit int) ([]domain.Candidate, error) {
	if l.err != nil {
		return nil, l.err
	}
	out := make([]domain.Candidate, len(l.items))
	copy(out, l.items)
	return out, nil
}
