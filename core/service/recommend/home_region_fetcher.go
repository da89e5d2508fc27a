package recommend

import (
	"context"
	"errors"
	"sync"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"

	"github.com/go-pkgz/pool"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"
)

// ErrRegionIncomplete marks a region whose fetch had not finished when the pipeline deadline hit.
var ErrRegionIncomplete = errors.New("region fetch did not complete")

// FetcherConfig bounds the per-region fan-out.
type FetcherConfig struct {
	Concurrency int           // 동시 조회 지역 수
	Interval    time.Duration // 요청 간 최소 간격 (전체 합산)
	PageSize    int           // 지역당 조회 개수
	MaxRetries  int           // 지역당 자동 재시도 횟수
	RetryDelay  time.Duration
}

// DefaultFetcherConfig mirrors the sequential reference rate: one request per 100ms.
func DefaultFetcherConfig() *FetcherConfig {
	return &FetcherConfig{
		Concurrency: 4,
		Interval:    100 * time.Millisecond,
		PageSize:    20,
		MaxRetries:  1,
		RetryDelay:  200 * time.Millisecond,
	}
}

// RegionResult is the outcome of one region fetch. Err is nil on success.
type RegionResult struct {
	Region     domain.RegionCode
	Candidates []domain.Candidate
	Err        error
	Attempts   int
}

// RegionFetcher fans region fetches out over a bounded worker group.
// A shared limiter keeps the aggregate request rate at or below one request per Interval.
type RegionFetcher struct {
	source  out.SourceFetcher
	config  *FetcherConfig
	limiter *rate.Limiter
	log     zerolog.Logger
}

func NewRegionFetcher(source out.SourceFetcher, config *FetcherConfig, log zerolog.Logger) *RegionFetcher {
	if config == nil {
		config = DefaultFetcherConfig()
	}
	if config.Concurrency <= 0 {
		config.Concurrency = 1
	}
	if config.PageSize <= 0 || config.PageSize > 100 {
		config.PageSize = 20
	}
	if config.MaxRetries < 0 {
		config.MaxRetries = 0
	}

	limit := rate.Inf
	if config.Interval > 0 {
		limit = rate.Every(config.Interval)
	}

	return &RegionFetcher{
		source:  source,
		config:  config,
		limiter: rate.NewLimiter(limit, 1),
		log:     log.With().Str("component", "region_fetcher").Logger(),
	}
}

// regionCollector is written by workers and read once fan-out ends.
// Late writers after a deadline are harmless.
type regionCollector struct {
	mu      sync.Mutex
	order   []domain.RegionCode
	results map[domain.RegionCode]RegionResult
}

func newRegionCollector(regions []domain.RegionCode) *regionCollector {
	c := &regionCollector{
		order:   regions,
		results: make(map[domain.RegionCode]RegionResult, len(regions)),
	}
	for _, r := range regions {
		c.results[r] = RegionResult{Region: r, Err: ErrRegionIncomplete}
	}
	return c
}

func (c *regionCollector) set(res RegionResult) {
	c.mu.Lock()
	c.results[res.Region] = res
	c.mu.Unlock()
}

func (c *regionCollector) snapshot() []RegionResult {
	c.mu.Lock()
	defer c.mu.Unlock()

	out := make([]RegionResult, 0, len(c.order))
	for _, r := range c.order {
		out = append(out, c.results[r])
	}
	return out
}

// regionWorker implements pool.Worker for region codes.
type regionWorker struct {
	fetcher   *RegionFetcher
	collector *regionCollector
}

// Do never fails the group; failures are recorded per region.
func (w *regionWorker) Do(ctx context.Context, region domain.RegionCode) error {
	w.collector.set(w.fetcher.fetchOne(ctx, region))
	return nil
}

// FetchAll fetches every region and returns one result per region in input order.
// When ctx expires, regions that had not finished carry ErrRegionIncomplete.
func (f *RegionFetcher) FetchAll(ctx context.Context, regions []domain.RegionCode) []RegionResult {
	if len(regions) == 0 {
		return nil
	}

	collector := newRegionCollector(dedupeRegions(regions))
	worker := &regionWorker{fetcher: f, collector: collector}

	// Channel sized to the job count so Submit never blocks after cancellation.
	// Batch size 0 hands each region to a free worker on its own; batching would
	// queue healthy regions behind a hanging one.
	group := pool.New[domain.RegionCode](min(f.config.Concurrency, len(collector.order)), worker).
		WithWorkerChanSize(len(collector.order)).
		WithBatchSize(0).
		WithContinueOnError()

	if err := group.Go(ctx); err != nil {
		f.log.Error().Err(err).Msg("failed to start region worker group")
		return collector.snapshot()
	}

	for _, r := range collector.order {
		group.Submit(r)
	}

	if err := group.Close(ctx); err != nil {
		f.log.Warn().Err(err).Msg("region fan-out ended early")
	}
	return collector.snapshot()
}

func (f *RegionFetcher) fetchOne(ctx context.Context, region domain.RegionCode) RegionResult {
	res := RegionResult{Region: region}
	log := f.log.With().Str("region", string(region)).Logger()

	for attempt := 0; attempt <= f.config.MaxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				res.Err = ctx.Err()
				return res
			case <-time.After(f.config.RetryDelay):
			}
		}

		if err := f.limiter.Wait(ctx); err != nil {
			res.Err = err
			return res
		}

		res.Attempts++
		start := time.Now()
		items, err := f.source.FetchRegion(ctx, region, f.config.PageSize)
		if err == nil {
			res.Candidates = items
			res.Err = nil
			log.Debug().
				Int("count", len(items)).
				Dur("took", time.Since(start)).
				Msg("region fetched")
			return res
		}

		res.Err = err
		log.Warn().Err(err).Int("attempt", res.Attempts).Msg("region fetch failed")
		if ctx.Err() != nil {
			return res
		}
	}
	return res
}

func dedupeRegions(regions []domain.RegionCode) []domain.RegionCode {
	seen := make(map[domain.RegionCode]struct{}, len(regions))
	out := make([]domain.RegionCode, 0, len(regions))
	for _, r := range regions {
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		out = append(out, r)
	}
	return out
}
