package recommend

import (
	"context"
	"errors"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/in"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/apperr"
	"ruralhome_server/pkg/logger"
	"ruralhome_server/pkg/metrics"

	"github.com/google/uuid"
)

// Config tunes one pipeline run.
type Config struct {
	MinScore        int
	FreeCount       int
	UserCap         int
	Target          int
	UserPoolLimit   int
	AdvisorTimeout  time.Duration
	PipelineTimeout time.Duration
}

func DefaultConfig() Config {
	return Config{
		MinScore:        DefaultMinScore,
		FreeCount:       DefaultFreeCount,
		UserCap:         DefaultUserCap,
		Target:          DefaultTarget,
		UserPoolLimit:   200,
		AdvisorTimeout:  10 * time.Second,
		PipelineTimeout: 25 * time.Second,
	}
}

// Deps wires the pipeline. Advisor and UserListings may be nil.
type Deps struct {
	Scorer       *Scorer
	Fetcher      *RegionFetcher
	Advisor      out.RegionAdvisor
	UserListings out.UserListingRepository
	Store        out.RecommendationStore
	Results      out.ResultCache
	Prices       *PriceSynthesizer
	Images       *ImageAllocator
	Metrics      *metrics.Registry
}

// Service runs the recommendation pipeline and the accept/reject lifecycle.
type Service struct {
	scorer    *Scorer
	assembler *Assembler
	fetcher   *RegionFetcher
	advisor   out.RegionAdvisor
	listings  out.UserListingRepository
	store     out.RecommendationStore
	results   out.ResultCache
	prices    *PriceSynthesizer
	images    *ImageAllocator
	metrics   *metrics.Registry
	config    Config
}

var _ in.RecommendationService = (*Service)(nil)

func NewService(deps Deps, cfg Config) *Service {
	def := DefaultConfig()
	if cfg.MinScore < 0 {
		cfg.MinScore = 0
	}
	if cfg.FreeCount < 0 {
		cfg.FreeCount = def.FreeCount
	}
	if cfg.UserPoolLimit <= 0 {
		cfg.UserPoolLimit = def.UserPoolLimit
	}
	if cfg.AdvisorTimeout <= 0 {
		cfg.AdvisorTimeout = def.AdvisorTimeout
	}
	if cfg.PipelineTimeout <= 0 {
		cfg.PipelineTimeout = def.PipelineTimeout
	}

	scorer := deps.Scorer
	if scorer == nil {
		scorer = NewScorer(DefaultWeights())
	}
	prices := deps.Prices
	if prices == nil {
		prices = NewPriceSynthesizer(time.Now().UnixNano())
	}
	images := deps.Images
	if images == nil {
		images = NewImageAllocator(DefaultImagePool, time.Now().UnixNano())
	}
	reg := deps.Metrics
	if reg == nil {
		reg = metrics.NewRegistry(1000)
	}

	return &Service{
		scorer:    scorer,
		assembler: NewAssembler(cfg.UserCap, cfg.Target),
		fetcher:   deps.Fetcher,
		advisor:   deps.Advisor,
		listings:  deps.UserListings,
		store:     deps.Store,
		results:   deps.Results,
		prices:    prices,
		images:    images,
		metrics:   reg,
		config:    cfg,
	}
}

// Recommend runs advisor → fan-out → aggregate → score → assemble.
// Only an incomplete preference vector is an error; every aggregation-stage
// failure degrades the result instead.
func (s *Service) Recommend(ctx context.Context, userID uuid.UUID, req *in.RecommendRequest) (*domain.RecommendResult, error) {
	if req == nil {
		return nil, apperr.BadRequest("request body is required")
	}
	pref := req.Preference
	if !pref.IsComplete() {
		return nil, apperr.MissingFields(pref.MissingFields())
	}

	start := time.Now()
	log := logger.WithContext(ctx).WithUser(userID)

	runCtx, cancel := context.WithTimeout(ctx, s.config.PipelineTimeout)
	defer cancel()

	regions, advisorUsed := s.resolveRegions(runCtx, log, pref, req.FreeText)
	userPool := s.loadUserPool(runCtx, log)
	feedLists, failed := s.fetchFeed(runCtx, regions)

	all := Aggregate(userPool, feedLists)
	for i := range all {
		if all[i].IsUserSubmitted() {
			continue
		}
		s.prices.Apply(pref, &all[i])
		s.images.Apply(&all[i])
	}
	userCands, feedCands := splitByOrigin(all)

	assembleStart := time.Now()
	items := s.assembler.Assemble(
		s.scorer.ScoreAll(pref, userCands),
		s.scorer.ScoreAll(pref, feedCands),
		s.config.MinScore,
		s.config.FreeCount,
	)
	s.metrics.Since(metrics.StageAssemble, assembleStart)

	timedOut := errors.Is(runCtx.Err(), context.DeadlineExceeded)
	if timedOut {
		s.metrics.Outcomes.Timeouts.Add(1)
		log.Warn("[RecommendService] pipeline deadline reached, returning partial results")
	}

	result := &domain.RecommendResult{
		Status:        domain.RecommendOK,
		Items:         items,
		Regions:       regions,
		AdvisorUsed:   advisorUsed,
		FailedRegions: failed,
		TimedOut:      timedOut,
		GeneratedAt:   time.Now().UTC(),
	}
	if len(items) == 0 {
		result.Status = domain.RecommendEmpty
		result.Items = []domain.ScoredCandidate{}
		s.metrics.Outcomes.EmptyResults.Add(1)
	}

	s.cacheResults(ctx, log, userID, pref, items)
	s.metrics.Since(metrics.StagePipeline, start)

	log.WithFields(map[string]any{
		"regions":        len(regions),
		"failed_regions": len(failed),
		"user_pool":      len(userCands),
		"feed_pool":      len(feedCands),
		"items":          len(items),
		"advisor_used":   advisorUsed,
	}).WithDuration(time.Since(start)).Info("[RecommendService] Recommendation completed")

	return result, nil
}

// resolveRegions asks the advisor under its own timeout and falls back to
// every region on error, timeout or an unusable answer.
func (s *Service) resolveRegions(ctx context.Context, log *logger.Logger, pref domain.PreferenceVector, freeText string) ([]domain.RegionCode, bool) {
	if s.advisor == nil {
		return domain.AllRegions(), false
	}

	start := time.Now()
	advCtx, cancel := context.WithTimeout(ctx, s.config.AdvisorTimeout)
	defer cancel()

	suggested, err := s.advisor.SuggestRegions(advCtx, DescribePreferences(pref, freeText))
	s.metrics.Since(metrics.StageAdvisor, start)

	regions := validRegions(suggested)
	if err != nil || len(regions) == 0 {
		s.metrics.Outcomes.AdvisorFallbacks.Add(1)
		if err == nil {
			err = errors.New("advisor returned no usable regions")
		}
		log.WithError(err).Warn("[RecommendService] region advisor failed, querying all regions")
		return domain.AllRegions(), false
	}
	return regions, true
}

func validRegions(suggested []domain.RegionCode) []domain.RegionCode {
	seen := make(map[domain.RegionCode]struct{}, len(suggested))
	valid := make([]domain.RegionCode, 0, len(suggested))
	for _, r := range suggested {
		if !r.IsValid() {
			continue
		}
		if _, ok := seen[r]; ok {
			continue
		}
		seen[r] = struct{}{}
		valid = append(valid, r)
	}
	return valid
}

func (s *Service) loadUserPool(ctx context.Context, log *logger.Logger) []domain.Candidate {
	if s.listings == nil {
		return nil
	}
	start := time.Now()
	pool, err := s.listings.ListActive(ctx, s.config.UserPoolLimit)
	s.metrics.Since(metrics.StageUserPool, start)
	if err != nil {
		s.metrics.Outcomes.UserPoolFailures.Add(1)
		log.WithError(err).Warn("[RecommendService] user listing pool unavailable, continuing with feed only")
		return nil
	}
	for i := range pool {
		pool[i].Origin = domain.OriginUser
	}
	return pool
}

func (s *Service) fetchFeed(ctx context.Context, regions []domain.RegionCode) ([][]domain.Candidate, []domain.RegionCode) {
	if s.fetcher == nil {
		return nil, nil
	}
	start := time.Now()
	results := s.fetcher.FetchAll(ctx, regions)
	s.metrics.Since(metrics.StageFeed, start)

	lists := make([][]domain.Candidate, 0, len(results))
	var failed []domain.RegionCode
	for _, r := range results {
		if r.Err != nil {
			failed = append(failed, r.Region)
			s.metrics.Outcomes.RegionFailures.Add(1)
			continue
		}
		for i := range r.Candidates {
			r.Candidates[i].Origin = domain.OriginFeed
		}
		lists = append(lists, r.Candidates)
	}
	return lists, failed
}

// cacheResults outlives the pipeline deadline so a timed-out run is still acceptable.
func (s *Service) cacheResults(ctx context.Context, log *logger.Logger, userID uuid.UUID, pref domain.PreferenceVector, items []domain.ScoredCandidate) {
	if s.results == nil {
		return
	}
	cctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 3*time.Second)
	defer cancel()
	if err := s.results.PutResults(cctx, userID, pref, items); err != nil {
		log.WithError(err).Warn("[RecommendService] failed to cache result set")
	}
}

// Accept persists a candidate from the user's last result set.
// Accepting an already-saved candidate returns the existing record.
func (s *Service) Accept(ctx context.Context, userID uuid.UUID, candidateID string) (*domain.Recommendation, error) {
	if candidateID == "" {
		return nil, apperr.BadRequest("candidate id is required")
	}
	start := time.Now()
	defer s.metrics.Since(metrics.StageAccept, start)

	if s.results == nil {
		return nil, apperr.NotFound("candidate")
	}
	cached, err := s.results.GetResults(ctx, userID)
	if err != nil {
		return nil, apperr.PersistenceUnavailable("load result set", err)
	}
	if cached == nil {
		return nil, apperr.NotFound("candidate")
	}

	var found *domain.ScoredCandidate
	for i := range cached.Items {
		if cached.Items[i].ID == candidateID {
			found = &cached.Items[i]
			break
		}
	}
	if found == nil {
		return nil, apperr.NotFound("candidate")
	}

	score := s.scorer.Score(cached.Preference, found.Candidate)
	rec, err := s.store.Create(ctx, userID, found.Candidate, score)
	if err != nil {
		logger.WithContext(ctx).WithUser(userID).WithError(err).
			WithField("candidate_id", candidateID).
			Error("[RecommendService] failed to save recommendation")
		return nil, apperr.PersistenceUnavailable("save recommendation", err)
	}
	return rec, nil
}

// Reject removes a saved recommendation. Removing a missing pair returns 0.
func (s *Service) Reject(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error) {
	if candidateID == "" {
		return 0, apperr.BadRequest("candidate id is required")
	}
	n, err := s.store.Delete(ctx, userID, candidateID)
	if err != nil {
		return 0, apperr.PersistenceUnavailable("delete recommendation", err)
	}
	return n, nil
}

func (s *Service) ListSaved(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error) {
	recs, err := s.store.ListByUser(ctx, userID)
	if err != nil {
		return nil, apperr.PersistenceUnavailable("list recommendations", err)
	}
	if recs == nil {
		recs = []*domain.Recommendation{}
	}
	return recs, nil
}

// Metrics exposes stage stats for the health endpoint.
func (s *Service) Metrics() map[string]any {
	return s.metrics.Snapshot()
}
