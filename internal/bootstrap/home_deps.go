package bootstrap

import (
	"context"
	"fmt"
	"os"
	"time"

	"ruralhome_server/adapter/out/advisor"
	"ruralhome_server/adapter/out/feed"
	"ruralhome_server/adapter/out/memory"
	"ruralhome_server/adapter/out/persistence"
	"ruralhome_server/adapter/out/resultcache"
	"ruralhome_server/config"
	"ruralhome_server/core/agent/llm"
	"ruralhome_server/core/port/out"
	"ruralhome_server/core/service/recommend"
	"ruralhome_server/infra/database"
	"ruralhome_server/pkg/cache"
	"ruralhome_server/pkg/logger"
	"ruralhome_server/pkg/metrics"
	"ruralhome_server/pkg/snowflake"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

type Dependencies struct {
	Config *config.Config
	SQLDB  *sqlx.DB
	Redis  *redis.Client

	// Adapters
	FeedClient   *feed.Client
	LLMClient    *llm.Client
	Advisor      out.RegionAdvisor
	Store        out.RecommendationStore
	Results      out.ResultCache
	UserListings out.UserListingRepository

	Metrics *metrics.Registry

	// Services
	RecommendService *recommend.Service
}

func NewDependencies(cfg *config.Config) (*Dependencies, func(), error) {
	deps := &Dependencies{Config: cfg, Metrics: metrics.NewRegistry(1000)}
	var cleanups []func()
	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}

	zlog := newZerolog(cfg)

	// Database (sqlx over pgx)
	if cfg.DatabaseURL != "" {
		db, err := database.NewPostgres(cfg.DatabaseURL)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("postgres: %w", err)
		}
		deps.SQLDB = db
		cleanups = append(cleanups, func() { db.Close() })
		logger.Info("Postgres connected")
	} else if cfg.IsProduction() {
		return nil, nil, fmt.Errorf("DATABASE_URL is required in production")
	} else {
		logger.Warn("DATABASE_URL not set, using in-memory recommendation store")
	}

	// Redis
	if cfg.RedisURL != "" {
		redisClient, err := database.NewRedis(cfg.RedisURL)
		if err != nil {
			logger.Warn("Redis connection failed, falling back to in-memory caches: %v", err)
		} else {
			deps.Redis = redisClient
			cleanups = append(cleanups, func() { redisClient.Close() })
		}
	}

	// Repositories
	if deps.SQLDB != nil {
		ids, err := snowflake.NewGenerator(cfg.NodeID)
		if err != nil {
			cleanup()
			return nil, nil, fmt.Errorf("snowflake: %w", err)
		}
		deps.Store = persistence.NewRecommendationRepository(deps.SQLDB, ids)
		deps.UserListings = persistence.NewListingRepository(deps.SQLDB)
	} else {
		deps.Store = memory.NewRecommendationStore()
	}

	// Caches
	var jsonStore cache.JSONStore
	if deps.Redis != nil {
		jsonStore = cache.NewRedisCache(deps.Redis, "ruralhome:")
		deps.Results = resultcache.New(jsonStore, cfg.ResultCacheTTL)
	} else {
		jsonStore = cache.NewMemoryJSONStore()
		deps.Results = memory.NewResultCache(cfg.ResultCacheTTL)
	}

	// Feed
	deps.FeedClient = feed.NewClient(feed.Config{
		BaseURL:     cfg.FeedBaseURL,
		ServiceKey:  cfg.FeedServiceKey,
		Timeout:     cfg.FeedTimeout,
		Concurrency: cfg.FeedConcurrency,
	}, zlog)
	fetcher := recommend.NewRegionFetcher(deps.FeedClient, &recommend.FetcherConfig{
		Concurrency: cfg.FeedConcurrency,
		Interval:    cfg.FeedInterval,
		PageSize:    cfg.FeedPageSize,
		MaxRetries:  cfg.FeedMaxRetries,
		RetryDelay:  200 * time.Millisecond,
	}, zlog)

	// Region advisor
	if cfg.LLMEnabled() {
		deps.LLMClient = llm.NewClientWithConfig(llm.ClientConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.LLMModel,
			BaseURL:     cfg.OpenAIBaseURL,
			MaxTokens:   cfg.LLMMaxTokens,
			Temperature: cfg.LLMTemperature,
			Timeout:     cfg.LLMTimeout,
		})
		deps.Advisor = advisor.NewCached(advisor.NewLLMAdvisor(deps.LLMClient), jsonStore, cfg.AdvisorCacheTTL)
		logger.Info("Region advisor enabled (model=%s)", deps.LLMClient.Model())
	} else {
		deps.Advisor = advisor.NewStatic()
		logger.Warn("OPENAI_API_KEY not set, region advisor queries every region")
	}

	// Synthesis
	seed := cfg.RandomSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	imagePool := cfg.ImagePool
	if len(imagePool) == 0 {
		imagePool = recommend.DefaultImagePool
	}

	deps.RecommendService = recommend.NewService(recommend.Deps{
		Scorer:       recommend.NewScorer(recommend.DefaultWeights()),
		Fetcher:      fetcher,
		Advisor:      deps.Advisor,
		UserListings: deps.UserListings,
		Store:        deps.Store,
		Results:      deps.Results,
		Prices:       recommend.NewPriceSynthesizer(seed),
		Images:       recommend.NewImageAllocator(imagePool, seed+1),
		Metrics:      deps.Metrics,
	}, recommend.Config{
		MinScore:        cfg.RecommendMinScore,
		FreeCount:       cfg.RecommendFreeCount,
		UserCap:         cfg.RecommendUserCap,
		Target:          cfg.RecommendTarget,
		UserPoolLimit:   cfg.UserPoolLimit,
		AdvisorTimeout:  cfg.AdvisorTimeout,
		PipelineTimeout: cfg.PipelineTimeout,
	})

	return deps, cleanup, nil
}

// HealthChecks returns one ping per configured backing store.
func (d *Dependencies) HealthChecks() map[string]func(ctx context.Context) error {
	checks := make(map[string]func(ctx context.Context) error)
	if d.SQLDB != nil {
		checks["postgres"] = d.SQLDB.PingContext
	}
	if d.Redis != nil {
		checks["redis"] = func(ctx context.Context) error { return d.Redis.Ping(ctx).Err() }
	}
	return checks
}

func newZerolog(cfg *config.Config) zerolog.Logger {
	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil {
		level = zerolog.InfoLevel
	}
	if cfg.IsDevelopment() {
		return zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout}).Level(level).With().Timestamp().Logger()
	}
	return zerolog.New(os.Stdout).Level(level).With().Timestamp().Str("service", "ruralhome-api").Logger()
}
