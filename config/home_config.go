package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Port        string
	Environment string
	LogLevel    string
	NodeID      int64 // snowflake node

	// Database
	DatabaseURL string
	RedisURL    string

	// JWT
	JWTSecret string

	// OpenAI
	OpenAIAPIKey   string
	OpenAIBaseURL  string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration

	// 빈집 피드
	FeedBaseURL     string
	FeedServiceKey  string
	FeedPageSize    int
	FeedConcurrency int
	FeedInterval    time.Duration
	FeedMaxRetries  int
	FeedTimeout     time.Duration

	// 추천 파이프라인
	PipelineTimeout    time.Duration
	AdvisorTimeout     time.Duration
	RecommendMinScore  int
	RecommendFreeCount int
	RecommendTarget    int
	RecommendUserCap   int
	UserPoolLimit      int

	// Cache
	ResultCacheTTL  time.Duration
	AdvisorCacheTTL time.Duration

	// Synthesis (0 = time-seeded)
	RandomSeed int64
	ImagePool  []string

	// CORS
	AllowedOrigins []string
}

func Load() (*Config, error) {
	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: getEnv("ENV", "development"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		NodeID:      int64(getEnvInt("NODE_ID", 1)),

		// Database
		DatabaseURL: getEnv("DATABASE_URL", ""),
		RedisURL:    getEnv("REDIS_URL", ""),

		// JWT
		JWTSecret: getEnv("JWT_SECRET", ""),

		// OpenAI
		OpenAIAPIKey:   getEnv("OPENAI_API_KEY", ""),
		OpenAIBaseURL:  getEnv("OPENAI_BASE_URL", ""),
		LLMModel:       getEnv("LLM_MODEL", "gpt-4o-mini"),
		LLMMaxTokens:   getEnvInt("LLM_MAX_TOKENS", 512),
		LLMTemperature: getEnvFloat("LLM_TEMPERATURE", 0.2),
		LLMTimeout:     getEnvDuration("LLM_TIMEOUT_SEC", 10, time.Second),

		// Feed
		FeedBaseURL:     getEnv("FEED_BASE_URL", ""),
		FeedServiceKey:  getEnv("FEED_SERVICE_KEY", ""),
		FeedPageSize:    getEnvInt("FEED_PAGE_SIZE", 20),
		FeedConcurrency: getEnvInt("FEED_CONCURRENCY", 4),
		FeedInterval:    getEnvDuration("FEED_INTERVAL_MS", 100, time.Millisecond),
		FeedMaxRetries:  getEnvInt("FEED_MAX_RETRIES", 1),
		FeedTimeout:     getEnvDuration("FEED_TIMEOUT_SEC", 8, time.Second),

		// Pipeline
		PipelineTimeout:    getEnvDuration("PIPELINE_TIMEOUT_SEC", 25, time.Second),
		AdvisorTimeout:     getEnvDuration("ADVISOR_TIMEOUT_SEC", 10, time.Second),
		RecommendMinScore:  getEnvInt("RECOMMEND_MIN_SCORE", 50),
		RecommendFreeCount: getEnvInt("RECOMMEND_FREE_COUNT", 5),
		RecommendTarget:    getEnvInt("RECOMMEND_TARGET", 20),
		RecommendUserCap:   getEnvInt("RECOMMEND_USER_CAP", 10),
		UserPoolLimit:      getEnvInt("USER_POOL_LIMIT", 200),

		// Cache
		ResultCacheTTL:  getEnvDuration("RESULT_CACHE_TTL_MIN", 30, time.Minute),
		AdvisorCacheTTL: getEnvDuration("ADVISOR_CACHE_TTL_MIN", 360, time.Minute),

		RandomSeed: int64(getEnvInt("RANDOM_SEED", 0)),
		ImagePool:  getEnvSlice("IMAGE_POOL", nil),

		// CORS
		AllowedOrigins: getEnvSlice("ALLOWED_ORIGINS", []string{"http://localhost:3000", "http://localhost:5173"}),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects settings the pipeline cannot run with.
func (c *Config) Validate() error {
	if c.IsProduction() && c.JWTSecret == "" {
		return fmt.Errorf("JWT_SECRET is required in production")
	}
	if c.IsProduction() && (c.FeedBaseURL == "" || c.FeedServiceKey == "") {
		return fmt.Errorf("FEED_BASE_URL and FEED_SERVICE_KEY are required in production")
	}
	if c.FeedPageSize <= 0 || c.FeedPageSize > 100 {
		return fmt.Errorf("FEED_PAGE_SIZE must be within 1..100, got %d", c.FeedPageSize)
	}
	if c.RecommendMinScore < 0 || c.RecommendMinScore > 100 {
		return fmt.Errorf("RECOMMEND_MIN_SCORE must be within 0..100, got %d", c.RecommendMinScore)
	}
	if c.RecommendUserCap > c.RecommendTarget {
		return fmt.Errorf("RECOMMEND_USER_CAP (%d) exceeds RECOMMEND_TARGET (%d)", c.RecommendUserCap, c.RecommendTarget)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

// getEnvDuration reads an integer count of unit.
func getEnvDuration(key string, defaultValue int, unit time.Duration) time.Duration {
	return time.Duration(getEnvInt(key, defaultValue)) * unit
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvSlice(key string, defaultValue []string) []string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.Environment == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// LLMEnabled reports whether the region advisor can call the model.
func (c *Config) LLMEnabled() bool {
	return c.OpenAIAPIKey != "" && !getEnvBool("LLM_DISABLED", false)
}
