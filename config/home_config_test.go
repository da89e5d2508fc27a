package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("ENV", "test")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.FeedPageSize != 20 || cfg.FeedConcurrency != 4 || cfg.FeedMaxRetries != 1 {
		t.Errorf("feed defaults = %d/%d/%d", cfg.FeedPageSize, cfg.FeedConcurrency, cfg.FeedMaxRetries)
	}
	if cfg.FeedInterval != 100*time.Millisecond {
		t.Errorf("FeedInterval = %v", cfg.FeedInterval)
	}
	if cfg.PipelineTimeout != 25*time.Second || cfg.AdvisorTimeout != 10*time.Second || cfg.FeedTimeout != 8*time.Second {
		t.Errorf("timeouts = %v/%v/%v", cfg.PipelineTimeout, cfg.AdvisorTimeout, cfg.FeedTimeout)
	}
	if cfg.RecommendMinScore != 50 || cfg.RecommendFreeCount != 5 || cfg.RecommendTarget != 20 || cfg.RecommendUserCap != 10 {
		t.Errorf("recommend defaults = %+v", cfg)
	}
	if cfg.ResultCacheTTL != 30*time.Minute {
		t.Errorf("ResultCacheTTL = %v", cfg.ResultCacheTTL)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("ENV", "test")
	t.Setenv("FEED_INTERVAL_MS", "250")
	t.Setenv("RECOMMEND_MIN_SCORE", "60")
	t.Setenv("IMAGE_POOL", " https://img/a.jpg, ,https://img/b.jpg ")
	t.Setenv("RANDOM_SEED", "42")
	t.Setenv("FEED_CONCURRENCY", "not-a-number")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.FeedInterval != 250*time.Millisecond {
		t.Errorf("FeedInterval = %v", cfg.FeedInterval)
	}
	if cfg.RecommendMinScore != 60 {
		t.Errorf("RecommendMinScore = %d", cfg.RecommendMinScore)
	}
	if len(cfg.ImagePool) != 2 || cfg.ImagePool[1] != "https://img/b.jpg" {
		t.Errorf("ImagePool = %q", cfg.ImagePool)
	}
	if cfg.RandomSeed != 42 {
		t.Errorf("RandomSeed = %d", cfg.RandomSeed)
	}
	if cfg.FeedConcurrency != 4 {
		t.Errorf("FeedConcurrency = %d, want default on parse failure", cfg.FeedConcurrency)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		env     map[string]string
		wantErr bool
	}{
		{"production without secret", map[string]string{"ENV": "production"}, true},
		{"production without feed", map[string]string{"ENV": "production", "JWT_SECRET": "s3cret"}, true},
		{"production complete", map[string]string{"ENV": "production", "JWT_SECRET": "s3cret", "FEED_BASE_URL": "https://feed.example/houses", "FEED_SERVICE_KEY": "k"}, false},
		{"page size too large", map[string]string{"FEED_PAGE_SIZE": "101"}, true},
		{"min score out of range", map[string]string{"RECOMMEND_MIN_SCORE": "120"}, true},
		{"user cap above target", map[string]string{"RECOMMEND_USER_CAP": "30"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.env {
				t.Setenv(k, v)
			}
			_, err := Load()
			if (err != nil) != tt.wantErr {
				t.Errorf("Load() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
