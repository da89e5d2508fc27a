package bootstrap

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ruralhome_server/config"
	"ruralhome_server/infra/middleware"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

func testConfig() *config.Config {
	return &config.Config{
		Port:               "0",
		Environment:        "development",
		LogLevel:           "error",
		NodeID:             1,
		JWTSecret:          "bootstrap-secret",
		FeedPageSize:       20,
		FeedConcurrency:    4,
		FeedInterval:       time.Millisecond,
		FeedTimeout:        time.Second,
		PipelineTimeout:    2 * time.Second,
		AdvisorTimeout:     time.Second,
		RecommendMinScore:  50,
		RecommendFreeCount: 5,
		RecommendTarget:    20,
		RecommendUserCap:   10,
		ResultCacheTTL:     time.Minute,
		AdvisorCacheTTL:    time.Minute,
		RandomSeed:         7,
	}
}

func TestNewDependenciesInMemory(t *testing.T) {
	deps, cleanup, err := NewDependencies(testConfig())
	if err != nil {
		t.Fatalf("NewDependencies() error = %v", err)
	}
	defer cleanup()

	if deps.SQLDB != nil || deps.Redis != nil {
		t.Error("expected no external connections")
	}
	if deps.Store == nil || deps.Results == nil || deps.RecommendService == nil {
		t.Fatal("missing in-memory wiring")
	}
	if deps.LLMClient != nil {
		t.Error("LLM client should be nil without an API key")
	}
	if len(deps.HealthChecks()) != 0 {
		t.Errorf("HealthChecks() = %d, want 0", len(deps.HealthChecks()))
	}
}

func TestNewDependenciesRequiresDatabaseInProduction(t *testing.T) {
	cfg := testConfig()
	cfg.Environment = "production"
	if _, _, err := NewDependencies(cfg); err == nil {
		t.Error("NewDependencies() error = nil, want missing DATABASE_URL")
	}
}

func TestAppRoutes(t *testing.T) {
	cfg := testConfig()
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	app := NewApp(cfg, deps)

	resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("/health = %d", resp.StatusCode)
	}

	resp, err = app.Test(httptest.NewRequest("GET", "/api/v1/recommendations/saved", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 401 {
		t.Errorf("unauthenticated saved = %d, want 401", resp.StatusCode)
	}

	token, err := middleware.IssueToken(cfg.JWTSecret, uuid.New(), time.Hour)
	if err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/v1/recommendations/saved", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 200 {
		t.Errorf("saved = %d, want 200", resp.StatusCode)
	}

	// Accept without a prior result set
	req = httptest.NewRequest("POST", "/api/v1/recommendations/feed-1/accept", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 404 {
		t.Errorf("accept = %d, want 404", resp.StatusCode)
	}

	// Incomplete questionnaire
	req = httptest.NewRequest("POST", "/api/v1/recommendations", strings.NewReader(`{"preference":{"living_style":"cozy"}}`))
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req)
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != 400 {
		t.Errorf("incomplete recommend = %d, want 400", resp.StatusCode)
	}
}

func TestDevTokenRoute(t *testing.T) {
	cfg := testConfig()
	deps, cleanup, err := NewDependencies(cfg)
	if err != nil {
		t.Fatal(err)
	}
	defer cleanup()
	app := NewApp(cfg, deps)

	user := uuid.New()
	resp, err := app.Test(httptest.NewRequest("POST", "/dev/token?user_id="+user.String(), nil))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var body struct {
		Data struct {
			UserID string `json:"user_id"`
			Token  string `json:"token"`
		} `json:"data"`
	}
	if err := json.Unmarshal(raw, &body); err != nil {
		t.Fatal(err)
	}
	if body.Data.UserID != user.String() || body.Data.Token == "" {
		t.Errorf("body = %s", raw)
	}
}
