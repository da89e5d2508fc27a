package http

import (
	"context"
	"errors"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/in"
	"ruralhome_server/pkg/apperr"

	"github.com/goccy/go-json"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type fakeService struct {
	result   *domain.RecommendResult
	err      error
	lastReq  *in.RecommendRequest
	lastUser uuid.UUID
	saved    []*domain.Recommendation
}

func (f *fakeService) Recommend(ctx context.Context, userID uuid.UUID, req *in.RecommendRequest) (*domain.RecommendResult, error) {
	f.lastReq = req
	f.lastUser = userID
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func (f *fakeService) Accept(ctx context.Context, userID uuid.UUID, candidateID string) (*domain.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &domain.Recommendation{ID: 1, UserID: userID, CandidateID: candidateID, MatchScore: 80}, nil
}

func (f *fakeService) Reject(ctx context.Context, userID uuid.UUID, candidateID string) (int64, error) {
	if f.err != nil {
		return 0, f.err
	}
	return 1, nil
}

func (f *fakeService) ListSaved(ctx context.Context, userID uuid.UUID) ([]*domain.Recommendation, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.saved, nil
}

func newTestApp(svc in.RecommendationService, userID uuid.UUID) *fiber.App {
	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		if userID != uuid.Nil {
			c.Locals("user_id", userID)
		}
		return c.Next()
	})
	NewRecommendationHandler(svc).Register(app.Group("/api/v1"))
	return app
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func doRequest(t *testing.T, app *fiber.App, method, path, body string) (int, envelope) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		t.Fatalf("decode %s: %v", raw, err)
	}
	return resp.StatusCode, env
}

func sampleResult() *domain.RecommendResult {
	rent := int64(300_000)
	free := domain.ScoredCandidate{
		Candidate: domain.Candidate{
			ID:        "feed-1",
			Title:     "안동 한옥",
			Location:  domain.Location{DistrictName: "경상북도", CityName: "안동시"},
			PriceInfo: domain.PriceInfo{RentAmount: &rent},
			Features:  []string{"마당"},
		},
		MatchScore: 90,
	}
	locked := free
	locked.ID = "feed-2"
	locked.MatchScore = 70
	locked.IsLocked = true
	return &domain.RecommendResult{
		Status:      domain.RecommendOK,
		Items:       []domain.ScoredCandidate{free, locked},
		Regions:     []domain.RegionCode{"47"},
		AdvisorUsed: true,
		GeneratedAt: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
	}
}

func TestRecommendWithholdsLockedDetails(t *testing.T) {
	svc := &fakeService{result: sampleResult()}
	user := uuid.New()
	app := newTestApp(svc, user)

	status, env := doRequest(t, app, "POST", "/api/v1/recommendations",
		`{"preference":{"living_style":"traditional","social_style":"community-oriented","work_style":"farmer","hobby_style":"nature-lover","pace":"slow","budget":"low"},"free_text":"  조용한 곳  "}`)
	if status != 200 || !env.Success {
		t.Fatalf("status = %d, success = %v", status, env.Success)
	}
	if svc.lastUser != user {
		t.Errorf("user = %v, want %v", svc.lastUser, user)
	}
	if svc.lastReq.FreeText != "조용한 곳" {
		t.Errorf("FreeText = %q, want trimmed", svc.lastReq.FreeText)
	}
	if svc.lastReq.Preference.LivingStyle != domain.LivingTraditional {
		t.Errorf("LivingStyle = %q", svc.lastReq.Preference.LivingStyle)
	}

	var data struct {
		Items []map[string]any `json:"items"`
	}
	if err := json.Unmarshal(env.Data, &data); err != nil {
		t.Fatal(err)
	}
	if len(data.Items) != 2 {
		t.Fatalf("items = %d, want 2", len(data.Items))
	}
	if _, ok := data.Items[0]["title"]; !ok {
		t.Error("free item should carry title")
	}
	locked := data.Items[1]
	for _, field := range []string{"title", "price_info", "features", "details"} {
		if _, ok := locked[field]; ok {
			t.Errorf("locked item exposes %q", field)
		}
	}
	if locked["id"] != "feed-2" || locked["is_locked"] != true {
		t.Errorf("locked item = %v", locked)
	}
	if _, ok := locked["location"]; !ok {
		t.Error("locked item should keep location")
	}
}

func TestRecommendErrors(t *testing.T) {
	tests := []struct {
		name       string
		user       uuid.UUID
		body       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{"unauthenticated", uuid.Nil, `{}`, nil, 401, apperr.CodeUnauthorized},
		{"bad body", uuid.New(), `{not json`, nil, 400, apperr.CodeBadRequest},
		{"missing fields", uuid.New(), `{"preference":{}}`, apperr.MissingFields([]string{"living_style"}), 400, apperr.CodeMissingField},
		{"unexpected", uuid.New(), `{"preference":{}}`, errors.New("boom"), 500, apperr.CodeInternalError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := newTestApp(&fakeService{err: tt.err, result: sampleResult()}, tt.user)
			status, env := doRequest(t, app, "POST", "/api/v1/recommendations", tt.body)
			if status != tt.wantStatus {
				t.Errorf("status = %d, want %d", status, tt.wantStatus)
			}
			if env.Error == nil || env.Error.Code != tt.wantCode {
				t.Errorf("error = %+v, want code %s", env.Error, tt.wantCode)
			}
		})
	}
}

func TestAcceptRejectAndList(t *testing.T) {
	user := uuid.New()
	svc := &fakeService{saved: []*domain.Recommendation{{ID: 7, UserID: user, CandidateID: "feed-9"}}}
	app := newTestApp(svc, user)

	status, env := doRequest(t, app, "POST", "/api/v1/recommendations/feed-1/accept", "")
	if status != 201 || !env.Success {
		t.Errorf("accept status = %d", status)
	}
	var rec domain.Recommendation
	if err := json.Unmarshal(env.Data, &rec); err != nil || rec.CandidateID != "feed-1" {
		t.Errorf("accept data = %s, err = %v", env.Data, err)
	}

	status, env = doRequest(t, app, "DELETE", "/api/v1/recommendations/feed-1", "")
	if status != 200 || string(env.Data) != `{"removed":1}` {
		t.Errorf("reject = %d %s", status, env.Data)
	}

	status, env = doRequest(t, app, "GET", "/api/v1/recommendations/saved", "")
	if status != 200 {
		t.Fatalf("list status = %d", status)
	}
	var saved []domain.Recommendation
	if err := json.Unmarshal(env.Data, &saved); err != nil || len(saved) != 1 || saved[0].ID != 7 {
		t.Errorf("list data = %s, err = %v", env.Data, err)
	}
}

func TestPersistenceUnavailableSurfaces(t *testing.T) {
	svc := &fakeService{err: apperr.PersistenceUnavailable("create", errors.New("conn refused"))}
	app := newTestApp(svc, uuid.New())

	status, env := doRequest(t, app, "POST", "/api/v1/recommendations/feed-1/accept", "")
	if status != 503 {
		t.Errorf("status = %d, want 503", status)
	}
	if env.Error == nil || env.Error.Code != apperr.CodePersistenceUnavailable {
		t.Errorf("error = %+v", env.Error)
	}
}

func TestHealth(t *testing.T) {
	tests := []struct {
		name       string
		check      HealthCheck
		wantStatus int
	}{
		{"healthy", func(context.Context) error { return nil }, 200},
		{"degraded", func(context.Context) error { return errors.New("dial tcp: refused") }, 503},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			app := fiber.New()
			NewHealthHandler().WithCheck("postgres", tt.check).Register(app)

			resp, err := app.Test(httptest.NewRequest("GET", "/health", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}
		})
	}
}

func TestHealthMetrics(t *testing.T) {
	app := fiber.New()
	NewHealthHandler().
		WithMetrics("pipeline", func() any { return map[string]int{"runs": 3} }).
		Register(app)

	resp, err := app.Test(httptest.NewRequest("GET", "/health/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	raw, _ := io.ReadAll(resp.Body)
	var got map[string]json.RawMessage
	if err := json.Unmarshal(raw, &got); err != nil {
		t.Fatal(err)
	}
	if string(got["pipeline"]) != `{"runs":3}` {
		t.Errorf("pipeline = %s", got["pipeline"])
	}
}
