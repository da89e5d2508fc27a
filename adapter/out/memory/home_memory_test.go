package memory

import (
	"context"
	"testing"
	"time"

	"ruralhome_server/core/domain"

	"github.com/google/uuid"
)

func TestCreateIsIdempotent(t *testing.T) {
	s := NewRecommendationStore()
	ctx := context.Background()
	user := uuid.New()
	cand := domain.Candidate{ID: "feed-101", Title: "담양 한옥"}

	first, err := s.Create(ctx, user, cand, 88)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	second, err := s.Create(ctx, user, cand, 12)
	if err != nil {
		t.Fatalf("second Create() error = %v", err)
	}

	if s.Len() != 1 {
		t.Errorf("rows = %d, want 1", s.Len())
	}
	if second.ID != first.ID || second.MatchScore != first.MatchScore || !second.CreatedAt.Equal(first.CreatedAt) {
		t.Errorf("second Create() = %+v, want %+v", second, first)
	}
}

func TestCreateScopedPerUser(t *testing.T) {
	s := NewRecommendationStore()
	ctx := context.Background()
	cand := domain.Candidate{ID: "feed-1"}

	if _, err := s.Create(ctx, uuid.New(), cand, 70); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Create(ctx, uuid.New(), cand, 70); err != nil {
		t.Fatal(err)
	}
	if s.Len() != 2 {
		t.Errorf("rows = %d, want 2", s.Len())
	}
}

func TestDeleteToleratesMissing(t *testing.T) {
	s := NewRecommendationStore()
	ctx := context.Background()
	user := uuid.New()

	n, err := s.Delete(ctx, user, "nope")
	if err != nil || n != 0 {
		t.Errorf("Delete(missing) = %d, %v; want 0, nil", n, err)
	}

	if _, err := s.Create(ctx, user, domain.Candidate{ID: "x"}, 60); err != nil {
		t.Fatal(err)
	}
	n, err = s.Delete(ctx, user, "x")
	if err != nil || n != 1 {
		t.Errorf("Delete(existing) = %d, %v; want 1, nil", n, err)
	}

	// re-acceptance after rejection is a fresh record
	rec, err := s.Create(ctx, user, domain.Candidate{ID: "x"}, 65)
	if err != nil {
		t.Fatal(err)
	}
	if rec.MatchScore != 65 {
		t.Errorf("re-accepted MatchScore = %d, want 65", rec.MatchScore)
	}
}

func TestListByUserNewestFirst(t *testing.T) {
	s := NewRecommendationStore()
	ctx := context.Background()
	user := uuid.New()

	base := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	tick := 0
	s.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Minute)
	}

	for _, id := range []string{"a", "b", "c"} {
		if _, err := s.Create(ctx, user, domain.Candidate{ID: id}, 50); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := s.Create(ctx, uuid.New(), domain.Candidate{ID: "other"}, 50); err != nil {
		t.Fatal(err)
	}

	recs, err := s.ListByUser(ctx, user)
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"c", "b", "a"}
	if len(recs) != len(want) {
		t.Fatalf("len = %d, want %d", len(recs), len(want))
	}
	for i := range want {
		if recs[i].CandidateID != want[i] {
			t.Errorf("recs[%d] = %s, want %s", i, recs[i].CandidateID, want[i])
		}
	}
}

func TestResultCache(t *testing.T) {
	c := NewResultCache(time.Minute)
	ctx := context.Background()
	user := uuid.New()

	got, err := c.GetResults(ctx, user)
	if err != nil || got != nil {
		t.Fatalf("GetResults(miss) = %v, %v; want nil, nil", got, err)
	}

	pref := domain.PreferenceVector{Budget: domain.BudgetLow}
	items := []domain.ScoredCandidate{{Candidate: domain.Candidate{ID: "a"}, MatchScore: 80}}
	if err := c.PutResults(ctx, user, pref, items); err != nil {
		t.Fatal(err)
	}
	items[0].MatchScore = 1 // caller mutation must not leak

	got, err = c.GetResults(ctx, user)
	if err != nil || got == nil {
		t.Fatalf("GetResults() = %v, %v", got, err)
	}
	if got.Preference != pref || len(got.Items) != 1 || got.Items[0].MatchScore != 80 {
		t.Errorf("GetResults() = %+v", got)
	}

	c.now = func() time.Time { return time.Now().Add(2 * time.Minute) }
	if got, _ := c.GetResults(ctx, user); got != nil {
		t.Errorf("expired entry returned: %+v", got)
	}
}
