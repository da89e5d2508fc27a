package recommend

import (
	"testing"

	"ruralhome_server/core/domain"
)

func TestAggregate(t *testing.T) {
	user := []domain.Candidate{{ID: "u1", Origin: domain.OriginUser}}
	feed := [][]domain.Candidate{
		{{ID: "f1", Origin: domain.OriginFeed}, {ID: "f2", Origin: domain.OriginFeed}},
		nil, // failed region
		{{ID: "u1", Origin: domain.OriginFeed}},
	}

	got := Aggregate(user, feed)
	want := []string{"u1", "f1", "f2", "u1"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}

	u, f := splitByOrigin(got)
	if len(u) != 1 || len(f) != 3 {
		t.Errorf("splitByOrigin() = %d user, %d feed, want 1 and 3", len(u), len(f))
	}
}

func TestAggregateEmpty(t *testing.T) {
	if got := Aggregate(nil, nil); len(got) != 0 {
		t.Errorf("len = %d, want 0", len(got))
	}
}
