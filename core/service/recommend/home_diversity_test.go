package recommend

import (
	"fmt"
	"testing"

	"ruralhome_server/core/domain"
)

func listing(id, region string) domain.Candidate {
	return domain.Candidate{ID: id, Location: domain.Location{DistrictName: region}, Origin: domain.OriginFeed}
}

func regionPool(regions []string, perRegion int) []domain.Candidate {
	var pool []domain.Candidate
	for _, r := range regions {
		for i := 0; i < perRegion; i++ {
			pool = append(pool, listing(fmt.Sprintf("%s-%d", r, i), r))
		}
	}
	return pool
}

func countByRegion(items []domain.Candidate) map[string]int {
	counts := make(map[string]int)
	for _, c := range items {
		counts[c.Region()]++
	}
	return counts
}

func TestSelectDiverseRoundRobin(t *testing.T) {
	pool := regionPool([]string{"강원", "전남", "경북"}, 3)

	got := SelectDiverse(pool, nil, 4)
	want := []string{"강원-0", "전남-0", "경북-0", "강원-1"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want[i])
		}
	}
}

func TestSelectDiverseFairness(t *testing.T) {
	tests := []struct {
		name      string
		regions   int
		perRegion int
		target    int
	}{
		{"even split", 4, 5, 20},
		{"uneven split", 3, 7, 20},
		{"many regions", 17, 2, 20},
		{"small target", 5, 10, 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var regions []string
			for i := 0; i < tt.regions; i++ {
				regions = append(regions, fmt.Sprintf("r%02d", i))
			}
			got := SelectDiverse(regionPool(regions, tt.perRegion), nil, tt.target)

			if len(got) != tt.target {
				t.Fatalf("len = %d, want %d", len(got), tt.target)
			}
			bound := (tt.target+tt.regions-1)/tt.regions + 1
			for r, n := range countByRegion(got) {
				if n > bound {
					t.Errorf("region %s contributed %d, bound %d", r, n, bound)
				}
			}
		})
	}
}

func TestSelectDiverseSingleRegionExhaustion(t *testing.T) {
	pool := regionPool([]string{"제주"}, 3)

	got := SelectDiverse(pool, nil, 10)
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestSelectDiverseSkipsChosenAndDuplicates(t *testing.T) {
	pool := []domain.Candidate{
		listing("a", "강원"),
		listing("b", "강원"),
		listing("a", "전남"),
		listing("c", "전남"),
	}
	chosen := map[string]struct{}{"b": {}}

	got := SelectDiverse(pool, chosen, 10)
	seen := make(map[string]bool)
	for _, c := range got {
		if c.ID == "b" {
			t.Errorf("chosen id %q selected again", c.ID)
		}
		if seen[c.ID] {
			t.Errorf("duplicate id %q selected", c.ID)
		}
		seen[c.ID] = true
	}
	if len(got) != 2 {
		t.Errorf("len = %d, want 2", len(got))
	}
}

func TestSelectDiverseEmptyInputs(t *testing.T) {
	if got := SelectDiverse[domain.Candidate](nil, nil, 5); len(got) != 0 {
		t.Errorf("nil pool: len = %d, want 0", len(got))
	}
	if got := SelectDiverse(regionPool([]string{"a"}, 2), nil, 0); len(got) != 0 {
		t.Errorf("zero target: len = %d, want 0", len(got))
	}
}

func TestSelectDiverseScoredCandidates(t *testing.T) {
	pool := []domain.ScoredCandidate{
		{Candidate: listing("x1", "경남"), MatchScore: 90},
		{Candidate: listing("x2", "경남"), MatchScore: 80},
		{Candidate: listing("y1", "충북"), MatchScore: 70},
	}

	got := SelectDiverse(pool, nil, 2)
	if len(got) != 2 || got[0].ID != "x1" || got[1].ID != "y1" {
		t.Errorf("got %v, want [x1 y1]", ids(got))
	}
}

func ids(items []domain.ScoredCandidate) []string {
	out := make([]string, len(items))
	for i, c := range items {
		out[i] = c.ID
	}
	return out
}
