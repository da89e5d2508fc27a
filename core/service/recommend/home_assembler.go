package recommend

import (
	"sort"

	"ruralhome_server/core/domain"
)

const (
	DefaultMinScore  = 50
	DefaultFreeCount = 5
	DefaultUserCap   = 10
	DefaultTarget    = 20
)

// Assembler builds the final ranked, partially locked result list.
type Assembler struct {
	userCap int
	target  int
}

// NewAssembler caps user-submitted picks at userCap within a list of target items.
func NewAssembler(userCap, target int) *Assembler {
	if userCap <= 0 {
		userCap = DefaultUserCap
	}
	if target <= 0 {
		target = DefaultTarget
	}
	return &Assembler{userCap: userCap, target: target}
}

// Assemble filters both pools by minScore, keeps the best user-submitted
// listings up to the cap, fills the rest region-balanced from the feed,
// then re-sorts everything by score and locks ranks >= freeCount.
// An empty result is a valid "no matches" outcome.
func (a *Assembler) Assemble(userScored, feedScored []domain.ScoredCandidate, minScore, freeCount int) []domain.ScoredCandidate {
	userPicks := aboveThreshold(dedupe(userScored), minScore)
	sortByScore(userPicks)
	if len(userPicks) > a.userCap {
		userPicks = userPicks[:a.userCap]
	}

	chosen := make(map[string]struct{}, len(userPicks))
	for _, c := range userPicks {
		chosen[c.ID] = struct{}{}
	}

	remaining := a.target - len(userPicks)
	feedPicks := SelectDiverse(aboveThreshold(feedScored, minScore), chosen, remaining)

	combined := make([]domain.ScoredCandidate, 0, len(userPicks)+len(feedPicks))
	combined = append(combined, userPicks...)
	combined = append(combined, feedPicks...)
	sortByScore(combined)

	for i := range combined {
		combined[i].IsLocked = i >= freeCount
	}
	return combined
}

func aboveThreshold(items []domain.ScoredCandidate, minScore int) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(items))
	for _, c := range items {
		if c.MatchScore >= minScore {
			out = append(out, c)
		}
	}
	return out
}

// dedupe keeps the first occurrence of each ID.
func dedupe(items []domain.ScoredCandidate) []domain.ScoredCandidate {
	seen := make(map[string]struct{}, len(items))
	out := make([]domain.ScoredCandidate, 0, len(items))
	for _, c := range items {
		if _, ok := seen[c.ID]; ok {
			continue
		}
		seen[c.ID] = struct{}{}
		out = append(out, c)
	}
	return out
}

// sortByScore sorts descending; ties keep input order.
func sortByScore(items []domain.ScoredCandidate) {
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].MatchScore > items[j].MatchScore
	})
}
