// Package recommend implements the rural-housing recommendation engine:
// lifestyle scoring, feed aggregation, region-balanced selection and
// free/locked result assembly.
package recommend

import (
	"math"
	"strings"

	"ruralhome_server/core/domain"
)

const neutralScore = 0.5

// Weights defines coefficients for each preference dimension.
type Weights struct {
	LivingStyle float64 `json:"living_style"`
	SocialStyle float64 `json:"social_style"`
	WorkStyle   float64 `json:"work_style"`
	HobbyStyle  float64 `json:"hobby_style"`
	Pace        float64 `json:"pace"`
	Budget      float64 `json:"budget"`
}

// DefaultWeights sums to 100.
func DefaultWeights() Weights {
	return Weights{
		LivingStyle: 25,
		SocialStyle: 20,
		WorkStyle:   15,
		HobbyStyle:  15,
		Pace:        10,
		Budget:      15,
	}
}

func (w Weights) total() float64 {
	return w.LivingStyle + w.SocialStyle + w.WorkStyle + w.HobbyStyle + w.Pace + w.Budget
}

// ScoreBreakdown holds each sub-score in [0,1].
type ScoreBreakdown struct {
	LivingStyle float64 `json:"living_style"`
	SocialStyle float64 `json:"social_style"`
	WorkStyle   float64 `json:"work_style"`
	HobbyStyle  float64 `json:"hobby_style"`
	Pace        float64 `json:"pace"`
	Budget      float64 `json:"budget"`
}

// Scorer computes a deterministic 0..100 lifestyle fit score.
// It is pure and safe for concurrent use.
type Scorer struct {
	weights Weights
}

func NewScorer(w Weights) *Scorer {
	return &Scorer{weights: w}
}

// Score returns round(Σ sub·weight / Σ weight × 100), rounded half-up.
// The caller guarantees a complete PreferenceVector.
func (s *Scorer) Score(pref domain.PreferenceVector, c domain.Candidate) int {
	b := s.Breakdown(pref, c)
	w := s.weights

	sumW := w.total()
	if sumW <= 0 {
		return 50
	}
	sum := b.LivingStyle*w.LivingStyle +
		b.SocialStyle*w.SocialStyle +
		b.WorkStyle*w.WorkStyle +
		b.HobbyStyle*w.HobbyStyle +
		b.Pace*w.Pace +
		b.Budget*w.Budget

	score := int(math.Floor(sum*100/sumW + 0.5))
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// Breakdown exposes the individual sub-scores.
func (s *Scorer) Breakdown(pref domain.PreferenceVector, c domain.Candidate) ScoreBreakdown {
	return ScoreBreakdown{
		LivingStyle: livingScore(pref.LivingStyle, c.Details.DwellingType),
		SocialStyle: socialScore(pref.SocialStyle, c.CommunityInfo),
		WorkStyle:   workScore(pref.WorkStyle, c),
		HobbyStyle:  hobbyScore(pref.HobbyStyle, c),
		Pace:        paceScore(pref.Pace, c.CommunityInfo),
		Budget:      budgetScore(pref.Budget),
	}
}

// ScoreAll scores candidates in input order.
func (s *Scorer) ScoreAll(pref domain.PreferenceVector, candidates []domain.Candidate) []domain.ScoredCandidate {
	out := make([]domain.ScoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		out = append(out, domain.ScoredCandidate{Candidate: c, MatchScore: s.Score(pref, c)})
	}
	return out
}

var livingAffinity = map[domain.LivingStyle]map[domain.DwellingType]float64{
	domain.LivingMinimalist: {
		domain.DwellingModern:    0.9,
		domain.DwellingApartment: 0.8,
		domain.DwellingHanok:     0.5,
		domain.DwellingFarm:      0.4,
	},
	domain.LivingCozy: {
		domain.DwellingHanok:     0.8,
		domain.DwellingFarm:      0.8,
		domain.DwellingModern:    0.6,
		domain.DwellingApartment: 0.6,
	},
	domain.LivingTraditional: {
		domain.DwellingHanok:     1.0,
		domain.DwellingFarm:      0.7,
		domain.DwellingModern:    0.3,
		domain.DwellingApartment: 0.3,
	},
	domain.LivingModern: {
		domain.DwellingModern:    1.0,
		domain.DwellingApartment: 0.9,
		domain.DwellingHanok:     0.4,
		domain.DwellingFarm:      0.3,
	},
}

func livingScore(style domain.LivingStyle, dwelling domain.DwellingType) float64 {
	row, ok := livingAffinity[style]
	if !ok {
		return neutralScore
	}
	if v, ok := row[dwelling]; ok {
		return v
	}
	return neutralScore
}

func socialScore(style domain.SocialStyle, info domain.CommunityInfo) float64 {
	pop := info.Population
	switch style {
	case domain.SocialCommunity:
		return byPopulation(pop, 1.0, 0.8, 0.6)
	case domain.SocialIndependent:
		return byPopulation(pop, 0.6, 0.8, 1.0)
	case domain.SocialFamily:
		switch {
		case pop < 100:
			return 0.5
		case pop < 1000:
			return 1.0
		default:
			return 0.8
		}
	case domain.SocialCreative:
		if len(info.CulturalActivities) > 0 {
			return 0.9
		}
		if pop < 500 {
			return 0.7
		}
		return 0.8
	}
	return neutralScore
}

// byPopulation maps <100, <500 and the rest onto three values.
func byPopulation(pop int, small, mid, large float64) float64 {
	switch {
	case pop < 100:
		return small
	case pop < 500:
		return mid
	default:
		return large
	}
}

var workIndustries = map[domain.WorkStyle][]string{
	domain.WorkFarmer:       {"농업", "축산업", "임업"},
	domain.WorkRemote:       {"IT", "서비스업"},
	domain.WorkEntrepreneur: {"관광업", "상업", "서비스업"},
}

var workIndustryMiss = map[domain.WorkStyle]float64{
	domain.WorkFarmer:       0.3,
	domain.WorkRemote:       0.6,
	domain.WorkEntrepreneur: 0.4,
}

func workScore(style domain.WorkStyle, c domain.Candidate) float64 {
	var industry float64
	switch style {
	case domain.WorkRetiree:
		industry = 0.8
	case domain.WorkFarmer, domain.WorkRemote, domain.WorkEntrepreneur:
		if containsAny(c.CommunityInfo.MainIndustries, workIndustries[style]) {
			industry = 1.0
		} else {
			industry = workIndustryMiss[style]
		}
	default:
		return neutralScore
	}

	transport := 0.5
	if len(c.Surroundings.Transportation) > 1 {
		transport = 0.8
	}
	return 0.3*transport + 0.7*industry
}

var (
	cultureKeywords = []string{"축제", "공연", "박물관", "전통", "문화"}
	sportsNature    = []string{"산", "바다", "강", "계곡"}
	sportsKeywords  = []string{"체육", "스포츠", "등산", "축구"}
	craftsKeywords  = []string{"공예", "도자기", "목공", "전통"}
)

func hobbyScore(style domain.HobbyStyle, c domain.Candidate) float64 {
	nature := c.Surroundings.NaturalFeatures
	activities := c.CommunityInfo.CulturalActivities

	switch style {
	case domain.HobbyNature:
		switch {
		case len(nature) >= 2:
			return 1.0
		case len(nature) == 1:
			return 0.7
		default:
			return 0.4
		}
	case domain.HobbyCulture:
		hits := countKeywordHits(activities, cultureKeywords)
		switch {
		case hits >= 2:
			return 1.0
		case hits == 1:
			return 0.8
		default:
			return 0.4
		}
	case domain.HobbySports:
		if containsAny(nature, sportsNature) || containsAny(activities, sportsKeywords) {
			return 0.9
		}
		return 0.5
	case domain.HobbyCrafts:
		if containsAny(activities, craftsKeywords) {
			return 1.0
		}
		return 0.5
	}
	return neutralScore
}

func paceScore(pace domain.Pace, info domain.CommunityInfo) float64 {
	pop, age := info.Population, info.AverageAge

	switch pace {
	case domain.PaceSlow:
		switch {
		case pop < 200:
			if age >= 45 {
				return 1.0
			}
			return 0.8
		case pop < 500:
			return 0.6
		default:
			return 0.3
		}
	case domain.PaceBalanced:
		if pop >= 100 && pop <= 1000 {
			return 1.0
		}
		return 0.7
	case domain.PaceActive:
		switch {
		case pop >= 500:
			if age < 50 {
				return 1.0
			}
			return 0.8
		case pop >= 200:
			return 0.6
		default:
			return 0.3
		}
	}
	return neutralScore
}

// budgetScore is constant: affordability is enforced by price synthesis
// and range filtering, not by lifestyle fit.
func budgetScore(domain.Budget) float64 {
	return 1.0
}

// containsAny reports whether any value contains any keyword as a substring.
func containsAny(values, keywords []string) bool {
	for _, v := range values {
		for _, k := range keywords {
			if strings.Contains(v, k) {
				return true
			}
		}
	}
	return false
}

// countKeywordHits counts keywords found in at least one value.
func countKeywordHits(values, keywords []string) int {
	hits := 0
	for _, k := range keywords {
		for _, v := range values {
			if strings.Contains(v, k) {
				hits++
				break
			}
		}
	}
	return hits
}
