package domain

import (
	"time"

	"github.com/google/uuid"
)

// ScoredCandidate is a Candidate with its derived match score.
// IsLocked is assigned only at final assembly.
type ScoredCandidate struct {
	Candidate
	MatchScore int  `json:"match_score"`
	IsLocked   bool `json:"is_locked"`
}

// Recommendation is a user's persisted acceptance of a candidate.
// Identity is (UserID, CandidateID); rows are never mutated in place.
type Recommendation struct {
	ID          int64     `json:"id"`
	UserID      uuid.UUID `json:"user_id"`
	CandidateID string    `json:"candidate_id"`
	Snapshot    Candidate `json:"snapshot"`
	MatchScore  int       `json:"match_score"`
	CreatedAt   time.Time `json:"created_at"`
}

// RecommendStatus distinguishes "nothing matched" from a populated result.
type RecommendStatus string

const (
	RecommendOK    RecommendStatus = "ok"
	RecommendEmpty RecommendStatus = "empty"
)

// RecommendResult is the outcome of one pipeline run.
type RecommendResult struct {
	Status        RecommendStatus   `json:"status"`
	Items         []ScoredCandidate `json:"items"`
	Regions       []RegionCode      `json:"regions"`
	AdvisorUsed   bool              `json:"advisor_used"`
	FailedRegions []RegionCode      `json:"failed_regions,omitempty"`
	TimedOut      bool              `json:"timed_out,omitempty"`
	GeneratedAt   time.Time         `json:"generated_at"`
}
