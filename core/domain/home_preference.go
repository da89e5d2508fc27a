package domain

import "fmt"

// LivingStyle 선호 주거 스타일
type LivingStyle string

const (
	LivingMinimalist  LivingStyle = "minimalist"
	LivingCozy        LivingStyle = "cozy"
	LivingTraditional LivingStyle = "traditional"
	LivingModern      LivingStyle = "modern"
)

// SocialStyle 선호 사회적 관계 스타일
type SocialStyle string

const (
	SocialCommunity   SocialStyle = "community-oriented"
	SocialIndependent SocialStyle = "independent"
	SocialFamily      SocialStyle = "family-focused"
	SocialCreative    SocialStyle = "creative"
)

// WorkStyle 이주 후 생업 형태
type WorkStyle string

const (
	WorkRemote       WorkStyle = "remote-worker"
	WorkFarmer       WorkStyle = "farmer"
	WorkEntrepreneur WorkStyle = "entrepreneur"
	WorkRetiree      WorkStyle = "retiree"
)

// HobbyStyle 여가 성향
type HobbyStyle string

const (
	HobbyNature  HobbyStyle = "nature-lover"
	HobbyCulture HobbyStyle = "culture-enthusiast"
	HobbySports  HobbyStyle = "sports-fan"
	HobbyCrafts  HobbyStyle = "crafts-person"
)

// Pace 선호 생활 속도
type Pace string

const (
	PaceSlow     Pace = "slow"
	PaceBalanced Pace = "balanced"
	PaceActive   Pace = "active"
)

// Budget 예산 구간
type Budget string

const (
	BudgetLow    Budget = "low"
	BudgetMedium Budget = "medium"
	BudgetHigh   Budget = "high"
)

// PurchaseType selects which price bracket applies to a budget.
type PurchaseType string

const (
	PurchaseSale PurchaseType = "sale"
	PurchaseRent PurchaseType = "rent"
)

// All enumerated values, in questionnaire order.
var (
	LivingStyles  = []LivingStyle{LivingMinimalist, LivingCozy, LivingTraditional, LivingModern}
	SocialStyles  = []SocialStyle{SocialCommunity, SocialIndependent, SocialFamily, SocialCreative}
	WorkStyles    = []WorkStyle{WorkRemote, WorkFarmer, WorkEntrepreneur, WorkRetiree}
	HobbyStyles   = []HobbyStyle{HobbyNature, HobbyCulture, HobbySports, HobbyCrafts}
	Paces         = []Pace{PaceSlow, PaceBalanced, PaceActive}
	Budgets       = []Budget{BudgetLow, BudgetMedium, BudgetHigh}
	PurchaseTypes = []PurchaseType{PurchaseSale, PurchaseRent}
)

// PreferenceVector is a user's six-category lifestyle questionnaire answer set.
type PreferenceVector struct {
	LivingStyle  LivingStyle  `json:"living_style"`
	SocialStyle  SocialStyle  `json:"social_style"`
	WorkStyle    WorkStyle    `json:"work_style"`
	HobbyStyle   HobbyStyle   `json:"hobby_style"`
	Pace         Pace         `json:"pace"`
	Budget       Budget       `json:"budget"`
	PurchaseType PurchaseType `json:"purchase_type,omitempty"`
}

// IsComplete reports whether all six primary fields are set.
func (p PreferenceVector) IsComplete() bool {
	return p.LivingStyle != "" && p.SocialStyle != "" && p.WorkStyle != "" &&
		p.HobbyStyle != "" && p.Pace != "" && p.Budget != ""
}

// MissingFields returns the names of unset primary fields.
func (p PreferenceVector) MissingFields() []string {
	var missing []string
	if p.LivingStyle == "" {
		missing = append(missing, "living_style")
	}
	if p.SocialStyle == "" {
		missing = append(missing, "social_style")
	}
	if p.WorkStyle == "" {
		missing = append(missing, "work_style")
	}
	if p.HobbyStyle == "" {
		missing = append(missing, "hobby_style")
	}
	if p.Pace == "" {
		missing = append(missing, "pace")
	}
	if p.Budget == "" {
		missing = append(missing, "budget")
	}
	return missing
}

// EffectivePurchaseType falls back to sale when unset.
func (p PreferenceVector) EffectivePurchaseType() PurchaseType {
	if p.PurchaseType == PurchaseRent {
		return PurchaseRent
	}
	return PurchaseSale
}

// CacheKey is a stable identity for the answer set.
func (p PreferenceVector) CacheKey() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%s|%s",
		p.LivingStyle, p.SocialStyle, p.WorkStyle, p.HobbyStyle, p.Pace, p.Budget, p.EffectivePurchaseType())
}
