package domain

// DwellingType 주택 유형
type DwellingType string

const (
	DwellingHanok     DwellingType = "hanok"
	DwellingModern    DwellingType = "modern"
	DwellingFarm      DwellingType = "farm"
	DwellingApartment DwellingType = "apartment"
)

// HouseCondition 주택 상태
type HouseCondition string

const (
	ConditionExcellent   HouseCondition = "excellent"
	ConditionGood        HouseCondition = "good"
	ConditionNeedsRepair HouseCondition = "needs-repair"
)

// CandidateOrigin distinguishes user-submitted listings from feed listings.
type CandidateOrigin string

const (
	OriginUser CandidateOrigin = "user"
	OriginFeed CandidateOrigin = "feed"
)

// Location uses jurisdiction names only; no coordinates are resolved.
type Location struct {
	DistrictName  string `json:"district_name"`
	CityName      string `json:"city_name"`
	SubRegionName string `json:"sub_region_name"`
}

// PriceInfo amounts are in KRW.
type PriceInfo struct {
	RentAmount    *int64 `json:"rent_amount,omitempty"`
	SaleAmount    *int64 `json:"sale_amount,omitempty"`
	DepositAmount *int64 `json:"deposit_amount,omitempty"`
}

// HasPrice reports whether any amount is present.
func (p PriceInfo) HasPrice() bool {
	return p.RentAmount != nil || p.SaleAmount != nil || p.DepositAmount != nil
}

type Details struct {
	RoomCount    int            `json:"room_count"`
	SizeUnits    float64        `json:"size_units"`
	DwellingType DwellingType   `json:"dwelling_type"`
	Condition    HouseCondition `json:"condition"`
	YearBuilt    *int           `json:"year_built,omitempty"`
}

type Surroundings struct {
	NearbyFacilities []string `json:"nearby_facilities"`
	Transportation   []string `json:"transportation"`
	NaturalFeatures  []string `json:"natural_features"`
}

type CommunityInfo struct {
	Population         int      `json:"population"`
	AverageAge         int      `json:"average_age"`
	MainIndustries     []string `json:"main_industries"`
	CulturalActivities []string `json:"cultural_activities"`
}

// Candidate is a normalized housing listing regardless of origin.
// ID is the sole deduplication key across sources.
type Candidate struct {
	ID            string          `json:"id"`
	Title         string          `json:"title"`
	Location      Location        `json:"location"`
	PriceInfo     PriceInfo       `json:"price_info"`
	Details       Details         `json:"details"`
	Features      []string        `json:"features"`
	Surroundings  Surroundings    `json:"surroundings"`
	CommunityInfo CommunityInfo   `json:"community_info"`
	ImageURL      string          `json:"image_url,omitempty"`
	Origin        CandidateOrigin `json:"origin"`
}

// ListingID implements Listing.
func (c Candidate) ListingID() string { return c.ID }

// Region implements Listing. Listings are balanced by district.
func (c Candidate) Region() string { return c.Location.DistrictName }

// IsUserSubmitted reports whether the listing came from the user pool.
func (c Candidate) IsUserSubmitted() bool { return c.Origin == OriginUser }

// Listing is anything that can be deduplicated and balanced by region.
type Listing interface {
	ListingID() string
	Region() string
}
