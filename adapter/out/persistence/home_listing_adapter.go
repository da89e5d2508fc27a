package persistence

import (
	"context"
	"database/sql"
	"fmt"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

// ListingRepository reads the user-submitted listing pool.
type ListingRepository struct {
	db *sqlx.DB
}

var _ out.UserListingRepository = (*ListingRepository)(nil)

func NewListingRepository(db *sqlx.DB) *ListingRepository {
	return &ListingRepository{db: db}
}

type listingRow struct {
	ID                 string         `db:"id"`
	Title              string         `db:"title"`
	DistrictName       string         `db:"district_name"`
	CityName           sql.NullString `db:"city_name"`
	SubRegionName      sql.NullString `db:"sub_region_name"`
	RentAmount         sql.NullInt64  `db:"rent_amount"`
	SaleAmount         sql.NullInt64  `db:"sale_amount"`
	DepositAmount      sql.NullInt64  `db:"deposit_amount"`
	RoomCount          int            `db:"room_count"`
	SizeUnits          float64        `db:"size_units"`
	DwellingType       string         `db:"dwelling_type"`
	HouseCondition     string         `db:"house_condition"`
	YearBuilt          sql.NullInt32  `db:"year_built"`
	Features           pq.StringArray `db:"features"`
	NearbyFacilities   pq.StringArray `db:"nearby_facilities"`
	Transportation     pq.StringArray `db:"transportation"`
	NaturalFeatures    pq.StringArray `db:"natural_features"`
	Population         int            `db:"population"`
	AverageAge         int            `db:"average_age"`
	MainIndustries     pq.StringArray `db:"main_industries"`
	CulturalActivities pq.StringArray `db:"cultural_activities"`
	ImageURL           sql.NullString `db:"image_url"`
}

func nullInt64Ptr(v sql.NullInt64) *int64 {
	if !v.Valid {
		return nil
	}
	n := v.Int64
	return &n
}

func (r *listingRow) toDomain() domain.Candidate {
	c := domain.Candidate{
		ID:    r.ID,
		Title: r.Title,
		Location: domain.Location{
			DistrictName:  r.DistrictName,
			CityName:      r.CityName.String,
			SubRegionName: r.SubRegionName.String,
		},
		PriceInfo: domain.PriceInfo{
			RentAmount:    nullInt64Ptr(r.RentAmount),
			SaleAmount:    nullInt64Ptr(r.SaleAmount),
			DepositAmount: nullInt64Ptr(r.DepositAmount),
		},
		Details: domain.Details{
			RoomCount:    r.RoomCount,
			SizeUnits:    r.SizeUnits,
			DwellingType: domain.DwellingType(r.DwellingType),
			Condition:    domain.HouseCondition(r.HouseCondition),
		},
		Features: nonNil(r.Features),
		Surroundings: domain.Surroundings{
			NearbyFacilities: nonNil(r.NearbyFacilities),
			Transportation:   nonNil(r.Transportation),
			NaturalFeatures:  nonNil(r.NaturalFeatures),
		},
		CommunityInfo: domain.CommunityInfo{
			Population:         r.Population,
			AverageAge:         r.AverageAge,
			MainIndustries:     nonNil(r.MainIndustries),
			CulturalActivities: nonNil(r.CulturalActivities),
		},
		ImageURL: r.ImageURL.String,
		Origin:   domain.OriginUser,
	}
	if r.YearBuilt.Valid {
		y := int(r.YearBuilt.Int32)
		c.Details.YearBuilt = &y
	}
	return c
}

func nonNil(a pq.StringArray) []string {
	if a == nil {
		return []string{}
	}
	return []string(a)
}

// ListActive returns the newest active listings first.
func (r *ListingRepository) ListActive(ctx context.Context, limit int) ([]domain.Candidate, error) {
	if limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrInvalidInput)
	}

	query := `
		SELECT id, title, district_name, city_name, sub_region_name,
		       rent_amount, sale_amount, deposit_amount,
		       room_count, size_units, dwelling_type, house_condition, year_built,
		       features, nearby_facilities, transportation, natural_features,
		       population, average_age, main_industries, cultural_activities, image_url
		FROM user_listings
		WHERE active = true
		ORDER BY created_at DESC
		LIMIT $1`

	var rows []listingRow
	if err := r.db.SelectContext(ctx, &rows, query, limit); err != nil {
		return nil, fmt.Errorf("list user listings: %w", err)
	}

	listings := make([]domain.Candidate, len(rows))
	for i := range rows {
		listings[i] = rows[i].toDomain()
	}
	return listings, nil
}
