// Package feed fetches vacant rural house listings from the public data
// portal and normalizes them into candidates.
package feed

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/httputil"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/sony/gobreaker"
)

var (
	// ErrUpstream is returned for transport failures, non-200 statuses and
	// non-success result codes.
	ErrUpstream = errors.New("feed: upstream error")
	// ErrDecode is returned when the body cannot be normalized.
	ErrDecode = errors.New("feed: decode error")
)

const (
	successCode  = "00"
	idPrefix     = "feed-"
	maxPageSize  = 100
	maxBodyBytes = 4 << 20
)

type Config struct {
	BaseURL     string
	ServiceKey  string
	Timeout     time.Duration
	Concurrency int // 연결 풀 크기 산정용
}

// Client implements out.SourceFetcher against the feed API.
type Client struct {
	baseURL    string
	serviceKey string
	http       *http.Client
	cb         *gobreaker.CircuitBreaker
	log        zerolog.Logger
}

var _ out.SourceFetcher = (*Client)(nil)

func NewClient(cfg Config, log zerolog.Logger) *Client {
	log = log.With().Str("component", "feed_client").Logger()

	cbSettings := gobreaker.Settings{
		Name:        "rural-house-feed",
		MaxRequests: 2,                // Half-open 상태에서 허용할 요청 수
		Interval:    60 * time.Second, // Closed 상태에서 카운터 리셋 간격
		Timeout:     20 * time.Second, // Open 상태 유지 시간
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 연속 5회 실패 또는 60% 이상 실패율 (최소 10회 요청)
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.ConsecutiveFailures > 5 ||
				(counts.Requests >= 10 && failureRatio >= 0.6)
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			log.Warn().Str("breaker", name).Str("from", from.String()).Str("to", to.String()).
				Msg("circuit breaker state changed")
		},
	}

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		http:       httputil.NewClient(httputil.FeedClientConfig(cfg.Concurrency, cfg.Timeout)),
		cb:         gobreaker.NewCircuitBreaker(cbSettings),
		log:        log,
	}
}

// FetchRegion returns the first page of listings for one region.
func (c *Client) FetchRegion(ctx context.Context, region domain.RegionCode, limit int) ([]domain.Candidate, error) {
	if limit <= 0 || limit > maxPageSize {
		limit = 20
	}

	result, err := c.cb.Execute(func() (interface{}, error) {
		return c.fetch(ctx, region, limit)
	})
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
		}
		return nil, err
	}
	return result.([]domain.Candidate), nil
}

// BuildQuery renders the portal query for one region page.
func (c *Client) BuildQuery(region domain.RegionCode, pageNo, numOfRows int) string {
	q := url.Values{}
	q.Set("serviceKey", c.serviceKey)
	q.Set("pageNo", strconv.Itoa(pageNo))
	q.Set("numOfRows", strconv.Itoa(numOfRows))
	q.Set("_type", "json")
	q.Set("sidoCd", string(region))
	return c.baseURL + "?" + q.Encode()
}

func (c *Client) fetch(ctx context.Context, region domain.RegionCode, limit int) ([]domain.Candidate, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BuildQuery(region, 1, limit), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<10))
		return nil, fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	items, err := decode(body)
	if err != nil {
		return nil, err
	}

	candidates := make([]domain.Candidate, 0, len(items))
	for _, it := range items {
		if cand, ok := toCandidate(it, region); ok {
			candidates = append(candidates, cand)
		}
	}
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}

	c.log.Debug().Str("region", string(region)).Int("items", len(candidates)).Msg("feed page decoded")
	return candidates, nil
}

// decode parses a response body and returns its raw items.
func decode(body []byte) ([]rawItem, error) {
	var env envelope
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDecode, err)
	}

	header := env.Response.Header
	if header.ResultCode == "" {
		return nil, fmt.Errorf("%w: missing result code", ErrDecode)
	}
	if header.ResultCode != successCode {
		return nil, fmt.Errorf("%w: result %s %s", ErrUpstream, header.ResultCode, header.ResultMsg)
	}

	items, err := decodeItems(env.Response.Body.Items)
	if err != nil {
		return nil, fmt.Errorf("%w: items: %v", ErrDecode, err)
	}
	return items, nil
}

// toCandidate normalizes one raw item. Items without an id are skipped.
func toCandidate(it rawItem, region domain.RegionCode) (domain.Candidate, bool) {
	id := strings.TrimSpace(string(it.HouseID))
	if id == "" {
		return domain.Candidate{}, false
	}

	district := strings.TrimSpace(it.SidoName)
	if district == "" {
		district = region.Name()
	}

	title := strings.TrimSpace(it.HouseName)
	if title == "" {
		title = strings.TrimSpace(strings.Join([]string{it.SigunguName, it.EmdName, "빈집"}, " "))
	}

	cand := domain.Candidate{
		ID:    idPrefix + id,
		Title: title,
		Location: domain.Location{
			DistrictName:  district,
			CityName:      strings.TrimSpace(it.SigunguName),
			SubRegionName: strings.TrimSpace(it.EmdName),
		},
		PriceInfo: domain.PriceInfo{
			RentAmount:    it.RentAmount.ptr(),
			SaleAmount:    it.SaleAmount.ptr(),
			DepositAmount: it.DepositAmount.ptr(),
		},
		Details: domain.Details{
			RoomCount:    int(it.RoomCount.Value),
			SizeUnits:    float64(it.Area),
			DwellingType: dwellingType(it.HouseType),
			Condition:    houseCondition(it.HouseCondition),
		},
		Features: splitList(it.Features),
		Surroundings: domain.Surroundings{
			NearbyFacilities: splitList(it.NearFacilities),
			Transportation:   splitList(it.Transport),
			NaturalFeatures:  splitList(it.NaturalFeatures),
		},
		CommunityInfo: domain.CommunityInfo{
			Population:         int(it.Population.Value),
			AverageAge:         int(it.AverageAge.Value),
			MainIndustries:     splitList(it.MainIndustries),
			CulturalActivities: splitList(it.Cultural),
		},
		ImageURL: strings.TrimSpace(it.ImageURL),
		Origin:   domain.OriginFeed,
	}
	if it.BuildYear.Valid && it.BuildYear.Value > 0 {
		y := int(it.BuildYear.Value)
		cand.Details.YearBuilt = &y
	}
	return cand, true
}

func dwellingType(s string) domain.DwellingType {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "한옥"), v == "hanok":
		return domain.DwellingHanok
	case strings.Contains(v, "농가"), strings.Contains(v, "farm"):
		return domain.DwellingFarm
	case strings.Contains(v, "아파트"), strings.Contains(v, "apartment"):
		return domain.DwellingApartment
	case strings.Contains(v, "현대"), strings.Contains(v, "양옥"), strings.Contains(v, "단독"), v == "modern":
		return domain.DwellingModern
	}
	// 미분류 유형은 점수 계산에서 중립값 처리
	return domain.DwellingType(v)
}

func houseCondition(s string) domain.HouseCondition {
	v := strings.ToLower(strings.TrimSpace(s))
	switch {
	case strings.Contains(v, "우수"), v == "excellent":
		return domain.ConditionExcellent
	case strings.Contains(v, "양호"), v == "good":
		return domain.ConditionGood
	case strings.Contains(v, "보수"), strings.Contains(v, "수리"), v == "needs-repair":
		return domain.ConditionNeedsRepair
	}
	return domain.HouseCondition(v)
}
