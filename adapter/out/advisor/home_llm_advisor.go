// Package advisor implements out.RegionAdvisor.
package advisor

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"ruralhome_server/core/agent/llm"
	"ruralhome_server/core/domain"
	"ruralhome_server/core/port/out"
	"ruralhome_server/pkg/logger"

	"github.com/goccy/go-json"
	"github.com/sony/gobreaker"
)

var (
	// ErrMalformedResponse covers any answer that is not {"recommendedRegions": [...]}.
	ErrMalformedResponse = errors.New("advisor: malformed response")
	// ErrNoRegions means the answer parsed but named no known region.
	ErrNoRegions = errors.New("advisor: no known regions suggested")
)

const maxPromptRunes = 2000

// Completer is the slice of llm.Client the advisor needs.
type Completer interface {
	CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

var _ Completer = (*llm.Client)(nil)

// LLMAdvisor asks a chat model which regions fit the described lifestyle.
type LLMAdvisor struct {
	completer Completer
	cb        *gobreaker.CircuitBreaker
}

var _ out.RegionAdvisor = (*LLMAdvisor)(nil)

func NewLLMAdvisor(completer Completer) *LLMAdvisor {
	cbSettings := gobreaker.Settings{
		Name:        "region-advisor",
		MaxRequests: 1,                // Half-open 상태에서 허용할 요청 수
		Interval:    60 * time.Second, // Closed 상태에서 카운터 리셋 간격
		Timeout:     30 * time.Second, // Open 상태 유지 시간
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			// 연속 3회 실패 시 차단. 차단 중에는 즉시 전체 지역으로 대체된다
			return counts.ConsecutiveFailures >= 3
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("[CircuitBreaker] %s: state changed from %s to %s", name, from.String(), to.String())
		},
	}

	return &LLMAdvisor{
		completer: completer,
		cb:        gobreaker.NewCircuitBreaker(cbSettings),
	}
}

func (a *LLMAdvisor) SuggestRegions(ctx context.Context, freeTextPreferences string) ([]domain.RegionCode, error) {
	// 파싱 실패도 서킷 실패로 집계한다
	result, err := a.cb.Execute(func() (interface{}, error) {
		raw, err := a.completer.CompleteJSON(ctx, systemPrompt(), userPrompt(freeTextPreferences))
		if err != nil {
			return nil, fmt.Errorf("advisor: completion failed: %w", err)
		}
		return ParseRegions(raw)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.RegionCode), nil
}

func systemPrompt() string {
	var sb strings.Builder
	sb.WriteString("당신은 귀농·귀촌 지역 상담가입니다. 사용자의 생활 성향에 맞는 광역 지역을 최대 5곳까지 우선순위대로 추천하세요.\n")
	sb.WriteString("가능한 지역 코드:\n")
	for _, r := range domain.AllRegions() {
		fmt.Fprintf(&sb, "- %s: %s\n", r, r.Name())
	}
	sb.WriteString(`반드시 {"recommendedRegions": ["코드", ...]} 형식의 JSON 객체만 응답하세요.`)
	return sb.String()
}

func userPrompt(text string) string {
	return "사용자 선호:\n" + llm.TruncateText(text, maxPromptRunes)
}

type regionsResponse struct {
	RecommendedRegions []string `json:"recommendedRegions"`
}

// ParseRegions strips markdown fences and decodes the region list.
// Unknown and repeated codes are dropped; an empty result is an error.
func ParseRegions(raw string) ([]domain.RegionCode, error) {
	body := StripCodeFence(raw)
	if body == "" {
		return nil, ErrMalformedResponse
	}

	var resp regionsResponse
	if err := json.Unmarshal([]byte(body), &resp); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if resp.RecommendedRegions == nil {
		return nil, fmt.Errorf("%w: recommendedRegions missing", ErrMalformedResponse)
	}

	seen := make(map[domain.RegionCode]struct{}, len(resp.RecommendedRegions))
	regions := make([]domain.RegionCode, 0, len(resp.RecommendedRegions))
	for _, s := range resp.RecommendedRegions {
		code := domain.RegionCode(strings.TrimSpace(s))
		if !code.IsValid() {
			continue
		}
		if _, dup := seen[code]; dup {
			continue
		}
		seen[code] = struct{}{}
		regions = append(regions, code)
	}
	if len(regions) == 0 {
		return nil, ErrNoRegions
	}
	return regions, nil
}

// StripCodeFence removes a surrounding ``` or ```json fence if present.
func StripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if nl := strings.IndexByte(s, '\n'); nl >= 0 {
		// drop the language tag line
		s = s[nl+1:]
	} else {
		s = strings.TrimPrefix(s, "json")
	}
	if end := strings.LastIndex(s, "```"); end >= 0 {
		s = s[:end]
	}
	return strings.TrimSpace(s)
}
