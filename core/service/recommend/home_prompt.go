package recommend

import (
	"fmt"
	"strings"

	"ruralhome_server/core/domain"
)

var livingLabels = map[domain.LivingStyle]string{
	domain.LivingMinimalist:  "미니멀한 주거",
	domain.LivingCozy:        "아늑한 주거",
	domain.LivingTraditional: "전통 가옥",
	domain.LivingModern:      "현대식 주거",
}

var socialLabels = map[domain.SocialStyle]string{
	domain.SocialCommunity:   "마을 공동체 활동",
	domain.SocialIndependent: "독립적인 생활",
	domain.SocialFamily:      "가족 중심 생활",
	domain.SocialCreative:    "창작 활동",
}

var workLabels = map[domain.WorkStyle]string{
	domain.WorkRemote:       "원격 근무",
	domain.WorkFarmer:       "농업",
	domain.WorkEntrepreneur: "창업",
	domain.WorkRetiree:      "은퇴 생활",
}

var hobbyLabels = map[domain.HobbyStyle]string{
	domain.HobbyNature:  "자연 속 여가",
	domain.HobbyCulture: "문화 행사",
	domain.HobbySports:  "스포츠와 야외 활동",
	domain.HobbyCrafts:  "공예",
}

var paceLabels = map[domain.Pace]string{
	domain.PaceSlow:     "느긋한",
	domain.PaceBalanced: "균형 잡힌",
	domain.PaceActive:   "활동적인",
}

var budgetLabels = map[domain.Budget]string{
	domain.BudgetLow:    "낮은",
	domain.BudgetMedium: "중간",
	domain.BudgetHigh:   "높은",
}

func label[K comparable](m map[K]string, k K) string {
	if v, ok := m[k]; ok {
		return v
	}
	return fmt.Sprint(k)
}

// DescribePreferences renders the answer set as Korean prose for the region advisor.
func DescribePreferences(pref domain.PreferenceVector, freeText string) string {
	purchase := "매매"
	if pref.EffectivePurchaseType() == domain.PurchaseRent {
		purchase = "임대"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "주거 스타일: %s\n", label(livingLabels, pref.LivingStyle))
	fmt.Fprintf(&sb, "사회적 성향: %s\n", label(socialLabels, pref.SocialStyle))
	fmt.Fprintf(&sb, "생업: %s\n", label(workLabels, pref.WorkStyle))
	fmt.Fprintf(&sb, "여가: %s\n", label(hobbyLabels, pref.HobbyStyle))
	fmt.Fprintf(&sb, "생활 속도: %s 생활\n", label(paceLabels, pref.Pace))
	fmt.Fprintf(&sb, "예산: %s 수준 (%s)\n", label(budgetLabels, pref.Budget), purchase)
	if t := strings.TrimSpace(freeText); t != "" {
		fmt.Fprintf(&sb, "추가 요청: %s\n", t)
	}
	return sb.String()
}
