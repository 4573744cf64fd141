package domain

import (
	"fmt"
	"time"
)

// Strategy is one of the fixed query-rewriting heuristics tried in order
// when a search yields too few products.
type Strategy uint8

const (
	StrategySynonymExpansion Strategy = iota + 1
	StrategyCategoryBroadening
	StrategyMarketResearch
	StrategyDemographicAdaptation
	StrategyBudgetAlternative
)

// Strategies is the attempt order. Attempt n uses Strategies[n-1].
var Strategies = [...]Strategy{
	StrategySynonymExpansion,
	StrategyCategoryBroadening,
	StrategyMarketResearch,
	StrategyDemographicAdaptation,
	StrategyBudgetAlternative,
}

// MaxAttempts is the hard upper bound on search attempts per intent.
const MaxAttempts = len(Strategies)

// StrategyForAttempt returns the strategy bound to a 1-based attempt number.
func StrategyForAttempt(attempt int) Strategy {
	switch {
	case attempt < 1:
		return Strategies[0]
	case attempt > len(Strategies):
		return Strategies[len(Strategies)-1]
	}
	return Strategies[attempt-1]
}

func (s Strategy) String() string {
	switch s {
	case StrategySynonymExpansion:
		return "synonym_expansion"
	case StrategyCategoryBroadening:
		return "category_broadening"
	case StrategyMarketResearch:
		return "market_research"
	case StrategyDemographicAdaptation:
		return "demographic_adaptation"
	case StrategyBudgetAlternative:
		return "budget_alternative"
	}
	return fmt.Sprintf("strategy(%d)", uint8(s))
}

// MarshalText encodes the strategy by name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Instruction is the guidance given to the language model for this strategy.
func (s Strategy) Instruction() string {
	switch s {
	case StrategySynonymExpansion:
		return "동의어와 유사 표현을 활용해 검색 범위를 확장하세요."
	case StrategyCategoryBroadening:
		return "상위 카테고리나 관련 카테고리로 검색 범위를 넓히세요."
	case StrategyMarketResearch:
		return "시장 인기 상품과 트렌드를 반영한 현재 소비자 선호에 맞는 키워드로 조정하세요."
	case StrategyDemographicAdaptation:
		return "받는 사람의 나이, 성별, 관심사에 더 특화된 키워드로 조정하세요."
	case StrategyBudgetAlternative:
		return "예산 범위에 맞는 대안 상품 키워드로 완전히 전환하세요."
	}
	return "키워드를 최적화하세요."
}

// MarketInsights is the rule-based market research contribution to an attempt.
type MarketInsights struct {
	AgeGroup          string   `json:"ageGroup"`
	SuggestedProducts []string `json:"suggestedProducts"`
	TrendingKeywords  []string `json:"trendingKeywords"`
}

// SearchAttempt records one pass of the refinement loop.
type SearchAttempt struct {
	Number        int             `json:"number"`
	Strategy      Strategy        `json:"strategy"`
	Keywords      []string        `json:"keywords"`
	Query         string          `json:"query"`
	ProductCount  int             `json:"productCount"`
	Success       bool            `json:"success"`
	FailureReason string          `json:"failureReason,omitempty"`
	Duration      time.Duration   `json:"duration"`
	Provenance    Provenance      `json:"provenance,omitempty"`
	RefinedBy     string          `json:"refinedBy,omitempty"` // "synthesizer", "llm" or "rules"
	Insights      *MarketInsights `json:"insights,omitempty"`
}

// RefinementSession is the attempt history for one intent.
type RefinementSession struct {
	ID               string          `json:"id"`
	IntentTitle      string          `json:"intentTitle"`
	OriginalKeywords []string        `json:"originalKeywords"`
	Attempts         []SearchAttempt `json:"attempts"`
	BestAttempt      int             `json:"bestAttempt"` // index into Attempts, -1 when none produced products
	Success          bool            `json:"success"`
	Duration         time.Duration   `json:"duration"`
}

// Best returns the best attempt or nil.
func (s *RefinementSession) Best() *SearchAttempt {
	if s.BestAttempt < 0 || s.BestAttempt >= len(s.Attempts) {
		return nil
	}
	return &s.Attempts[s.BestAttempt]
}

// FailedKeywords is the union of keywords of all unsuccessful attempts, in first-seen order.
func (s *RefinementSession) FailedKeywords() []string {
	seen := make(map[string]bool)
	var out []string
	for _, a := range s.Attempts {
		if a.Success {
			continue
		}
		for _, k := range a.Keywords {
			if !seen[k] {
				seen[k] = true
				out = append(out, k)
			}
		}
	}
	return out
}

// FailedStrategies lists the strategies whose attempts did not succeed.
func (s *RefinementSession) FailedStrategies() []Strategy {
	var out []Strategy
	for _, a := range s.Attempts {
		if !a.Success {
			out = append(out, a.Strategy)
		}
	}
	return out
}
