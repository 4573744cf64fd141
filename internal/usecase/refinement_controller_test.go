package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
)

var testBudget = domain.Budget{Min: 50000, Max: 150000, Currency: domain.CurrencyKRW}

func newTestController(searcher domain.CatalogSearcher, refiner domain.KeywordRefiner) *RefinementController {
	return NewRefinementController(searcher, refiner, RefinementConfig{MinProducts: 3}, zerolog.Nop())
}

func synthesize(title string) SynthesizedQuery {
	return NewQuerySynthesizer(zerolog.Nop()).Synthesize(domain.GiftIntent{Title: title}, nil)
}

func TestNewRefinementController(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		c := NewRefinementController(&MockSearcher{}, nil, RefinementConfig{}, zerolog.Nop())
		if c.config.MaxAttempts != domain.MaxAttempts {
			t.Errorf("MaxAttempts = %d, want %d", c.config.MaxAttempts, domain.MaxAttempts)
		}
		if c.config.MinProducts != 3 {
			t.Errorf("MinProducts = %d, want 3", c.config.MinProducts)
		}
	})

	t.Run("never allows more than five attempts", func(t *testing.T) {
		c := NewRefinementController(&MockSearcher{}, nil, RefinementConfig{MaxAttempts: 12}, zerolog.Nop())
		if c.config.MaxAttempts != 5 {
			t.Errorf("MaxAttempts = %d, want 5", c.config.MaxAttempts)
		}
	})
}

func TestRefinementController_Refine(t *testing.T) {
	ctx := context.Background()
	intent := domain.GiftIntent{Title: "프리미엄 주방용품"}

	t.Run("first attempt searches the synthesized query", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: distinctProducts("a", 4, 90000)}}}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if len(searcher.Requests) != 1 {
			t.Fatalf("search calls = %d, want 1", len(searcher.Requests))
		}
		if searcher.Requests[0].Query != "주방용품" {
			t.Errorf("query = %q, want 주방용품", searcher.Requests[0].Query)
		}
		if !out.Session.Success || out.Session.BestAttempt != 0 {
			t.Errorf("session = %+v, want success on attempt 1", out.Session)
		}
		if out.Session.Attempts[0].RefinedBy != refinedBySynthesizer {
			t.Errorf("RefinedBy = %q", out.Session.Attempts[0].RefinedBy)
		}
		if len(out.Products) != 4 {
			t.Errorf("products = %d, want 4", len(out.Products))
		}
	})

	t.Run("halts at the first sufficient attempt", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{Products: distinctProducts("a", 1, 90000)},
			{Products: distinctProducts("b", 3, 90000)},
			{Products: distinctProducts("c", 8, 90000)},
		}}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if len(searcher.Requests) != 2 {
			t.Errorf("search calls = %d, want 2", len(searcher.Requests))
		}
		if len(out.Session.Attempts) != 2 {
			t.Fatalf("attempts = %d, want 2", len(out.Session.Attempts))
		}
		if !out.Session.Success || out.Session.BestAttempt != 1 {
			t.Errorf("BestAttempt = %d success = %v", out.Session.BestAttempt, out.Session.Success)
		}
		if out.Session.Attempts[1].Strategy != domain.StrategyCategoryBroadening {
			t.Errorf("attempt 2 strategy = %s", out.Session.Attempts[1].Strategy)
		}
		if len(out.Products) != 3 {
			t.Errorf("products = %d, want 3", len(out.Products))
		}
	})

	t.Run("zero products on every attempt exhausts all strategies", func(t *testing.T) {
		searcher := &MockSearcher{}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if len(out.Session.Attempts) != domain.MaxAttempts {
			t.Fatalf("attempts = %d, want %d", len(out.Session.Attempts), domain.MaxAttempts)
		}
		if out.Session.Success {
			t.Error("session should not succeed")
		}
		if out.Session.BestAttempt != -1 || out.Session.Best() != nil {
			t.Errorf("BestAttempt = %d, want -1", out.Session.BestAttempt)
		}
		if len(out.Products) != 0 {
			t.Errorf("products = %d, want 0", len(out.Products))
		}
		for i, a := range out.Session.Attempts {
			if a.Strategy != domain.Strategies[i] {
				t.Errorf("attempt %d strategy = %s, want %s", i+1, a.Strategy, domain.Strategies[i])
			}
		}
	})

	t.Run("returns the best partial attempt", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{Products: distinctProducts("a", 1, 90000)},
			{Products: distinctProducts("b", 2, 90000)},
			{},
			{Products: distinctProducts("d", 1, 90000)},
			{},
		}}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if out.Session.BestAttempt != 1 {
			t.Errorf("BestAttempt = %d, want 1", out.Session.BestAttempt)
		}
		if len(out.Products) != 2 {
			t.Errorf("products = %d, want 2", len(out.Products))
		}
	})

	t.Run("duplicate signatures do not count toward success", func(t *testing.T) {
		products := []domain.CatalogProduct{
			catalogProduct("1", "휘슬러 프리미엄 냄비 세트 블랙", "휘슬러", 89000),
			catalogProduct("2", "르크루제 무쇠 주물냄비 20cm", "르크루제", 129000),
			catalogProduct("3", "휘슬러 프리미엄 냄비 세트 화이트", "휘슬러", 92000),
		}
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: products}}}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if out.Session.Attempts[0].ProductCount != 2 {
			t.Errorf("attempt 1 count = %d, want 2", out.Session.Attempts[0].ProductCount)
		}
		if out.Session.Success {
			t.Error("two distinct products should not reach the threshold")
		}
		if len(out.Products) != 2 {
			t.Errorf("products = %d, want 2", len(out.Products))
		}
	})

	t.Run("search errors fail only that attempt", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{Err: domain.ErrTransport},
			{Products: distinctProducts("b", 3, 90000)},
		}}
		out := newTestController(searcher, nil).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if !out.Session.Success {
			t.Fatal("expected success on attempt 2")
		}
		if out.Session.Attempts[0].FailureReason == "" {
			t.Error("attempt 1 should record a failure reason")
		}
	})

	t.Run("refiner receives failed keywords", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{},
			{Products: distinctProducts("b", 3, 90000)},
		}}
		refiner := &MockRefiner{Refinement: &domain.Refinement{Keywords: []string{" 키친웨어 ", "조리도구", ""}}}
		out := newTestController(searcher, refiner).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		if len(refiner.Requests) != 1 {
			t.Fatalf("refiner calls = %d, want 1", len(refiner.Requests))
		}
		req := refiner.Requests[0]
		if req.Strategy != domain.StrategyCategoryBroadening || req.Attempt != 2 {
			t.Errorf("request strategy = %s attempt = %d", req.Strategy, req.Attempt)
		}
		if len(req.FailedKeywords) != 2 || req.FailedKeywords[0] != "주방용품" {
			t.Errorf("FailedKeywords = %v, want [주방용품 프리미엄]", req.FailedKeywords)
		}

		second := out.Session.Attempts[1]
		if second.RefinedBy != refinedByLLM {
			t.Errorf("RefinedBy = %q, want llm", second.RefinedBy)
		}
		if second.Query != "키친웨어" {
			t.Errorf("query = %q, want 키친웨어 (first keyword)", second.Query)
		}
	})

	t.Run("refiner failure falls back to rules", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{},
			{Products: distinctProducts("b", 3, 90000)},
		}}
		refiner := &MockRefiner{Err: errors.New("upstream down")}
		out := newTestController(searcher, refiner).Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))

		second := out.Session.Attempts[1]
		if second.RefinedBy != refinedByRules {
			t.Errorf("RefinedBy = %q, want rules", second.RefinedBy)
		}
		if len(second.Keywords) == 0 || second.Query == "" {
			t.Errorf("rule refinement produced %v / %q", second.Keywords, second.Query)
		}
	})

	t.Run("market research merges insights on attempt three", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{}, {},
			{Products: distinctProducts("c", 3, 90000)},
		}}
		profile := domain.RecipientProfile{Age: 35, Gender: "여성"}
		out := newTestController(searcher, nil).Refine(ctx, intent, profile, testBudget, synthesize(intent.Title))

		third := out.Session.Attempts[2]
		if third.Strategy != domain.StrategyMarketResearch {
			t.Fatalf("attempt 3 strategy = %s", third.Strategy)
		}
		if third.Insights == nil || third.Insights.AgeGroup != "thirties" {
			t.Fatalf("insights = %+v", third.Insights)
		}
		want := []string{"주방용품", "스마트워치", "화장품", "인기"}
		if len(third.Keywords) != len(want) {
			t.Fatalf("keywords = %v, want %v", third.Keywords, want)
		}
		for i := range want {
			if third.Keywords[i] != want[i] {
				t.Errorf("keywords[%d] = %s, want %s", i, third.Keywords[i], want[i])
			}
		}
		if third.Query != "주방용품 인기" {
			t.Errorf("query = %q", third.Query)
		}
	})

	t.Run("waits between failed attempts", func(t *testing.T) {
		c := newTestController(&MockSearcher{}, nil)
		var waits []time.Duration
		c.config.AttemptDelay = 500 * time.Millisecond
		c.sleep = func(_ context.Context, d time.Duration) error {
			waits = append(waits, d)
			return nil
		}

		c.Refine(ctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))
		if len(waits) != domain.MaxAttempts-1 {
			t.Errorf("waits = %d, want %d", len(waits), domain.MaxAttempts-1)
		}
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		cctx, cancel := context.WithCancel(ctx)
		cancel()

		searcher := &MockSearcher{}
		out := newTestController(searcher, nil).Refine(cctx, intent, domain.RecipientProfile{}, testBudget, synthesize(intent.Title))
		if len(out.Session.Attempts) != 1 {
			t.Errorf("attempts = %d, want 1", len(out.Session.Attempts))
		}
	})
}

func TestRuleRefinement(t *testing.T) {
	in := strategyInput{
		original: []string{"주방용품", "프리미엄"},
		failed:   map[string]bool{"주방용품": true, "프리미엄": true},
		intent:   domain.GiftIntent{Title: "프리미엄 주방용품", Category: "홈&리빙"},
		profile:  domain.RecipientProfile{Age: 45, Gender: "남성", Interests: []string{"요리"}},
		budget:   testBudget,
	}

	tests := []struct {
		strategy  domain.Strategy
		wantFirst string
	}{
		{domain.StrategySynonymExpansion, "키친웨어"},
		{domain.StrategyCategoryBroadening, "생활용품"},
		{domain.StrategyMarketResearch, "주방용품"},
		{domain.StrategyDemographicAdaptation, "주방용품"},
		{domain.StrategyBudgetAlternative, "무선이어폰"},
	}

	for _, tt := range tests {
		t.Run(tt.strategy.String(), func(t *testing.T) {
			r := ruleRefinement(tt.strategy, in)
			if len(r.Keywords) == 0 || len(r.Keywords) > maxRefinedKeywords {
				t.Fatalf("keywords = %v", r.Keywords)
			}
			if r.Keywords[0] != tt.wantFirst {
				t.Errorf("first keyword = %s, want %s", r.Keywords[0], tt.wantFirst)
			}
			if r.SearchQuery != r.Keywords[0] {
				t.Errorf("SearchQuery = %q, want first keyword", r.SearchQuery)
			}
		})
	}

	t.Run("synonym expansion skips failed terms", func(t *testing.T) {
		r := ruleRefinement(domain.StrategySynonymExpansion, in)
		for _, k := range r.Keywords {
			if in.failed[k] {
				t.Errorf("failed keyword %s was repeated", k)
			}
		}
	})
}

func TestMarketInsights(t *testing.T) {
	t.Run("unknown age defaults to twenties", func(t *testing.T) {
		got := marketInsights(domain.RecipientProfile{})
		if got.AgeGroup != "twenties" {
			t.Errorf("AgeGroup = %s", got.AgeGroup)
		}
		if len(got.SuggestedProducts) != 3 || got.SuggestedProducts[0] != "무선이어폰" {
			t.Errorf("SuggestedProducts = %v", got.SuggestedProducts)
		}
		if len(got.TrendingKeywords) != 3 {
			t.Errorf("TrendingKeywords = %v", got.TrendingKeywords)
		}
	})

	t.Run("gender adds trending keywords", func(t *testing.T) {
		got := marketInsights(domain.RecipientProfile{Age: 62, Gender: "남성"})
		if got.AgeGroup != "seniors" {
			t.Errorf("AgeGroup = %s", got.AgeGroup)
		}
		want := []string{"인기", "추천", "베스트", "실용적"}
		for i := range want {
			if got.TrendingKeywords[i] != want[i] {
				t.Errorf("TrendingKeywords = %v, want %v", got.TrendingKeywords, want)
				break
			}
		}
	})

	t.Run("merge caps at five", func(t *testing.T) {
		merged := mergeInsights([]string{"a", "b", "c", "d"}, domain.MarketInsights{
			SuggestedProducts: []string{"x", "y", "z"},
			TrendingKeywords:  []string{"인기"},
		})
		want := []string{"a", "b", "c", "d", "x"}
		if len(merged) != len(want) {
			t.Fatalf("merged = %v, want %v", merged, want)
		}
		for i := range want {
			if merged[i] != want[i] {
				t.Errorf("merged = %v, want %v", merged, want)
				break
			}
		}
	})
}
