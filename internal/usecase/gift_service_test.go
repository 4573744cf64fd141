package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
)

func newTestGiftService(generator domain.IntentGenerator, searcher domain.CatalogSearcher, judge domain.MatchJudge) *GiftService {
	logger := zerolog.Nop()
	return NewGiftService(
		generator,
		NewQuerySynthesizer(logger),
		NewRefinementController(searcher, nil, RefinementConfig{MinProducts: 3}, logger),
		NewQualityScorer(0.05),
		NewMatchingService(judge, MatchConfig{EnableJudge: judge != nil, ConfidenceBonus: 0.15}, logger),
		GiftServiceConfig{LowerBoundInclusive: true, USDToKRW: 1300},
		logger,
	)
}

func TestGiftService_Resolve(t *testing.T) {
	ctx := context.Background()
	profile := domain.RecipientProfile{Age: 30, Gender: "여성", Interests: []string{"요리"}}

	t.Run("binds each intent to a distinct in-budget product", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{
			{Products: distinctProducts("a", 4, 90000)},
			{Products: distinctProducts("b", 4, 120000)},
		}}
		svc := newTestGiftService(nil, searcher, nil)
		intents := []domain.GiftIntent{
			{Title: "프리미엄 주방용품", TargetPrice: 90000, Confidence: 0.8},
			{Title: "세라믹 머그컵", TargetPrice: 120000, Confidence: 0.6},
		}

		res, err := svc.Resolve(ctx, intents, testBudget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.RequestID == "" {
			t.Error("RequestID is empty")
		}
		if len(res.Recommendations) != 2 || len(res.Sessions) != 2 {
			t.Fatalf("recommendations = %d sessions = %d", len(res.Recommendations), len(res.Sessions))
		}

		links := make(map[string]bool)
		for _, r := range res.Recommendations {
			if !r.Matched() {
				t.Fatalf("intent %q unmatched", r.Intent.Title)
			}
			if r.Price < testBudget.EffectiveMin() || r.Price > testBudget.Max {
				t.Errorf("price %d outside budget", r.Price)
			}
			if links[r.PurchaseLink] {
				t.Errorf("link %s bound twice", r.PurchaseLink)
			}
			links[r.PurchaseLink] = true
		}
		if res.Recommendations[0].Product.IntentIndex != 0 || res.Recommendations[1].Product.IntentIndex != 1 {
			t.Error("intents should bind products from their own searches")
		}
		if res.Provenance != domain.ProvenanceReal {
			t.Errorf("Provenance = %s, want real", res.Provenance)
		}
	})

	t.Run("re-applies the budget filter", func(t *testing.T) {
		products := append(distinctProducts("cheap", 3, 20000), distinctProducts("ok", 3, 100000)...)
		products = append(products, distinctProducts("pricey", 3, 400000)...)
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: products}}}
		svc := newTestGiftService(nil, searcher, nil)

		res, err := svc.Resolve(ctx, []domain.GiftIntent{{Title: "주방용품"}}, testBudget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if p := res.Recommendations[0].Product; p == nil || p.Price != 100000 {
			t.Errorf("bound %+v, want the in-budget product", p)
		}
	})

	t.Run("no products on any attempt leaves the intent unmatched", func(t *testing.T) {
		searcher := &MockSearcher{}
		svc := newTestGiftService(nil, searcher, nil)
		svc.refinement.sleep = func(context.Context, time.Duration) error { return nil }

		res, err := svc.Resolve(ctx, []domain.GiftIntent{{Title: "프리미엄 주방용품", TargetPrice: 100000}}, testBudget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(searcher.Requests) != domain.MaxAttempts {
			t.Errorf("search calls = %d, want %d", len(searcher.Requests), domain.MaxAttempts)
		}
		rec := res.Recommendations[0]
		if rec.Matched() || rec.PurchaseLink != "" {
			t.Errorf("expected unmatched, got %+v", rec)
		}
		if rec.MatchMethod != domain.MatchMethodNone {
			t.Errorf("MatchMethod = %s", rec.MatchMethod)
		}
	})

	t.Run("judge NONE keeps the intent unmatched", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: distinctProducts("a", 5, 90000)}}}
		svc := newTestGiftService(nil, searcher, &MockJudge{Reply: "NONE"})

		res, err := svc.Resolve(ctx, []domain.GiftIntent{{Title: "주방용품"}}, testBudget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if res.Recommendations[0].Matched() {
			t.Error("expected unmatched")
		}
	})

	t.Run("usd budgets are searched in KRW", func(t *testing.T) {
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: distinctProducts("a", 3, 150000)}}}
		svc := newTestGiftService(nil, searcher, nil)

		budget := domain.Budget{Min: 50, Max: 150, Currency: domain.CurrencyUSD}
		res, err := svc.Resolve(ctx, []domain.GiftIntent{{Title: "주방용품"}}, budget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got := searcher.Requests[0].Budget
		if got.Currency != domain.CurrencyKRW || got.Max != 195000 {
			t.Errorf("search budget = %+v, want 195000 KRW", got)
		}
		if !res.Recommendations[0].Matched() {
			t.Error("expected a match")
		}
	})

	t.Run("intents without a currency take the budget currency", func(t *testing.T) {
		svc := newTestGiftService(nil, &MockSearcher{}, nil)
		budget := domain.Budget{Min: 50, Max: 150, Currency: domain.CurrencyUSD}
		intents := []domain.GiftIntent{{Title: "프리미엄 주방용품", TargetPrice: 100}}

		res, err := svc.Resolve(ctx, intents, budget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		rec := res.Recommendations[0]
		if rec.Matched() {
			t.Fatal("expected the intent to stay unmatched")
		}
		if rec.Price != 130000 || rec.Currency != domain.CurrencyKRW {
			t.Errorf("unmatched price = %d %s, want 130000 KRW", rec.Price, rec.Currency)
		}
		if intents[0].Currency != "" {
			t.Error("caller intents must not be modified")
		}
	})

	t.Run("a passed deadline degrades to unmatched results", func(t *testing.T) {
		svc := newTestGiftService(nil, &BlockingSearcher{}, nil)
		deadlineCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
		defer cancel()

		intents := []domain.GiftIntent{{Title: "주방용품"}, {Title: "머그컵"}}
		res, err := svc.Resolve(deadlineCtx, intents, testBudget, profile)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Recommendations) != 2 || len(res.Sessions) != 2 {
			t.Fatalf("recommendations = %d sessions = %d", len(res.Recommendations), len(res.Sessions))
		}
		for i, r := range res.Recommendations {
			if r.Matched() {
				t.Errorf("intent %d should be unmatched", i)
			}
			session := res.Sessions[i]
			if session.Success || len(session.Attempts) == 0 || session.Attempts[0].FailureReason == "" {
				t.Errorf("session %d should record the failed attempt: %+v", i, session)
			}
		}
	})

	t.Run("rejects invalid requests", func(t *testing.T) {
		svc := newTestGiftService(nil, &MockSearcher{}, nil)

		if _, err := svc.Resolve(ctx, nil, testBudget, profile); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("no intents: error = %v", err)
		}
		if _, err := svc.Resolve(ctx, []domain.GiftIntent{{Title: "a"}}, domain.Budget{Max: 0}, profile); !errors.Is(err, domain.ErrInvalidRequest) {
			t.Errorf("bad budget: error = %v", err)
		}
	})
}

func TestGiftService_Recommend(t *testing.T) {
	ctx := context.Background()
	profile := domain.RecipientProfile{Age: 28, Interests: []string{"커피"}}

	t.Run("generates then resolves intents", func(t *testing.T) {
		generator := &MockGenerator{Intents: []domain.GiftIntent{{Title: "핸드드립 커피 세트", Confidence: 0.7}}}
		searcher := &MockSearcher{Responses: []MockSearchResponse{{Products: distinctProducts("a", 3, 80000)}}}
		svc := newTestGiftService(generator, searcher, nil)

		res, err := svc.Recommend(ctx, profile, testBudget)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(res.Recommendations) != 1 || !res.Recommendations[0].Matched() {
			t.Errorf("recommendations = %+v", res.Recommendations)
		}
	})

	t.Run("generator failure is fatal", func(t *testing.T) {
		generator := &MockGenerator{Err: errors.New("quota exceeded")}
		svc := newTestGiftService(generator, &MockSearcher{}, nil)

		_, err := svc.Recommend(ctx, profile, testBudget)
		if !errors.Is(err, domain.ErrIntentGeneration) {
			t.Errorf("error = %v, want ErrIntentGeneration", err)
		}
	})

	t.Run("empty generation is fatal", func(t *testing.T) {
		svc := newTestGiftService(&MockGenerator{}, &MockSearcher{}, nil)

		_, err := svc.Recommend(ctx, profile, testBudget)
		if !errors.Is(err, domain.ErrIntentGeneration) {
			t.Errorf("error = %v, want ErrIntentGeneration", err)
		}
	})

	t.Run("missing generator is fatal", func(t *testing.T) {
		svc := newTestGiftService(nil, &MockSearcher{}, nil)

		_, err := svc.Recommend(ctx, profile, testBudget)
		if !errors.Is(err, domain.ErrIntentGeneration) {
			t.Errorf("error = %v, want ErrIntentGeneration", err)
		}
	})
}
