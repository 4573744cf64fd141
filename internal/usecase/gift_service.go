package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
)

// GiftServiceConfig holds configuration for the gift service
type GiftServiceConfig struct {
	MaxIntents          int
	DiversityCap        int
	LowerBoundInclusive bool
	USDToKRW            float64
}

// GiftService grounds gift intents in purchasable catalog products
type GiftService struct {
	generator   domain.IntentGenerator
	synthesizer *QuerySynthesizer
	refinement  *RefinementController
	scorer      *QualityScorer
	matcher     *MatchingService
	config      GiftServiceConfig
	logger      zerolog.Logger
}

// Resolution is the outcome of one resolve call
type Resolution struct {
	RequestID       string                         `json:"requestId"`
	Recommendations []domain.MatchedRecommendation `json:"recommendations"`
	Sessions        []*domain.RefinementSession    `json:"refinementSessions"`
	Provenance      domain.Provenance              `json:"provenance"`
	Duration        time.Duration                  `json:"duration"`
}

// NewGiftService creates a new gift service with dependencies
func NewGiftService(
	generator domain.IntentGenerator,
	synthesizer *QuerySynthesizer,
	refinement *RefinementController,
	scorer *QualityScorer,
	matcher *MatchingService,
	config GiftServiceConfig,
	logger zerolog.Logger,
) *GiftService {
	if config.MaxIntents <= 0 {
		config.MaxIntents = defaultMaxIntents
	}
	if config.DiversityCap <= 0 {
		config.DiversityCap = defaultDiversityCap
	}
	if config.USDToKRW <= 0 {
		config.USDToKRW = defaultUSDToKRW
	}

	return &GiftService{
		generator:   generator,
		synthesizer: synthesizer,
		refinement:  refinement,
		scorer:      scorer,
		matcher:     matcher,
		config:      config,
		logger:      logger,
	}
}

// Recommend generates gift intents for a recipient and grounds them.
// Failing to generate intents is the only fatal upstream failure.
func (s *GiftService) Recommend(
	ctx context.Context,
	profile domain.RecipientProfile,
	budget domain.Budget,
) (*Resolution, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if s.generator == nil {
		return nil, fmt.Errorf("%w: no generator configured", domain.ErrIntentGeneration)
	}

	intents, err := s.generator.GenerateIntents(ctx, profile, budget)
	if err != nil {
		if errors.Is(err, domain.ErrIntentGeneration) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", domain.ErrIntentGeneration, err)
	}
	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: generator returned no intents", domain.ErrIntentGeneration)
	}

	return s.Resolve(ctx, intents, budget, profile)
}

// Resolve grounds the given intents in catalog products.
//
// Flow, per intent in order:
// synthesize query -> refinement loop -> budget re-check -> session dedup.
// Then the pooled products are scored, ranked and handed to the matcher.
// Search failures degrade to partial or simulated results instead of errors.
func (s *GiftService) Resolve(
	ctx context.Context,
	intents []domain.GiftIntent,
	budget domain.Budget,
	profile domain.RecipientProfile,
) (*Resolution, error) {
	start := time.Now()
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: at least one intent is required", domain.ErrInvalidRequest)
	}
	if len(intents) > s.config.MaxIntents {
		intents = intents[:s.config.MaxIntents]
	}
	intents = withBudgetCurrency(intents, budget)

	requestID := uuid.NewString()
	ctx, span := tracer.Start(ctx, "gift.resolve")
	defer span.End()
	span.SetAttributes(
		attribute.String("request_id", requestID),
		attribute.Int("intents", len(intents)),
	)

	logger := s.logger.With().Str("request_id", requestID).Logger()
	krw := budget.InKRW(s.config.USDToKRW)

	resolution := &Resolution{RequestID: requestID}
	sessionDedup := NewDeduplicator(s.config.DiversityCap)
	var pool []domain.CatalogProduct

	for i, intent := range intents {
		query := s.synthesizer.Synthesize(intent, profile.Interests)
		outcome := s.refinement.Refine(ctx, intent, profile, krw, query)

		resolution.Sessions = append(resolution.Sessions, outcome.Session)
		resolution.Provenance = domain.CombineProvenance(resolution.Provenance, outcome.Provenance)

		for _, p := range outcome.Products {
			if !krw.Admits(p.Price, s.config.LowerBoundInclusive) {
				observability.RecordsDroppedTotal.WithLabelValues("budget").Inc()
				continue
			}
			p.IntentIndex = i
			ok, reason := sessionDedup.Accept(&p)
			if !ok {
				observability.RecordsDroppedTotal.WithLabelValues(reason).Inc()
				continue
			}
			pool = append(pool, p)
		}
	}

	s.scorer.Apply(pool)
	s.scorer.Rank(pool)

	recommendations, err := s.matcher.MatchAll(ctx, MatchInput{
		Intents:    intents,
		Products:   pool,
		Budget:     krw,
		Provenance: resolution.Provenance,
	})
	if err != nil {
		span.RecordError(err)
		return nil, err
	}

	resolution.Recommendations = recommendations
	resolution.Duration = time.Since(start)
	observability.ResolveLatencySeconds.Observe(resolution.Duration.Seconds())

	matched := 0
	for _, r := range recommendations {
		if r.Matched() {
			matched++
		}
	}
	span.SetAttributes(attribute.Int("matched", matched))

	logger.Info().
		Int("intents", len(intents)).
		Int("pool", len(pool)).
		Int("matched", matched).
		Str("provenance", string(resolution.Provenance)).
		Dur("duration", resolution.Duration).
		Msg("resolve finished")

	return resolution, nil
}

// withBudgetCurrency returns a copy of intents where a missing currency is the budget's.
func withBudgetCurrency(intents []domain.GiftIntent, budget domain.Budget) []domain.GiftIntent {
	currency := domain.CurrencyKRW
	if budget.Currency == domain.CurrencyUSD {
		currency = domain.CurrencyUSD
	}

	out := make([]domain.GiftIntent, len(intents))
	for i, intent := range intents {
		if intent.Currency == "" {
			intent.Currency = currency
		}
		out[i] = intent
	}
	return out
}
