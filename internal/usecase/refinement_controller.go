package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
)

var tracer = otel.Tracer("github.com/giftgenie/backend/internal/usecase")

// Sources of an attempt's keywords
const (
	refinedBySynthesizer = "synthesizer"
	refinedByLLM         = "llm"
	refinedByRules       = "rules"
)

// RefinementConfig holds configuration for the refinement controller
type RefinementConfig struct {
	MaxAttempts  int
	MinProducts  int
	AttemptDelay time.Duration
	DiversityCap int
	Display      int
}

// RefinementController runs the bounded retry loop that rewrites a search
// until it yields enough distinct products.
type RefinementController struct {
	searcher domain.CatalogSearcher
	refiner  domain.KeywordRefiner // nil means rule-based only
	config   RefinementConfig
	logger   zerolog.Logger
	sleep    func(ctx context.Context, d time.Duration) error
}

// RefinementOutcome is the result of one intent's refinement session
type RefinementOutcome struct {
	Session    *domain.RefinementSession
	Products   []domain.CatalogProduct // products of the best attempt, deduplicated
	Provenance domain.Provenance
}

// NewRefinementController creates a new refinement controller
func NewRefinementController(
	searcher domain.CatalogSearcher,
	refiner domain.KeywordRefiner,
	config RefinementConfig,
	logger zerolog.Logger,
) *RefinementController {
	if config.MaxAttempts <= 0 || config.MaxAttempts > domain.MaxAttempts {
		config.MaxAttempts = domain.MaxAttempts
	}
	if config.MinProducts <= 0 {
		config.MinProducts = 3
	}
	if config.AttemptDelay < 0 {
		config.AttemptDelay = 0
	}
	if config.DiversityCap <= 0 {
		config.DiversityCap = defaultDiversityCap
	}
	if config.Display <= 0 {
		config.Display = 30
	}

	return &RefinementController{
		searcher: searcher,
		refiner:  refiner,
		config:   config,
		logger:   logger,
		sleep:    sleepContext,
	}
}

// Refine searches for an intent, trying each strategy in order until an attempt
// finds at least MinProducts distinct products.
//
// Flow:
//  1. Attempt 1 searches the synthesized query as is
//  2. Later attempts ask the refiner (or the rule table) for new keywords,
//     passing every keyword that already failed
//  3. Market research attempts merge rule-based market insights into the keywords
//  4. The first sufficient attempt ends the loop; otherwise the attempt with the
//     most products is returned
//
// Errors never escape: a failing attempt is recorded and the next strategy runs.
func (c *RefinementController) Refine(
	ctx context.Context,
	intent domain.GiftIntent,
	profile domain.RecipientProfile,
	budget domain.Budget,
	synthesized SynthesizedQuery,
) *RefinementOutcome {
	start := time.Now()
	session := &domain.RefinementSession{
		ID:               uuid.NewString(),
		IntentTitle:      intent.Title,
		OriginalKeywords: synthesized.Keywords,
		BestAttempt:      -1,
	}
	outcome := &RefinementOutcome{Session: session}
	logger := c.logger.With().Str("session_id", session.ID).Str("intent", intent.Title).Logger()

	bestCount := 0
	for n := 1; n <= c.config.MaxAttempts; n++ {
		attempt, products, provenance := c.runAttempt(ctx, n, intent, profile, budget, synthesized, session, logger)
		session.Attempts = append(session.Attempts, attempt)
		outcome.Provenance = domain.CombineProvenance(outcome.Provenance, provenance)

		if attempt.Success {
			session.BestAttempt = len(session.Attempts) - 1
			session.Success = true
			outcome.Products = products
			break
		}
		if attempt.ProductCount > bestCount {
			bestCount = attempt.ProductCount
			session.BestAttempt = len(session.Attempts) - 1
			outcome.Products = products
		}

		if n < c.config.MaxAttempts {
			if err := c.sleep(ctx, c.config.AttemptDelay); err != nil {
				logger.Warn().Err(err).Int("attempt", n).Msg("refinement interrupted")
				break
			}
		}
	}

	session.Duration = time.Since(start)

	event := logger.Info()
	if !session.Success {
		event = logger.Warn().Err(fmt.Errorf("%w after %d attempts", domain.ErrExhausted, len(session.Attempts)))
	}
	event.
		Int("attempts", len(session.Attempts)).
		Int("best_attempt", session.BestAttempt+1).
		Int("products", len(outcome.Products)).
		Bool("success", session.Success).
		Dur("duration", session.Duration).
		Msg("refinement session finished")

	return outcome
}

func (c *RefinementController) runAttempt(
	ctx context.Context,
	n int,
	intent domain.GiftIntent,
	profile domain.RecipientProfile,
	budget domain.Budget,
	synthesized SynthesizedQuery,
	session *domain.RefinementSession,
	logger zerolog.Logger,
) (domain.SearchAttempt, []domain.CatalogProduct, domain.Provenance) {
	strategy := domain.StrategyForAttempt(n)
	ctx, span := tracer.Start(ctx, "refinement.attempt")
	defer span.End()
	span.SetAttributes(
		attribute.Int("attempt", n),
		attribute.String("strategy", strategy.String()),
	)

	start := time.Now()
	attempt := domain.SearchAttempt{Number: n, Strategy: strategy}

	if n == 1 {
		attempt.Keywords = synthesized.Keywords
		attempt.Query = synthesized.Query
		attempt.RefinedBy = refinedBySynthesizer
	} else {
		refinement, refinedBy := c.refine(ctx, n, strategy, intent, profile, budget, session, logger)
		attempt.Keywords = refinement.Keywords
		attempt.Query = refinement.SearchQuery
		attempt.RefinedBy = refinedBy
	}

	if n >= 3 && strategy == domain.StrategyMarketResearch {
		insights := marketInsights(profile)
		attempt.Insights = &insights
		attempt.Keywords = mergeInsights(attempt.Keywords, insights)
		if len(insights.TrendingKeywords) > 0 && !strings.Contains(attempt.Query, insights.TrendingKeywords[0]) {
			attempt.Query = attempt.Query + " " + insights.TrendingKeywords[0]
		}
	}

	span.SetAttributes(attribute.String("query", attempt.Query))
	logger.Debug().
		Int("attempt", n).
		Str("strategy", strategy.String()).
		Strs("keywords", attempt.Keywords).
		Str("query", attempt.Query).
		Msg("searching")

	result, err := c.searcher.Search(ctx, domain.SearchRequest{
		Query:    attempt.Query,
		Keywords: attempt.Keywords,
		Budget:   budget,
		Display:  c.config.Display,
	})
	attempt.Duration = time.Since(start)
	if err != nil {
		attempt.FailureReason = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, "search failed")
		observability.RefinementAttemptsTotal.WithLabelValues(strategy.String(), "error").Inc()
		logger.Warn().Err(err).Int("attempt", n).Str("strategy", strategy.String()).Msg("search attempt failed")
		return attempt, nil, ""
	}

	products := NewDeduplicator(c.config.DiversityCap).Filter(result.Products)
	attempt.ProductCount = len(products)
	attempt.Provenance = result.Provenance
	attempt.Success = attempt.ProductCount >= c.config.MinProducts
	span.SetAttributes(attribute.Int("products", attempt.ProductCount))

	outcomeLabel := "success"
	if !attempt.Success {
		outcomeLabel = "insufficient"
		attempt.FailureReason = fmt.Sprintf("found %d products, need %d", attempt.ProductCount, c.config.MinProducts)
	}
	observability.RefinementAttemptsTotal.WithLabelValues(strategy.String(), outcomeLabel).Inc()

	logger.Info().
		Int("attempt", n).
		Str("strategy", strategy.String()).
		Str("query", attempt.Query).
		Int("products", attempt.ProductCount).
		Str("provenance", string(result.Provenance)).
		Msg("search attempt finished")

	return attempt, products, result.Provenance
}

// refine asks the keyword refiner for new keywords and falls back to the rule table
// when it is missing, fails, or returns nothing usable.
func (c *RefinementController) refine(
	ctx context.Context,
	n int,
	strategy domain.Strategy,
	intent domain.GiftIntent,
	profile domain.RecipientProfile,
	budget domain.Budget,
	session *domain.RefinementSession,
	logger zerolog.Logger,
) (*domain.Refinement, string) {
	failed := session.FailedKeywords()

	if c.refiner != nil {
		refinement, err := c.refiner.RefineKeywords(ctx, domain.RefinementRequest{
			Strategy:         strategy,
			Attempt:          n,
			MaxAttempts:      c.config.MaxAttempts,
			OriginalKeywords: session.OriginalKeywords,
			FailedKeywords:   failed,
			Intent:           intent,
			Profile:          profile,
			Budget:           budget,
		})
		switch {
		case err == nil && refinement != nil:
			if cleaned := cleanRefinement(refinement); cleaned != nil {
				return cleaned, refinedByLLM
			}
			logger.Warn().Int("attempt", n).Msg("refiner returned no keywords, using rules")
		case errors.Is(err, domain.ErrCollaboratorDisabled):
			logger.Debug().Int("attempt", n).Msg("refiner disabled, using rules")
		case err != nil:
			logger.Warn().Err(err).Int("attempt", n).Msg("keyword refinement failed, using rules")
		}
	}

	failedSet := make(map[string]bool, len(failed))
	for _, k := range failed {
		failedSet[k] = true
	}

	return ruleRefinement(strategy, strategyInput{
		original: session.OriginalKeywords,
		failed:   failedSet,
		intent:   intent,
		profile:  profile,
		budget:   budget,
	}), refinedByRules
}

// cleanRefinement trims the refiner's answer. A missing search query defaults to the first keyword.
func cleanRefinement(r *domain.Refinement) *domain.Refinement {
	var keywords []string
	for _, k := range r.Keywords {
		keywords = appendUnique(keywords, strings.TrimSpace(k))
	}
	if len(keywords) == 0 {
		return nil
	}
	if len(keywords) > maxMergedKeywords {
		keywords = keywords[:maxMergedKeywords]
	}

	query := strings.TrimSpace(r.SearchQuery)
	if query == "" {
		query = keywords[0]
	}
	return &domain.Refinement{Keywords: keywords, SearchQuery: query, Reasoning: r.Reasoning}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
