package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
	"github.com/giftgenie/backend/internal/textnorm"
)

// Heuristic score weights
const (
	weightPriceProximity = 0.3
	weightLexicalOverlap = 0.7
)

const (
	defaultMaxIntents      = 3
	defaultJudgeCandidates = 5
	defaultConfidenceBonus = 0.15
	defaultUSDToKRW        = 1300.0
	maxCorePhraseWords     = 6
)

var pricePrinter = message.NewPrinter(language.Korean)

// MatchConfig holds configuration for the matching service
type MatchConfig struct {
	MaxIntents      int
	JudgeCandidates int
	ConfidenceBonus float64
	EnableJudge     bool
	USDToKRW        float64
}

// MatchingService binds gift intents to catalog products
type MatchingService struct {
	judge           domain.MatchJudge
	maxIntents      int
	judgeCandidates int
	confidenceBonus float64
	enableJudge     bool
	usdToKRW        float64
	logger          zerolog.Logger
}

// MatchInput is everything one matching pass needs.
// Products must already be budget-filtered, deduplicated and quality-ranked.
type MatchInput struct {
	Intents    []domain.GiftIntent
	Products   []domain.CatalogProduct
	Budget     domain.Budget // KRW
	Provenance domain.Provenance
}

// NewMatchingService creates a new matching service with the given configuration.
// judge may be nil, in which case only the heuristic matcher runs.
func NewMatchingService(judge domain.MatchJudge, config MatchConfig, logger zerolog.Logger) *MatchingService {
	maxIntents := config.MaxIntents
	if maxIntents <= 0 {
		maxIntents = defaultMaxIntents
	}

	judgeCandidates := config.JudgeCandidates
	if judgeCandidates <= 0 {
		judgeCandidates = defaultJudgeCandidates
	}

	bonus := config.ConfidenceBonus
	if bonus <= 0 {
		bonus = defaultConfidenceBonus
	}

	rate := config.USDToKRW
	if rate <= 0 {
		rate = defaultUSDToKRW
	}

	return &MatchingService{
		judge:           judge,
		maxIntents:      maxIntents,
		judgeCandidates: judgeCandidates,
		confidenceBonus: bonus,
		enableJudge:     config.EnableJudge && judge != nil,
		usdToKRW:        rate,
		logger:          logger,
	}
}

// MatchAll binds each intent to at most one unconsumed product, preserving intent order.
// No product link is bound twice. Intents beyond the configured cap are dropped.
func (s *MatchingService) MatchAll(ctx context.Context, in MatchInput) ([]domain.MatchedRecommendation, error) {
	intents := in.Intents
	if len(intents) > s.maxIntents {
		intents = intents[:s.maxIntents]
	}

	consumed := make(map[string]bool)
	results := make([]domain.MatchedRecommendation, 0, len(intents))

	for i, intent := range intents {
		candidates := unconsumed(in.Products, consumed, func(p domain.CatalogProduct) bool {
			return p.IntentIndex == i
		})
		if len(candidates) == 0 {
			candidates = unconsumed(in.Products, consumed, nil)
		}

		product, method := s.bind(ctx, intent, candidates, in.Budget)
		observability.MatchesTotal.WithLabelValues(string(method)).Inc()

		if product == nil {
			s.logger.Info().
				Str("intent", intent.Title).
				Int("candidates", len(candidates)).
				Str("method", string(method)).
				Msg("intent left unmatched")
			results = append(results, s.unmatched(intent, in.Budget, method, in.Provenance))
			continue
		}

		consumed[consumedKey(*product)] = true
		if product.Link != "" {
			consumed["link:"+product.Link] = true
		}

		s.logger.Info().
			Str("intent", intent.Title).
			Str("product", product.Title).
			Int64("price", product.Price).
			Str("method", string(method)).
			Msg("intent matched")
		results = append(results, s.merge(intent, *product, method))
	}

	return results, nil
}

// bind picks a product for one intent. A nil product means unmatched.
func (s *MatchingService) bind(
	ctx context.Context,
	intent domain.GiftIntent,
	candidates []domain.CatalogProduct,
	budget domain.Budget,
) (*domain.CatalogProduct, domain.MatchMethod) {
	if len(candidates) == 0 {
		return nil, domain.MatchMethodNone
	}

	if s.enableJudge {
		top := candidates
		if len(top) > s.judgeCandidates {
			top = top[:s.judgeCandidates]
		}

		index, none, err := s.askJudge(ctx, intent, top, budget)
		switch {
		case err != nil:
			s.logger.Warn().Err(err).Str("intent", intent.Title).Msg("judge unusable, falling back to heuristic")
		case none:
			return nil, domain.MatchMethodNone
		default:
			return &top[index], domain.MatchMethodJudge
		}
	}

	return s.heuristicMatch(intent, candidates, budget), domain.MatchMethodHeuristic
}

func (s *MatchingService) askJudge(
	ctx context.Context,
	intent domain.GiftIntent,
	candidates []domain.CatalogProduct,
	budget domain.Budget,
) (int, bool, error) {
	ctx, span := tracer.Start(ctx, "matcher.judge")
	defer span.End()
	span.SetAttributes(attribute.Int("candidates", len(candidates)))

	reply, err := s.judge.Judge(ctx, domain.JudgeRequest{
		Intent:     intent,
		Candidates: candidates,
		Budget:     budget,
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "judge call failed")
		return 0, false, err
	}

	index, none, err := ParseJudgeReply(reply, len(candidates))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "invalid judge reply")
		return 0, false, err
	}

	s.logger.Debug().Str("intent", intent.Title).Str("reply", reply).Msg("judge replied")
	return index, none, nil
}

// ParseJudgeReply interprets a judge reply for n candidates.
// It returns a 0-based index, or none=true for an explicit "NONE".
// Anything else is a *domain.ValidationError.
func ParseJudgeReply(reply string, n int) (index int, none bool, err error) {
	cleaned := strings.TrimSpace(reply)
	cleaned = strings.Trim(cleaned, "\"'`.#[]() \t\n")

	switch strings.ToLower(cleaned) {
	case "none", "없음":
		return 0, true, nil
	case "":
		return 0, false, &domain.ValidationError{Reply: reply, Reason: "empty reply"}
	}

	choice, convErr := strconv.Atoi(cleaned)
	if convErr != nil {
		return 0, false, &domain.ValidationError{Reply: reply, Reason: "not a candidate number"}
	}
	if choice < 1 || choice > n {
		return 0, false, &domain.ValidationError{Reply: reply, Reason: fmt.Sprintf("candidate %d out of range 1..%d", choice, n)}
	}
	return choice - 1, false, nil
}

// heuristicMatch returns the highest scoring candidate.
// Ties go to the earlier candidate, which is the higher quality one.
func (s *MatchingService) heuristicMatch(
	intent domain.GiftIntent,
	candidates []domain.CatalogProduct,
	budget domain.Budget,
) *domain.CatalogProduct {
	target := s.targetPriceKRW(intent, budget)

	best := -1
	highestScore := -1.0
	for i, p := range candidates {
		proximity := priceProximity(target, p.Price)
		overlap := lexicalOverlap(intent.Title, p.Title)
		score := weightPriceProximity*proximity + weightLexicalOverlap*overlap

		s.logger.Debug().
			Str("intent", intent.Title).
			Str("candidate", p.Title).
			Float64("proximity", proximity).
			Float64("overlap", overlap).
			Float64("score", score).
			Msg("heuristic candidate")

		if score > highestScore {
			highestScore = score
			best = i
		}
	}

	if best < 0 {
		return nil
	}
	return &candidates[best]
}

// targetPriceKRW is the intent's price in KRW, or the budget midpoint when unknown.
func (s *MatchingService) targetPriceKRW(intent domain.GiftIntent, budget domain.Budget) int64 {
	if intent.TargetPrice <= 0 {
		return (budget.EffectiveMin() + budget.Max) / 2
	}
	return domain.ConvertToKRW(intent.TargetPrice, intent.Currency, s.usdToKRW)
}

// priceProximity is 1 at the target price and falls linearly to 0 once the price is off by the whole target.
func priceProximity(target, price int64) float64 {
	if target <= 0 {
		return 0
	}
	diff := price - target
	if diff < 0 {
		diff = -diff
	}
	return clamp01(1 - float64(diff)/float64(target))
}

// merge produces the bound recommendation. The intent's narrative is extended with catalog facts.
func (s *MatchingService) merge(intent domain.GiftIntent, p domain.CatalogProduct, method domain.MatchMethod) domain.MatchedRecommendation {
	product := p
	return domain.MatchedRecommendation{
		Intent:       intent,
		Title:        blendTitle(intent.Title, p.Title),
		Description:  extendDescription(intent.Description, p),
		Category:     intent.Category,
		Reasoning:    extendReasoning(intent.Reasoning, method),
		Price:        p.Price,
		Currency:     domain.CurrencyKRW,
		PurchaseLink: p.Link,
		ImageURL:     p.ImageURL,
		Confidence:   min(intent.Confidence+s.confidenceBonus, 1.0),
		Product:      &product,
		MatchMethod:  method,
		Provenance:   p.Provenance,
	}
}

func (s *MatchingService) unmatched(
	intent domain.GiftIntent,
	budget domain.Budget,
	method domain.MatchMethod,
	provenance domain.Provenance,
) domain.MatchedRecommendation {
	return domain.MatchedRecommendation{
		Intent:      intent,
		Title:       intent.Title,
		Description: intent.Description,
		Category:    intent.Category,
		Reasoning:   intent.Reasoning,
		Price:       s.targetPriceKRW(intent, budget),
		Currency:    domain.CurrencyKRW,
		Confidence:  intent.Confidence,
		MatchMethod: method,
		Provenance:  provenance,
	}
}

// blendTitle puts the intent's modifiers in front of the product's core noun phrase.
// Marketing words in the product title are dropped rather than repeated.
func blendTitle(intentTitle, productTitle string) string {
	var modifiers []string
	for _, tok := range tokenize(intentTitle) {
		if e, ok := giftLexicon[tok]; ok && e.kind == termModifier {
			modifiers = appendUnique(modifiers, tok)
		}
	}

	var phrase []string
	for _, word := range strings.Fields(textnorm.StripMarkup(productTitle)) {
		clean := textnorm.StripPunctuation(word)
		if clean == "" {
			continue
		}
		key := textnorm.Normalize(clean)
		if signatureStopWords[key] || quantityRegex.MatchString(key) {
			continue
		}
		if e, ok := giftLexicon[key]; ok && e.kind != termCore {
			continue
		}
		phrase = appendUnique(phrase, clean)
		if len(phrase) == maxCorePhraseWords {
			break
		}
	}

	if len(phrase) == 0 {
		return textnorm.StripMarkup(productTitle)
	}
	return strings.Join(append(modifiers, phrase...), " ")
}

func extendDescription(description string, p domain.CatalogProduct) string {
	facts := []string{pricePrinter.Sprintf("최저가 %d원", p.Price)}
	if p.Seller != "" {
		facts = append(facts, "판매처 "+p.Seller)
	}
	if p.Brand != "" {
		facts = append(facts, "브랜드 "+p.Brand)
	}
	line := strings.Join(facts, " · ")

	if strings.TrimSpace(description) == "" {
		return line
	}
	return description + "\n\n" + line
}

func extendReasoning(reasoning string, method domain.MatchMethod) string {
	note := fmt.Sprintf("실제 구매 가능한 상품으로 확인되었습니다 (매칭: %s).", method)
	if strings.TrimSpace(reasoning) == "" {
		return note
	}
	return reasoning + " " + note
}

// unconsumed returns candidates not yet bound, optionally restricted by keep.
func unconsumed(products []domain.CatalogProduct, consumed map[string]bool, keep func(domain.CatalogProduct) bool) []domain.CatalogProduct {
	var out []domain.CatalogProduct
	for _, p := range products {
		if keep != nil && !keep(p) {
			continue
		}
		if consumed[consumedKey(p)] || (p.Link != "" && consumed["link:"+p.Link]) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func consumedKey(p domain.CatalogProduct) string {
	if key := productKey(p); key != "" {
		return key
	}
	return "sig:" + p.Signature
}
