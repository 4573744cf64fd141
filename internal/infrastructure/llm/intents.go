package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/giftgenie/backend/internal/domain"
)

// MaxIntents is the number of gift ideas requested per profile.
const MaxIntents = 5

const (
	defaultIntentConfidence = 0.5
	intentMaxTokens         = 2000
)

const intentSystemPrompt = "당신은 개인화된 추천을 전문으로 하는 선물 컨설턴트입니다. 모든 응답은 한글로 작성해주세요."

var printer = message.NewPrinter(language.Korean)

// IntentGenerator asks the language model for abstract gift ideas
type IntentGenerator struct {
	client *Client
	logger zerolog.Logger
}

type intentResponse struct {
	Recommendations []intentItem `json:"recommendations"`
}

type intentItem struct {
	Title           string      `json:"title"`
	Description     string      `json:"description"`
	Category        string      `json:"category"`
	EstimatedPrice  json.Number `json:"estimated_price"`
	Reasoning       string      `json:"reasoning"`
	ConfidenceScore *float64    `json:"confidence_score"`
}

// NewIntentGenerator creates a new intent generator. A nil client disables it.
func NewIntentGenerator(client *Client, logger zerolog.Logger) *IntentGenerator {
	return &IntentGenerator{client: client, logger: logger}
}

// GenerateIntents returns up to MaxIntents gift ideas priced in the budget currency.
func (g *IntentGenerator) GenerateIntents(
	ctx context.Context,
	profile domain.RecipientProfile,
	budget domain.Budget,
) ([]domain.GiftIntent, error) {
	if g.client == nil {
		return nil, domain.ErrCollaboratorDisabled
	}

	reply, err := g.client.Complete(ctx, Request{
		Operation: "intents",
		System:    intentSystemPrompt,
		Prompt:    buildIntentPrompt(profile, budget),
		MaxTokens: intentMaxTokens,
		JSON:      true,
	})
	if err != nil {
		return nil, err
	}

	intents, err := parseIntents(reply, currencyOf(budget))
	if err != nil {
		return nil, err
	}

	g.logger.Info().Int("intents", len(intents)).Msg("generated gift intents")
	return intents, nil
}

// parseIntents decodes the strict recommendations schema.
// Items without a title are skipped; a missing confidence defaults to 0.5.
func parseIntents(reply, currency string) ([]domain.GiftIntent, error) {
	var resp intentResponse
	if err := json.Unmarshal([]byte(extractJSON(reply)), &resp); err != nil {
		return nil, fmt.Errorf("%w: intent reply: %v", domain.ErrParse, err)
	}

	var intents []domain.GiftIntent
	for _, item := range resp.Recommendations {
		title := strings.TrimSpace(item.Title)
		if title == "" {
			continue
		}

		confidence := defaultIntentConfidence
		if item.ConfidenceScore != nil {
			confidence = min(max(*item.ConfidenceScore, 0), 1)
		}

		var price int64
		if f, err := item.EstimatedPrice.Float64(); err == nil && f > 0 {
			price = int64(f)
		}

		intents = append(intents, domain.GiftIntent{
			Title:       title,
			Category:    strings.TrimSpace(item.Category),
			Description: strings.TrimSpace(item.Description),
			Reasoning:   strings.TrimSpace(item.Reasoning),
			TargetPrice: price,
			Currency:    currency,
			Confidence:  confidence,
		})
		if len(intents) == MaxIntents {
			break
		}
	}

	if len(intents) == 0 {
		return nil, fmt.Errorf("%w: reply holds no usable recommendations", domain.ErrParse)
	}
	return intents, nil
}

func buildIntentPrompt(profile domain.RecipientProfile, budget domain.Budget) string {
	var b strings.Builder
	currency := currencyOf(budget)

	fmt.Fprintf(&b, "다음 정보를 바탕으로 %d개의 선물 추천을 생성해주세요.\n\n", MaxIntents)
	b.WriteString("받는 사람 프로필:\n")
	fmt.Fprintf(&b, "- 나이: %s\n", ageText(profile.Age))
	fmt.Fprintf(&b, "- 성별: %s\n", orUnknown(profile.Gender))
	fmt.Fprintf(&b, "- 관계: %s\n", orUnknown(profile.Relationship))
	fmt.Fprintf(&b, "- 관심사: %s\n", orUnknown(strings.Join(profile.Interests, ", ")))
	b.WriteString("\n행사 및 예산:\n")
	fmt.Fprintf(&b, "- 행사: %s\n", orUnknown(profile.Occasion))
	fmt.Fprintf(&b, "- 예산 범위: %s - %s\n", formatAmount(budget.Min, currency), formatAmount(budget.Max, currency))
	if profile.PersonalStyle != "" {
		fmt.Fprintf(&b, "- 선호 스타일: %s\n", profile.PersonalStyle)
	}
	if len(profile.Restrictions) > 0 {
		fmt.Fprintf(&b, "- 반드시 피할 것: %s\n", strings.Join(profile.Restrictions, ", "))
	}

	b.WriteString("\n다음 JSON 형식으로만 응답해주세요:\n")
	b.WriteString(`{"recommendations":[{"title":"선물 이름","description":"2-3문장 설명","category":"카테고리",`)
	fmt.Fprintf(&b, `"estimated_price":%s 기준 정수,"reasoning":"프로필에 맞는 이유","confidence_score":0.0-1.0}]}`, currency)
	b.WriteString("\n\n중점 사항:\n")
	b.WriteString("1. 관심사와 관계를 바탕으로 한 개인화\n")
	b.WriteString("2. 행사와 예산에 적합함\n")
	b.WriteString("3. 쇼핑몰에서 실제로 검색 가능한 구체적인 상품명\n")

	return b.String()
}

func currencyOf(budget domain.Budget) string {
	if budget.Currency == domain.CurrencyUSD {
		return domain.CurrencyUSD
	}
	return domain.CurrencyKRW
}

// formatAmount renders a price with thousands separators.
func formatAmount(amount int64, currency string) string {
	if currency == domain.CurrencyUSD {
		return printer.Sprintf("$%d", amount)
	}
	return printer.Sprintf("%d원", amount)
}

func ageText(age int) string {
	if age <= 0 {
		return "알 수 없음"
	}
	return fmt.Sprintf("%d세", age)
}

func orUnknown(s string) string {
	if strings.TrimSpace(s) == "" {
		return "알 수 없음"
	}
	return s
}
