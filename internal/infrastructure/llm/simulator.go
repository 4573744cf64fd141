package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/giftgenie/backend/internal/domain"
)

// SimulatedGenerator produces fixed gift ideas from the profile when no model is configured.
// It never fails and always returns three intents.
type SimulatedGenerator struct{}

// NewSimulatedGenerator creates a new simulated generator
func NewSimulatedGenerator() *SimulatedGenerator {
	return &SimulatedGenerator{}
}

// GenerateIntents derives intents from interests, relationship and occasion.
func (s *SimulatedGenerator) GenerateIntents(
	_ context.Context,
	profile domain.RecipientProfile,
	budget domain.Budget,
) ([]domain.GiftIntent, error) {
	currency := currencyOf(budget)

	interest := "특별한"
	if len(profile.Interests) > 0 && strings.TrimSpace(profile.Interests[0]) != "" {
		interest = strings.TrimSpace(profile.Interests[0])
	}
	relationship := profile.Relationship
	if relationship == "" {
		relationship = "소중한 분"
	}
	occasion := profile.Occasion
	if occasion == "" {
		occasion = "기념일"
	}

	return []domain.GiftIntent{
		{
			Title:       interest + " 프리미엄 선물",
			Category:    "프리미엄 선물",
			Description: fmt.Sprintf("%s을 위한 고품질 소재와 세련된 디자인의 선물입니다.", occasion),
			Reasoning:   fmt.Sprintf("받는 분의 관심사(%s)를 고려한 제품입니다.", interest),
			TargetPrice: priceWithin(budget, 9),
			Currency:    currency,
			Confidence:  0.85,
		},
		{
			Title:       relationship + "에게 드리는 베스트셀러 아이템",
			Category:    "인기 상품",
			Description: fmt.Sprintf("많은 사람들이 선택한 인기 상품으로 %s에 의미있는 선물입니다.", occasion),
			Reasoning:   fmt.Sprintf("%s 관계에서 가장 인기있는 선물 카테고리 중 하나입니다.", relationship),
			TargetPrice: priceWithin(budget, 7),
			Currency:    currency,
			Confidence:  0.78,
		},
		{
			Title:       "한정 에디션 선물세트",
			Category:    "한정 상품",
			Description: fmt.Sprintf("%s을 위한 한정판 선물세트입니다.", occasion),
			Reasoning:   "한정 에디션 제품은 희소성이 있어 기억에 남는 선물이 됩니다.",
			TargetPrice: priceWithin(budget, 8),
			Currency:    currency,
			Confidence:  0.82,
		},
	}, nil
}

// priceWithin returns tenths/10 of the budget max, raised to the budget min.
func priceWithin(budget domain.Budget, tenths int64) int64 {
	return max(budget.Max*tenths/10, budget.Min)
}
