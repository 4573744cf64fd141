package usecase

import (
	"strings"

	"github.com/giftgenie/backend/internal/domain"
)

const (
	maxSuggestedProducts = 3
	maxTrendingKeywords  = 4
	maxMergedKeywords    = 5
)

// ageBasedProducts lists popular gift products per age bracket.
var ageBasedProducts = map[string][]string{
	"teens":    {"학용품", "게임", "K-POP 굿즈", "스마트폰 액세서리"},
	"twenties": {"무선이어폰", "노트북", "커피", "패션악세서리"},
	"thirties": {"스마트워치", "화장품", "마사지기", "홍차"},
	"forties":  {"건강식품", "골프용품", "고급차", "블루투스스피커"},
	"seniors":  {"건강기능식품", "전통차", "산책용품", "마사지의자"},
}

var (
	baseTrendingKeywords   = []string{"인기", "추천", "베스트"}
	femaleTrendingKeywords = []string{"예쁜", "감성적", "여성용"}
	maleTrendingKeywords   = []string{"실용적", "기능성", "남성용"}
)

// ageGroup buckets an age. Unknown ages count as twenties.
func ageGroup(age int) string {
	switch {
	case age <= 0:
		return "twenties"
	case age < 20:
		return "teens"
	case age < 30:
		return "twenties"
	case age < 40:
		return "thirties"
	case age < 50:
		return "forties"
	}
	return "seniors"
}

// genderOf maps free-form gender input to "female", "male" or "".
func genderOf(gender string) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "여성", "여자", "female", "woman", "f":
		return "female"
	case "남성", "남자", "male", "man", "m":
		return "male"
	}
	return ""
}

// marketInsights is the rule-based market research table lookup.
func marketInsights(profile domain.RecipientProfile) domain.MarketInsights {
	group := ageGroup(profile.Age)

	suggested := ageBasedProducts[group]
	if len(suggested) > maxSuggestedProducts {
		suggested = suggested[:maxSuggestedProducts]
	}

	trending := append([]string(nil), baseTrendingKeywords...)
	switch genderOf(profile.Gender) {
	case "female":
		trending = append(trending, femaleTrendingKeywords...)
	case "male":
		trending = append(trending, maleTrendingKeywords...)
	}
	if len(trending) > maxTrendingKeywords {
		trending = trending[:maxTrendingKeywords]
	}

	return domain.MarketInsights{
		AgeGroup:          group,
		SuggestedProducts: append([]string(nil), suggested...),
		TrendingKeywords:  trending,
	}
}

// mergeInsights adds up to two suggested products and one trending keyword,
// capping the keyword set at five.
func mergeInsights(keywords []string, insights domain.MarketInsights) []string {
	merged := append([]string(nil), keywords...)

	for i, product := range insights.SuggestedProducts {
		if i == 2 {
			break
		}
		merged = appendUnique(merged, product)
	}

	if len(insights.TrendingKeywords) > 0 && len(merged) < maxMergedKeywords {
		merged = appendUnique(merged, insights.TrendingKeywords[0])
	}

	if len(merged) > maxMergedKeywords {
		merged = merged[:maxMergedKeywords]
	}
	return merged
}
