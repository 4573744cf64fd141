package usecase

import (
	"github.com/giftgenie/backend/internal/domain"
)

const maxRefinedKeywords = 4

// budgetAlternatives lists safe substitute gifts per budget ceiling (KRW).
var budgetAlternatives = []struct {
	ceiling int64
	terms   []string
}{
	{ceiling: 30000, terms: []string{"핸드크림", "캔들", "머그컵"}},
	{ceiling: 100000, terms: []string{"텀블러", "디퓨저", "무선충전기"}},
	{ceiling: 300000, terms: []string{"무선이어폰", "스마트워치", "향수"}},
	{ceiling: 0, terms: []string{"선물세트", "블루투스스피커", "마사지기"}},
}

// strategyInput is what a rule-based transform may look at
type strategyInput struct {
	original []string
	failed   map[string]bool
	intent   domain.GiftIntent
	profile  domain.RecipientProfile
	budget   domain.Budget
}

// strategyTransforms binds every strategy to its rule-based keyword transform.
// Indexed by domain.Strategy; the array length forces an entry per strategy.
var strategyTransforms = [len(domain.Strategies) + 1]func(strategyInput) []string{
	domain.StrategySynonymExpansion:      expandSynonyms,
	domain.StrategyCategoryBroadening:    broadenCategory,
	domain.StrategyMarketResearch:        keepHeadTerm,
	domain.StrategyDemographicAdaptation: adaptToRecipient,
	domain.StrategyBudgetAlternative:     budgetAlternative,
}

// ruleRefinement rewrites keywords without a language model.
// The search query is the first keyword.
func ruleRefinement(strategy domain.Strategy, in strategyInput) *domain.Refinement {
	var transform func(strategyInput) []string
	if int(strategy) < len(strategyTransforms) {
		transform = strategyTransforms[strategy]
	}
	if transform == nil {
		transform = keepHeadTerm
	}

	keywords := transform(in)
	if len(keywords) == 0 {
		keywords = []string{"선물세트"}
	}
	if len(keywords) > maxRefinedKeywords {
		keywords = keywords[:maxRefinedKeywords]
	}

	return &domain.Refinement{
		Keywords:    keywords,
		SearchQuery: keywords[0],
		Reasoning:   "rule-based " + strategy.String(),
	}
}

// fresh drops terms that already failed.
func (in strategyInput) fresh(terms ...string) []string {
	var out []string
	for _, t := range terms {
		if !in.failed[t] {
			out = appendUnique(out, t)
		}
	}
	return out
}

func expandSynonyms(in strategyInput) []string {
	var out []string
	for _, kw := range in.original {
		out = appendUnique(out, in.fresh(relatedTerms[kw]...)...)
	}
	out = appendUnique(out, in.fresh(in.original...)...)
	return out
}

func broadenCategory(in strategyInput) []string {
	var out []string
	for _, kw := range in.original {
		if parent, ok := parentCategory[kw]; ok {
			out = appendUnique(out, in.fresh(parent)...)
		}
	}
	out = appendUnique(out, in.fresh(mapCategory(in.intent.Category))...)
	if len(out) == 0 {
		out = in.fresh("선물세트", "생활용품")
	}
	return out
}

// keepHeadTerm keeps the leading keyword; market research adds the rest.
func keepHeadTerm(in strategyInput) []string {
	if len(in.original) == 0 {
		return nil
	}
	return []string{in.original[0]}
}

func adaptToRecipient(in strategyInput) []string {
	var out []string
	if len(in.original) > 0 {
		out = append(out, in.original[0])
	}

	switch genderOf(in.profile.Gender) {
	case "female":
		out = appendUnique(out, "여성용")
	case "male":
		out = appendUnique(out, "남성용")
	}

	for _, interest := range in.profile.Interests {
		out = appendUnique(out, in.fresh(mapInterest(interest))...)
	}

	out = appendUnique(out, in.fresh(ageBasedProducts[ageGroup(in.profile.Age)]...)...)
	return out
}

func budgetAlternative(in strategyInput) []string {
	for _, b := range budgetAlternatives {
		if b.ceiling == 0 || in.budget.Max <= b.ceiling {
			if out := in.fresh(b.terms...); len(out) > 0 {
				return out
			}
			return b.terms
		}
	}
	return nil
}
