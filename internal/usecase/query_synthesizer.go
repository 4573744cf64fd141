package usecase

import (
	"strings"

	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/textnorm"
)

const (
	maxSynthesizedKeywords = 4
	maxInterestTerms       = 2
	fallbackQuery          = "선물"
)

// SynthesizedQuery is the canonical search input derived from one intent
type SynthesizedQuery struct {
	Keywords  []string // ordered, at most 4
	Query     string   // single search term
	CoreTerms []string
	Modifiers []string
}

// QuerySynthesizer turns a gift intent into canonical catalog search keywords.
type QuerySynthesizer struct {
	logger zerolog.Logger
}

// NewQuerySynthesizer creates a new query synthesizer
func NewQuerySynthesizer(logger zerolog.Logger) *QuerySynthesizer {
	return &QuerySynthesizer{logger: logger}
}

// Synthesize builds the keyword list and the single-term search query for an intent.
//
// Keyword order:
//  1. Core product nouns from the title (canonicalized)
//  2. Unknown title tokens of two or more characters, kept verbatim
//  3. The mapped intent category
//  4. Up to two mapped recipient interests
//  5. Modifiers such as "프리미엄" or "무선"
//
// The query is a single term so the external index is not over-constrained.
func (s *QuerySynthesizer) Synthesize(intent domain.GiftIntent, interests []string) SynthesizedQuery {
	var cores, plain, modifiers []string

	for _, tok := range tokenize(intent.Title) {
		entry, known := giftLexicon[tok]
		switch {
		case known && entry.kind == termCore:
			cores = appendUnique(cores, entry.canonical)
		case known && entry.kind == termModifier:
			modifiers = appendUnique(modifiers, entry.canonical)
		case !known && textnorm.RuneLen(tok) >= 2:
			plain = appendUnique(plain, tok)
		}
	}

	categoryTerm := mapCategory(intent.Category)

	var interestTerms []string
	for _, interest := range interests {
		if len(interestTerms) == maxInterestTerms {
			break
		}
		interestTerms = appendUnique(interestTerms, mapInterest(interest))
	}

	var keywords []string
	keywords = appendUnique(keywords, cores...)
	keywords = appendUnique(keywords, plain...)
	keywords = appendUnique(keywords, categoryTerm)
	keywords = appendUnique(keywords, interestTerms...)
	keywords = appendUnique(keywords, modifiers...)
	if len(keywords) > maxSynthesizedKeywords {
		keywords = keywords[:maxSynthesizedKeywords]
	}

	query := chooseQuery(cores, plain, categoryTerm, interestTerms, modifiers)

	s.logger.Debug().
		Str("title", intent.Title).
		Strs("keywords", keywords).
		Str("query", query).
		Msg("synthesized search query")

	return SynthesizedQuery{
		Keywords:  keywords,
		Query:     query,
		CoreTerms: cores,
		Modifiers: modifiers,
	}
}

// chooseQuery picks the most distinctive single term.
// Korean noun phrases are head-final, so the last core noun in the title is the product itself.
func chooseQuery(cores, plain []string, category string, interests, modifiers []string) string {
	if len(cores) > 0 {
		return cores[len(cores)-1]
	}
	if len(plain) > 0 {
		longest := plain[0]
		for _, p := range plain[1:] {
			if textnorm.RuneLen(p) > textnorm.RuneLen(longest) {
				longest = p
			}
		}
		return longest
	}
	if category != "" {
		return category
	}
	if len(interests) > 0 {
		return interests[0]
	}
	if len(modifiers) > 0 {
		return modifiers[0]
	}
	return fallbackQuery
}

// mapCategory returns the catalog search term for an intent category, or "".
func mapCategory(category string) string {
	category = strings.TrimSpace(category)
	if category == "" {
		return ""
	}
	if term, ok := categoryMapping[category]; ok {
		return term
	}
	if entry, ok := giftLexicon[textnorm.Normalize(category)]; ok && entry.kind == termCore {
		return entry.canonical
	}
	return ""
}

// mapInterest returns the catalog search term for a recipient interest.
func mapInterest(interest string) string {
	interest = strings.TrimSpace(interest)
	if term, ok := interestMapping[interest]; ok {
		return term
	}
	normalized := textnorm.Normalize(interest)
	if entry, ok := giftLexicon[normalized]; ok {
		if entry.kind == termCore {
			return entry.canonical
		}
		return ""
	}
	if textnorm.RuneLen(normalized) >= 2 {
		return normalized
	}
	return ""
}
