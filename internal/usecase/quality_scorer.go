package usecase

import (
	"sort"
	"strings"
	"unicode"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/textnorm"
)

// Composite score weights
const (
	weightBrand  = 0.4
	weightSeller = 0.3
	weightTitle  = 0.2
	weightPrice  = 0.1
)

// Tier scores shared by brand and seller trust
const (
	tierPremium    = 1.0
	tierTrusted    = 0.8
	tierRecognized = 0.6
	tierAlphabetic = 0.5
	tierUnknown    = 0.3
)

// Title quality adjustments
const (
	titleBase        = 0.5
	titleBoostStep   = 0.1
	titleBoostCap    = 0.3
	titlePenaltyStep = 0.2
	titlePenaltyCap  = 0.4
)

const defaultRelevanceBonus = 0.05

// QualityScorer computes the composite trust score of catalog products.
type QualityScorer struct {
	relevanceBonus float64
}

// NewQualityScorer creates a scorer. relevanceBonus is added to items found by the relevance sort.
func NewQualityScorer(relevanceBonus float64) *QualityScorer {
	if relevanceBonus <= 0 {
		relevanceBonus = defaultRelevanceBonus
	}
	return &QualityScorer{relevanceBonus: relevanceBonus}
}

// Score returns the sub-scores and the composite score, which is always in [0,1].
func (s *QualityScorer) Score(p domain.CatalogProduct) (domain.QualityBreakdown, float64) {
	brand := p.Brand
	if strings.TrimSpace(brand) == "" {
		brand = p.Maker
	}

	q := domain.QualityBreakdown{
		BrandTrust:          brandTrust(brand),
		SellerTrust:         sellerTrust(p.Seller),
		TitleQuality:        titleQuality(p.Title),
		PriceReasonableness: priceReasonableness(p.Price),
	}
	if p.SearchMethod == domain.SortRelevance {
		q.RelevanceBonus = s.relevanceBonus
	}

	score := weightBrand*q.BrandTrust +
		weightSeller*q.SellerTrust +
		weightTitle*q.TitleQuality +
		weightPrice*q.PriceReasonableness +
		q.RelevanceBonus

	return q, clamp01(score)
}

// Apply scores every product in place.
func (s *QualityScorer) Apply(products []domain.CatalogProduct) {
	for i := range products {
		products[i].Quality, products[i].QualityScore = s.Score(products[i])
	}
}

// Rank sorts products by descending quality score. Equal scores keep their order.
func (s *QualityScorer) Rank(products []domain.CatalogProduct) {
	sort.SliceStable(products, func(i, j int) bool {
		return products[i].QualityScore > products[j].QualityScore
	})
}

func brandTrust(brand string) float64 {
	key := textnorm.CollapseSpaces(textnorm.Normalize(brand))
	switch {
	case key == "":
		return tierUnknown
	case premiumBrands[key]:
		return tierPremium
	case trustedBrands[key]:
		return tierTrusted
	case recognizedBrands[key]:
		return tierRecognized
	case hasLetter(key):
		return tierAlphabetic
	}
	return tierUnknown
}

func sellerTrust(seller string) float64 {
	key := textnorm.CollapseSpaces(textnorm.Normalize(seller))
	switch {
	case key == "":
		return tierUnknown
	case premiumSellers[key]:
		return tierPremium
	case trustedSellers[key]:
		return tierTrusted
	case strings.Contains(key, "공식") || strings.Contains(key, "official"):
		return tierTrusted
	case recognizedSellers[key]:
		return tierRecognized
	case hasLetter(key):
		return tierAlphabetic
	}
	return tierUnknown
}

// titleQuality rewards authenticity markers and natural length, penalizes
// secondhand, damaged and custom-order listings.
func titleQuality(title string) float64 {
	normalized := textnorm.Normalize(title)
	score := titleBase

	score += min(float64(countMarkers(normalized, titleBoostMarkers))*titleBoostStep, titleBoostCap)
	score -= min(float64(countMarkers(normalized, titlePenaltyMarkers))*titlePenaltyStep, titlePenaltyCap)

	switch n := textnorm.RuneLen(title); {
	case n < 6:
		score -= 0.2
	case n >= 10 && n <= 50:
		score += 0.1
	case n > 80:
		score -= 0.1
	}

	return clamp01(score)
}

// priceReasonableness scores a KRW price by bracket.
func priceReasonableness(price int64) float64 {
	switch {
	case price < 10000:
		return 0.3
	case price < 30000:
		return 0.8
	case price < 300000:
		return 0.9
	case price < 1000000:
		return 0.8
	}
	return 0.5
}

func hasLetter(s string) bool {
	for _, r := range s {
		if unicode.IsLetter(r) {
			return true
		}
	}
	return false
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
