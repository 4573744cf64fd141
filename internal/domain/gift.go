package domain

import (
	"fmt"
	"math"
)

// Supported currencies. Catalog prices are always KRW.
const (
	CurrencyKRW = "KRW"
	CurrencyUSD = "USD"
)

// GiftIntent is an abstract gift idea produced by the language-generation
// service before it is grounded in a catalog item. It is never mutated after creation.
type GiftIntent struct {
	Title       string  `json:"title" binding:"required"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Reasoning   string  `json:"reasoning"`
	TargetPrice int64   `json:"targetPrice"`
	Currency    string  `json:"currency,omitempty"` // defaults to the budget currency
	Confidence  float64 `json:"confidence"`
}

// Budget is the price range a recommendation must fall into.
type Budget struct {
	Min      int64  `json:"min"`
	Max      int64  `json:"max" binding:"required"`
	Currency string `json:"currency,omitempty"` // "KRW" (default) or "USD"
}

// Validate checks that the budget range is usable
func (b Budget) Validate() error {
	if b.Max <= 0 {
		return fmt.Errorf("%w: budget max must be positive", ErrInvalidRequest)
	}
	if b.Min < 0 || b.Min > b.Max {
		return fmt.Errorf("%w: budget min must be between 0 and max", ErrInvalidRequest)
	}
	switch b.Currency {
	case "", CurrencyKRW, CurrencyUSD:
		return nil
	default:
		return fmt.Errorf("%w: unsupported currency %q", ErrInvalidRequest, b.Currency)
	}
}

// InKRW returns the budget converted to KRW using the given USD rate.
func (b Budget) InKRW(usdToKRW float64) Budget {
	if b.Currency != CurrencyUSD {
		b.Currency = CurrencyKRW
		return b
	}
	return Budget{
		Min:      ConvertToKRW(b.Min, CurrencyUSD, usdToKRW),
		Max:      ConvertToKRW(b.Max, CurrencyUSD, usdToKRW),
		Currency: CurrencyKRW,
	}
}

// EffectiveMin is the lowest acceptable catalog price: max(Min, ceil(Max/3)).
func (b Budget) EffectiveMin() int64 {
	floor := (b.Max + 2) / 3
	if b.Min > floor {
		return b.Min
	}
	return floor
}

// Admits reports whether price lies in [EffectiveMin, Max].
// With lowerInclusive false a price equal to EffectiveMin is rejected.
func (b Budget) Admits(price int64, lowerInclusive bool) bool {
	if price > b.Max {
		return false
	}
	floor := b.EffectiveMin()
	if lowerInclusive {
		return price >= floor
	}
	return price > floor
}

// ConvertToKRW converts an amount in the given currency into KRW.
func ConvertToKRW(amount int64, currency string, usdToKRW float64) int64 {
	if currency != CurrencyUSD {
		return amount
	}
	return int64(math.Round(float64(amount) * usdToKRW))
}

// RecipientProfile describes who the gift is for.
type RecipientProfile struct {
	Age           int      `json:"age"`
	Gender        string   `json:"gender,omitempty"`
	Relationship  string   `json:"relationship,omitempty"`
	Interests     []string `json:"interests,omitempty"`
	Occasion      string   `json:"occasion,omitempty"`
	PersonalStyle string   `json:"personalStyle,omitempty"`
	Restrictions  []string `json:"restrictions,omitempty"`
}

// MatchMethod records how a recommendation was bound to a product
type MatchMethod string

const (
	MatchMethodJudge     MatchMethod = "judge"
	MatchMethodHeuristic MatchMethod = "heuristic"
	MatchMethodNone      MatchMethod = "none"
)

// MatchedRecommendation is a GiftIntent plus the catalog product it was bound to, if any.
type MatchedRecommendation struct {
	Intent       GiftIntent      `json:"intent"`
	Title        string          `json:"title"`
	Description  string          `json:"description"`
	Category     string          `json:"category"`
	Reasoning    string          `json:"reasoning"`
	Price        int64           `json:"price"`
	Currency     string          `json:"currency"`
	PurchaseLink string          `json:"purchaseLink,omitempty"`
	ImageURL     string          `json:"imageUrl,omitempty"`
	Confidence   float64         `json:"confidence"`
	Product      *CatalogProduct `json:"product,omitempty"`
	MatchMethod  MatchMethod     `json:"matchMethod"`
	Provenance   Provenance      `json:"provenance"`
}

// Matched reports whether a catalog product was bound.
func (r MatchedRecommendation) Matched() bool {
	return r.Product != nil
}
