package naver

import (
	"strings"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/textnorm"
)

// Drop reasons, also used as metric labels
const (
	dropParse   = "parse"
	dropBudget  = "budget"
	dropQuality = "quality"
)

const defaultMinTitleLength = 5

// denyList holds title fragments of listings that are not purchasable gifts:
// quote or inquiry only, custom-order only, shipping-fee lines and placeholders.
var denyList = []string{
	"견적", "문의", "주문제작 전용", "주문제작전용", "배송비", "추가금", "추가 금액", "샘플", "테스트상품", "테스트 상품", "결제창",
	"quote", "inquiry", "custom order", "shipping fee", "sample", "placeholder",
}

// Filter applies the budget and listing-quality rules to mapped records
type Filter struct {
	lowerBoundInclusive bool
	minTitleLength      int
}

// NewFilter creates a filter. minTitleLength <= 0 uses the default of 5 characters.
func NewFilter(lowerBoundInclusive bool, minTitleLength int) *Filter {
	if minTitleLength <= 0 {
		minTitleLength = defaultMinTitleLength
	}
	return &Filter{
		lowerBoundInclusive: lowerBoundInclusive,
		minTitleLength:      minTitleLength,
	}
}

// Check reports whether the product survives. The reason is empty when it does.
func (f *Filter) Check(p domain.CatalogProduct, budget domain.Budget) (bool, string) {
	if !budget.Admits(p.Price, f.lowerBoundInclusive) {
		return false, dropBudget
	}
	if textnorm.RuneLen(p.Title) < f.minTitleLength || denied(p.Title) {
		return false, dropQuality
	}
	return true, ""
}

func denied(title string) bool {
	normalized := textnorm.Normalize(title)
	for _, term := range denyList {
		if strings.Contains(normalized, term) {
			return true
		}
	}
	return false
}
