package usecase

import (
	"regexp"
	"sort"
	"strings"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
	"github.com/giftgenie/backend/internal/textnorm"
)

const (
	defaultDiversityCap = 3
	maxSignatureTokens  = 5
)

// quantityRegex matches counts and sizes such as "2개입", "500ml", "3p", "xl"
var quantityRegex = regexp.MustCompile(`^\d+(\.\d+)?(개입|개|입|매|종|인용|세트|팩|박스|병|구|ea|pcs|p|ml|l|g|kg|cm|mm|m|oz|인치|inch)?$`)

// signatureStopWords contains colors, sizes and marketing terms that differ between
// listings of the same item
var signatureStopWords = map[string]bool{
	// Colors
	"블랙": true, "화이트": true, "그레이": true, "네이비": true, "베이지": true, "브라운": true, "레드": true,
	"블루": true, "그린": true, "핑크": true, "실버": true, "골드": true, "아이보리": true, "퍼플": true,
	"black": true, "white": true, "gray": true, "grey": true, "navy": true, "beige": true, "red": true,
	"blue": true, "green": true, "pink": true, "silver": true, "gold": true, "ivory": true,
	// Sizes
	"xs": true, "s": true, "m": true, "l": true, "xl": true, "xxl": true, "free": true, "프리사이즈": true,
	"소형": true, "중형": true, "대형": true, "small": true, "medium": true, "large": true,
	// Marketing
	"무료배송": true, "당일발송": true, "당일배송": true, "빠른배송": true, "특가": true, "할인": true, "세일": true,
	"정품": true, "공식": true, "인기": true, "베스트": true, "신상": true, "신제품": true, "한정": true,
	"한정판": true, "단독": true, "최저가": true, "사은품": true, "증정": true, "선물": true, "선물용": true,
	"best": true, "new": true, "sale": true, "hot": true, "official": true, "gift": true,
}

// ProductSignature fingerprints a listing by title and brand.
// Lowercased, markup and punctuation removed, stop words dropped, at most five
// remaining tokens sorted, prefixed by the normalized brand when present.
func ProductSignature(title, brand string) string {
	brandFields := textnorm.Fields(brand)
	brandKey := strings.Join(brandFields, "")

	brandTokens := make(map[string]bool, len(brandFields)+1)
	for _, f := range brandFields {
		brandTokens[f] = true
	}
	if brandKey != "" {
		brandTokens[brandKey] = true
	}

	fields := textnorm.Fields(title)
	var tokens []string
	for _, f := range fields {
		if signatureStopWords[f] || brandTokens[f] || quantityRegex.MatchString(f) {
			continue
		}
		tokens = append(tokens, f)
		if len(tokens) == maxSignatureTokens {
			break
		}
	}
	if len(tokens) == 0 {
		tokens = fields
		if len(tokens) > maxSignatureTokens {
			tokens = tokens[:maxSignatureTokens]
		}
	}

	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)

	sig := strings.Join(sorted, " ")
	if brandKey != "" {
		return brandKey + "|" + sig
	}
	return sig
}

// Rejection reasons, also used as metric labels
const (
	rejectDuplicate = "duplicate"
	rejectDiversity = "diversity"
)

// Deduplicator drops repeated listings and caps how many items one brand
// can contribute per leaf category. One instance covers one scope (an attempt or a session).
type Deduplicator struct {
	diversityCap int
	signatures   map[string]bool
	ids          map[string]bool
	groups       map[string]int
}

// NewDeduplicator creates a deduplicator with the given per-group cap
func NewDeduplicator(diversityCap int) *Deduplicator {
	if diversityCap <= 0 {
		diversityCap = defaultDiversityCap
	}
	return &Deduplicator{
		diversityCap: diversityCap,
		signatures:   make(map[string]bool),
		ids:          make(map[string]bool),
		groups:       make(map[string]int),
	}
}

// Accept records the product if it is neither a duplicate nor over the diversity cap.
// The product's Signature is filled in when empty. An empty reason means accepted.
func (d *Deduplicator) Accept(p *domain.CatalogProduct) (bool, string) {
	if p.Signature == "" {
		p.Signature = ProductSignature(p.Title, p.Brand)
	}

	idKey := productKey(*p)
	if d.signatures[p.Signature] || (idKey != "" && d.ids[idKey]) {
		return false, rejectDuplicate
	}

	group := diversityGroup(*p)
	if d.groups[group] >= d.diversityCap {
		return false, rejectDiversity
	}

	d.signatures[p.Signature] = true
	if idKey != "" {
		d.ids[idKey] = true
	}
	d.groups[group]++
	return true, ""
}

// Filter returns the accepted products in input order.
func (d *Deduplicator) Filter(products []domain.CatalogProduct) []domain.CatalogProduct {
	kept := make([]domain.CatalogProduct, 0, len(products))
	for i := range products {
		p := products[i]
		ok, reason := d.Accept(&p)
		if !ok {
			observability.RecordsDroppedTotal.WithLabelValues(reason).Inc()
			continue
		}
		kept = append(kept, p)
	}
	return kept
}

// Len returns how many products have been accepted.
func (d *Deduplicator) Len() int {
	return len(d.signatures)
}

// productKey is the external id, or the link when the id is missing.
func productKey(p domain.CatalogProduct) string {
	if p.ID != "" {
		return "id:" + p.ID
	}
	if p.Link != "" {
		return "link:" + p.Link
	}
	return ""
}

// diversityGroup keys a product by (brand, leaf category).
// Unbranded listings fall back to maker, then seller.
func diversityGroup(p domain.CatalogProduct) string {
	owner := p.Brand
	if strings.TrimSpace(owner) == "" {
		owner = p.Maker
	}
	if strings.TrimSpace(owner) == "" {
		owner = p.Seller
	}
	return strings.Join(textnorm.Fields(owner), "") + "|" + textnorm.Normalize(p.LeafCategory())
}
