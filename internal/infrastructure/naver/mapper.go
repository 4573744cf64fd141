package naver

import (
	"strconv"
	"strings"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/textnorm"
)

// Product type codes run from 1 to 12; anything else is clamped to the default.
const (
	defaultProductType = 1
	maxProductType     = 12
)

// searchResponse is the shopping search response body.
// Every item field arrives as a string, including prices and codes.
type searchResponse struct {
	LastBuildDate string       `json:"lastBuildDate"`
	Total         int          `json:"total"`
	Start         int          `json:"start"`
	Display       int          `json:"display"`
	Items         []searchItem `json:"items"`
}

type searchItem struct {
	Title       string `json:"title"`
	Link        string `json:"link"`
	Image       string `json:"image"`
	LPrice      string `json:"lprice"`
	HPrice      string `json:"hprice"`
	MallName    string `json:"mallName"`
	ProductID   string `json:"productId"`
	ProductType string `json:"productType"`
	Brand       string `json:"brand"`
	Maker       string `json:"maker"`
	Category1   string `json:"category1"`
	Category2   string `json:"category2"`
	Category3   string `json:"category3"`
	Category4   string `json:"category4"`
}

// mapItem converts one search record into a CatalogProduct.
// A missing or non-numeric low price is a *domain.ParseError; the record should be dropped.
func mapItem(item searchItem, sort domain.SortOrder) (domain.CatalogProduct, error) {
	price, err := parsePrice("lprice", item.LPrice)
	if err != nil {
		return domain.CatalogProduct{}, err
	}

	highPrice, err := parsePrice("hprice", item.HPrice)
	if err != nil || highPrice < price {
		highPrice = price
	}

	var categories []string
	for _, c := range []string{item.Category1, item.Category2, item.Category3, item.Category4} {
		if c = strings.TrimSpace(c); c != "" {
			categories = append(categories, c)
		}
	}

	return domain.CatalogProduct{
		ID:           strings.TrimSpace(item.ProductID),
		RawTitle:     item.Title,
		Title:        textnorm.StripMarkup(item.Title),
		Price:        price,
		HighPrice:    highPrice,
		Currency:     domain.CurrencyKRW,
		ProductType:  parseProductType(item.ProductType),
		Seller:       textnorm.StripMarkup(item.MallName),
		Brand:        textnorm.StripMarkup(item.Brand),
		Maker:        textnorm.StripMarkup(item.Maker),
		Categories:   categories,
		ImageURL:     item.Image,
		Link:         item.Link,
		SearchMethod: sort,
		Provenance:   domain.ProvenanceReal,
	}, nil
}

// parsePrice parses a KRW amount. Thousands separators are tolerated.
func parsePrice(field, raw string) (int64, error) {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if cleaned == "" {
		return 0, &domain.ParseError{Field: field, Value: raw}
	}
	v, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil || v <= 0 {
		return 0, &domain.ParseError{Field: field, Value: raw}
	}
	return v, nil
}

func parseProductType(raw string) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || v < 1 || v > maxProductType {
		return defaultProductType
	}
	return v
}
