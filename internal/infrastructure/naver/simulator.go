package naver

import (
	"fmt"
	"hash/fnv"
	"sort"
	"strings"

	"github.com/giftgenie/backend/internal/domain"
)

var (
	simulatedBrands = []string{"모던하우스", "리빙코튼", "데일리앤", "하루공방", "소소상점", "메이드바이", "오브제랩", "코지룸"}
	simulatedSeller = []string{"기프트스토어", "선물하는날", "라이프마켓"}
	simulatedEdits  = []string{"클래식", "베이직", "시그니처", "데일리", "오리지널", "스페셜"}
)

// maxSimulatedProducts is the number of distinct brand and edition combinations.
const maxSimulatedProducts = 24

// Simulator produces deterministic placeholder products when the search API is unreachable.
// Every product is tagged simulated and priced inside the budget.
type Simulator struct{}

// NewSimulator creates a new simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Products returns up to n placeholder products for a query, ordered by sort.
// The same query yields the same catalog for every sort, the way a real index would.
func (s *Simulator) Products(query string, sortOrder domain.SortOrder, n int, budget domain.Budget) []domain.CatalogProduct {
	if n <= 0 {
		return nil
	}
	query = strings.TrimSpace(query)
	if query == "" {
		query = "선물"
	}

	seed := querySeed(query)
	size := min(2*n, maxSimulatedProducts)
	floor := budget.EffectiveMin()
	span := budget.Max - floor

	catalog := make([]domain.CatalogProduct, 0, size)
	for i := 0; i < size; i++ {
		brand := simulatedBrands[(seed+uint32(i))%uint32(len(simulatedBrands))]
		edit := simulatedEdits[i%len(simulatedEdits)]
		price := floor + span*int64(i+1)/int64(size+1)
		price = price / 100 * 100
		// strictly above the floor so an exclusive lower bound admits it too
		if price <= floor {
			price = floor + 1
		}
		if price > budget.Max {
			price = budget.Max
		}

		id := fmt.Sprintf("sim-%08x-%02d", seed, i)
		catalog = append(catalog, domain.CatalogProduct{
			ID:          id,
			RawTitle:    fmt.Sprintf("%s %s %s", brand, query, edit),
			Title:       fmt.Sprintf("%s %s %s", brand, query, edit),
			Price:       price,
			HighPrice:   price,
			Currency:    domain.CurrencyKRW,
			ProductType: defaultProductType,
			Seller:      simulatedSeller[i%len(simulatedSeller)],
			Brand:       brand,
			Categories:  []string{"선물", query},
			Link:        "https://search.shopping.naver.com/simulated/" + id,
			Provenance:  domain.ProvenanceSimulated,
		})
	}

	switch sortOrder {
	case domain.SortPriceAsc:
		sort.SliceStable(catalog, func(i, j int) bool { return catalog[i].Price < catalog[j].Price })
	case domain.SortPriceDesc:
		sort.SliceStable(catalog, func(i, j int) bool { return catalog[i].Price > catalog[j].Price })
	}

	if len(catalog) > n {
		catalog = catalog[:n]
	}
	for i := range catalog {
		catalog[i].SearchMethod = sortOrder
	}
	return catalog
}

func querySeed(query string) uint32 {
	h := fnv.New32a()
	h.Write([]byte(query))
	return h.Sum32()
}
