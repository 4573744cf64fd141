package domain

// SortOrder is a sort mode supported by the commerce search API
type SortOrder string

const (
	SortRelevance SortOrder = "sim"
	SortPriceAsc  SortOrder = "asc"
	SortPriceDesc SortOrder = "dsc"
)

// SortOrders lists the sort modes every search fans out over, in call order.
var SortOrders = []SortOrder{SortRelevance, SortPriceAsc, SortPriceDesc}

// Provenance tags whether data came from the real upstream or a local fallback.
type Provenance string

const (
	ProvenanceReal      Provenance = "real"
	ProvenanceSimulated Provenance = "simulated"
	ProvenanceDegraded  Provenance = "degraded" // mix of real and simulated
)

// CombineProvenance merges two provenance tags
func CombineProvenance(a, b Provenance) Provenance {
	switch {
	case a == "":
		return b
	case b == "":
		return a
	case a == b:
		return a
	default:
		return ProvenanceDegraded
	}
}

// CatalogProduct is one normalized record from the commerce search API.
type CatalogProduct struct {
	ID           string           `json:"id"`
	RawTitle     string           `json:"rawTitle"`
	Title        string           `json:"title"`
	Price        int64            `json:"price"`
	HighPrice    int64            `json:"highPrice"`
	Currency     string           `json:"currency"`
	ProductType  int              `json:"productType"`
	Seller       string           `json:"seller"`
	Brand        string           `json:"brand,omitempty"`
	Maker        string           `json:"maker,omitempty"`
	Categories   []string         `json:"categories,omitempty"`
	ImageURL     string           `json:"imageUrl,omitempty"`
	Link         string           `json:"link"`
	QualityScore float64          `json:"qualityScore"`
	Quality      QualityBreakdown `json:"quality"`
	SearchMethod SortOrder        `json:"searchMethod"`
	Signature    string           `json:"signature"`
	Provenance   Provenance       `json:"provenance"`
	IntentIndex  int              `json:"intentIndex"` // which intent's search produced it
}

// LeafCategory returns the most specific non-empty category.
func (p CatalogProduct) LeafCategory() string {
	for i := len(p.Categories) - 1; i >= 0; i-- {
		if p.Categories[i] != "" {
			return p.Categories[i]
		}
	}
	return ""
}

// QualityBreakdown holds the sub-scores of the composite quality score
type QualityBreakdown struct {
	BrandTrust          float64 `json:"brandTrust"`
	SellerTrust         float64 `json:"sellerTrust"`
	TitleQuality        float64 `json:"titleQuality"`
	PriceReasonableness float64 `json:"priceReasonableness"`
	RelevanceBonus      float64 `json:"relevanceBonus"`
}

// SearchRequest is one logical catalog search; the client fans it out over SortOrders.
type SearchRequest struct {
	Query    string
	Keywords []string
	Budget   Budget // KRW
	Display  int
}

// SearchResult is the merged, filtered candidate pool of one SearchRequest.
type SearchResult struct {
	Products   []CatalogProduct
	Provenance Provenance
	Calls      int
	Dropped    int
}
