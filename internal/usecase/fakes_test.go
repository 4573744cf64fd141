package usecase

import (
	"context"
	"fmt"

	"github.com/giftgenie/backend/internal/domain"
)

// MockSearcher is a mock implementation of domain.CatalogSearcher.
// Each call returns the next scripted response; the last one repeats.
type MockSearcher struct {
	Responses []MockSearchResponse
	Requests  []domain.SearchRequest
}

type MockSearchResponse struct {
	Products []domain.CatalogProduct
	Err      error
}

func (m *MockSearcher) Search(_ context.Context, req domain.SearchRequest) (*domain.SearchResult, error) {
	m.Requests = append(m.Requests, req)
	if len(m.Responses) == 0 {
		return &domain.SearchResult{Provenance: domain.ProvenanceReal}, nil
	}
	i := len(m.Requests) - 1
	if i >= len(m.Responses) {
		i = len(m.Responses) - 1
	}
	resp := m.Responses[i]
	if resp.Err != nil {
		return nil, resp.Err
	}
	products := make([]domain.CatalogProduct, len(resp.Products))
	copy(products, resp.Products)
	return &domain.SearchResult{Products: products, Provenance: domain.ProvenanceReal, Calls: 3}, nil
}

// BlockingSearcher never answers until the context is done
type BlockingSearcher struct{}

func (b *BlockingSearcher) Search(ctx context.Context, _ domain.SearchRequest) (*domain.SearchResult, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

// MockRefiner is a mock implementation of domain.KeywordRefiner
type MockRefiner struct {
	Refinement *domain.Refinement
	Err        error
	Requests   []domain.RefinementRequest
}

func (m *MockRefiner) RefineKeywords(_ context.Context, req domain.RefinementRequest) (*domain.Refinement, error) {
	m.Requests = append(m.Requests, req)
	if m.Err != nil {
		return nil, m.Err
	}
	return m.Refinement, nil
}

// MockJudge is a mock implementation of domain.MatchJudge
type MockJudge struct {
	Reply    string
	Err      error
	Requests []domain.JudgeRequest
}

func (m *MockJudge) Judge(_ context.Context, req domain.JudgeRequest) (string, error) {
	m.Requests = append(m.Requests, req)
	return m.Reply, m.Err
}

// MockGenerator is a mock implementation of domain.IntentGenerator
type MockGenerator struct {
	Intents []domain.GiftIntent
	Err     error
}

func (m *MockGenerator) GenerateIntents(_ context.Context, _ domain.RecipientProfile, _ domain.Budget) ([]domain.GiftIntent, error) {
	return m.Intents, m.Err
}

// catalogProduct builds a distinct in-budget product.
func catalogProduct(id, title, brand string, price int64) domain.CatalogProduct {
	return domain.CatalogProduct{
		ID:           id,
		RawTitle:     title,
		Title:        title,
		Price:        price,
		HighPrice:    price,
		Currency:     domain.CurrencyKRW,
		Seller:       "테스트몰",
		Brand:        brand,
		Categories:   []string{"생활/건강", "주방용품"},
		Link:         "https://shop.example.com/products/" + id,
		SearchMethod: domain.SortRelevance,
		Provenance:   domain.ProvenanceReal,
	}
}

// distinctProducts builds n products with distinct titles, brands and ids.
func distinctProducts(prefix string, n int, price int64) []domain.CatalogProduct {
	names := []string{"머그컵", "텀블러", "냄비", "프라이팬", "도마", "수저세트", "접시", "주전자"}
	products := make([]domain.CatalogProduct, 0, n)
	for i := 0; i < n; i++ {
		name := names[i%len(names)]
		products = append(products, catalogProduct(
			fmt.Sprintf("%s-%d", prefix, i),
			fmt.Sprintf("%s 주방 %s 에디션%d", prefix, name, i),
			fmt.Sprintf("%s브랜드%d", prefix, i),
			price,
		))
	}
	return products
}
