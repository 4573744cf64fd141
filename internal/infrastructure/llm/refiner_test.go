package llm

import (
	"context"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/giftgenie/backend/internal/domain"
)

func testRefinementRequest() domain.RefinementRequest {
	return domain.RefinementRequest{
		Strategy:         domain.StrategyCategoryBroadening,
		Attempt:          2,
		MaxAttempts:      5,
		OriginalKeywords: []string{"주방용품", "프리미엄"},
		FailedKeywords:   []string{"주방용품", "프리미엄"},
		Intent:           domain.GiftIntent{Title: "프리미엄 주방용품"},
		Profile:          testProfile,
		Budget:           testBudget,
	}
}

func TestKeywordRefiner_RefineKeywords(t *testing.T) {
	model := &fakeModel{reply: `{"refined_keywords":["키친웨어","조리도구"],"search_query":"키친웨어 선물","reasoning":"상위 카테고리"}`}
	refiner := NewKeywordRefiner(newFakeClient(model), zerolog.Nop())

	refinement, err := refiner.RefineKeywords(context.Background(), testRefinementRequest())

	require.NoError(t, err)
	assert.Equal(t, []string{"키친웨어", "조리도구"}, refinement.Keywords)
	assert.Equal(t, "키친웨어 선물", refinement.SearchQuery)
	assert.Equal(t, "상위 카테고리", refinement.Reasoning)

	prompt := model.prompt()
	assert.Contains(t, prompt, "시도 횟수: 2/5")
	assert.Contains(t, prompt, "category_broadening")
	assert.Contains(t, prompt, "실패한 키워드들: 주방용품, 프리미엄")
	assert.Contains(t, prompt, domain.StrategyCategoryBroadening.Instruction())
	assert.True(t, model.options.JSONMode)
	assert.Equal(t, refinerMaxTokens, model.options.MaxTokens)
}

func TestKeywordRefiner_Failures(t *testing.T) {
	tests := []struct {
		name    string
		client  *Client
		wantErr error
	}{
		{name: "disabled", client: nil, wantErr: domain.ErrCollaboratorDisabled},
		{name: "invalid json", client: newFakeClient(&fakeModel{reply: "키친웨어"}), wantErr: domain.ErrParse},
		{name: "no keywords", client: newFakeClient(&fakeModel{reply: `{"refined_keywords":[]}`}), wantErr: domain.ErrParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewKeywordRefiner(tt.client, zerolog.Nop()).RefineKeywords(context.Background(), testRefinementRequest())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
