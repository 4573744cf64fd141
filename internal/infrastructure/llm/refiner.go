package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
)

const (
	refinerMaxTokens    = 500
	refinerSystemPrompt = "당신은 네이버쇼핑 검색 최적화 전문가입니다. 실제 상품 검색에 효과적인 키워드를 생성하세요."
)

// KeywordRefiner rewrites failed search keywords for a refinement strategy
type KeywordRefiner struct {
	client *Client
	logger zerolog.Logger
}

// NewKeywordRefiner creates a new keyword refiner. A nil client disables it.
func NewKeywordRefiner(client *Client, logger zerolog.Logger) *KeywordRefiner {
	return &KeywordRefiner{client: client, logger: logger}
}

// RefineKeywords asks the model for new keywords that avoid every failed one.
func (r *KeywordRefiner) RefineKeywords(ctx context.Context, req domain.RefinementRequest) (*domain.Refinement, error) {
	if r.client == nil {
		return nil, domain.ErrCollaboratorDisabled
	}

	reply, err := r.client.Complete(ctx, Request{
		Operation: "refine",
		System:    refinerSystemPrompt,
		Prompt:    buildRefinementPrompt(req),
		MaxTokens: refinerMaxTokens,
		JSON:      true,
	})
	if err != nil {
		return nil, err
	}

	var refinement domain.Refinement
	if err := json.Unmarshal([]byte(extractJSON(reply)), &refinement); err != nil {
		return nil, fmt.Errorf("%w: refinement reply: %v", domain.ErrParse, err)
	}
	if len(refinement.Keywords) == 0 {
		return nil, fmt.Errorf("%w: refinement reply has no keywords", domain.ErrParse)
	}

	r.logger.Debug().
		Str("strategy", req.Strategy.String()).
		Strs("keywords", refinement.Keywords).
		Str("reasoning", refinement.Reasoning).
		Msg("keywords refined")

	return &refinement, nil
}

func buildRefinementPrompt(req domain.RefinementRequest) string {
	var b strings.Builder
	currency := currencyOf(req.Budget)

	b.WriteString("네이버쇼핑 검색 최적화 전문가로서, 선물 추천 검색 쿼리를 개선해주세요.\n\n")
	b.WriteString("현재 상황:\n")
	fmt.Fprintf(&b, "- 시도 횟수: %d/%d\n", req.Attempt, req.MaxAttempts)
	fmt.Fprintf(&b, "- 개선 전략: %s\n", req.Strategy)
	fmt.Fprintf(&b, "- 원본 키워드: %s\n", strings.Join(req.OriginalKeywords, ", "))
	fmt.Fprintf(&b, "- 실패한 키워드들: %s\n", orNone(strings.Join(req.FailedKeywords, ", ")))
	fmt.Fprintf(&b, "- 선물 아이디어: %s\n", req.Intent.Title)

	b.WriteString("\n받는 사람 정보:\n")
	fmt.Fprintf(&b, "- 나이: %s\n", ageText(req.Profile.Age))
	fmt.Fprintf(&b, "- 성별: %s\n", orUnknown(req.Profile.Gender))
	fmt.Fprintf(&b, "- 관심사: %s\n", orUnknown(strings.Join(req.Profile.Interests, ", ")))
	fmt.Fprintf(&b, "- 예산: %s - %s\n", formatAmount(req.Budget.Min, currency), formatAmount(req.Budget.Max, currency))

	b.WriteString("\n개선 전략 지침:\n")
	b.WriteString(req.Strategy.Instruction())
	b.WriteString("\n\n요구사항:\n")
	b.WriteString("1. 네이버쇼핑에서 실제 검색 가능한 상품명 키워드 생성\n")
	b.WriteString("2. 3-5개의 핵심 키워드로 구성\n")
	b.WriteString("3. 한글 키워드 사용\n")
	b.WriteString("4. 실패한 키워드는 다시 사용하지 말 것\n")
	b.WriteString("\n다음 JSON 형식으로 응답해주세요:\n")
	b.WriteString(`{"refined_keywords":["키워드1","키워드2","키워드3"],"search_query":"키워드1 키워드2","reasoning":"개선 이유"}`)

	return b.String()
}

func orNone(s string) string {
	if s == "" {
		return "없음"
	}
	return s
}
