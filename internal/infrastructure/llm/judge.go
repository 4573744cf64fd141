package llm

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog"

	"github.com/giftgenie/backend/internal/domain"
)

const (
	judgeMaxTokens    = 10
	judgeSystemPrompt = "당신은 선물 추천과 실제 상품을 연결하는 쇼핑 전문가입니다. 지시한 형식으로만 답하세요."
)

// MatchJudge asks the model which candidate product best fits a gift idea
type MatchJudge struct {
	client *Client
	logger zerolog.Logger
}

// NewMatchJudge creates a new match judge. A nil client disables it.
func NewMatchJudge(client *Client, logger zerolog.Logger) *MatchJudge {
	return &MatchJudge{client: client, logger: logger}
}

// Judge returns the raw reply: a 1-based candidate number or NONE.
func (j *MatchJudge) Judge(ctx context.Context, req domain.JudgeRequest) (string, error) {
	if j.client == nil {
		return "", domain.ErrCollaboratorDisabled
	}
	if len(req.Candidates) == 0 {
		return "", domain.ErrNoCandidates
	}

	reply, err := j.client.Complete(ctx, Request{
		Operation:     "judge",
		System:        judgeSystemPrompt,
		Prompt:        buildJudgePrompt(req),
		MaxTokens:     judgeMaxTokens,
		Deterministic: true,
	})
	if err != nil {
		return "", err
	}

	j.logger.Debug().
		Str("intent", req.Intent.Title).
		Int("candidates", len(req.Candidates)).
		Str("reply", reply).
		Msg("judge replied")

	return strings.TrimSpace(reply), nil
}

func buildJudgePrompt(req domain.JudgeRequest) string {
	var b strings.Builder

	b.WriteString("선물 아이디어:\n")
	fmt.Fprintf(&b, "- 제목: %s\n", req.Intent.Title)
	if req.Intent.Category != "" {
		fmt.Fprintf(&b, "- 카테고리: %s\n", req.Intent.Category)
	}
	if req.Intent.Description != "" {
		fmt.Fprintf(&b, "- 설명: %s\n", req.Intent.Description)
	}
	fmt.Fprintf(&b, "- 예산: %s - %s\n",
		formatAmount(req.Budget.Min, domain.CurrencyKRW),
		formatAmount(req.Budget.Max, domain.CurrencyKRW))

	b.WriteString("\n후보 상품:\n")
	for i, p := range req.Candidates {
		fmt.Fprintf(&b, "%d. %s | %s | 판매처 %s", i+1, p.Title, formatAmount(p.Price, domain.CurrencyKRW), orUnknown(p.Seller))
		if p.Brand != "" {
			fmt.Fprintf(&b, " | 브랜드 %s", p.Brand)
		}
		if leaf := p.LeafCategory(); leaf != "" {
			fmt.Fprintf(&b, " | 분류 %s", leaf)
		}
		fmt.Fprintf(&b, " | 품질 %.2f (브랜드 %.1f, 판매처 %.1f, 제목 %.1f, 가격 %.1f)\n",
			p.QualityScore,
			p.Quality.BrandTrust,
			p.Quality.SellerTrust,
			p.Quality.TitleQuality,
			p.Quality.PriceReasonableness)
	}

	fmt.Fprintf(&b, "\n선물 아이디어에 가장 적합한 상품의 번호(1-%d)만 답하세요. ", len(req.Candidates))
	b.WriteString("적합한 상품이 없으면 NONE이라고만 답하세요.")

	return b.String()
}
