package domain

import "context"

// CatalogSearcher queries the commerce search API.
// Implementations degrade to simulated products instead of failing on transport errors.
type CatalogSearcher interface {
	Search(ctx context.Context, req SearchRequest) (*SearchResult, error)
}

// IntentGenerator produces abstract gift ideas for a recipient
type IntentGenerator interface {
	GenerateIntents(ctx context.Context, profile RecipientProfile, budget Budget) ([]GiftIntent, error)
}

// KeywordRefiner rewrites search keywords for a refinement strategy.
type KeywordRefiner interface {
	RefineKeywords(ctx context.Context, req RefinementRequest) (*Refinement, error)
}

// MatchJudge asks a language model to pick one candidate for an intent.
// It returns the raw reply; interpretation belongs to the matcher.
type MatchJudge interface {
	Judge(ctx context.Context, req JudgeRequest) (string, error)
}

// RefinementRequest carries everything the refiner needs for one attempt.
type RefinementRequest struct {
	Strategy         Strategy
	Attempt          int
	MaxAttempts      int
	OriginalKeywords []string
	FailedKeywords   []string
	Intent           GiftIntent
	Profile          RecipientProfile
	Budget           Budget
}

// Refinement is the refiner's answer.
type Refinement struct {
	Keywords    []string `json:"refined_keywords"`
	SearchQuery string   `json:"search_query"`
	Reasoning   string   `json:"reasoning,omitempty"`
}

// JudgeRequest presents ranked candidates for one intent. Candidates are numbered from 1.
type JudgeRequest struct {
	Intent     GiftIntent
	Candidates []CatalogProduct
	Budget     Budget
}
