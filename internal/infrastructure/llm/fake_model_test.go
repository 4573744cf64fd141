package llm

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
)

// fakeModel records the last request and answers with a canned reply
type fakeModel struct {
	reply    string
	err      error
	calls    int
	messages []llms.MessageContent
	options  llms.CallOptions
}

func (f *fakeModel) GenerateContent(
	_ context.Context,
	messages []llms.MessageContent,
	options ...llms.CallOption,
) (*llms.ContentResponse, error) {
	f.calls++
	f.messages = messages
	f.options = llms.CallOptions{}
	for _, opt := range options {
		opt(&f.options)
	}
	if f.err != nil {
		return nil, f.err
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.reply}},
	}, nil
}

func (f *fakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, f, prompt, options...)
}

// prompt returns the human message text of the last request.
func (f *fakeModel) prompt() string {
	if len(f.messages) < 2 || len(f.messages[1].Parts) == 0 {
		return ""
	}
	text, _ := f.messages[1].Parts[0].(llms.TextContent)
	return text.Text
}

func newFakeClient(model *fakeModel) *Client {
	return NewClientWithModel(model, Config{}, zerolog.Nop())
}
