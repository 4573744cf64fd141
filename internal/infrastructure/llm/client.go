// Package llm holds the language-model collaborators: intent generation,
// keyword refinement and the match judge. All of them talk to an
// OpenAI-compatible chat endpoint through langchaingo.
package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/giftgenie/backend/internal/domain"
	"github.com/giftgenie/backend/internal/observability"
)

var tracer = otel.Tracer("github.com/giftgenie/backend/internal/infrastructure/llm")

var errEmptyResponse = errors.New("empty response")

const (
	defaultModel       = "gpt-4o-mini"
	defaultTemperature = 0.7
	defaultMaxTokens   = 2000
	defaultTimeout     = 30 * time.Second
)

// Config holds configuration for the language model client
type Config struct {
	APIKey      string
	Model       string
	BaseURL     string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client sends chat completions to the configured model
type Client struct {
	model       llms.Model
	temperature float64
	maxTokens   int
	timeout     time.Duration
	logger      zerolog.Logger
}

// Request is one chat completion. Zero MaxTokens uses the client default.
type Request struct {
	Operation     string // metric and span label
	System        string
	Prompt        string
	MaxTokens     int
	Deterministic bool // sample at temperature 0
	JSON          bool
}

// NewClient creates an OpenAI-backed client.
// Without an API key it returns domain.ErrCollaboratorDisabled.
func NewClient(cfg Config, logger zerolog.Logger) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, domain.ErrCollaboratorDisabled
	}
	if cfg.Model == "" {
		cfg.Model = defaultModel
	}

	opts := []openai.Option{
		openai.WithToken(cfg.APIKey),
		openai.WithModel(cfg.Model),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(cfg.BaseURL))
	}

	model, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create language model: %w", err)
	}
	return NewClientWithModel(model, cfg, logger), nil
}

// NewClientWithModel wraps an existing model.
func NewClientWithModel(model llms.Model, cfg Config, logger zerolog.Logger) *Client {
	if cfg.Temperature <= 0 {
		cfg.Temperature = defaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}

	return &Client{
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		timeout:     cfg.Timeout,
		logger:      logger,
	}
}

// Complete runs one chat completion and returns the text of the first choice.
// Transport failures and empty replies wrap domain.ErrTransport.
func (c *Client) Complete(ctx context.Context, req Request) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx, span := tracer.Start(ctx, "llm.complete", trace.WithSpanKind(trace.SpanKindClient))
	defer span.End()
	span.SetAttributes(attribute.String("operation", req.Operation))

	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = c.maxTokens
	}
	temperature := c.temperature
	if req.Deterministic {
		temperature = 0
	}

	options := []llms.CallOption{
		llms.WithTemperature(temperature),
		llms.WithMaxTokens(maxTokens),
	}
	if req.JSON {
		options = append(options, llms.WithJSONMode())
	}

	messages := []llms.MessageContent{
		llms.TextParts(llms.ChatMessageTypeSystem, req.System),
		llms.TextParts(llms.ChatMessageTypeHuman, req.Prompt),
	}

	start := time.Now()
	resp, err := c.model.GenerateContent(ctx, messages, options...)
	if err == nil && (resp == nil || len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Content) == "") {
		err = errEmptyResponse
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "completion failed")
		observability.LLMCallsTotal.WithLabelValues(req.Operation, "error").Inc()
		return "", fmt.Errorf("%w: %s: %v", domain.ErrTransport, req.Operation, err)
	}
	observability.LLMCallsTotal.WithLabelValues(req.Operation, "ok").Inc()

	c.logger.Debug().
		Str("operation", req.Operation).
		Dur("duration", time.Since(start)).
		Msg("completion finished")

	return resp.Choices[0].Content, nil
}

// extractJSON returns the outermost JSON object of a reply.
// Models sometimes wrap the object in prose or code fences even in JSON mode.
func extractJSON(reply string) string {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end <= start {
		return reply
	}
	return reply[start : end+1]
}
