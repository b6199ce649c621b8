package llm

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// DefaultModel is used when neither the client nor the request names one.
const DefaultModel = "claude-sonnet-4-20250514"

// Claude implements Client using the Anthropic Messages API.
type Claude struct {
	client    anthropic.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

// ClaudeOption configures Claude.
type ClaudeOption func(*Claude)

// WithModel sets the default model.
func WithModel(model string) ClaudeOption {
	return func(c *Claude) { c.model = model }
}

// WithMaxTokens sets the default completion budget.
func WithMaxTokens(n int) ClaudeOption {
	return func(c *Claude) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithTimeout sets the per-call timeout. Callers wanting a whole-run
// deadline should put it on the context instead.
func WithTimeout(d time.Duration) ClaudeOption {
	return func(c *Claude) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// NewClaude creates a Claude client with the given API key.
func NewClaude(apiKey string, opts ...ClaudeOption) *Claude {
	c := &Claude{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		model:     DefaultModel,
		maxTokens: 8192,
		timeout:   5 * time.Minute,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Complete implements Client.
func (c *Claude) Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error) {
	if strings.TrimSpace(req.Prompt) == "" {
		return nil, NewError("complete", fmt.Errorf("prompt cannot be empty"), false)
	}

	callCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	model := c.model
	if req.Model != "" {
		model = req.Model
	}
	maxTokens := c.maxTokens
	if req.MaxTokens > 0 {
		maxTokens = req.MaxTokens
	}

	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(model),
		MaxTokens: int64(maxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt)),
		},
	}
	if req.Temperature > 0 {
		params.Temperature = anthropic.Float(req.Temperature)
	}
	if req.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.SystemPrompt}}
	}

	start := time.Now()
	resp, err := c.client.Messages.New(callCtx, params)
	if err != nil {
		if ctx.Err() != nil {
			return nil, NewError("complete", ctx.Err(), false)
		}
		return nil, NewError("complete", err, isRetryableMessage(err.Error()))
	}

	var content strings.Builder
	for _, block := range resp.Content {
		if block.Type == "text" {
			content.WriteString(block.Text)
		}
	}
	if content.Len() == 0 {
		return nil, NewError("complete", fmt.Errorf("empty response from model %s", model), false)
	}

	return &CompletionResponse{
		Content:  content.String(),
		Model:    model,
		Duration: time.Since(start),
		Usage: TokenUsage{
			InputTokens:  int(resp.Usage.InputTokens),
			OutputTokens: int(resp.Usage.OutputTokens),
			TotalTokens:  int(resp.Usage.InputTokens + resp.Usage.OutputTokens),
		},
	}, nil
}
