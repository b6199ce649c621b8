// Package llm defines the LLM capability used by the pipeline and an
// implementation backed by the Anthropic API.
package llm

import (
	"context"
	"time"
)

// Client is the opaque LLM capability: a prompt in, text out. Transport
// and auth failures surface as errors; the pipeline treats them as
// propagating, so implementations should not retry silently beyond their
// own transport policy.
type Client interface {
	Complete(ctx context.Context, req CompletionRequest) (*CompletionResponse, error)
}

// CompletionRequest configures a single completion call.
type CompletionRequest struct {
	// SystemPrompt is optional system framing.
	SystemPrompt string `json:"system_prompt,omitempty"`

	// Prompt is the user prompt. Required.
	Prompt string `json:"prompt"`

	// Model overrides the client default when non-empty.
	Model string `json:"model,omitempty"`

	// MaxTokens overrides the client default when positive.
	MaxTokens int `json:"max_tokens,omitempty"`

	// Temperature is applied when positive. Stage temperatures come from
	// the pipeline configuration.
	Temperature float64 `json:"temperature,omitempty"`
}

// CompletionResponse is the output of a completion call.
type CompletionResponse struct {
	Content  string        `json:"content"`
	Model    string        `json:"model"`
	Usage    TokenUsage    `json:"usage"`
	Duration time.Duration `json:"duration"`
}

// TokenUsage tracks token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
	TotalTokens  int `json:"total_tokens"`
}

// Add accumulates another usage into this one.
func (u *TokenUsage) Add(other TokenUsage) {
	u.InputTokens += other.InputTokens
	u.OutputTokens += other.OutputTokens
	u.TotalTokens += other.TotalTokens
}
