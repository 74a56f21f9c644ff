package llm

import (
	"context"
	"log/slog"
	"time"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// anthropicClient reaches Claude through the official SDK. Anthropic takes
// the system prompt as a top-level parameter, not as a message role, and
// the SDK handles transient retries itself.
type anthropicClient struct {
	model       string
	apiModel    string
	system      string
	maxTokens   int
	temperature float64
	client      anthropic.Client
}

func newAnthropicClient(cfg Config, spec ModelSpec) *anthropicClient {
	opts := []option.RequestOption{
		option.WithAPIKey(cfg.APIKey),
		option.WithMaxRetries(cfg.MaxAttempts - 1),
		option.WithHTTPClient(httpClientFor(cfg)),
	}
	if cfg.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(cfg.BaseURL))
	}

	return &anthropicClient{
		model:       cfg.Model,
		apiModel:    spec.APIModel,
		system:      cfg.SystemPrompt,
		maxTokens:   cfg.MaxTokens,
		temperature: temperatureFor(cfg),
		client:      anthropic.NewClient(opts...),
	}
}

func (c *anthropicClient) Generate(ctx context.Context, prompt string) (string, error) {
	params := anthropic.MessageNewParams{
		Model:       anthropic.Model(c.apiModel),
		MaxTokens:   int64(c.maxTokens),
		Temperature: anthropic.Float(c.temperature),
		System: []anthropic.TextBlockParam{
			{Type: "text", Text: c.system},
		},
		Messages: []anthropic.MessageParam{
			{
				Role: anthropic.MessageParamRoleUser,
				Content: []anthropic.ContentBlockParamUnion{
					anthropic.NewTextBlock(prompt),
				},
			},
		},
	}

	start := time.Now()
	resp, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", &GenerationError{Model: c.model, Err: err}
	}

	slog.DebugContext(ctx, "anthropic completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds(),
		"stop_reason", resp.StopReason)

	var text string
	for _, block := range resp.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return "", &GenerationError{Model: c.model, Err: &shapeError{Reason: "no text content in response"}}
	}
	if resp.StopReason == anthropic.StopReasonMaxTokens {
		slog.WarnContext(ctx, "completion truncated by max_tokens",
			"model", c.model,
			"max_tokens", c.maxTokens)
	}

	return text, nil
}

func (c *anthropicClient) Model() string {
	return c.model
}
