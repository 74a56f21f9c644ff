package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// chatClient speaks the OpenAI-compatible chat-completions contract. It
// covers OpenAI itself, DeepSeek, Together, and any proxy exposing the same
// wire shape behind a custom base URL.
type chatClient struct {
	model       string // public identifier, used in logs and errors
	apiModel    string
	endpoint    string
	apiKey      string
	system      string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	attempts    int
	retryBase   time.Duration
}

func newChatClient(cfg Config, spec ModelSpec) *chatClient {
	return &chatClient{
		model:       cfg.Model,
		apiModel:    spec.APIModel,
		endpoint:    NormalizeEndpoint(cfg.BaseURL),
		apiKey:      cfg.APIKey,
		system:      cfg.SystemPrompt,
		temperature: temperatureFor(cfg),
		maxTokens:   cfg.MaxTokens,
		httpClient:  httpClientFor(cfg),
		attempts:    cfg.MaxAttempts,
		retryBase:   cfg.RetryBase,
	}
}

// NormalizeEndpoint appends the chat-completions path to a base URL unless
// it is already present, tolerating a trailing slash. Proxies are commonly
// configured with either "https://host/v1" or the full completion URL.
func NormalizeEndpoint(base string) string {
	b := strings.TrimSuffix(base, "/")
	if strings.HasSuffix(b, "/chat/completions") {
		return b
	}
	return b + "/chat/completions"
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
}

func (c *chatClient) Generate(ctx context.Context, prompt string) (string, error) {
	start := time.Now()

	text, err := withRetry(ctx, c.attempts, c.retryBase, func() (string, error) {
		return c.complete(ctx, prompt)
	})
	if err != nil {
		return "", &GenerationError{Model: c.model, Err: err}
	}

	slog.DebugContext(ctx, "chat completion finished",
		"model", c.model,
		"duration_ms", time.Since(start).Milliseconds())
	return text, nil
}

func (c *chatClient) complete(ctx context.Context, prompt string) (string, error) {
	payload := chatRequest{
		Model: c.apiModel,
		Messages: []chatMessage{
			{Role: "system", Content: c.system},
			{Role: "user", Content: prompt},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return "", fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", &statusError{StatusCode: resp.StatusCode, Body: string(respBody)}
	}

	var chatResp chatResponse
	if err := json.Unmarshal(respBody, &chatResp); err != nil {
		return "", &shapeError{Reason: "malformed JSON: " + err.Error()}
	}
	if len(chatResp.Choices) == 0 {
		return "", &shapeError{Reason: "no choices in response"}
	}

	choice := chatResp.Choices[0]
	if choice.Message.Content == "" {
		return "", &shapeError{Reason: "empty completion"}
	}
	if choice.FinishReason == "length" {
		slog.WarnContext(ctx, "completion truncated by max_tokens",
			"model", c.model,
			"max_tokens", c.maxTokens)
	}

	return choice.Message.Content, nil
}

func (c *chatClient) Model() string {
	return c.model
}
