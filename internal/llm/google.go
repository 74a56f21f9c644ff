package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// googleClient speaks the native Gemini generateContent contract: model in
// the URL path, key in the query string, system text as systemInstruction.
type googleClient struct {
	model       string
	apiModel    string
	baseURL     string
	apiKey      string
	system      string
	temperature float64
	httpClient  *http.Client
	attempts    int
	retryBase   time.Duration
}

func newGoogleClient(cfg Config, spec ModelSpec) *googleClient {
	return &googleClient{
		model:       cfg.Model,
		apiModel:    spec.APIModel,
		baseURL:     cfg.BaseURL,
		apiKey:      cfg.APIKey,
		system:      cfg.SystemPrompt,
		temperature: temperatureFor(cfg),
		httpClient:  httpClientFor(cfg),
		attempts:    cfg.MaxAttempts,
		retryBase:   cfg.RetryBase,
	}
}

type geminiRequest struct {
	Contents          []geminiContent        `json:"contents"`
	SystemInstruction *geminiContent         `json:"systemInstruction,omitempty"`
	GenerationConfig  geminiGenerationConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenerationConfig struct {
	Temperature float64 `json:"temperature"`
}

type geminiResponse struct {
	Candidates []struct {
		Content struct {
			Parts []struct {
				Text string `json:"text"`
			} `json:"parts"`
		} `json:"content"`
		FinishReason string `json:"finishReason"`
	} `json:"candidates"`
}

func (g *googleClient) Generate(ctx context.Context, prompt string) (string, error) {
	text, err := withRetry(ctx, g.attempts, g.retryBase, func() (string, error) {
		return g.generateContent(ctx, prompt)
	})
	if err != nil {
		return "", &GenerationError{Model: g.model, Err: err}
	}
	return text, nil
}

func (g *googleClient) generateContent(ctx context.Context, prompt string) (string, error) {
	payload := geminiRequest{
		Contents: []geminiContent{
			{Parts: []geminiPart{{Text: prompt}}},
		},
		SystemInstruction: &geminiContent{Parts: []geminiPart{{Text: g.system}}},
		GenerationConfig:  geminiGenerationConfig{Temperature: g.temperature},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	// Gemini puts the model name in the URL path and the key in the query.
	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.apiModel, g.apiKey)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(httpReq)
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

	var geminiResp geminiResponse
	if err := json.Unmarshal(respBody, &geminiResp); err != nil {
		return "", &shapeError{Reason: "malformed JSON: " + err.Error()}
	}
	if len(geminiResp.Candidates) == 0 || len(geminiResp.Candidates[0].Content.Parts) == 0 {
		return "", &shapeError{Reason: "no content in response"}
	}

	candidate := geminiResp.Candidates[0]
	text := candidate.Content.Parts[0].Text
	if text == "" {
		return "", &shapeError{Reason: "empty completion"}
	}
	if candidate.FinishReason == "MAX_TOKENS" {
		slog.WarnContext(ctx, "completion truncated by token limit", "model", g.model)
	}

	return text, nil
}

func (g *googleClient) Model() string {
	return g.model
}
