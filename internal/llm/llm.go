package llm

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"time"
)

// Client generates text from a single prompt against one model endpoint.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
	Model() string
}

// Variant identifies the wire contract a model is reached through.
type Variant string

const (
	VariantOpenAICompatible Variant = "openai-compatible"
	VariantAnthropic        Variant = "anthropic"
	VariantGoogle           Variant = "google"
	VariantTogether         Variant = "together"
)

// ModelSpec maps a public model identifier to the provider variant, the
// model name the API expects, and the credential service it bills against.
type ModelSpec struct {
	Variant  Variant
	APIModel string
	Service  string
	BaseURL  string
}

var modelOrder = []string{
	"gpt4-o1",
	"gpt4-o3-mini",
	"claude-3.7-sonnet",
	"gemini-2.5-pro",
	"deepseek-r1",
	"llama-4-maverick",
}

var modelTable = map[string]ModelSpec{
	"gpt4-o1":           {Variant: VariantOpenAICompatible, APIModel: "o1", Service: "openai", BaseURL: "https://api.openai.com/v1"},
	"gpt4-o3-mini":      {Variant: VariantOpenAICompatible, APIModel: "o3-mini", Service: "openai", BaseURL: "https://api.openai.com/v1"},
	"claude-3.7-sonnet": {Variant: VariantAnthropic, APIModel: "claude-3-7-sonnet-20250219", Service: "anthropic"},
	"gemini-2.5-pro":    {Variant: VariantGoogle, APIModel: "gemini-2.5-pro", Service: "google", BaseURL: "https://generativelanguage.googleapis.com/v1beta"},
	// Together pins the Llama 4 Maverick deployment; the identifier is only
	// used for bookkeeping.
	"llama-4-maverick": {Variant: VariantTogether, APIModel: "meta-llama/Llama-4-Maverick-17B-128E-Instruct-FP8", Service: "together", BaseURL: "https://api.together.xyz/v1"},
	"deepseek-r1":      {Variant: VariantOpenAICompatible, APIModel: "deepseek-reasoner", Service: "deepseek", BaseURL: "https://api.deepseek.com"},
}

// Supported returns the supported model identifiers in presentation order.
func Supported() []string {
	out := make([]string, len(modelOrder))
	copy(out, modelOrder)
	return out
}

// Lookup resolves a model identifier against the supported model table.
func Lookup(model string) (ModelSpec, bool) {
	spec, ok := modelTable[model]
	return spec, ok
}

// Reasoning-tier models (o1/o3 families, R1) reject the default sampling
// temperature and must be called with the provider default instead.
var reasoningModelPattern = regexp.MustCompile(`(?i)(^|-)(o\d+|r\d+)(-|$)`)

const (
	defaultTemperature   = 0.1
	reasoningTemperature = 1.0

	defaultSystemPrompt = "You are a neuroscientist and expert in brain imaging."

	defaultMaxTokens   = 4000
	defaultTimeout     = 120 * time.Second
	defaultMaxAttempts = 3
	defaultRetryBase   = time.Second
)

// Config holds everything needed to construct a Client for one model.
type Config struct {
	Model        string // model identifier from the supported table
	APIKey       string // resolved credential; empty fails construction
	BaseURL      string // optional custom endpoint, overrides the table default
	SystemPrompt string
	MaxTokens    int
	Temperature  *float64 // nil = policy default for the model tier

	Timeout     time.Duration
	MaxAttempts int
	RetryBase   time.Duration

	// HTTPClient overrides the transport for the HTTP-backed variants.
	// Mainly for tests; when set, Timeout is ignored.
	HTTPClient *http.Client
}

// New constructs a Client for the given model. It fails with a
// *ConfigurationError when no credential was resolvable, and with a plain
// error for unknown model identifiers.
func New(cfg Config) (Client, error) {
	spec, ok := Lookup(cfg.Model)
	if !ok {
		return nil, fmt.Errorf("unsupported model: %s", cfg.Model)
	}
	if cfg.APIKey == "" {
		return nil, &ConfigurationError{Service: spec.Service}
	}

	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = defaultSystemPrompt
	}
	if cfg.MaxTokens == 0 {
		cfg.MaxTokens = defaultMaxTokens
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxAttempts == 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.RetryBase == 0 {
		cfg.RetryBase = defaultRetryBase
	}
	if cfg.BaseURL == "" {
		cfg.BaseURL = spec.BaseURL
	}

	switch spec.Variant {
	case VariantOpenAICompatible, VariantTogether:
		return newChatClient(cfg, spec), nil
	case VariantGoogle:
		return newGoogleClient(cfg, spec), nil
	case VariantAnthropic:
		return newAnthropicClient(cfg, spec), nil
	default:
		return nil, fmt.Errorf("unsupported provider variant: %s", spec.Variant)
	}
}

// temperatureFor applies the reasoning-tier override to the default
// temperature. An explicit Config.Temperature wins.
func temperatureFor(cfg Config) float64 {
	if cfg.Temperature != nil {
		return *cfg.Temperature
	}
	if reasoningModelPattern.MatchString(cfg.Model) {
		return reasoningTemperature
	}
	return defaultTemperature
}

func httpClientFor(cfg Config) *http.Client {
	if cfg.HTTPClient != nil {
		return cfg.HTTPClient
	}
	return &http.Client{Timeout: cfg.Timeout}
}
