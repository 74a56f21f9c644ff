package review

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/ZJHSteven/ai-peer-review/common/logger"
	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/llm"
	"github.com/ZJHSteven/ai-peer-review/internal/prompt"
)

// ClientFactory constructs a provider client for a model identifier.
// Injected so tests can substitute fakes for the network-backed clients.
type ClientFactory func(model string) (llm.Client, error)

// Orchestrator fans the review prompt out to the selected models,
// sequentially, collecting one result per model.
type Orchestrator struct {
	settings *config.Settings
	factory  ClientFactory
}

func NewOrchestrator(settings *config.Settings, factory ClientFactory) *Orchestrator {
	return &Orchestrator{settings: settings, factory: factory}
}

const minReviewLength = 500

// A credible review ends with some form of verdict; its absence usually
// means the model wandered off or was cut short.
var conclusionKeywords = []string{"conclusion", "summary", "overall", "recommend"}

// CollectReviews builds the review prompt once and dispatches it to every
// requested model in the caller-supplied order. A failure for one model is
// recorded as an error placeholder in that model's slot and never aborts
// the batch; the returned Set always has an entry per requested model.
// Only a template defect aborts the run.
func (o *Orchestrator) CollectReviews(ctx context.Context, paperText string, models []string) (*Set, error) {
	ctx = logger.WithLogFields(ctx, logger.LogFields{Component: "review.orchestrator"})

	reviewPrompt, err := prompt.ReviewPrompt(o.settings, paperText)
	if err != nil {
		return nil, err
	}

	set := NewSet()
	for _, model := range models {
		mctx := logger.WithLogFields(ctx, logger.LogFields{Model: model})

		text, err := o.generate(mctx, model, reviewPrompt)
		if err != nil {
			slog.ErrorContext(mctx, "review generation failed", "error", err)
			set.Add(Result{
				Model: model,
				Text:  fmt.Sprintf("Error: Failed to generate review - %v", err),
				Err:   err,
			})
			continue
		}

		warnIfIncomplete(mctx, text)
		set.Add(Result{Model: model, Text: text})
	}

	return set, nil
}

func (o *Orchestrator) generate(ctx context.Context, model, reviewPrompt string) (string, error) {
	client, err := o.factory(model)
	if err != nil {
		return "", err
	}
	return client.Generate(ctx, reviewPrompt)
}

// warnIfIncomplete is a best-effort completeness check. It never rejects a
// review; short or conclusion-less text is accepted with a warning.
func warnIfIncomplete(ctx context.Context, text string) {
	if len(text) < minReviewLength {
		slog.WarnContext(ctx, "review suspiciously short", "length", len(text))
	}

	lower := strings.ToLower(text)
	for _, keyword := range conclusionKeywords {
		if strings.Contains(lower, keyword) {
			return
		}
	}
	slog.WarnContext(ctx, "review lacks a concluding section")
}
