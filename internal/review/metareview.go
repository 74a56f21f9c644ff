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

// ConcernsMarker separates the narrative meta-review from the embedded
// concerns table in the synthesis model's output.
const ConcernsMarker = "CONCERNS_TABLE_DATA"

// MetaReview is the outcome of one synthesis pass.
type MetaReview struct {
	Narrative    string            // text up to the concerns marker
	Raw          string            // full synthesis output, marker section included
	AliasToModel map[string]string // reviewer alias -> model identifier
}

// Synthesizer produces a meta-review over a set of collected reviews using
// one designated synthesis client.
type Synthesizer struct {
	settings *config.Settings
	client   llm.Client
}

func NewSynthesizer(settings *config.Settings, client llm.Client) *Synthesizer {
	return &Synthesizer{settings: settings, client: client}
}

// Synthesize assigns aliases positionally, builds the meta-review prompt
// over the aliased reviews, and invokes the synthesis model. A generation
// failure degrades to a placeholder narrative; the alias map is returned
// either way so reporting can still show which models participated.
func (s *Synthesizer) Synthesize(ctx context.Context, set *Set) (*MetaReview, error) {
	models := set.Models()
	aliasToModel := make(map[string]string, len(models))
	for i, model := range models {
		aliasToModel[prompt.AliasFor(i)] = model
	}

	metaPrompt, err := prompt.MetaReviewPrompt(s.settings, set.Texts())
	if err != nil {
		return nil, err
	}

	ctx = logger.WithLogFields(ctx, logger.LogFields{
		Component: "review.synthesizer",
		Model:     s.client.Model(),
	})

	raw, err := s.client.Generate(ctx, metaPrompt)
	if err != nil {
		slog.ErrorContext(ctx, "meta-review generation failed", "error", err)
		return &MetaReview{
			Narrative:    fmt.Sprintf("Error: Failed to generate meta-review - %v", err),
			AliasToModel: aliasToModel,
		}, nil
	}

	narrative := raw
	if idx := strings.Index(raw, ConcernsMarker); idx >= 0 {
		narrative = raw[:idx]
	}

	return &MetaReview{
		Narrative:    narrative,
		Raw:          raw,
		AliasToModel: aliasToModel,
	}, nil
}
