// Package prompt renders the review and meta-review prompts from
// configured templates, falling back to baked-in defaults. Reviewer
// identities are masked with NATO phonetic aliases before any text reaches
// a template, so templates never see raw model identifiers.
package prompt

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/ZJHSteven/ai-peer-review/core/config"
)

var natoNames = []string{
	"alfa", "bravo", "charlie", "delta", "echo",
	"foxtrot", "golf", "hotel", "india", "juliet",
}

// AliasFor returns the positional reviewer alias: the NATO alphabet for the
// first ten reviewers, then a deterministic numeric fallback.
func AliasFor(i int) string {
	if i < len(natoNames) {
		return natoNames[i]
	}
	return fmt.Sprintf("reviewer_%d", i+1)
}

// TemplateError means a template references a substitution slot the builder
// does not supply. It indicates a configuration defect and is fatal for the
// whole run.
type TemplateError struct {
	Name string
	Slot string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("prompt template %q references unknown slot {%s}", e.Name, e.Slot)
}

// Slots are lowercase identifiers in single braces, e.g. {paper_text}.
// JSON braces in template bodies do not collide with this shape.
var slotPattern = regexp.MustCompile(`\{([a-z][a-z0-9_]*)\}`)

func render(name, template string, values map[string]string) (string, error) {
	for _, m := range slotPattern.FindAllStringSubmatch(template, -1) {
		if _, ok := values[m[1]]; !ok {
			return "", &TemplateError{Name: name, Slot: m[1]}
		}
	}
	out := template
	for slot, value := range values {
		out = strings.ReplaceAll(out, "{"+slot+"}", value)
	}
	return out, nil
}

// ReviewPrompt renders the per-model review prompt for a paper.
func ReviewPrompt(s *config.Settings, paperText string) (string, error) {
	template := s.Prompt("review")
	if template == "" {
		template = defaultReviewTemplate
	}
	return render("review", template, map[string]string{"paper_text": paperText})
}

// MetaReviewPrompt renders the meta-review prompt over the collected review
// texts, in order. Aliasing happens here, before template substitution.
func MetaReviewPrompt(s *config.Settings, reviews []string) (string, error) {
	var b strings.Builder
	for i, review := range reviews {
		fmt.Fprintf(&b, "Review from %s:\n\n%s\n\n", AliasFor(i), review)
	}

	template := s.Prompt("metareview")
	if template == "" {
		template = defaultMetaReviewTemplate
	}
	return render("metareview", template, map[string]string{"reviews_text": b.String()})
}

// SystemPrompt returns the configured system prompt, or "" to let the
// client apply its default.
func SystemPrompt(s *config.Settings) string {
	return s.Prompt("system")
}
