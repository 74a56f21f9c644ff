package review_test

import (
	"context"
	"errors"
	"fmt"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/llm"
	"github.com/ZJHSteven/ai-peer-review/internal/review"
)

var _ = Describe("Orchestrator", func() {
	var settings *config.Settings

	BeforeEach(func() {
		settings = &config.Settings{Prompts: map[string]string{}}
	})

	factoryReturning := func(texts map[string]string, failures map[string]error) review.ClientFactory {
		return func(model string) (llm.Client, error) {
			if err, ok := failures[model]; ok {
				return nil, err
			}
			return &fakeClient{
				model: model,
				generate: func(ctx context.Context, prompt string) (string, error) {
					return texts[model], nil
				},
			}, nil
		}
	}

	It("collects one result per model in the requested order", func() {
		texts := map[string]string{
			"model-a": "Review A. Overall fine.",
			"model-b": "Review B. Overall fine.",
		}
		o := review.NewOrchestrator(settings, factoryReturning(texts, nil))

		set, err := o.CollectReviews(context.Background(), "paper body", []string{"model-a", "model-b"})
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Models()).To(Equal([]string{"model-a", "model-b"}))

		a, _ := set.Get("model-a")
		Expect(a.Text).To(Equal("Review A. Overall fine."))
		Expect(a.Failed()).To(BeFalse())
	})

	It("passes the rendered review prompt to every client", func() {
		var seen []string
		factory := func(model string) (llm.Client, error) {
			return &fakeClient{
				model: model,
				generate: func(ctx context.Context, prompt string) (string, error) {
					seen = append(seen, prompt)
					return "ok, overall fine", nil
				},
			}, nil
		}
		o := review.NewOrchestrator(settings, factory)

		_, err := o.CollectReviews(context.Background(), "UNIQUE PAPER BODY", []string{"m1", "m2"})
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(HaveLen(2))
		Expect(seen[0]).To(ContainSubstring("UNIQUE PAPER BODY"))
		Expect(seen[1]).To(Equal(seen[0]))
	})

	It("records a placeholder for a failing model without aborting the batch", func() {
		boom := errors.New("connection refused")
		factory := func(model string) (llm.Client, error) {
			return &fakeClient{
				model: model,
				generate: func(ctx context.Context, prompt string) (string, error) {
					if model == "model-b" {
						return "", boom
					}
					return "good review, overall fine", nil
				},
			}, nil
		}
		o := review.NewOrchestrator(settings, factory)

		set, err := o.CollectReviews(context.Background(), "paper", []string{"model-a", "model-b", "model-c"})
		Expect(err).NotTo(HaveOccurred())
		Expect(set.Len()).To(Equal(3))

		b, _ := set.Get("model-b")
		Expect(b.Failed()).To(BeTrue())
		Expect(b.Text).To(Equal(fmt.Sprintf("Error: Failed to generate review - %v", boom)))

		c, _ := set.Get("model-c")
		Expect(c.Failed()).To(BeFalse())
	})

	It("records client construction failures the same way", func() {
		missing := &llm.ConfigurationError{Service: "openai"}
		o := review.NewOrchestrator(settings, factoryReturning(
			map[string]string{"model-b": "fine review, overall fine"},
			map[string]error{"model-a": missing},
		))

		set, err := o.CollectReviews(context.Background(), "paper", []string{"model-a", "model-b"})
		Expect(err).NotTo(HaveOccurred())

		a, _ := set.Get("model-a")
		Expect(a.Failed()).To(BeTrue())
		Expect(a.Text).To(HavePrefix("Error: Failed to generate review - "))
		Expect(a.Text).To(ContainSubstring("OPENAI_API_KEY"))
	})

	It("aborts on a defective review template", func() {
		settings.Prompts["review"] = "broken {unknown_slot}"
		o := review.NewOrchestrator(settings, factoryReturning(nil, nil))

		_, err := o.CollectReviews(context.Background(), "paper", []string{"model-a"})
		Expect(err).To(HaveOccurred())
		Expect(err.Error()).To(ContainSubstring("unknown_slot"))
	})
})
