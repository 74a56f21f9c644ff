package review_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/review"
)

var _ = Describe("Synthesizer", func() {
	var (
		settings *config.Settings
		set      *review.Set
	)

	BeforeEach(func() {
		settings = &config.Settings{Prompts: map[string]string{}}
		set = review.NewSet()
		set.Add(review.Result{Model: "model-a", Text: "Review A text"})
		set.Add(review.Result{Model: "model-b", Text: "Review B text"})
	})

	It("assigns aliases positionally from the set order", func() {
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			return "narrative", nil
		}}

		meta, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.AliasToModel).To(Equal(map[string]string{
			"alfa":  "model-a",
			"bravo": "model-b",
		}))
	})

	It("feeds the aliased reviews to the synthesis model", func() {
		var seen string
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			seen = prompt
			return "narrative", nil
		}}

		_, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(seen).To(ContainSubstring("Review from alfa:\n\nReview A text"))
		Expect(seen).To(ContainSubstring("Review from bravo:\n\nReview B text"))
		Expect(seen).NotTo(ContainSubstring("model-a"))
	})

	It("splits the narrative from the concerns section", func() {
		raw := "Both reviewers liked the methods.\n\n" +
			"CONCERNS_TABLE_DATA\n```json\n{\"concerns\":[]}\n```"
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			return raw, nil
		}}

		meta, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Narrative).To(Equal("Both reviewers liked the methods.\n\n"))
		Expect(meta.Raw).To(Equal(raw))
	})

	It("keeps the whole output as narrative when no marker is present", func() {
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			return "plain narrative only", nil
		}}

		meta, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Narrative).To(Equal("plain narrative only"))
	})

	It("degrades to a placeholder on generation failure", func() {
		boom := errors.New("quota exhausted")
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			return "", boom
		}}

		meta, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).NotTo(HaveOccurred())
		Expect(meta.Narrative).To(Equal("Error: Failed to generate meta-review - quota exhausted"))
		Expect(meta.Raw).To(BeEmpty())
		Expect(meta.AliasToModel).To(HaveKeyWithValue("alfa", "model-a"))
	})

	It("aborts on a defective meta-review template", func() {
		settings.Prompts["metareview"] = "bad {slot}"
		client := &fakeClient{model: "meta", generate: func(ctx context.Context, prompt string) (string, error) {
			return "never called", nil
		}}

		_, err := review.NewSynthesizer(settings, client).Synthesize(context.Background(), set)
		Expect(err).To(HaveOccurred())
	})
})
