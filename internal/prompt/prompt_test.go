package prompt_test

import (
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ZJHSteven/ai-peer-review/core/config"
	"github.com/ZJHSteven/ai-peer-review/internal/prompt"
)

func settingsWith(prompts map[string]string) *config.Settings {
	return &config.Settings{Prompts: prompts}
}

var _ = Describe("AliasFor", func() {
	It("assigns NATO phonetic names positionally", func() {
		Expect(prompt.AliasFor(0)).To(Equal("alfa"))
		Expect(prompt.AliasFor(1)).To(Equal("bravo"))
		Expect(prompt.AliasFor(9)).To(Equal("juliet"))
	})

	It("falls back to numbered reviewers past the alphabet", func() {
		Expect(prompt.AliasFor(10)).To(Equal("reviewer_11"))
		Expect(prompt.AliasFor(11)).To(Equal("reviewer_12"))
	})
})

var _ = Describe("ReviewPrompt", func() {
	It("embeds the paper text in the default template", func() {
		out, err := prompt.ReviewPrompt(settingsWith(nil), "THE PAPER BODY")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("thorough and critical review"))
		Expect(out).To(ContainSubstring("THE PAPER BODY"))
		Expect(out).NotTo(ContainSubstring("{paper_text}"))
	})

	It("prefers a configured template", func() {
		s := settingsWith(map[string]string{"review": "Review briefly: {paper_text}"})
		out, err := prompt.ReviewPrompt(s, "paper")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Review briefly: paper"))
	})

	It("rejects a template with an unknown slot", func() {
		s := settingsWith(map[string]string{"review": "Review {paper_text} as {persona}"})
		_, err := prompt.ReviewPrompt(s, "paper")
		var terr *prompt.TemplateError
		Expect(errors.As(err, &terr)).To(BeTrue())
		Expect(err.Error()).To(ContainSubstring("{persona}"))
	})

	It("tolerates braces inside the substituted paper text", func() {
		out, err := prompt.ReviewPrompt(settingsWith(nil), "uses {voxel} notation")
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("uses {voxel} notation"))
	})
})

var _ = Describe("MetaReviewPrompt", func() {
	It("labels each review with its positional alias", func() {
		out, err := prompt.MetaReviewPrompt(settingsWith(nil), []string{"Review 1 content", "Review 2 content"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("Review from alfa:\n\nReview 1 content"))
		Expect(out).To(ContainSubstring("Review from bravo:\n\nReview 2 content"))
	})

	It("keeps reviews in the supplied order", func() {
		out, err := prompt.MetaReviewPrompt(settingsWith(nil), []string{"first", "second"})
		Expect(err).NotTo(HaveOccurred())
		alfa := "Review from alfa:\n\nfirst"
		bravo := "Review from bravo:\n\nsecond"
		Expect(out).To(MatchRegexp(`(?s)` + alfa + `.*` + bravo))
	})

	It("instructs the model to emit the concerns table", func() {
		out, err := prompt.MetaReviewPrompt(settingsWith(nil), []string{"r"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(ContainSubstring("CONCERNS_TABLE_DATA"))
		Expect(out).To(ContainSubstring(`"concerns"`))
	})

	It("prefers a configured template", func() {
		s := settingsWith(map[string]string{"metareview": "Summarize:\n{reviews_text}"})
		out, err := prompt.MetaReviewPrompt(s, []string{"only review"})
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal("Summarize:\nReview from alfa:\n\nonly review\n\n"))
	})
})

var _ = Describe("SystemPrompt", func() {
	It("returns the configured prompt or empty", func() {
		Expect(prompt.SystemPrompt(settingsWith(nil))).To(BeEmpty())
		s := settingsWith(map[string]string{"system": "You are terse."})
		Expect(prompt.SystemPrompt(s)).To(Equal("You are terse."))
	})
})
