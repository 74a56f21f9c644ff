package review_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/ZJHSteven/ai-peer-review/internal/review"
)

var _ = Describe("ExtractConcerns", func() {
	const table = `{"concerns":[` +
		`{"concern":"Small sample size","alfa":true,"bravo":false},` +
		`{"concern":"No preregistration","alfa":true,"bravo":true}]}`

	expectTable := func(concerns []review.Concern) {
		Expect(concerns).To(HaveLen(2))
		Expect(concerns[0].Description).To(Equal("Small sample size"))
		Expect(concerns[0].Flags).To(Equal(map[string]bool{"alfa": true, "bravo": false}))
		Expect(concerns[1].Description).To(Equal("No preregistration"))
	}

	It("extracts a json-tagged fence after the marker", func() {
		raw := "Narrative.\n\nCONCERNS_TABLE_DATA\n```json\n" + table + "\n```"
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		expectTable(concerns)
	})

	It("extracts an untagged fence after the marker", func() {
		raw := "Narrative.\n\nCONCERNS_TABLE_DATA\n```\n" + table + "\n```"
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		expectTable(concerns)
	})

	It("extracts a bare object when no marker is present", func() {
		raw := "Here is the table:\n" + table + "\nDone."
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		expectTable(concerns)
	})

	It("tolerates the marker repeated inside the fence", func() {
		raw := "Narrative.\n\nCONCERNS_TABLE_DATA\n```json\nCONCERNS_TABLE_DATA\n" + table + "\n```"
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		expectTable(concerns)
	})

	It("reports an empty table as present", func() {
		raw := "Narrative.\n\nCONCERNS_TABLE_DATA\n```json\n{\"concerns\":[]}\n```"
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		Expect(concerns).To(BeEmpty())
	})

	It("reports absence when no table is found", func() {
		concerns, ok := review.ExtractConcerns("Just a narrative, no table.")
		Expect(ok).To(BeFalse())
		Expect(concerns).To(BeNil())
	})

	It("reports absence on unparseable table JSON", func() {
		raw := "CONCERNS_TABLE_DATA\n```json\n{\"concerns\": [broken\n```"
		_, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeFalse())
	})

	It("ignores non-boolean reviewer columns", func() {
		raw := "CONCERNS_TABLE_DATA\n```json\n" +
			`{"concerns":[{"concern":"Unclear stats","alfa":true,"note":"see p.3"}]}` +
			"\n```"
		concerns, ok := review.ExtractConcerns(raw)
		Expect(ok).To(BeTrue())
		Expect(concerns[0].Flags).To(Equal(map[string]bool{"alfa": true}))
	})
})
