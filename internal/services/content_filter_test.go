package services_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/civicpulse/backend/internal/services"
)

var _ = Describe("ContentFilter", func() {
	filter := services.NewContentFilter()

	DescribeTable("Check",
		func(text string, allowed bool, reason string) {
			ok, got := filter.Check(text)
			Expect(ok).To(Equal(allowed))
			Expect(got).To(Equal(reason))
		},
		Entry("ordinary report", "Pothole on Via Roma near number 12", true, ""),
		Entry("empty text", "", true, ""),
		Entry("banned word", "What a SHIT road", false, "inappropriate_language"),
		Entry("banned word inside another word", "Assessment of the shitake stall", true, ""),
		Entry("repeated characters", "helloooooooo", false, "spam_detected"),
		Entry("repeated punctuation", "Fix it!!!!!!!", false, "spam_detected"),
		Entry("shouting", "PLEASE REPAIR BROKEN STREET LIGHTS", false, "excessive_caps"),
		Entry("a few acronyms", "ENEL and ACEA cables near the ASL office", true, ""),
	)

	It("maps reasons to user facing messages", func() {
		Expect(filter.RejectionMessage("spam_detected")).To(Equal("Your text appears to be spam."))
		Expect(filter.RejectionMessage("unknown")).To(Equal("Your text does not meet our content guidelines."))
	})
})
