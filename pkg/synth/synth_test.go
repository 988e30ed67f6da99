package synth_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/export"
	"github.com/papercomputeco/persona/pkg/synth"
)

func fullBundle() export.Bundle {
	return export.Bundle{
		Profile: &export.Profile{
			Username:       "casey",
			FullName:       "Casey",
			Bio:            "travel photography and honest trip reviews",
			FollowersCount: 500,
			Verified:       true,
		},
		Posts: []export.Post{
			{
				Content:    "golden hour at the pier #sunset",
				Hashtags:   []string{"#sunset"},
				Engagement: export.PostEngagement{Likes: 15, Comments: 5},
			},
			{
				Content:    "gear rundown for the coast trip",
				Engagement: export.PostEngagement{Likes: 30, Comments: 10},
			},
		},
		Bio: "travel photography and honest trip reviews",
		Engagement: &export.EngagementSummary{
			AvgLikes:       23,
			AvgComments:    8,
			TotalPosts:     2,
			EngagementRate: 6.0,
		},
	}
}

var _ = Describe("Synthesizer", func() {
	var synthesizer *synth.Synthesizer

	BeforeEach(func() {
		synthesizer = synth.NewSynthesizer(zap.NewNop())
	})

	Describe("Synthesize", func() {
		It("produces one document per family", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			Expect(docs).To(HaveLen(5))

			types := make([]string, len(docs))
			for i, d := range docs {
				types[i], _ = d.Metadata["type"].(string)
			}
			Expect(types).To(Equal([]string{"profile", "post", "post", "bio", "engagement"}))
		})

		It("returns nothing for an empty bundle", func() {
			docs := synthesizer.Synthesize(export.Bundle{}, "casey", "instagram")

			Expect(docs).To(BeEmpty())
		})

		It("skips posts with blank content", func() {
			bundle := fullBundle()
			bundle.Posts[1].Content = "   "

			docs := synthesizer.Synthesize(bundle, "casey", "instagram")

			Expect(docs).To(HaveLen(4))
		})

		It("derives stable identity-scoped document IDs", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			ids := make([]string, len(docs))
			for i, d := range docs {
				ids[i] = d.ID
			}
			Expect(ids).To(Equal([]string{
				"casey_instagram_profile",
				"casey_instagram_post_0",
				"casey_instagram_post_1",
				"casey_instagram_bio",
				"casey_instagram_engagement",
			}))
		})

		It("keeps the post index stable when a post is skipped", func() {
			bundle := fullBundle()
			bundle.Posts[0].Content = ""

			docs := synthesizer.Synthesize(bundle, "casey", "instagram")

			Expect(docs[1].ID).To(Equal("casey_instagram_post_1"))
		})

		It("exposes a caption line in post content", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			Expect(docs[1].Content).To(ContainSubstring("Content: golden hour at the pier #sunset"))
		})

		It("records engagement totals in post metadata", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			Expect(docs[1].Metadata["likes"]).To(Equal(15))
			Expect(docs[1].Metadata["comments"]).To(Equal(5))
			Expect(docs[1].Metadata["totalEngagement"]).To(Equal(20))
		})

		It("derives themes and personality from the bio", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			bioDoc := docs[3]
			Expect(bioDoc.Metadata["themes"]).To(ContainElement("Travel & Adventure"))
			Expect(bioDoc.Metadata["themes"]).To(ContainElement("Art & Creativity"))
			Expect(bioDoc.Metadata["personality"]).To(ContainElement("Authentic"))
		})

		It("falls back to default labels for an unmatched bio", func() {
			bundle := export.Bundle{Bio: "zzzz qqqq"}

			docs := synthesizer.Synthesize(bundle, "casey", "instagram")

			Expect(docs).To(HaveLen(1))
			Expect(docs[0].Metadata["themes"]).To(Equal([]string{"General Content"}))
			Expect(docs[0].Metadata["personality"]).To(Equal([]string{"Engaging"}))
		})

		It("labels performance in the engagement document", func() {
			docs := synthesizer.Synthesize(fullBundle(), "casey", "instagram")

			engagementDoc := docs[4]
			Expect(engagementDoc.Metadata["performance"]).To(Equal("Excellent"))
			Expect(engagementDoc.Content).To(ContainSubstring("Engagement rate: 6.00%"))
		})
	})

	Describe("CategorizePerformance", func() {
		It("maps rates to labels at the documented boundaries", func() {
			Expect(synth.CategorizePerformance(6.0)).To(Equal("Excellent"))
			Expect(synth.CategorizePerformance(5.99)).To(Equal("Good"))
			Expect(synth.CategorizePerformance(3.0)).To(Equal("Good"))
			Expect(synth.CategorizePerformance(2.99)).To(Equal("Average"))
			Expect(synth.CategorizePerformance(1.0)).To(Equal("Average"))
			Expect(synth.CategorizePerformance(0.5)).To(Equal("Below Average"))
		})
	})

	Describe("ExtractKeywords", func() {
		It("drops short words and stop words", func() {
			keywords := synth.ExtractKeywords("all about the travel life with good coffee")

			Expect(keywords).To(Equal([]string{"travel", "life", "good", "coffee"}))
		})

		It("deduplicates while preserving order", func() {
			keywords := synth.ExtractKeywords("coffee coffee coffee beans")

			Expect(keywords).To(Equal([]string{"coffee", "beans"}))
		})

		It("caps the list at ten keywords", func() {
			keywords := synth.ExtractKeywords(
				"alpha bravo charlie delta echolocation foxtrot golfing hotels india juliet kilogram lima")

			Expect(keywords).To(HaveLen(10))
		})

		It("strips punctuation before splitting", func() {
			keywords := synth.ExtractKeywords("coffee, photography! travel.")

			Expect(keywords).To(Equal([]string{"coffee", "photography", "travel"}))
		})
	})
})
