package export_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/export"
)

var _ = Describe("Normalizer", func() {
	var normalizer *export.Normalizer

	BeforeEach(func() {
		normalizer = export.NewNormalizer(zap.NewNop())
	})

	Describe("malformed payloads", func() {
		It("returns an empty bundle for unparseable JSON", func() {
			bundle := normalizer.Normalize([]byte("{not json"), "instagram")

			Expect(bundle.Empty()).To(BeTrue())
		})

		It("returns an empty bundle for unrecognized shapes", func() {
			bundle := normalizer.Normalize([]byte(`{"unrelated": true}`), "instagram")

			Expect(bundle.Empty()).To(BeTrue())
		})

		It("returns an empty bundle for empty arrays", func() {
			bundle := normalizer.Normalize([]byte(`[]`), "instagram")

			Expect(bundle.Empty()).To(BeTrue())
		})
	})

	Describe("author post list shape", func() {
		raw := []byte(`[
			{
				"author": {
					"screen_name": "casey",
					"name": "Casey",
					"description": "coastal photographer",
					"followers_count": 200,
					"verified": true
				},
				"text": "morning surf check #surf",
				"likesCount": 10,
				"commentsCount": 2
			},
			{"text": "sunset session", "likesCount": 20, "commentsCount": 3}
		]`)

		It("lifts the first author into the profile", func() {
			bundle := normalizer.Normalize(raw, "twitter")

			Expect(bundle.Profile).NotTo(BeNil())
			Expect(bundle.Profile.Username).To(Equal("casey"))
			Expect(bundle.Profile.FullName).To(Equal("Casey"))
			Expect(bundle.Profile.Verified).To(BeTrue())
			Expect(bundle.Profile.Platform).To(Equal("twitter"))
		})

		It("parses every item as a post", func() {
			bundle := normalizer.Normalize(raw, "twitter")

			Expect(bundle.Posts).To(HaveLen(2))
			Expect(bundle.Posts[0].Content).To(Equal("morning surf check #surf"))
			Expect(bundle.Posts[0].Engagement.Likes).To(Equal(10))
		})

		It("resolves the bio from the author", func() {
			bundle := normalizer.Normalize(raw, "twitter")

			Expect(bundle.Bio).To(Equal("coastal photographer"))
		})
	})

	Describe("profile with posts list shape", func() {
		raw := []byte(`[
			{
				"username": "casey",
				"fullName": "Casey",
				"biography": "food and travel",
				"followersCount": 1000,
				"latestPosts": [
					{"caption": "ramen night", "likesCount": 50, "commentsCount": 5},
					{"caption": "airport haul", "likesCount": 30, "commentsCount": 10}
				]
			}
		]`)

		It("parses the profile and its inline posts", func() {
			bundle := normalizer.Normalize(raw, "instagram")

			Expect(bundle.Profile.Username).To(Equal("casey"))
			Expect(bundle.Posts).To(HaveLen(2))
			Expect(bundle.Posts[1].Content).To(Equal("airport haul"))
		})
	})

	Describe("bare post list shape", func() {
		It("parses posts with no profile", func() {
			bundle := normalizer.Normalize([]byte(`[
				{"text": "one", "likes": 1},
				{"text": "two", "likes": 2}
			]`), "twitter")

			Expect(bundle.Profile).To(BeNil())
			Expect(bundle.Posts).To(HaveLen(2))
		})
	})

	Describe("direct profile shape", func() {
		It("parses a bare profile object", func() {
			bundle := normalizer.Normalize([]byte(`{
				"username": "casey",
				"biography": "hiker",
				"followersCount": 12
			}`), "instagram")

			Expect(bundle.Profile).NotTo(BeNil())
			Expect(bundle.Bio).To(Equal("hiker"))
			Expect(bundle.Posts).To(BeEmpty())
		})
	})

	Describe("data envelope shape", func() {
		It("unwraps the data array and recurses", func() {
			bundle := normalizer.Normalize([]byte(`{
				"data": [
					{"username": "casey", "latestPosts": [{"caption": "hi", "likesCount": 1}]}
				]
			}`), "instagram")

			Expect(bundle.Profile).NotTo(BeNil())
			Expect(bundle.Posts).To(HaveLen(1))
		})
	})

	Describe("quoted numeric fields", func() {
		It("coerces string counts", func() {
			bundle := normalizer.Normalize([]byte(`{
				"username": "casey",
				"followersCount": "1200"
			}`), "instagram")

			Expect(bundle.Profile.FollowersCount).To(Equal(1200))
		})
	})

	Describe("hashtag and mention extraction", func() {
		It("extracts tags from content when the export carries none", func() {
			bundle := normalizer.Normalize([]byte(`[
				{"text": "shoutout @Riley for the #Sunset pics #sunset", "likes": 1}
			]`), "twitter")

			Expect(bundle.Posts[0].Hashtags).To(Equal([]string{"#sunset"}))
			Expect(bundle.Posts[0].Mentions).To(Equal([]string{"@riley"}))
		})

		It("normalizes explicit tags to lowercase prefixed form", func() {
			bundle := normalizer.Normalize([]byte(`[
				{"caption": "x", "hashtags": ["Travel", "#Food"], "likesCount": 1}
			]`), "instagram")

			Expect(bundle.Posts[0].Hashtags).To(Equal([]string{"#travel", "#food"}))
		})
	})

	Describe("engagement summary", func() {
		It("computes rounded averages and the follower-relative rate", func() {
			bundle := normalizer.Normalize([]byte(`[
				{
					"author": {"screen_name": "casey", "followers_count": 500},
					"text": "a", "likesCount": 15, "commentsCount": 5
				},
				{"text": "b", "likesCount": 15, "commentsCount": 5}
			]`), "twitter")

			Expect(bundle.Engagement).NotTo(BeNil())
			Expect(bundle.Engagement.AvgLikes).To(Equal(15))
			Expect(bundle.Engagement.AvgComments).To(Equal(5))
			Expect(bundle.Engagement.TotalPosts).To(Equal(2))
			// (30 + 10) / (2 * 500) * 100 = 4.00
			Expect(bundle.Engagement.EngagementRate).To(Equal(4.00))
		})

		It("reports a zero rate when followers are unknown", func() {
			bundle := normalizer.Normalize([]byte(`[
				{"text": "a", "likes": 100}
			]`), "twitter")

			Expect(bundle.Engagement.EngagementRate).To(Equal(0.0))
		})
	})
})
