// Package synth turns a canonical export bundle into the semantic documents
// that get embedded and indexed: one profile document, one per non-empty
// post, a bio document with derived themes and personality, and an
// engagement summary document.
package synth

import (
	"fmt"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/export"
)

// maxKeywords caps the derived keyword list on bio documents.
const maxKeywords = 10

var punctRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Synthesizer builds semantic documents from canonical bundles.
type Synthesizer struct {
	logger *zap.Logger
}

func NewSynthesizer(logger *zap.Logger) *Synthesizer {
	return &Synthesizer{logger: logger}
}

// Synthesize produces the document set for one (username, platform)
// identity. Families absent from the bundle are simply omitted; an empty
// bundle yields an empty slice.
func (s *Synthesizer) Synthesize(bundle export.Bundle, username, platform string) []Document {
	var docs []Document

	if bundle.Profile != nil {
		docs = append(docs, s.profileDoc(bundle.Profile, username, platform))
	}

	for i, post := range bundle.Posts {
		if strings.TrimSpace(post.Content) == "" {
			continue
		}
		docs = append(docs, s.postDoc(post, i, username, platform))
	}

	if strings.TrimSpace(bundle.Bio) != "" {
		docs = append(docs, s.bioDoc(bundle.Bio, username, platform))
	}

	if bundle.Engagement != nil {
		docs = append(docs, s.engagementDoc(bundle.Engagement, username, platform))
	}

	s.logger.Debug("synthesized documents",
		zap.String("username", username),
		zap.String("platform", platform),
		zap.Int("count", len(docs)),
	)

	return docs
}

func (s *Synthesizer) profileDoc(p *export.Profile, username, platform string) Document {
	var b strings.Builder
	fmt.Fprintf(&b, "Social media profile for %s (@%s) on %s.\n", orHandle(p.FullName, username), username, platform)
	if p.Bio != "" {
		fmt.Fprintf(&b, "Bio: %s\n", p.Bio)
	}
	fmt.Fprintf(&b, "Followers: %d | Following: %d | Posts: %d\n", p.FollowersCount, p.FollowingCount, p.PostsCount)
	fmt.Fprintf(&b, "Verified: %s | Business account: %s\n", yesNo(p.Verified), yesNo(p.BusinessAccount))
	if p.Category != "" {
		fmt.Fprintf(&b, "Category: %s\n", p.Category)
	}
	if p.Website != "" {
		fmt.Fprintf(&b, "Website: %s\n", p.Website)
	}

	return Document{
		ID:      docID(username, platform, TypeProfile),
		Content: strings.TrimRight(b.String(), "\n"),
		Metadata: map[string]any{
			"type":            TypeProfile,
			"platform":        platform,
			"username":        username,
			"followerCount":   p.FollowersCount,
			"verified":        p.Verified,
			"businessAccount": p.BusinessAccount,
			"category":        p.Category,
		},
	}
}

func (s *Synthesizer) postDoc(post export.Post, index int, username, platform string) Document {
	total := post.Engagement.Likes + post.Engagement.Comments

	var b strings.Builder
	fmt.Fprintf(&b, "Post %d by @%s on %s:\n", index, username, platform)
	fmt.Fprintf(&b, "Content: %s\n", post.Content)
	if len(post.Hashtags) > 0 {
		fmt.Fprintf(&b, "Hashtags: %s\n", strings.Join(post.Hashtags, " "))
	}
	if len(post.Mentions) > 0 {
		fmt.Fprintf(&b, "Mentions: %s\n", strings.Join(post.Mentions, " "))
	}
	fmt.Fprintf(&b, "Likes: %d | Comments: %d | Total engagement: %d\n",
		post.Engagement.Likes, post.Engagement.Comments, total)
	if post.Timestamp != "" {
		fmt.Fprintf(&b, "Posted: %s\n", post.Timestamp)
	}

	return Document{
		ID:      fmt.Sprintf("%s_%s_post_%d", username, platform, index),
		Content: strings.TrimRight(b.String(), "\n"),
		Metadata: map[string]any{
			"type":            TypePost,
			"platform":        platform,
			"username":        username,
			"postIndex":       index,
			"likes":           post.Engagement.Likes,
			"comments":        post.Engagement.Comments,
			"totalEngagement": total,
			"hashtagCount":    len(post.Hashtags),
			"mentionCount":    len(post.Mentions),
			"wordCount":       len(strings.Fields(post.Content)),
		},
	}
}

func (s *Synthesizer) bioDoc(bio, username, platform string) Document {
	lower := strings.ToLower(bio)
	themes := matchBuckets(lower, themeBuckets, defaultTheme)
	personality := matchBuckets(lower, personalityBuckets, defaultPersonality)
	keywords := ExtractKeywords(bio)

	var b strings.Builder
	fmt.Fprintf(&b, "Profile description for @%s on %s: %s\n", username, platform, bio)
	fmt.Fprintf(&b, "Content themes: %s\n", strings.Join(themes, ", "))
	fmt.Fprintf(&b, "Personality traits: %s\n", strings.Join(personality, ", "))
	if len(keywords) > 0 {
		fmt.Fprintf(&b, "Key topics: %s\n", strings.Join(keywords, ", "))
	}

	return Document{
		ID:      docID(username, platform, TypeBio),
		Content: strings.TrimRight(b.String(), "\n"),
		Metadata: map[string]any{
			"type":        TypeBio,
			"platform":    platform,
			"username":    username,
			"themes":      themes,
			"personality": personality,
			"keywords":    keywords,
		},
	}
}

func (s *Synthesizer) engagementDoc(e *export.EngagementSummary, username, platform string) Document {
	label := CategorizePerformance(e.EngagementRate)

	var b strings.Builder
	fmt.Fprintf(&b, "Engagement summary for @%s on %s:\n", username, platform)
	fmt.Fprintf(&b, "Average likes: %d | Average comments: %d | Average shares: %d\n",
		e.AvgLikes, e.AvgComments, e.AvgShares)
	fmt.Fprintf(&b, "Total posts analyzed: %d\n", e.TotalPosts)
	fmt.Fprintf(&b, "Engagement rate: %.2f%%\n", e.EngagementRate)
	fmt.Fprintf(&b, "Performance: %s", label)

	return Document{
		ID:      docID(username, platform, TypeEngagement),
		Content: b.String(),
		Metadata: map[string]any{
			"type":           TypeEngagement,
			"platform":       platform,
			"username":       username,
			"avgLikes":       e.AvgLikes,
			"avgComments":    e.AvgComments,
			"totalPosts":     e.TotalPosts,
			"engagementRate": e.EngagementRate,
			"performance":    label,
		},
	}
}

// CategorizePerformance maps an engagement-rate percentage to its
// performance label.
func CategorizePerformance(rate float64) string {
	switch {
	case rate >= 6:
		return "Excellent"
	case rate >= 3:
		return "Good"
	case rate >= 1:
		return "Average"
	default:
		return "Below Average"
	}
}

// ExtractKeywords derives up to maxKeywords topic words from a bio:
// lowercased, punctuation stripped, whitespace split, words longer than
// three characters that are not stop words, de-duplicated in order.
func ExtractKeywords(bio string) []string {
	cleaned := punctRe.ReplaceAllString(strings.ToLower(bio), " ")

	var keywords []string
	seen := make(map[string]bool)
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 3 || stopWords[word] || seen[word] {
			continue
		}
		seen[word] = true
		keywords = append(keywords, word)
		if len(keywords) == maxKeywords {
			break
		}
	}

	return keywords
}

func docID(username, platform, docType string) string {
	return fmt.Sprintf("%s_%s_%s", username, platform, docType)
}

func orHandle(fullName, username string) string {
	if fullName != "" {
		return fullName
	}
	return username
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
