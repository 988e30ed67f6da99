// Package export converts heterogeneous social-media profile exports into a
// canonical profile/post/bio/engagement bundle.
//
// Export collectors produce wildly different JSON per platform: some emit a
// flat post array with an embedded author, some a profile object carrying its
// latest posts, some an envelope with a data array. Normalization runs an
// ordered chain of shape detectors; the first detector that claims the
// payload wins. A payload no detector claims, or one that fails to parse at
// all, normalizes to the empty bundle and is logged, never propagated.
package export

import (
	"encoding/json"
	"math"

	"go.uber.org/zap"
)

// Normalizer converts raw export JSON into a canonical Bundle.
type Normalizer struct {
	logger    *zap.Logger
	detectors []shapeDetector
}

// shapeDetector inspects a decoded payload and either claims it, returning
// the canonical bundle, or passes so the next detector in the chain runs.
type shapeDetector struct {
	name   string
	detect func(n *Normalizer, node any, platform string) (Bundle, bool)
}

// NewNormalizer creates a normalizer with the standard detector chain.
func NewNormalizer(logger *zap.Logger) *Normalizer {
	n := &Normalizer{logger: logger}
	n.detectors = []shapeDetector{
		{name: "author_post_list", detect: detectAuthorPostList},
		{name: "profile_with_posts_list", detect: detectProfileWithPostsList},
		{name: "bare_post_list", detect: detectBarePostList},
		{name: "direct_profile", detect: detectDirectProfile},
		{name: "data_envelope", detect: detectDataEnvelope},
	}
	return n
}

// Normalize converts a raw export payload into a canonical Bundle. The
// platform tag is stamped onto the resolved profile. Malformed or
// unrecognized payloads yield the empty bundle; Normalize never fails.
func (n *Normalizer) Normalize(raw []byte, platform string) Bundle {
	var node any
	if err := json.Unmarshal(raw, &node); err != nil {
		n.logger.Warn("unparseable export payload",
			zap.String("platform", platform),
			zap.Error(err),
		)
		return Bundle{}
	}

	return n.normalizeNode(node, platform)
}

// normalizeNode runs the detector chain over an already-decoded payload.
// The data-envelope detector recurses back into this method.
func (n *Normalizer) normalizeNode(node any, platform string) Bundle {
	for _, d := range n.detectors {
		bundle, ok := d.detect(n, node, platform)
		if !ok {
			continue
		}

		n.finalize(&bundle, platform)

		n.logger.Debug("normalized export",
			zap.String("platform", platform),
			zap.String("shape", d.name),
			zap.Int("posts", len(bundle.Posts)),
			zap.Bool("has_profile", bundle.Profile != nil),
		)
		return bundle
	}

	n.logger.Warn("unrecognized export shape", zap.String("platform", platform))
	return Bundle{}
}

// finalize stamps the platform, resolves the bio, and computes the
// engagement summary for a detected bundle.
func (n *Normalizer) finalize(b *Bundle, platform string) {
	if b.Profile != nil {
		b.Profile.Platform = platform
		if b.Bio == "" {
			b.Bio = b.Profile.Bio
		}
	}

	if len(b.Posts) > 0 {
		followers := 0
		if b.Profile != nil {
			followers = b.Profile.FollowersCount
		}
		b.Engagement = summarizeEngagement(b.Posts, followers)
	}
}

// summarizeEngagement computes per-post averages and the follower-relative
// engagement rate. The rate is zero when the follower count is unknown.
func summarizeEngagement(posts []Post, followers int) *EngagementSummary {
	var likes, comments, shares int
	for _, p := range posts {
		likes += p.Engagement.Likes
		comments += p.Engagement.Comments
		shares += p.Engagement.Shares
	}

	n := len(posts)
	summary := &EngagementSummary{
		AvgLikes:    roundDiv(likes, n),
		AvgComments: roundDiv(comments, n),
		AvgShares:   roundDiv(shares, n),
		TotalPosts:  n,
	}

	if followers > 0 {
		rate := float64(likes+comments) / float64(n*followers) * 100
		summary.EngagementRate = math.Round(rate*100) / 100
	}

	return summary
}

func roundDiv(sum, n int) int {
	if n == 0 {
		return 0
	}
	return int(math.Round(float64(sum) / float64(n)))
}
