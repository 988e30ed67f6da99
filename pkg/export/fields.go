package export

import (
	"regexp"
	"strconv"
	"strings"
)

// Field access helpers for the loosely-typed maps json.Unmarshal produces.
// Collectors disagree on key names and numeric encodings (float64 vs quoted
// strings), so every accessor takes a list of candidate keys and coerces.

var (
	hashtagRe = regexp.MustCompile(`#[\p{L}\p{N}_]+`)
	mentionRe = regexp.MustCompile(`@[\p{L}\p{N}_.]+`)
)

func parseProfile(m map[string]any) *Profile {
	return &Profile{
		Username:        strOf(m, "username", "userName", "screen_name"),
		FullName:        strOf(m, "fullName", "full_name", "name"),
		Bio:             bioOf(m),
		FollowersCount:  intOf(m, "followersCount", "followers_count", "followers"),
		FollowingCount:  intOf(m, "followingCount", "following_count", "following", "followsCount"),
		PostsCount:      intOf(m, "postsCount", "posts_count", "mediaCount", "statuses_count"),
		Verified:        boolOf(m, "verified", "isVerified", "is_verified"),
		BusinessAccount: boolOf(m, "businessAccount", "isBusinessAccount", "is_business_account"),
		Category:        strOf(m, "category", "businessCategoryName"),
		Website:         strOf(m, "website", "externalUrl", "external_url", "url"),
	}
}

func bioOf(m map[string]any) string {
	return strOf(m, "biography", "bio", "description")
}

func parsePost(m map[string]any) Post {
	content := strOf(m, "text", "caption")

	post := Post{
		Content:   content,
		Timestamp: strOf(m, "timestamp", "createdAt", "created_at", "takenAt"),
		Engagement: PostEngagement{
			Likes:    intOf(m, "likesCount", "like_count", "likes"),
			Comments: intOf(m, "commentsCount", "reply_count", "comments"),
			Shares:   intOf(m, "retweetCount", "share_count", "shares"),
		},
		Hashtags: canonicalTags(listOf(m, "hashtags"), content, hashtagRe, "#"),
		Mentions: canonicalTags(listOf(m, "mentions"), content, mentionRe, "@"),
	}

	return post
}

// canonicalTags lowercases and prefix-normalizes tags from the export,
// falling back to extracting them from the post content when the export
// carries none.
func canonicalTags(raw []string, content string, re *regexp.Regexp, prefix string) []string {
	if len(raw) == 0 && content != "" {
		raw = re.FindAllString(content, -1)
	}

	var tags []string
	seen := make(map[string]bool)
	for _, t := range raw {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if !strings.HasPrefix(t, prefix) {
			t = prefix + t
		}
		if t == prefix || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}

	return tags
}

func hasAny(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if _, ok := m[k]; ok {
			return true
		}
	}
	return false
}

func strOf(m map[string]any, keys ...string) string {
	for _, k := range keys {
		if s, ok := m[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func intOf(m map[string]any, keys ...string) int {
	for _, k := range keys {
		switch v := m[k].(type) {
		case float64:
			return int(v)
		case string:
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
	}
	return 0
}

func boolOf(m map[string]any, keys ...string) bool {
	for _, k := range keys {
		if b, ok := m[k].(bool); ok {
			return b
		}
	}
	return false
}

func listOf(m map[string]any, key string) []string {
	items, ok := m[key].([]any)
	if !ok {
		return nil
	}

	var out []string
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
