package export

// Profile is the canonical account shape extracted from a raw export.
type Profile struct {
	Platform        string `json:"platform"`
	Username        string `json:"username"`
	FullName        string `json:"fullName"`
	Bio             string `json:"bio"`
	FollowersCount  int    `json:"followersCount"`
	FollowingCount  int    `json:"followingCount"`
	PostsCount      int    `json:"postsCount"`
	Verified        bool   `json:"verified"`
	BusinessAccount bool   `json:"businessAccount"`
	Category        string `json:"category"`
	Website         string `json:"website"`
}

// PostEngagement holds the per-post interaction counters.
type PostEngagement struct {
	Likes    int `json:"likes"`
	Comments int `json:"comments"`
	Shares   int `json:"shares"`
}

// Post is the canonical post shape extracted from a raw export.
// Hashtags are lowercased and '#'-prefixed; mentions are lowercased and
// '@'-prefixed.
type Post struct {
	Content    string         `json:"content"`
	Timestamp  string         `json:"timestamp"`
	Engagement PostEngagement `json:"engagement"`
	Hashtags   []string       `json:"hashtags"`
	Mentions   []string       `json:"mentions"`
}

// EngagementSummary aggregates post engagement across an export.
// EngagementRate is a percentage rounded to two decimal places; it is 0
// when the follower count is unknown.
type EngagementSummary struct {
	AvgLikes       int     `json:"avgLikes"`
	AvgComments    int     `json:"avgComments"`
	AvgShares      int     `json:"avgShares"`
	TotalPosts     int     `json:"totalPosts"`
	EngagementRate float64 `json:"engagementRate"`
}

// Bundle is the canonical result of normalizing a raw export. Any field may
// be empty: a post-only export has no profile, a profile-only export has no
// posts, and a malformed export yields the zero Bundle.
type Bundle struct {
	Profile    *Profile           `json:"profile"`
	Posts      []Post             `json:"posts"`
	Bio        string             `json:"bio"`
	Engagement *EngagementSummary `json:"engagement"`
}

// Empty reports whether the bundle carries no usable data.
func (b Bundle) Empty() bool {
	return b.Profile == nil && len(b.Posts) == 0 && b.Bio == "" && b.Engagement == nil
}
