package synth

import "strings"

// Keyword-bucket lexicons for bio analysis. A bucket matches when any of its
// keywords appears as a substring of the lowercased bio. Buckets are checked
// in order so derived lists are deterministic.

type lexiconBucket struct {
	label    string
	keywords []string
}

var themeBuckets = []lexiconBucket{
	{"Fitness & Wellness", []string{"fitness", "workout", "gym", "health", "wellness", "yoga", "nutrition"}},
	{"Food & Cooking", []string{"food", "recipe", "cooking", "chef", "restaurant", "baking", "foodie"}},
	{"Travel & Adventure", []string{"travel", "wanderlust", "explore", "trip", "destination", "nomad"}},
	{"Fashion & Style", []string{"fashion", "style", "outfit", "clothing", "designer", "wardrobe"}},
	{"Beauty & Skincare", []string{"beauty", "makeup", "skincare", "cosmetic", "glow"}},
	{"Technology", []string{"tech", "software", "coding", "developer", "startup", "digital", "gadget"}},
	{"Business & Entrepreneurship", []string{"business", "entrepreneur", "founder", "marketing", "sales", "ceo"}},
	{"Art & Creativity", []string{"art", "artist", "design", "creative", "photography", "illustration"}},
	{"Music & Entertainment", []string{"music", "musician", "band", "producer", "entertainment", "film"}},
	{"Family & Lifestyle", []string{"family", "parenting", "lifestyle", "home", "mom", "dad"}},
}

var personalityBuckets = []lexiconBucket{
	{"Motivational", []string{"motivat", "inspir", "mindset", "goals", "hustle"}},
	{"Humorous", []string{"funny", "humor", "comedy", "meme", "jokes"}},
	{"Educational", []string{"teach", "learn", "tips", "coach", "mentor"}},
	{"Adventurous", []string{"adventur", "outdoor", "extreme", "thrill"}},
	{"Creative", []string{"creativ", "imagin", "artistic", "maker"}},
	{"Professional", []string{"professional", "expert", "certified", "official"}},
	{"Community-minded", []string{"community", "together", "support", "charity", "nonprofit"}},
	{"Authentic", []string{"real", "honest", "genuine", "authentic", "unfiltered"}},
}

const (
	defaultTheme       = "General Content"
	defaultPersonality = "Engaging"
)

// stopWords are excluded from bio keyword extraction. Short words are
// already dropped by the length filter; this list catches common longer
// filler words.
var stopWords = map[string]bool{
	"this": true, "that": true, "with": true, "from": true, "have": true,
	"will": true, "your": true, "about": true, "they": true, "what": true,
	"when": true, "where": true, "their": true, "would": true, "there": true,
	"been": true, "were": true, "just": true, "more": true, "than": true,
	"them": true, "some": true, "into": true, "over": true, "only": true,
}

// matchBuckets returns the labels of all buckets whose keywords appear in
// the lowercased bio, or the fallback label when none match.
func matchBuckets(bioLower string, buckets []lexiconBucket, fallback string) []string {
	var labels []string
	for _, b := range buckets {
		for _, kw := range b.keywords {
			if strings.Contains(bioLower, kw) {
				labels = append(labels, b.label)
				break
			}
		}
	}

	if len(labels) == 0 {
		return []string{fallback}
	}
	return labels
}
