package grounding

import (
	"regexp"
	"strings"
)

// emojiGlyphs are stripped from any text that reaches the rendered context.
// The set is fixed; it covers the decorative glyphs common in profile bios
// and captions, not general emoji.
var emojiGlyphs = []string{
	"\U0001F680", // rocket
	"\U0001F525", // fire
	"\U0001F4AF", // hundred points
	"✨",     // sparkles
	"\U0001F3AF", // direct hit
	"\U0001F4C8", // chart increasing
	"\U0001F4AA", // flexed biceps
	"\U0001F31F", // glowing star
	"\U0001F4B0", // money bag
	"\U0001F451", // crown
}

// jargonTokens are marketing phrases removed case-insensitively. Multi-word
// phrases are listed before their substrings so the longest form wins.
var jargonTokens = []string{
	"BRAND PARTNERSHIPS",
	"INFLUENCER MARKETING",
	"GROWTH HACKING",
	"GAME-CHANGING",
	"STRATEGIC",
	"VIRAL",
	"SYNERGY",
}

var (
	emojiReplacer = strings.NewReplacer(replacerPairs(emojiGlyphs)...)
	jargonRe      = buildJargonRe(jargonTokens)
	multiSpaceRe  = regexp.MustCompile(`[ \t]{2,}`)
)

func replacerPairs(glyphs []string) []string {
	pairs := make([]string, 0, len(glyphs)*2)
	for _, g := range glyphs {
		pairs = append(pairs, g, "")
	}
	return pairs
}

func buildJargonRe(tokens []string) *regexp.Regexp {
	quoted := make([]string, len(tokens))
	for i, t := range tokens {
		quoted[i] = regexp.QuoteMeta(t)
	}
	return regexp.MustCompile(`(?i)(` + strings.Join(quoted, "|") + `)`)
}

// sanitize strips the emoji and jargon sets from text and normalizes the
// whitespace the removals leave behind.
func sanitize(text string) string {
	text = emojiReplacer.Replace(text)
	text = jargonRe.ReplaceAllString(text, "")

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(multiSpaceRe.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
