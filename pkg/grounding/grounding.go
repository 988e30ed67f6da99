// Package grounding renders ranked retrieval results into a single cleaned
// text block suitable for prompting a language model about an identity.
package grounding

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/retrieval"
	"github.com/papercomputeco/persona/pkg/synth"
)

const (
	// searchLimit is how many ranked results feed one context block.
	searchLimit = 8

	// maxPosts caps the post section of the rendered context.
	maxPosts = 4
)

// Retriever is the slice of the retrieval engine the assembler needs.
// *retrieval.Engine satisfies it.
type Retriever interface {
	SemanticSearch(ctx context.Context, query, username, platform string, limit int) []retrieval.Result
}

// Assembler builds grounding context blocks from retrieval results.
type Assembler struct {
	retriever Retriever
	logger    *zap.Logger
}

func NewAssembler(retriever Retriever, logger *zap.Logger) *Assembler {
	return &Assembler{retriever: retriever, logger: logger}
}

// Assemble searches the identity for the query and renders the matches as a
// sectioned text block. The second return is false when no relevant data
// exists, in which case the caller should fall back to an ungrounded prompt.
func (a *Assembler) Assemble(ctx context.Context, query, username, platform string) (string, bool) {
	results := a.retriever.SemanticSearch(ctx, query, username, platform, searchLimit)
	if len(results) == 0 {
		a.logger.Debug("no grounding data for identity",
			zap.String("username", username),
			zap.String("platform", platform),
		)
		return "", false
	}

	groups := groupByType(results)

	var b strings.Builder
	fmt.Fprintf(&b, "Social media context for @%s on %s:\n", username, platform)

	if profiles := groups[synth.TypeProfile]; len(profiles) > 0 {
		b.WriteString("\nAccount Information:\n")
		for _, r := range profiles {
			b.WriteString(sanitize(r.Content))
			b.WriteString("\n")
		}
	}

	if bios := groups[synth.TypeBio]; len(bios) > 0 {
		b.WriteString("\nProfile Description:\n")
		for _, r := range bios {
			b.WriteString(sanitize(r.Content))
			b.WriteString("\n")
		}
	}

	if posts := groups[synth.TypePost]; len(posts) > 0 {
		b.WriteString("\nRecent Posts and Engagement:\n")
		shown := posts
		if len(shown) > maxPosts {
			shown = shown[:maxPosts]
		}
		for _, r := range shown {
			fmt.Fprintf(&b, "- %q (%d likes, %d comments, %d total engagement)\n",
				sanitize(caption(r.Content)),
				intMeta(r.Metadata, "likes"),
				intMeta(r.Metadata, "comments"),
				intMeta(r.Metadata, "totalEngagement"),
			)
		}

		top := mostEngaging(posts)
		fmt.Fprintf(&b, "Most Engaging Post: %q with %d total engagements\n",
			sanitize(caption(top.Content)),
			intMeta(top.Metadata, "totalEngagement"),
		)
	}

	if summaries := groups[synth.TypeEngagement]; len(summaries) > 0 {
		b.WriteString("\nEngagement Metrics:\n")
		for _, r := range summaries {
			b.WriteString(sanitize(r.Content))
			b.WriteString("\n")
		}
	}

	fmt.Fprintf(&b, "\nBased on %d relevant data points from %s's %s activity.",
		len(results), username, platform)

	return b.String(), true
}

// groupByType buckets results by their document type, preserving rank order
// within each bucket.
func groupByType(results []retrieval.Result) map[string][]retrieval.Result {
	groups := make(map[string][]retrieval.Result)
	for _, r := range results {
		t, _ := r.Metadata["type"].(string)
		groups[t] = append(groups[t], r)
	}
	return groups
}

// mostEngaging picks the post with the highest totalEngagement, breaking
// ties in favor of the higher-ranked result.
func mostEngaging(posts []retrieval.Result) retrieval.Result {
	ranked := make([]retrieval.Result, len(posts))
	copy(ranked, posts)
	sort.SliceStable(ranked, func(i, j int) bool {
		return intMeta(ranked[i].Metadata, "totalEngagement") > intMeta(ranked[j].Metadata, "totalEngagement")
	})
	return ranked[0]
}

// caption extracts the caption line from a synthesized post document,
// falling back to the full text when the document has no content line.
func caption(content string) string {
	for _, line := range strings.Split(content, "\n") {
		if rest, ok := strings.CutPrefix(line, "Content: "); ok {
			return rest
		}
	}
	return content
}

// intMeta reads an integer metadata value, tolerating the int/float64
// variance JSON decoding introduces.
func intMeta(m map[string]any, key string) int {
	switch v := m[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	case float32:
		return int(v)
	default:
		return 0
	}
}
