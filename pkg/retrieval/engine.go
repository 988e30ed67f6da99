// Package retrieval performs similarity search over an identity's indexed
// documents and re-ranks matches with heuristic relevance. Primary search
// runs against the vector store; any failure there degrades to a
// token-overlap search over the identity's fallback file for that call.
package retrieval

import (
	"context"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/embeddings"
	"github.com/papercomputeco/persona/pkg/store"
	"github.com/papercomputeco/persona/pkg/synth"
	"github.com/papercomputeco/persona/pkg/vector"
)

// Searcher is the slice of the document store the engine needs. *store.Store
// satisfies it.
type Searcher interface {
	Mode() store.Mode
	Query(ctx context.Context, platform string, embedding []float32, username string, limit int) ([]vector.QueryResult, error)
	ReadFallback(id store.Identity) (*store.FallbackRecord, error)
}

// Result is one ranked retrieval match. Similarity is the distance-derived
// closeness from the vector backend (token overlap in fallback mode);
// Relevance is the heuristic re-rank score. Both are in [0, 1].
type Result struct {
	Content    string         `json:"content"`
	Metadata   map[string]any `json:"metadata"`
	Similarity float64        `json:"similarity"`
	Relevance  float64        `json:"relevance"`
}

// Engine ranks an identity's documents against a query.
type Engine struct {
	embedder embeddings.Embedder
	store    Searcher
	weights  Weights
	logger   *zap.Logger
}

// NewEngine creates a retrieval engine. Zero-valued weight fields fall back
// to DefaultWeights.
func NewEngine(embedder embeddings.Embedder, s Searcher, weights Weights, logger *zap.Logger) *Engine {
	return &Engine{
		embedder: embedder,
		store:    s,
		weights:  weights.applyDefaults(),
		logger:   logger,
	}
}

// SemanticSearch returns up to limit documents for the identity ranked by
// relevance. Search never fails from the caller's perspective: primary
// errors degrade to fallback search, and an identity with no data yields an
// empty slice.
func (e *Engine) SemanticSearch(ctx context.Context, query, username, platform string, limit int) []Result {
	if e.store.Mode() == store.ModeFallback {
		return e.FallbackSearch(query, username, platform, limit)
	}

	queryEmbedding, err := e.embedder.Embed(ctx, query)
	if err != nil {
		e.logger.Warn("query embedding failed, using fallback search",
			zap.String("username", username),
			zap.Error(err),
		)
		return e.FallbackSearch(query, username, platform, limit)
	}

	matches, err := e.store.Query(ctx, platform, queryEmbedding, username, limit)
	if err != nil {
		e.logger.Warn("primary search failed, using fallback search",
			zap.String("username", username),
			zap.String("platform", platform),
			zap.Error(err),
		)
		return e.FallbackSearch(query, username, platform, limit)
	}

	results := make([]Result, 0, len(matches))
	for _, m := range matches {
		results = append(results, Result{
			Content:    m.Content,
			Metadata:   m.Metadata,
			Similarity: clamp01(1 - float64(m.Distance)),
			Relevance:  e.score(query, m.Content, m.Metadata),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	return results
}

// FallbackSearch ranks the identity's fallback file by query-word overlap:
// relevance is the fraction of query words that are a substring of, or
// contain, some document word. Results below the floor are dropped.
func (e *Engine) FallbackSearch(query, username, platform string, limit int) []Result {
	rec, err := e.store.ReadFallback(store.Identity{Username: username, Platform: platform})
	if err != nil {
		e.logger.Warn("fallback read failed",
			zap.String("username", username),
			zap.String("platform", platform),
			zap.Error(err),
		)
		return []Result{}
	}
	if rec == nil {
		return []Result{}
	}

	queryWords := strings.Fields(strings.ToLower(query))
	if len(queryWords) == 0 {
		return []Result{}
	}

	results := make([]Result, 0, len(rec.Documents))
	for i, doc := range rec.Documents {
		overlap := overlapScore(queryWords, strings.Fields(strings.ToLower(doc)))
		if overlap <= e.weights.FallbackFloor {
			continue
		}

		var metadata map[string]any
		if i < len(rec.Metadatas) {
			metadata = rec.Metadatas[i]
		}

		results = append(results, Result{
			Content:    doc,
			Metadata:   metadata,
			Similarity: overlap,
			Relevance:  overlap,
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Relevance > results[j].Relevance
	})

	if limit > 0 && len(results) > limit {
		results = results[:limit]
	}

	return results
}

// score computes the heuristic relevance of one document for a query.
func (e *Engine) score(query, content string, metadata map[string]any) float64 {
	queryLower := strings.ToLower(query)
	queryWords := strings.Fields(queryLower)

	docWords := make(map[string]bool)
	for _, w := range strings.Fields(strings.ToLower(content)) {
		docWords[strings.Trim(w, ".,!?:;()|")] = true
	}

	var score float64

	for _, qw := range queryWords {
		if docWords[qw] {
			score += e.weights.WordMatch
		}
	}

	docType, _ := metadata["type"].(string)
	for _, t := range []string{synth.TypeProfile, synth.TypePost, synth.TypeEngagement, synth.TypeBio} {
		if docType == t && strings.Contains(queryLower, t) {
			score += e.weights.TypeMatch
			break
		}
	}

	if numericMeta(metadata, "totalEngagement") > e.weights.EngagementThreshold {
		score += e.weights.HighEngagement
	}
	if flagMeta(metadata, "verified") {
		score += e.weights.Verified
	}
	if flagMeta(metadata, "businessAccount") {
		score += e.weights.Business
	}

	if score > e.weights.Cap {
		score = e.weights.Cap
	}
	return score
}

// overlapScore is the fraction of query words matching some document word,
// where a match means either word contains the other.
func overlapScore(queryWords, docWords []string) float64 {
	matched := 0
	for _, qw := range queryWords {
		for _, dw := range docWords {
			if strings.Contains(dw, qw) || strings.Contains(qw, dw) {
				matched++
				break
			}
		}
	}
	return float64(matched) / float64(len(queryWords))
}

// numericMeta reads a numeric metadata value, tolerating the int/float64
// variance JSON decoding introduces.
func numericMeta(m map[string]any, key string) float64 {
	switch v := m[key].(type) {
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case float64:
		return v
	case float32:
		return float64(v)
	default:
		return 0
	}
}

func flagMeta(m map[string]any, key string) bool {
	b, _ := m[key].(bool)
	return b
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
