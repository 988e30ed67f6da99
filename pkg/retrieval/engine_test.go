package retrieval_test

import (
	"context"
	"errors"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/retrieval"
	"github.com/papercomputeco/persona/pkg/store"
	"github.com/papercomputeco/persona/pkg/vector"
)

type stubSearcher struct {
	mode     store.Mode
	matches  []vector.QueryResult
	queryErr error
	record   *store.FallbackRecord
	readErr  error
}

func (s *stubSearcher) Mode() store.Mode { return s.mode }

func (s *stubSearcher) Query(_ context.Context, _ string, _ []float32, _ string, _ int) ([]vector.QueryResult, error) {
	return s.matches, s.queryErr
}

func (s *stubSearcher) ReadFallback(_ store.Identity) (*store.FallbackRecord, error) {
	return s.record, s.readErr
}

type stubEmbedder struct {
	err error
}

func (e *stubEmbedder) Embed(_ context.Context, _ string) ([]float32, error) {
	if e.err != nil {
		return nil, e.err
	}
	return make([]float32, 384), nil
}

func (e *stubEmbedder) Dimensions() int { return 384 }
func (e *stubEmbedder) Close() error    { return nil }

func match(content string, distance float32, metadata map[string]any) vector.QueryResult {
	return vector.QueryResult{
		Document: vector.Document{
			ID:       "doc",
			Content:  content,
			Metadata: metadata,
		},
		Distance: distance,
	}
}

var _ = Describe("Engine", func() {
	var (
		searcher *stubSearcher
		engine   *retrieval.Engine
		ctx      context.Context
	)

	BeforeEach(func() {
		ctx = context.Background()
		searcher = &stubSearcher{mode: store.ModeConnected}
		engine = retrieval.NewEngine(&stubEmbedder{}, searcher, retrieval.Weights{}, zap.NewNop())
	})

	Describe("SemanticSearch", func() {
		It("converts distance to similarity", func() {
			searcher.matches = []vector.QueryResult{
				match("travel photography tips", 0.25, map[string]any{"type": "post"}),
			}

			results := engine.SemanticSearch(ctx, "travel", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
			Expect(results[0].Similarity).To(BeNumerically("~", 0.75, 1e-6))
		})

		It("clamps similarity into the unit interval", func() {
			searcher.matches = []vector.QueryResult{
				match("distant", 1.8, nil),
			}

			results := engine.SemanticSearch(ctx, "anything", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
			Expect(results[0].Similarity).To(Equal(0.0))
		})

		It("adds a bonus per matching query word", func() {
			searcher.matches = []vector.QueryResult{
				match("sunset beach photo", 0.5, nil),
			}

			results := engine.SemanticSearch(ctx, "sunset beach", "casey", "instagram", 5)

			Expect(results[0].Relevance).To(BeNumerically("~", 0.6, 1e-6))
		})

		It("adds the type bonus when the query names the document type", func() {
			searcher.matches = []vector.QueryResult{
				match("nothing in common", 0.5, map[string]any{"type": "post"}),
			}

			results := engine.SemanticSearch(ctx, "recent post activity", "casey", "instagram", 5)

			Expect(results[0].Relevance).To(BeNumerically("~", 0.5, 1e-6))
		})

		It("rewards high engagement and account flags", func() {
			searcher.matches = []vector.QueryResult{
				match("nothing in common", 0.5, map[string]any{
					"totalEngagement": float64(1500),
					"verified":        true,
					"businessAccount": true,
				}),
			}

			results := engine.SemanticSearch(ctx, "unrelated", "casey", "instagram", 5)

			Expect(results[0].Relevance).To(BeNumerically("~", 0.2, 1e-6))
		})

		It("ignores engagement exactly at the threshold", func() {
			searcher.matches = []vector.QueryResult{
				match("nothing in common", 0.5, map[string]any{
					"totalEngagement": float64(1000),
				}),
			}

			results := engine.SemanticSearch(ctx, "unrelated", "casey", "instagram", 5)

			Expect(results[0].Relevance).To(Equal(0.0))
		})

		It("caps relevance at the configured ceiling", func() {
			searcher.matches = []vector.QueryResult{
				match("alpha beta gamma delta epsilon zeta", 0.1, map[string]any{
					"type":            "post",
					"totalEngagement": float64(9000),
					"verified":        true,
				}),
			}

			results := engine.SemanticSearch(ctx, "alpha beta gamma delta epsilon post", "casey", "instagram", 5)

			Expect(results[0].Relevance).To(Equal(1.0))
		})

		It("orders results by relevance descending", func() {
			searcher.matches = []vector.QueryResult{
				match("nothing here", 0.2, nil),
				match("sunset beach travel", 0.9, nil),
			}

			results := engine.SemanticSearch(ctx, "sunset beach", "casey", "instagram", 5)

			Expect(results).To(HaveLen(2))
			Expect(results[0].Content).To(Equal("sunset beach travel"))
			Expect(results[0].Relevance).To(BeNumerically(">", results[1].Relevance))
		})

		It("falls back when the primary query fails", func() {
			searcher.queryErr = errors.New("collection gone")
			searcher.record = &store.FallbackRecord{
				Documents: []string{"sunset beach travel diary"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			results := engine.SemanticSearch(ctx, "sunset beach", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
			Expect(results[0].Relevance).To(Equal(1.0))
		})

		It("falls back when embedding the query fails", func() {
			engine = retrieval.NewEngine(&stubEmbedder{err: errors.New("embedder down")}, searcher, retrieval.Weights{}, zap.NewNop())
			searcher.record = &store.FallbackRecord{
				Documents: []string{"sunset over the bay"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			results := engine.SemanticSearch(ctx, "sunset", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
		})

		It("skips the primary path entirely in fallback mode", func() {
			searcher.mode = store.ModeFallback
			searcher.queryErr = errors.New("should not be called")
			searcher.record = &store.FallbackRecord{
				Documents: []string{"coffee shop reviews"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			results := engine.SemanticSearch(ctx, "coffee", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
		})
	})

	Describe("FallbackSearch", func() {
		It("returns an empty slice when no record exists", func() {
			results := engine.FallbackSearch("anything", "ghost", "instagram", 5)

			Expect(results).NotTo(BeNil())
			Expect(results).To(BeEmpty())
		})

		It("scores by the fraction of overlapping query words", func() {
			searcher.record = &store.FallbackRecord{
				Documents: []string{"sunset beach photos from bali"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			results := engine.FallbackSearch("sunset mountains", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
			Expect(results[0].Relevance).To(BeNumerically("~", 0.5, 1e-6))
			Expect(results[0].Similarity).To(Equal(results[0].Relevance))
		})

		It("matches when either word contains the other", func() {
			searcher.record = &store.FallbackRecord{
				Documents: []string{"photographer at work"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			results := engine.FallbackSearch("photo", "casey", "instagram", 5)

			Expect(results).To(HaveLen(1))
			Expect(results[0].Relevance).To(Equal(1.0))
		})

		It("drops documents at or below the relevance floor", func() {
			searcher.record = &store.FallbackRecord{
				Documents: []string{"a b c d e f g h i sunset"},
				Metadatas: []map[string]any{{"type": "post"}},
				IDs:       []string{"doc_0"},
			}

			// One match out of ten query words is exactly the floor.
			results := engine.FallbackSearch("sunset q1 q2 q3 q4 q5 q6 q7 q8 q9", "casey", "instagram", 5)

			Expect(results).To(BeEmpty())
		})

		It("truncates to the requested limit after sorting", func() {
			searcher.record = &store.FallbackRecord{
				Documents: []string{
					"sunset",
					"sunset beach",
					"sunset beach travel",
				},
				Metadatas: []map[string]any{{}, {}, {}},
				IDs:       []string{"doc_0", "doc_1", "doc_2"},
			}

			results := engine.FallbackSearch("sunset beach travel", "casey", "instagram", 2)

			Expect(results).To(HaveLen(2))
			Expect(results[0].Content).To(Equal("sunset beach travel"))
			Expect(results[1].Content).To(Equal("sunset beach"))
		})
	})
})
