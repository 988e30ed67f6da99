package chroma_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/vector"
	"github.com/papercomputeco/persona/pkg/vector/chroma"
)

const collectionsPath = "/api/v2/tenants/default_tenant/databases/default_database/collections"

// fakeChroma records requests and replies with canned responses keyed by
// method and path.
type fakeChroma struct {
	mu       sync.Mutex
	requests []recordedRequest
	handlers map[string]http.HandlerFunc
	server   *httptest.Server
}

type recordedRequest struct {
	Method string
	Path   string
	Body   map[string]any
}

func newFakeChroma() *fakeChroma {
	f := &fakeChroma{handlers: map[string]http.HandlerFunc{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := recordedRequest{Method: r.Method, Path: r.URL.Path}
		if r.Body != nil {
			var body map[string]any
			if err := json.NewDecoder(r.Body).Decode(&body); err == nil {
				rec.Body = body
			}
		}
		f.mu.Lock()
		f.requests = append(f.requests, rec)
		handler, ok := f.handlers[r.Method+" "+r.URL.Path]
		f.mu.Unlock()

		if !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		handler(w, r)
	}))
	return f
}

func (f *fakeChroma) on(method, path string, status int, body any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[method+" "+path] = func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		if body != nil {
			_ = json.NewEncoder(w).Encode(body)
		}
	}
}

func (f *fakeChroma) recorded() []recordedRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]recordedRequest, len(f.requests))
	copy(out, f.requests)
	return out
}

var _ = Describe("Connector", func() {
	var (
		fake *fakeChroma
		conn *chroma.Connector
		ctx  context.Context
	)

	BeforeEach(func() {
		fake = newFakeChroma()
		DeferCleanup(fake.server.Close)

		var err error
		conn, err = chroma.NewConnector(chroma.Config{URL: fake.server.URL}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()
	})

	Describe("NewConnector", func() {
		It("rejects an empty URL", func() {
			_, err := chroma.NewConnector(chroma.Config{}, zap.NewNop())
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Ping", func() {
		It("succeeds when the heartbeat endpoint responds", func() {
			fake.on("GET", "/api/v2/heartbeat", http.StatusOK, map[string]int64{"nanosecond heartbeat": 1})

			Expect(conn.Ping(ctx)).To(Succeed())
		})

		It("wraps a non-200 heartbeat in ErrConnection", func() {
			fake.on("GET", "/api/v2/heartbeat", http.StatusServiceUnavailable, nil)

			err := conn.Ping(ctx)
			Expect(err).To(MatchError(vector.ErrConnection))
		})

		It("wraps an unreachable server in ErrConnection", func() {
			fake.server.Close()

			err := conn.Ping(ctx)
			Expect(err).To(MatchError(vector.ErrConnection))
		})
	})

	Describe("Collection", func() {
		It("reuses an existing collection", func() {
			fake.on("GET", collectionsPath+"/twitter_profiles", http.StatusOK,
				map[string]string{"id": "col-123", "name": "twitter_profiles"})

			driver, err := conn.Collection(ctx, "twitter_profiles")
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())

			for _, req := range fake.recorded() {
				Expect(req.Method).NotTo(Equal("POST"))
			}
		})

		It("creates the collection when it does not exist", func() {
			fake.on("GET", collectionsPath+"/twitter_profiles", http.StatusNotFound, nil)
			fake.on("POST", collectionsPath, http.StatusCreated,
				map[string]string{"id": "col-456", "name": "twitter_profiles"})

			driver, err := conn.Collection(ctx, "twitter_profiles")
			Expect(err).NotTo(HaveOccurred())
			Expect(driver).NotTo(BeNil())

			requests := fake.recorded()
			created := requests[len(requests)-1]
			Expect(created.Method).To(Equal("POST"))
			Expect(created.Body).To(HaveKeyWithValue("name", "twitter_profiles"))
		})

		It("fails when creation is rejected", func() {
			fake.on("GET", collectionsPath+"/twitter_profiles", http.StatusNotFound, nil)
			fake.on("POST", collectionsPath, http.StatusInternalServerError, nil)

			_, err := conn.Collection(ctx, "twitter_profiles")
			Expect(err).To(HaveOccurred())
		})
	})
})

var _ = Describe("Driver", func() {
	var (
		fake   *fakeChroma
		driver vector.Driver
		ctx    context.Context
	)

	colPath := collectionsPath + "/col-123"

	BeforeEach(func() {
		fake = newFakeChroma()
		DeferCleanup(fake.server.Close)

		fake.on("GET", collectionsPath+"/twitter_profiles", http.StatusOK,
			map[string]string{"id": "col-123", "name": "twitter_profiles"})

		conn, err := chroma.NewConnector(chroma.Config{URL: fake.server.URL}, zap.NewNop())
		Expect(err).NotTo(HaveOccurred())

		ctx = context.Background()

		driver, err = conn.Collection(ctx, "twitter_profiles")
		Expect(err).NotTo(HaveOccurred())
	})

	Describe("Add", func() {
		It("sends ids, embeddings, metadatas and documents in parallel arrays", func() {
			fake.on("POST", colPath+"/add", http.StatusCreated, nil)

			docs := []vector.Document{
				{
					ID:        "casey_twitter_profile",
					Content:   "Profile summary",
					Embedding: []float32{0.1, 0.2},
					Metadata:  map[string]any{"username": "casey", "type": "profile"},
				},
				{
					ID:        "casey_twitter_post_0",
					Content:   "Post about travel",
					Embedding: []float32{0.3, 0.4},
					Metadata:  map[string]any{"username": "casey", "type": "post"},
				},
			}

			Expect(driver.Add(ctx, docs)).To(Succeed())

			requests := fake.recorded()
			added := requests[len(requests)-1]
			Expect(added.Path).To(Equal(colPath + "/add"))
			Expect(added.Body["ids"]).To(Equal([]any{"casey_twitter_profile", "casey_twitter_post_0"}))
			Expect(added.Body["documents"]).To(Equal([]any{"Profile summary", "Post about travel"}))
			Expect(added.Body["embeddings"]).To(HaveLen(2))
			Expect(added.Body["metadatas"]).To(HaveLen(2))
		})

		It("does nothing for an empty batch", func() {
			Expect(driver.Add(ctx, nil)).To(Succeed())

			for _, req := range fake.recorded() {
				Expect(req.Path).NotTo(HaveSuffix("/add"))
			}
		})

		It("surfaces server rejections", func() {
			fake.on("POST", colPath+"/add", http.StatusUnprocessableEntity, nil)

			err := driver.Add(ctx, []vector.Document{{ID: "a", Embedding: []float32{0.1}}})
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("Query", func() {
		It("sends the embedding with a single-key where clause and unpacks results", func() {
			fake.on("POST", colPath+"/query", http.StatusOK, map[string]any{
				"ids":       [][]string{{"doc-1", "doc-2"}},
				"distances": [][]float32{{0.1, 0.4}},
				"documents": [][]string{{"first", "second"}},
				"metadatas": [][]map[string]any{{
					{"type": "profile"},
					{"type": "post"},
				}},
			})

			results, err := driver.Query(ctx, []float32{0.5, 0.5}, 2, vector.Filter{"username": "casey"})
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(HaveLen(2))

			Expect(results[0].ID).To(Equal("doc-1"))
			Expect(results[0].Content).To(Equal("first"))
			Expect(results[0].Distance).To(BeNumerically("~", 0.1, 1e-6))
			Expect(results[0].Metadata).To(HaveKeyWithValue("type", "profile"))
			Expect(results[1].ID).To(Equal("doc-2"))

			requests := fake.recorded()
			queried := requests[len(requests)-1]
			Expect(queried.Body["n_results"]).To(BeEquivalentTo(2))
			Expect(queried.Body["where"]).To(Equal(map[string]any{"username": "casey"}))
			Expect(queried.Body["query_embeddings"]).To(HaveLen(1))
		})

		It("joins multiple filter conditions with $and", func() {
			fake.on("POST", colPath+"/query", http.StatusOK, map[string]any{
				"ids": [][]string{{}},
			})

			_, err := driver.Query(ctx, []float32{0.5}, 3, vector.Filter{
				"username": "casey",
				"type":     "post",
			})
			Expect(err).NotTo(HaveOccurred())

			requests := fake.recorded()
			queried := requests[len(requests)-1]
			where, ok := queried.Body["where"].(map[string]any)
			Expect(ok).To(BeTrue())

			conds, ok := where["$and"].([]any)
			Expect(ok).To(BeTrue())
			Expect(conds).To(HaveLen(2))
			Expect(conds).To(ContainElement(map[string]any{"username": "casey"}))
			Expect(conds).To(ContainElement(map[string]any{"type": "post"}))
		})

		It("defaults non-positive topK to 10", func() {
			fake.on("POST", colPath+"/query", http.StatusOK, map[string]any{
				"ids": [][]string{{}},
			})

			_, err := driver.Query(ctx, []float32{0.5}, 0, nil)
			Expect(err).NotTo(HaveOccurred())

			requests := fake.recorded()
			queried := requests[len(requests)-1]
			Expect(queried.Body["n_results"]).To(BeEquivalentTo(10))
		})

		It("returns no results for an empty response", func() {
			fake.on("POST", colPath+"/query", http.StatusOK, map[string]any{
				"ids": [][]string{{}},
			})

			results, err := driver.Query(ctx, []float32{0.5}, 5, nil)
			Expect(err).NotTo(HaveOccurred())
			Expect(results).To(BeEmpty())
		})
	})

	Describe("DeleteWhere", func() {
		It("sends the where clause", func() {
			fake.on("POST", colPath+"/delete", http.StatusOK, nil)

			Expect(driver.DeleteWhere(ctx, vector.Filter{"username": "casey"})).To(Succeed())

			requests := fake.recorded()
			deleted := requests[len(requests)-1]
			Expect(deleted.Path).To(Equal(colPath + "/delete"))
			Expect(deleted.Body["where"]).To(Equal(map[string]any{"username": "casey"}))
		})

		It("refuses an empty filter", func() {
			err := driver.DeleteWhere(ctx, nil)
			Expect(err).To(HaveOccurred())

			for _, req := range fake.recorded() {
				Expect(req.Path).NotTo(HaveSuffix("/delete"))
			}
		})
	})

	Describe("Count", func() {
		It("decodes the bare integer response", func() {
			fake.on("GET", colPath+"/count", http.StatusOK, 7)

			count, err := driver.Count(ctx)
			Expect(err).NotTo(HaveOccurred())
			Expect(count).To(Equal(7))
		})

		It("surfaces server errors", func() {
			fake.on("GET", colPath+"/count", http.StatusInternalServerError, nil)

			_, err := driver.Count(ctx)
			Expect(err).To(HaveOccurred())
		})
	})
})
