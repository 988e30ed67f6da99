package hash_test

import (
	"context"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/papercomputeco/persona/pkg/embeddings"
	"github.com/papercomputeco/persona/pkg/embeddings/hash"
)

var _ = Describe("Embedder", func() {
	var (
		embedder *hash.Embedder
		ctx      context.Context
	)

	BeforeEach(func() {
		embedder = hash.NewEmbedder()
		ctx = context.Background()
	})

	It("produces vectors of the fixed length", func() {
		vec, err := embedder.Embed(ctx, "travel photography on the coast")

		Expect(err).NotTo(HaveOccurred())
		Expect(vec).To(HaveLen(384))
		Expect(embedder.Dimensions()).To(Equal(384))
	})

	It("is deterministic", func() {
		a, err := embedder.Embed(ctx, "same input text")
		Expect(err).NotTo(HaveOccurred())

		b, err := embedder.Embed(ctx, "same input text")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).To(Equal(b))
	})

	It("produces only finite components", func() {
		vec, err := embedder.Embed(ctx, "an ordinary caption with #hashtags and @mentions")
		Expect(err).NotTo(HaveOccurred())

		for _, v := range vec {
			Expect(math.IsNaN(float64(v))).To(BeFalse())
			Expect(math.IsInf(float64(v), 0)).To(BeFalse())
		}
	})

	It("L2-normalizes non-zero vectors", func() {
		vec, err := embedder.Embed(ctx, "golden hour at the pier")
		Expect(err).NotTo(HaveOccurred())

		var sumSq float64
		for _, v := range vec {
			sumSq += float64(v) * float64(v)
		}
		Expect(math.Sqrt(sumSq)).To(BeNumerically("~", 1.0, 1e-5))
	})

	It("returns the zero vector when no token survives filtering", func() {
		for _, text := range []string{"", "a is to", "!!! ???"} {
			vec, err := embedder.Embed(ctx, text)
			Expect(err).NotTo(HaveOccurred())

			for _, v := range vec {
				Expect(v).To(Equal(float32(0)))
			}
		}
	})

	It("distinguishes different inputs", func() {
		a, err := embedder.Embed(ctx, "fitness coaching and gym tips")
		Expect(err).NotTo(HaveOccurred())

		b, err := embedder.Embed(ctx, "sourdough baking experiments")
		Expect(err).NotTo(HaveOccurred())

		Expect(a).NotTo(Equal(b))
	})
})

var _ = Describe("EmbedBatch", func() {
	It("returns vectors in input order", func() {
		embedder := hash.NewEmbedder()
		texts := []string{"first document", "second document", "third document"}

		vectors, err := embeddings.EmbedBatch(context.Background(), embedder, texts)
		Expect(err).NotTo(HaveOccurred())
		Expect(vectors).To(HaveLen(3))

		for i, text := range texts {
			want, err := embedder.Embed(context.Background(), text)
			Expect(err).NotTo(HaveOccurred())
			Expect(vectors[i]).To(Equal(want))
		}
	})
})
