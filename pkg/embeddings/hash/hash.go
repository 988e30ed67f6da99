// Package hash implements a deterministic, dependency-free embedding.
//
// The vectors are a sinusoidal hash of the token stream, not a learned
// representation: identical input always yields the identical vector, every
// component is finite, and non-zero vectors are L2-normalized. It exists so
// the rest of the pipeline (indexing, similarity query, ranking) works
// end-to-end without a model server, and is a drop-in placeholder for any
// real embeddings.Embedder implementation such as the Ollama one.
package hash

import (
	"context"
	"math"
	"regexp"
	"strings"

	"github.com/papercomputeco/persona/pkg/embeddings"
)

// Dimensions is the fixed output vector length.
const Dimensions = 384

var nonWordRe = regexp.MustCompile(`[^\p{L}\p{N}\s]`)

// Embedder is the deterministic hash embedder.
type Embedder struct{}

func NewEmbedder() *Embedder {
	return &Embedder{}
}

// Embed converts text into a 384-length vector. Tokens are the lowercased,
// punctuation-stripped words longer than two characters; each character
// contributes sin(c*0.1)*0.1 at index (c*(i+1)*(j+1)) mod 384, where i and j
// are the word and character positions. The result is L2-normalized unless
// it is the zero vector.
func (e *Embedder) Embed(_ context.Context, text string) ([]float32, error) {
	acc := make([]float64, Dimensions)

	cleaned := nonWordRe.ReplaceAllString(strings.ToLower(text), " ")
	wordIdx := 0
	for _, word := range strings.Fields(cleaned) {
		if len(word) <= 2 {
			continue
		}
		for charIdx, r := range word {
			c := int(r)
			idx := (c * (wordIdx + 1) * (charIdx + 1)) % Dimensions
			acc[idx] += math.Sin(float64(c)*0.1) * 0.1
		}
		wordIdx++
	}

	var sumSq float64
	for _, v := range acc {
		sumSq += v * v
	}

	vec := make([]float32, Dimensions)
	if sumSq == 0 {
		return vec, nil
	}

	norm := math.Sqrt(sumSq)
	for i, v := range acc {
		vec[i] = float32(v / norm)
	}

	return vec, nil
}

// Dimensions returns the fixed vector length.
func (e *Embedder) Dimensions() int {
	return Dimensions
}

// Close is a no-op for the hash embedder.
func (e *Embedder) Close() error {
	return nil
}

var _ embeddings.Embedder = (*Embedder)(nil)
