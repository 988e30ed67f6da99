// Package embeddings
package embeddings

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// Embedder provides text embedding capabilities.
type Embedder interface {
	// Embed converts text into a vector embedding.
	Embed(ctx context.Context, text string) ([]float32, error)

	// Dimensions returns the fixed length of vectors this embedder produces.
	Dimensions() int

	// Close releases any resources held by the embedder.
	Close() error
}

// EmbedBatch embeds each text concurrently and returns the vectors in input
// order. Any single failure fails the whole batch; callers get either a
// complete vector set or an error, never a partial one.
func EmbedBatch(ctx context.Context, e Embedder, texts []string) ([][]float32, error) {
	vectors := make([][]float32, len(texts))

	g, ctx := errgroup.WithContext(ctx)
	for i, text := range texts {
		g.Go(func() error {
			vec, err := e.Embed(ctx, text)
			if err != nil {
				return err
			}
			vectors[i] = vec
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return vectors, nil
}
