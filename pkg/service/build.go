package service

import (
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/config"
	esutils "github.com/papercomputeco/persona/pkg/eventstream/utils"
	"github.com/papercomputeco/persona/pkg/retrieval"
	"github.com/papercomputeco/persona/pkg/store"
	vectorutils "github.com/papercomputeco/persona/pkg/vector/utils"

	embeddingutils "github.com/papercomputeco/persona/pkg/embeddings/utils"
)

// Build constructs a ready-to-initialize service from configuration.
func Build(cfg *config.Config, logger *zap.Logger) (*Service, error) {
	embedder, err := embeddingutils.NewEmbedder(&embeddingutils.NewEmbedderOpts{
		ProviderType: cfg.Embedding.Provider,
		TargetURL:    cfg.Embedding.Target,
		Model:        cfg.Embedding.Model,
		Dimensions:   int(cfg.Embedding.Dimensions),
	})
	if err != nil {
		return nil, fmt.Errorf("creating embedder: %w", err)
	}

	conn, err := vectorutils.NewConnector(&vectorutils.NewConnectorOpts{
		ProviderType: cfg.VectorStore.Provider,
		TargetURL:    cfg.VectorStore.Target,
		Dimensions:   embedder.Dimensions(),
		Logger:       logger,
	})
	if err != nil {
		return nil, fmt.Errorf("creating vector connector: %w", err)
	}

	fallback := store.NewFallback(cfg.Storage.FallbackDir, logger)
	st := store.New(conn, fallback, store.Config{
		CollectionSuffix: cfg.VectorStore.CollectionSuffix,
	}, logger)

	publisher, err := esutils.NewPublisher(cfg.Events.Provider, splitBrokers(cfg.Events.Brokers), cfg.Events.Topic)
	if err != nil {
		return nil, fmt.Errorf("creating event publisher: %w", err)
	}

	return New(Options{
		Embedder:  embedder,
		Store:     st,
		Weights:   weightsFromConfig(cfg.Retrieval),
		Publisher: publisher,
		Logger:    logger,
	}), nil
}

func weightsFromConfig(rc config.RetrievalConfig) retrieval.Weights {
	return retrieval.Weights{
		WordMatch:      rc.WordMatchBonus,
		TypeMatch:      rc.TypeMatchBonus,
		HighEngagement: rc.EngagementBonus,
		Verified:       rc.VerifiedBonus,
		Business:       rc.BusinessBonus,
	}
}

func splitBrokers(brokers string) []string {
	var out []string
	for _, b := range strings.Split(brokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}
