package config

const (
	defaultFallbackDir = "data/vector_fallback"

	defaultVectorProvider   = "chroma"
	defaultVectorTarget     = "http://localhost:8000"
	defaultCollectionSuffix = "profiles"

	defaultEmbeddingProvider   = "hash"
	defaultEmbeddingTarget     = "http://localhost:11434"
	defaultEmbeddingModel      = "nomic-embed-text"
	defaultEmbeddingDimensions = 384

	defaultEventsProvider = "nop"
	defaultEventsTopic    = "persona.profile.ingested"
)

// NewDefaultConfig returns a Config with sane defaults for all fields.
// This is the single source of truth for default values.
func NewDefaultConfig() *Config {
	return &Config{
		Version: CurrentV,
		Storage: StorageConfig{
			FallbackDir: defaultFallbackDir,
		},
		VectorStore: VectorStoreConfig{
			Provider:         defaultVectorProvider,
			Target:           defaultVectorTarget,
			CollectionSuffix: defaultCollectionSuffix,
		},
		Embedding: EmbeddingConfig{
			Provider:   defaultEmbeddingProvider,
			Target:     defaultEmbeddingTarget,
			Model:      defaultEmbeddingModel,
			Dimensions: defaultEmbeddingDimensions,
		},
		Events: EventsConfig{
			Provider: defaultEventsProvider,
			Topic:    defaultEventsTopic,
		},
	}
}
