// Package service wires the ingest and retrieval pipeline behind the
// operations callers use: initialize, store profile data, search, build
// grounding context, and report stats. Pipeline failures are logged and
// collapsed to boolean or empty results at this boundary so callers never
// handle internal errors.
package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/embeddings"
	"github.com/papercomputeco/persona/pkg/eventstream"
	"github.com/papercomputeco/persona/pkg/export"
	"github.com/papercomputeco/persona/pkg/grounding"
	"github.com/papercomputeco/persona/pkg/retrieval"
	"github.com/papercomputeco/persona/pkg/store"
	"github.com/papercomputeco/persona/pkg/synth"
)

// Options holds the injected dependencies for a Service.
type Options struct {
	Embedder  embeddings.Embedder
	Store     *store.Store
	Weights   retrieval.Weights
	Publisher eventstream.Publisher
	Logger    *zap.Logger
}

// Service is the profile indexing and retrieval pipeline.
type Service struct {
	normalizer  *export.Normalizer
	synthesizer *synth.Synthesizer
	embedder    embeddings.Embedder
	store       *store.Store
	engine      *retrieval.Engine
	assembler   *grounding.Assembler
	publisher   eventstream.Publisher
	logger      *zap.Logger
}

// New assembles a service from its dependencies. Call Initialize before
// ingesting or querying.
func New(opts Options) *Service {
	engine := retrieval.NewEngine(opts.Embedder, opts.Store, opts.Weights, opts.Logger)

	return &Service{
		normalizer:  export.NewNormalizer(opts.Logger),
		synthesizer: synth.NewSynthesizer(opts.Logger),
		embedder:    opts.Embedder,
		store:       opts.Store,
		engine:      engine,
		assembler:   grounding.NewAssembler(engine, opts.Logger),
		publisher:   opts.Publisher,
		logger:      opts.Logger,
	}
}

// Initialize probes the primary vector backend and fixes the storage mode
// for the process lifetime. Returns true when the primary backend is
// reachable; false means the service runs against the flat-file fallback.
func (s *Service) Initialize(ctx context.Context) bool {
	return s.store.Initialize(ctx)
}

// StoreProfileData runs the full ingest pipeline for one identity: the raw
// export is normalized, synthesized into semantic documents, embedded, and
// persisted as a full replace of the identity's prior documents. Returns
// false when nothing usable could be extracted or persistence failed.
func (s *Service) StoreProfileData(ctx context.Context, username, platform string, raw []byte) bool {
	bundle := s.normalizer.Normalize(raw, platform)

	docs := s.synthesizer.Synthesize(bundle, username, platform)
	if len(docs) == 0 {
		s.logger.Warn("no documents synthesized from export",
			zap.String("username", username),
			zap.String("platform", platform),
		)
		return false
	}

	texts := make([]string, len(docs))
	ids := make([]string, len(docs))
	metadatas := make([]map[string]any, len(docs))
	for i, doc := range docs {
		texts[i] = doc.Content
		ids[i] = doc.ID
		metadatas[i] = doc.Metadata
	}

	vectors, err := embeddings.EmbedBatch(ctx, s.embedder, texts)
	if err != nil {
		s.logger.Error("embedding batch failed",
			zap.String("username", username),
			zap.String("platform", platform),
			zap.Error(err),
		)
		return false
	}

	id := store.Identity{Username: username, Platform: platform}
	batch := store.Batch{
		IDs:        ids,
		Documents:  texts,
		Metadatas:  metadatas,
		Embeddings: vectors,
	}
	if err := s.store.Ingest(ctx, id, batch); err != nil {
		s.logger.Error("ingest failed",
			zap.String("username", username),
			zap.String("platform", platform),
			zap.Error(err),
		)
		return false
	}

	s.publishIngest(ctx, username, platform, len(docs))

	return true
}

// SemanticSearch returns up to limit ranked documents for the identity. The
// result is possibly empty, never an error.
func (s *Service) SemanticSearch(ctx context.Context, query, username, platform string, limit int) []retrieval.Result {
	return s.engine.SemanticSearch(ctx, query, username, platform, limit)
}

// CreateEnhancedContext renders a grounding context block for prompting a
// language model about the identity. The second return is false when the
// identity has no relevant indexed data.
func (s *Service) CreateEnhancedContext(ctx context.Context, query, username, platform string) (string, bool) {
	return s.assembler.Assemble(ctx, query, username, platform)
}

// Stats reports the document count and backend status for a platform.
func (s *Service) Stats(ctx context.Context, platform string) store.Stats {
	return s.store.GetStats(ctx, platform)
}

// Close releases the embedder, store, and publisher.
func (s *Service) Close() error {
	var firstErr error
	for _, closer := range []func() error{
		s.embedder.Close,
		s.store.Close,
		s.publisher.Close,
	} {
		if err := closer(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

// publishIngest emits the ingest event best-effort. A publish failure never
// fails the ingest that already committed.
func (s *Service) publishIngest(ctx context.Context, username, platform string, count int) {
	event := &eventstream.ProfileIngestedEvent{
		SchemaVersion: eventstream.SchemaVersionV1,
		EventType:     eventstream.EventTypeProfileIngested,
		EventID:       uuid.NewString(),
		EmittedAt:     time.Now().UTC(),
		Username:      username,
		Platform:      platform,
		DocumentCount: count,
		StorageMode:   s.store.Mode().String(),
	}

	if err := s.publisher.PublishIngest(ctx, event); err != nil {
		s.logger.Warn("failed to publish ingest event",
			zap.String("username", username),
			zap.String("platform", platform),
			zap.Error(err),
		)
	}
}
