// Package store persists and queries semantic documents with their
// embeddings. The primary backend is a vector store holding one collection
// per platform; when the backend is unreachable at startup the store runs in
// fallback mode for the rest of the process lifetime, writing flat JSON
// files per identity instead.
package store

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/papercomputeco/persona/pkg/vector"
)

// Mode is the backend mode, decided once at initialization.
type Mode int

const (
	// ModeConnected routes documents to the primary vector backend.
	ModeConnected Mode = iota

	// ModeFallback routes documents to the flat-file store.
	ModeFallback
)

func (m Mode) String() string {
	if m == ModeConnected {
		return "connected"
	}
	return "fallback"
}

// Status tags for Stats reporting.
const (
	StatusActive   = "active"
	StatusNotFound = "not_found"
	StatusFallback = "fallback"
	StatusError    = "error"
)

// Identity names the (platform, username) pair a document set belongs to.
type Identity struct {
	Username string
	Platform string
}

// Batch is one ingestion unit: parallel arrays of ids, raw document texts,
// metadata maps, and embeddings. All four must be the same length.
type Batch struct {
	IDs        []string
	Documents  []string
	Metadatas  []map[string]any
	Embeddings [][]float32
}

// Stats reports the document count and backend status for one platform.
type Stats struct {
	Platform       string    `json:"platform"`
	TotalDocuments int       `json:"totalDocuments"`
	Status         string    `json:"status"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Store is the dual-backend document store.
type Store struct {
	conn             vector.Connector
	fallback         *Fallback
	collectionSuffix string
	logger           *zap.Logger

	mode Mode

	mu          sync.Mutex
	collections map[string]vector.Driver
}

// Config holds construction options for the store.
type Config struct {
	// CollectionSuffix completes per-platform collection names:
	// "{platform}_{suffix}". Defaults to "profiles".
	CollectionSuffix string
}

// New creates a store over the given primary connector and fallback file
// store. Call Initialize before use to decide the backend mode.
func New(conn vector.Connector, fallback *Fallback, cfg Config, logger *zap.Logger) *Store {
	suffix := cfg.CollectionSuffix
	if suffix == "" {
		suffix = "profiles"
	}

	return &Store{
		conn:             conn,
		fallback:         fallback,
		collectionSuffix: suffix,
		logger:           logger,
		mode:             ModeFallback,
		collections:      make(map[string]vector.Driver),
	}
}

// Initialize probes the primary backend and fixes the backend mode for the
// process lifetime. Returns true when the primary backend is reachable.
// The mode is not re-evaluated mid-session.
func (s *Store) Initialize(ctx context.Context) bool {
	if s.conn == nil {
		s.logger.Warn("no vector connector configured, using fallback store")
		s.mode = ModeFallback
		return false
	}

	if err := s.conn.Ping(ctx); err != nil {
		s.logger.Warn("primary vector store unreachable, using fallback store",
			zap.String("fallback_dir", s.fallback.Dir()),
			zap.Error(err),
		)
		s.mode = ModeFallback
		return false
	}

	s.mode = ModeConnected
	s.logger.Info("connected to primary vector store")
	return true
}

// Mode returns the backend mode decided at initialization.
func (s *Store) Mode() Mode {
	return s.mode
}

// CollectionName returns the primary backend collection for a platform.
func (s *Store) CollectionName(platform string) string {
	return fmt.Sprintf("%s_%s", platform, s.collectionSuffix)
}

// Ingest validates, sanitizes, and persists one identity's document set.
// Persistence is a full replace: all prior documents for the identity are
// deleted before the new set is inserted. Validation failures
// (ErrLengthMismatch, ErrInvalidEmbedding) reject the whole batch.
func (s *Store) Ingest(ctx context.Context, id Identity, batch Batch) error {
	if err := validateBatch(batch); err != nil {
		return err
	}

	ids := make([]string, len(batch.IDs))
	for i, rawID := range batch.IDs {
		ids[i] = sanitizeID(rawID, i)
	}

	metadatas := make([]map[string]any, len(batch.Metadatas))
	for i, m := range batch.Metadatas {
		metadatas[i] = flattenMetadata(m)
	}

	if s.mode == ModeFallback {
		return s.fallback.Write(&FallbackRecord{
			Username:  id.Username,
			Platform:  id.Platform,
			Timestamp: time.Now().UTC(),
			Documents: batch.Documents,
			Metadatas: metadatas,
			IDs:       ids,
		})
	}

	driver, err := s.collection(ctx, id.Platform)
	if err != nil {
		return err
	}

	// Full replace: drop the identity's prior documents first. Absence of
	// prior data is not an error, and a failed delete must not block the
	// insert of fresh data.
	if err := driver.DeleteWhere(ctx, vector.Filter{"username": id.Username}); err != nil {
		s.logger.Warn("failed to delete prior documents",
			zap.String("username", id.Username),
			zap.String("platform", id.Platform),
			zap.Error(err),
		)
	}

	docs := make([]vector.Document, len(ids))
	for i := range ids {
		docs[i] = vector.Document{
			ID:        ids[i],
			Content:   batch.Documents[i],
			Embedding: batch.Embeddings[i],
			Metadata:  metadatas[i],
		}
	}

	if err := driver.Add(ctx, docs); err != nil {
		return fmt.Errorf("inserting documents: %w", err)
	}

	s.logger.Info("ingested documents",
		zap.String("username", id.Username),
		zap.String("platform", id.Platform),
		zap.Int("count", len(docs)),
	)

	return nil
}

// Query issues a similarity query against the primary backend, scoped to
// one username. Returns ErrUnavailable in fallback mode; fallback retrieval
// is the engine's concern, not the store's.
func (s *Store) Query(ctx context.Context, platform string, embedding []float32, username string, limit int) ([]vector.QueryResult, error) {
	if s.mode == ModeFallback {
		return nil, ErrUnavailable
	}

	driver, err := s.collection(ctx, platform)
	if err != nil {
		return nil, err
	}

	return driver.Query(ctx, embedding, limit, vector.Filter{"username": username})
}

// ReadFallback loads an identity's fallback record, or (nil, nil) when none
// exists.
func (s *Store) ReadFallback(id Identity) (*FallbackRecord, error) {
	return s.fallback.Read(id.Username, id.Platform)
}

// GetStats reports the document count and status for a platform.
func (s *Store) GetStats(ctx context.Context, platform string) Stats {
	stats := Stats{Platform: platform}

	if s.mode == ModeFallback {
		count, latest, err := s.fallback.CountPlatform(platform)
		if err != nil {
			s.logger.Warn("failed to count fallback documents", zap.String("platform", platform), zap.Error(err))
			stats.Status = StatusError
			return stats
		}
		stats.TotalDocuments = count
		stats.Status = StatusFallback
		stats.LastUpdated = latest
		return stats
	}

	driver, err := s.collection(ctx, platform)
	if err != nil {
		s.logger.Warn("failed to resolve collection", zap.String("platform", platform), zap.Error(err))
		stats.Status = StatusNotFound
		return stats
	}

	count, err := driver.Count(ctx)
	if err != nil {
		s.logger.Warn("failed to count documents", zap.String("platform", platform), zap.Error(err))
		stats.Status = StatusError
		return stats
	}

	stats.TotalDocuments = count
	stats.Status = StatusActive
	stats.LastUpdated = time.Now().UTC()
	return stats
}

// Close releases the connector and any cached collection drivers.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, driver := range s.collections {
		_ = driver.Close()
	}
	s.collections = make(map[string]vector.Driver)

	if s.conn != nil {
		return s.conn.Close()
	}
	return nil
}

// collection returns the cached driver for a platform's collection,
// resolving it on first use.
func (s *Store) collection(ctx context.Context, platform string) (vector.Driver, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	name := s.CollectionName(platform)
	if driver, ok := s.collections[name]; ok {
		return driver, nil
	}

	driver, err := s.conn.Collection(ctx, name)
	if err != nil {
		return nil, err
	}

	s.collections[name] = driver
	return driver, nil
}

// validateBatch enforces the ingestion invariants: equal array lengths and
// non-empty, all-finite embeddings.
func validateBatch(b Batch) error {
	n := len(b.IDs)
	if len(b.Documents) != n || len(b.Metadatas) != n || len(b.Embeddings) != n {
		return fmt.Errorf("%w: ids=%d documents=%d metadatas=%d embeddings=%d",
			ErrLengthMismatch, n, len(b.Documents), len(b.Metadatas), len(b.Embeddings))
	}

	for i, emb := range b.Embeddings {
		if len(emb) == 0 {
			return fmt.Errorf("%w: empty vector at index %d", ErrInvalidEmbedding, i)
		}
		for _, v := range emb {
			f := float64(v)
			if math.IsNaN(f) || math.IsInf(f, 0) {
				return fmt.Errorf("%w: non-finite component at index %d", ErrInvalidEmbedding, i)
			}
		}
	}

	return nil
}

var idSanitizeRe = regexp.MustCompile(`[^A-Za-z0-9_-]`)

// sanitizeID restricts an ID to [A-Za-z0-9_-], replacing everything else.
// An ID that sanitizes to nothing falls back to doc_{index}.
func sanitizeID(id string, index int) string {
	clean := idSanitizeRe.ReplaceAllString(id, "_")
	if strings.Trim(clean, "_") == "" {
		return fmt.Sprintf("doc_%d", index)
	}
	return clean
}

// flattenMetadata restricts metadata to the persistable scalar types.
// Strings, booleans, and numbers pass through; string slices are joined
// with commas; everything else is dropped.
func flattenMetadata(m map[string]any) map[string]any {
	flat := make(map[string]any, len(m))
	for k, v := range m {
		switch val := v.(type) {
		case string, bool, int, int32, int64, uint, float32, float64:
			flat[k] = val
		case []string:
			flat[k] = strings.Join(val, ",")
		case []any:
			parts := make([]string, 0, len(val))
			for _, item := range val {
				parts = append(parts, fmt.Sprintf("%v", item))
			}
			flat[k] = strings.Join(parts, ",")
		default:
			// Unsupported type; dropped rather than persisted mangled.
		}
	}
	return flat
}
