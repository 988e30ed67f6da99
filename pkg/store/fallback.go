package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"
)

// FallbackRecord is the flat-file persistence shape for one identity:
// data/vector_fallback/{platform}_{username}.json. Embeddings are not
// persisted; fallback retrieval is token-overlap over the raw documents.
type FallbackRecord struct {
	Username  string           `json:"username"`
	Platform  string           `json:"platform"`
	Timestamp time.Time        `json:"timestamp"`
	Documents []string         `json:"documents"`
	Metadatas []map[string]any `json:"metadatas"`
	IDs       []string         `json:"ids"`
}

// Fallback is the flat-file store used when the primary vector backend is
// unreachable. Writes are whole-file replacements per identity; there is no
// write lock, so concurrent ingestions for the same identity race with the
// last writer winning. Callers must treat ingestion as single-writer per
// identity.
type Fallback struct {
	dir    string
	logger *zap.Logger
}

func NewFallback(dir string, logger *zap.Logger) *Fallback {
	return &Fallback{dir: dir, logger: logger}
}

// Dir returns the fallback directory path.
func (f *Fallback) Dir() string {
	return f.dir
}

// Write persists the record, overwriting any previous file for the same
// (platform, username) identity.
func (f *Fallback) Write(rec *FallbackRecord) error {
	if err := os.MkdirAll(f.dir, 0o755); err != nil {
		return fmt.Errorf("creating fallback directory: %w", err)
	}

	data, err := json.MarshalIndent(rec, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding fallback record: %w", err)
	}

	path := f.path(rec.Platform, rec.Username)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing fallback file: %w", err)
	}

	f.logger.Debug("wrote fallback record",
		zap.String("path", path),
		zap.Int("documents", len(rec.Documents)),
	)

	return nil
}

// Read loads the record for an identity. Returns (nil, nil) when no file
// exists; prior absence is not an error.
func (f *Fallback) Read(username, platform string) (*FallbackRecord, error) {
	data, err := os.ReadFile(f.path(platform, username))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading fallback file: %w", err)
	}

	var rec FallbackRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, fmt.Errorf("decoding fallback record: %w", err)
	}

	return &rec, nil
}

// CountPlatform sums stored documents across all fallback files for a
// platform and reports the most recent write time.
func (f *Fallback) CountPlatform(platform string) (int, time.Time, error) {
	pattern := filepath.Join(f.dir, sanitizeID(platform, 0)+"_*.json")
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return 0, time.Time{}, fmt.Errorf("listing fallback files: %w", err)
	}

	var total int
	var latest time.Time
	for _, path := range matches {
		data, err := os.ReadFile(path)
		if err != nil {
			f.logger.Warn("unreadable fallback file", zap.String("path", path), zap.Error(err))
			continue
		}

		var rec FallbackRecord
		if err := json.Unmarshal(data, &rec); err != nil {
			f.logger.Warn("corrupt fallback file", zap.String("path", path), zap.Error(err))
			continue
		}

		total += len(rec.Documents)
		if rec.Timestamp.After(latest) {
			latest = rec.Timestamp
		}
	}

	return total, latest, nil
}

// path builds the per-identity file path. Identity components are sanitized
// with the same ID rules as document IDs so the layout stays predictable.
func (f *Fallback) path(platform, username string) string {
	name := fmt.Sprintf("%s_%s.json", sanitizeID(platform, 0), sanitizeID(username, 0))
	return filepath.Join(f.dir, name)
}
