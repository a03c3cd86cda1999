package cachestore

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
)

// DiskStore persists vector snapshots as JSON files under a base
// directory. Snapshots are keyed by a document-derived filename and are
// overwritten on re-ingestion, never appended to.
type DiskStore struct {
	baseDir string
}

// NewDiskStore creates a new DiskStore rooted at baseDir.
func NewDiskStore(baseDir string) *DiskStore {
	return &DiskStore{baseDir: baseDir}
}

// Store writes all entries as one JSON document under filename.
func (s *DiskStore) Store(ctx context.Context, entries []*schema.CachedVector, filename string) error {
	if err := os.MkdirAll(s.baseDir, 0o755); err != nil {
		return fmt.Errorf("failed to create cache directory %s: %w", s.baseDir, err)
	}

	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vector snapshot: %w", err)
	}

	path := filepath.Join(s.baseDir, filename)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write vector snapshot %s: %w", path, err)
	}
	return nil
}

// compile-time check to ensure DiskStore implements the CacheStore interface
var _ interfaces.CacheStore = (*DiskStore)(nil)
