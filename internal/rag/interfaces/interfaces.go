package interfaces

import (
	"context"

	"vectorbridge/internal/models"
	"vectorbridge/internal/rag/schema"
)

// Splitter is the interface for splitting raw document text into
// bounded-size, overlapping chunks. Splitting is pure and deterministic:
// the same text always yields the same chunk sequence.
type Splitter interface {
	Split(text string) []string
}

// EmbeddingModel is the interface for a text embedding provider.
//
// Both methods distinguish two failure modes and callers depend on the
// distinction: a non-nil error means the provider call itself failed
// (network, auth), while a nil result with a nil error means the call
// succeeded but the payload carried no usable embeddings. EmbedBatch is
// atomic: it never returns a partial result.
type EmbeddingModel interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
}

// VectorIndex is the capability surface of the remote vector index.
type VectorIndex interface {
	// Stats re-queries the live index state: resolved dimension and
	// per-namespace vector counts.
	Stats(ctx context.Context) (*schema.IndexStats, error)

	// Upsert writes records into the named namespace. Idempotent per
	// record id.
	Upsert(ctx context.Context, namespace string, records []*schema.VectorRecord) error

	// Query returns up to topK nearest neighbors of vector with their
	// metadata, ranked by the index. Vector values are never returned.
	Query(ctx context.Context, namespace string, vector []float32, topK int) ([]*schema.Match, error)

	// Fetch returns the stored metadata for the given vector ids.
	Fetch(ctx context.Context, namespace string, ids []string) (map[string]*schema.Match, error)
}

// LinkStore persists document-to-vector linkage rows.
type LinkStore interface {
	CreateMany(ctx context.Context, links []*models.DocumentVector) error
}

// CacheStore persists a snapshot of written vectors under a
// document-derived filename.
type CacheStore interface {
	Store(ctx context.Context, entries []*schema.CachedVector, filename string) error
}
