package cachestore

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"

	"github.com/minio/minio-go/v7"
)

// MinioStore persists vector snapshots as JSON objects in a MinIO bucket,
// for deployments where ingestion workers have no durable local disk.
type MinioStore struct {
	client *minio.Client
	bucket string
}

// NewMinioStore creates a new MinioStore writing into bucket.
func NewMinioStore(client *minio.Client, bucket string) *MinioStore {
	return &MinioStore{client: client, bucket: bucket}
}

// Store uploads all entries as one JSON object named filename.
func (s *MinioStore) Store(ctx context.Context, entries []*schema.CachedVector, filename string) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to encode vector snapshot: %w", err)
	}

	_, err = s.client.PutObject(ctx, s.bucket, filename, bytes.NewReader(data), int64(len(data)),
		minio.PutObjectOptions{ContentType: "application/json"})
	if err != nil {
		return fmt.Errorf("failed to upload vector snapshot %s: %w", filename, err)
	}
	return nil
}

// compile-time check to ensure MinioStore implements the CacheStore interface
var _ interfaces.CacheStore = (*MinioStore)(nil)
