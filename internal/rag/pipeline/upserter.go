package pipeline

import (
	"context"
	"fmt"

	"vectorbridge/internal/config"
	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
)

// BatchUpserter writes a record list to the index in fixed-size groups,
// sequentially and in original order, to stay under the provider's
// per-request payload limit.
//
// Semantics are at-least-partially-applied: the first failing group stops
// the run and groups already written stay written. There is no rollback;
// retrying the whole run is safe only because upsert is idempotent per
// record id. Callers must not assume all-or-nothing behavior.
type BatchUpserter struct {
	index     interfaces.VectorIndex
	batchSize int
}

// NewBatchUpserter creates a BatchUpserter. A non-positive batchSize falls
// back to the configured default.
func NewBatchUpserter(index interfaces.VectorIndex, batchSize int) *BatchUpserter {
	if batchSize <= 0 {
		batchSize = config.DefaultUpsertBatchSize
	}
	return &BatchUpserter{index: index, batchSize: batchSize}
}

// UpsertAll writes all records into the namespace, one upsert call per
// group of at most batchSize records.
func (u *BatchUpserter) UpsertAll(ctx context.Context, namespace string, records []*schema.VectorRecord) error {
	for start := 0; start < len(records); start += u.batchSize {
		end := start + u.batchSize
		if end > len(records) {
			end = len(records)
		}
		if err := u.index.Upsert(ctx, namespace, records[start:end]); err != nil {
			return fmt.Errorf("upsert of records [%d:%d) failed: %w", start, end, err)
		}
	}
	return nil
}
