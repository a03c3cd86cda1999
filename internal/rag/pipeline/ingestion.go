package pipeline

import (
	"context"
	"fmt"

	"vectorbridge/internal/models"
	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
	"vectorbridge/pkg/logger"

	"github.com/google/uuid"
)

// Result is the terminal state of one document ingestion. Message is empty
// on success and holds the failure reason otherwise. Ingestion never
// returns an error: a batch caller iterating many documents must be able
// to continue past any single document's failure.
type Result struct {
	Success bool
	Message string
}

func failure(format string, args ...interface{}) Result {
	return Result{Success: false, Message: fmt.Sprintf(format, args...)}
}

// Ingestor drives the chunk → embed → assemble → upsert → link → cache
// pipeline for one document at a time. All I/O within one call is
// sequential; concurrency, if any, lives above this type across
// independent documents.
type Ingestor struct {
	splitter interfaces.Splitter
	embedder interfaces.EmbeddingModel
	upserter *BatchUpserter
	links    interfaces.LinkStore
	cache    interfaces.CacheStore
	log      *logger.Logger
}

// NewIngestor creates a new Ingestor.
func NewIngestor(
	splitter interfaces.Splitter,
	embedder interfaces.EmbeddingModel,
	upserter *BatchUpserter,
	links interfaces.LinkStore,
	cache interfaces.CacheStore,
	log *logger.Logger,
) *Ingestor {
	return &Ingestor{
		splitter: splitter,
		embedder: embedder,
		upserter: upserter,
		links:    links,
		cache:    cache,
		log:      log,
	}
}

// ProcessDocument ingests one document into the named namespace and
// reports the terminal state. Panics from any collaborator are converted
// to a failure Result at this boundary.
func (p *Ingestor) ProcessDocument(ctx context.Context, namespace string, doc *models.Document) (res Result) {
	defer func() {
		if r := recover(); r != nil {
			p.log.Error(fmt.Sprintf("Ingestion of document %s panicked: %v", doc.DocID, r))
			res = failure("ingestion panicked: %v", r)
		}
	}()

	// 1. Chunk. A document that yields no chunks has no embeddable
	// content; surfacing that as a failure keeps caller-side data bugs
	// visible inside batch runs.
	chunks := p.splitter.Split(doc.PageContent)
	if len(chunks) == 0 {
		return failure("empty content")
	}
	p.log.Info(fmt.Sprintf("Chunks created from document %s: %d", doc.DocID, len(chunks)))

	// 2. Embed the full chunk list in one provider call. A nil vector
	// list means the provider answered but nothing was embeddable; either
	// way no subset of chunks is ever ingested.
	vectors, err := p.embedder.EmbedBatch(ctx, chunks)
	if err != nil {
		p.log.Error(fmt.Sprintf("Embedding request for document %s failed: %v", doc.DocID, err))
		return failure("embedding failed: %v", err)
	}
	if vectors == nil || len(vectors) < len(chunks) {
		p.log.Error(fmt.Sprintf("Could not embed document %s: unusable provider payload", doc.DocID))
		return failure("embedding failed")
	}

	// 3. Assemble records, link rows and snapshot entries in lock-step,
	// one of each per chunk.
	records := make([]*schema.VectorRecord, len(chunks))
	links := make([]*models.DocumentVector, len(chunks))
	cached := make([]*schema.CachedVector, len(chunks))
	for i, chunk := range chunks {
		metadata := make(map[string]interface{}, len(doc.Metadata)+1)
		for k, v := range doc.Metadata {
			metadata[k] = v
		}
		metadata[schema.MetadataKeyText] = chunk

		vectorID := uuid.New().String()
		records[i] = &schema.VectorRecord{
			ID:       vectorID,
			Values:   vectors[i],
			Metadata: metadata,
		}
		links[i] = &models.DocumentVector{
			DocID:          doc.DocID,
			VectorID:       vectorID,
			DocumentID:     doc.ID,
			WorkspaceID:    doc.WorkspaceID,
			OrganizationID: doc.OrganizationID,
		}
		cached[i] = &schema.CachedVector{
			VectorDBID: vectorID,
			Values:     vectors[i],
			Metadata:   metadata,
		}
	}

	// 4. Write vectors to the index in batches.
	if err := p.upserter.UpsertAll(ctx, namespace, records); err != nil {
		p.log.Error(fmt.Sprintf("Index write for document %s failed: %v", doc.DocID, err))
		return failure("index write failed: %v", err)
	}

	// 5. Persist linkage only after the index write, so a failed write
	// can never leave link rows pointing at vectors that were never
	// stored.
	if err := p.links.CreateMany(ctx, links); err != nil {
		p.log.Error(fmt.Sprintf("Link persistence for document %s failed: %v", doc.DocID, err))
		return failure("link persistence failed: %v", err)
	}

	// 6. Snapshot the written vectors for offline recovery and audit.
	if err := p.cache.Store(ctx, cached, doc.VectorFilename()); err != nil {
		p.log.Error(fmt.Sprintf("Vector snapshot for document %s failed: %v", doc.DocID, err))
		return failure("vector snapshot failed: %v", err)
	}

	p.log.Info(fmt.Sprintf("Ingested document %s: %d vectors into namespace '%s'", doc.DocID, len(records), namespace))
	return Result{Success: true}
}
