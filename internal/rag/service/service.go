package service

import (
	"context"
	"fmt"

	"vectorbridge/internal/config"
	"vectorbridge/internal/database/milvus"
	"vectorbridge/internal/database/minio"
	"vectorbridge/internal/database/mysql"
	"vectorbridge/internal/models"
	"vectorbridge/internal/rag/dal"
	"vectorbridge/internal/rag/embeddings"
	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/pipeline"
	"vectorbridge/internal/rag/schema"
	"vectorbridge/internal/rag/splitters"
	"vectorbridge/internal/rag/storages/cachestore"
	"vectorbridge/internal/rag/storages/vectorstore"
	"vectorbridge/pkg/logger"
)

// Provider is the library facade over the ingestion and retrieval
// pipelines. A higher-level ingestion/query service constructs one
// Provider and drives it; no network surface lives here.
type Provider struct {
	log          *logger.Logger
	milvusClient *milvus.MilvusClient
	ingestor     *pipeline.Ingestor
	retriever    *pipeline.Retriever
	namespaces   *pipeline.NamespaceService
	vectorDal    *dal.VectorDAL
}

// NewProvider wires all collaborators from configuration: MySQL for
// linkage, Milvus for vectors, the configured embedding provider, and the
// configured snapshot backend.
func NewProvider(ctx context.Context, cfg *config.AppConfig, log *logger.Logger) (*Provider, error) {
	db, err := mysql.GetDB(&cfg.Databases.MySQL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MySQL: %w", err)
	}
	if err := db.AutoMigrate(&models.Document{}, &models.DocumentVector{}); err != nil {
		return nil, fmt.Errorf("failed to migrate link tables: %w", err)
	}

	milvusClient, err := milvus.GetClient(ctx, &cfg.Databases.Milvus)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Milvus: %w", err)
	}
	if err := milvusClient.Ready(ctx); err != nil {
		return nil, err
	}

	index, err := vectorstore.NewMilvusIndex(milvusClient, cfg.Pipeline.FallbackDimension, log)
	if err != nil {
		return nil, err
	}

	embedder, err := embeddings.New(&cfg.Embedding)
	if err != nil {
		return nil, err
	}

	splitter, err := newSplitter(&cfg.Pipeline)
	if err != nil {
		return nil, err
	}

	cache, err := newCacheStore(cfg)
	if err != nil {
		return nil, err
	}

	vectorDal := dal.NewVectorDAL(db)
	upserter := pipeline.NewBatchUpserter(index, cfg.Pipeline.UpsertBatchSize)

	return &Provider{
		log:          log,
		milvusClient: milvusClient,
		ingestor:     pipeline.NewIngestor(splitter, embedder, upserter, vectorDal, cache, log),
		retriever:    pipeline.NewRetriever(index, log),
		namespaces:   pipeline.NewNamespaceService(index),
		vectorDal:    vectorDal,
	}, nil
}

func newSplitter(cfg *config.PipelineConfig) (interfaces.Splitter, error) {
	return splitters.NewRecursiveCharacterSplitter(cfg.ChunkSize, cfg.ChunkOverlap)
}

func newCacheStore(cfg *config.AppConfig) (interfaces.CacheStore, error) {
	switch cfg.Pipeline.CacheBackend {
	case "disk", "":
		return cachestore.NewDiskStore(cfg.Pipeline.CacheDir), nil
	case "minio":
		client, err := minio.GetClient(&cfg.Databases.MinIO)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MinIO: %w", err)
		}
		return cachestore.NewMinioStore(client, cfg.Databases.MinIO.Bucket), nil
	default:
		return nil, fmt.Errorf("unsupported cache backend: %s", cfg.Pipeline.CacheBackend)
	}
}

// ProcessDocument ingests one document into the namespace and reports its
// terminal state; it never returns an error.
func (p *Provider) ProcessDocument(ctx context.Context, namespace string, doc *models.Document) pipeline.Result {
	return p.ingestor.ProcessDocument(ctx, namespace, doc)
}

// ProcessDocuments ingests each document in turn and returns one Result
// per document, index-aligned with docs. A failed document never stops
// the documents after it.
func (p *Provider) ProcessDocuments(ctx context.Context, namespace string, docs []*models.Document) []pipeline.Result {
	results := make([]pipeline.Result, len(docs))
	for i, doc := range docs {
		results[i] = p.ingestor.ProcessDocument(ctx, namespace, doc)
		if !results[i].Success {
			p.log.Warn(fmt.Sprintf("Document %s failed ingestion: %s", doc.DocID, results[i].Message))
		}
	}
	return results
}

// SimilarityResponse runs one similarity query against the namespace.
func (p *Provider) SimilarityResponse(ctx context.Context, namespace string, queryVector []float32, topK int) (*schema.QueryResult, error) {
	return p.retriever.SimilarityResponse(ctx, namespace, queryVector, topK)
}

// Metadata fetches stored metadata for the given vector ids.
func (p *Provider) Metadata(ctx context.Context, namespace string, vectorIDs []string) ([]map[string]interface{}, error) {
	return p.retriever.Metadata(ctx, namespace, vectorIDs)
}

// Namespaces lists all namespaces with their vector counts.
func (p *Provider) Namespaces(ctx context.Context) ([]schema.NamespaceInfo, error) {
	return p.namespaces.Namespaces(ctx)
}

// Namespace returns the named namespace, or nil when it has never
// received a write.
func (p *Provider) Namespace(ctx context.Context, name string) (*schema.NamespaceInfo, error) {
	return p.namespaces.Namespace(ctx, name)
}

// NamespaceExists reports whether the named namespace holds any vectors.
func (p *Provider) NamespaceExists(ctx context.Context, name string) (bool, error) {
	return p.namespaces.NamespaceExists(ctx, name)
}

// TotalVectors returns the vector count across all namespaces.
func (p *Provider) TotalVectors(ctx context.Context) (int64, error) {
	return p.namespaces.TotalVectors(ctx)
}

// Dimension returns the index's resolved embedding dimension.
func (p *Provider) Dimension(ctx context.Context) (int, error) {
	return p.namespaces.Dimension(ctx)
}

// DocumentLinks lists the persisted vector links of a document, for audit
// and deletion flows.
func (p *Provider) DocumentLinks(ctx context.Context, docID string) ([]*models.DocumentVector, error) {
	return p.vectorDal.ListByDocID(ctx, docID)
}

// DeleteDocumentLinks removes a document's link rows once its vectors
// have been removed from the index.
func (p *Provider) DeleteDocumentLinks(ctx context.Context, docID string) error {
	return p.vectorDal.DeleteByDocID(ctx, docID)
}

// Close releases the Milvus connection.
func (p *Provider) Close() {
	p.milvusClient.Close()
}
