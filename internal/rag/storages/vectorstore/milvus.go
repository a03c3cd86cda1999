package vectorstore

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"vectorbridge/internal/database/milvus"
	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
	"vectorbridge/pkg/logger"

	"github.com/milvus-io/milvus-sdk-go/v2/client"
	"github.com/milvus-io/milvus-sdk-go/v2/entity"
)

const (
	// Schema fields of the Milvus collection backing the index.
	FieldID        = "id"
	FieldEmbedding = "embedding"
	FieldMetadata  = "metadata"

	// defaultPartition is Milvus's built-in partition. The pipeline never
	// writes to it, so it is not reported as a namespace.
	defaultPartition = "_default"
)

// MilvusIndex adapts the Milvus client to the VectorIndex interface.
// Namespaces map to partitions within a single collection. Stats are
// re-queried from the live server on every call rather than cached, so
// namespace counts never go stale across processes.
type MilvusIndex struct {
	log         *logger.Logger
	client      client.Client
	collection  string
	fallbackDim int
}

// NewMilvusIndex creates a new MilvusIndex adapter over the project's
// MilvusClient wrapper. fallbackDim is substituted when the collection
// schema does not report an explicit vector dimension.
func NewMilvusIndex(milvusClient *milvus.MilvusClient, fallbackDim int, log *logger.Logger) (*MilvusIndex, error) {
	if milvusClient == nil || milvusClient.Client == nil {
		return nil, fmt.Errorf("milvus client is not initialized")
	}
	return &MilvusIndex{
		log:         log,
		client:      milvusClient.Client,
		collection:  milvusClient.Config.Collection,
		fallbackDim: fallbackDim,
	}, nil
}

// Stats describes the live index: the resolved vector dimension and the
// vector count of every namespace that has received a write.
func (s *MilvusIndex) Stats(ctx context.Context) (*schema.IndexStats, error) {
	coll, err := s.client.DescribeCollection(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to describe collection '%s': %w", s.collection, err)
	}

	// A missing or unparsable dimension is not fatal: substitute the
	// configured fallback and continue.
	dim := s.fallbackDim
	for _, field := range coll.Schema.Fields {
		if field.DataType != entity.FieldTypeFloatVector {
			continue
		}
		if v, ok := field.TypeParams[entity.TypeParamDim]; ok {
			if n, convErr := strconv.Atoi(v); convErr == nil && n > 0 {
				dim = n
			}
		}
	}

	partitions, err := s.client.ShowPartitions(ctx, s.collection)
	if err != nil {
		return nil, fmt.Errorf("failed to list partitions of '%s': %w", s.collection, err)
	}

	stats := &schema.IndexStats{
		Dimension:  dim,
		Namespaces: make(map[string]schema.NamespaceStats),
	}
	for _, p := range partitions {
		if p.Name == defaultPartition {
			continue
		}
		count, err := s.partitionCount(ctx, p.Name)
		if err != nil {
			return nil, err
		}
		stats.Namespaces[p.Name] = schema.NamespaceStats{VectorCount: count}
		stats.TotalRecordCount += count
	}

	return stats, nil
}

func (s *MilvusIndex) partitionCount(ctx context.Context, partition string) (int64, error) {
	rs, err := s.client.Query(ctx, s.collection, []string{partition}, "", []string{"count(*)"})
	if err != nil {
		return 0, fmt.Errorf("failed to count partition '%s': %w", partition, err)
	}

	col := rs.GetColumn("count(*)")
	if col == nil || col.Len() == 0 {
		return 0, fmt.Errorf("count result missing for partition '%s'", partition)
	}
	return col.GetAsInt64(0)
}

// Upsert writes records into the named namespace, creating its partition on
// first use. Writes are idempotent per record id.
func (s *MilvusIndex) Upsert(ctx context.Context, namespace string, records []*schema.VectorRecord) error {
	if namespace == "" {
		return fmt.Errorf("no namespace value provided")
	}
	if len(records) == 0 {
		return nil
	}

	has, err := s.client.HasPartition(ctx, s.collection, namespace)
	if err != nil {
		return fmt.Errorf("failed to check partition '%s': %w", namespace, err)
	}
	if !has {
		if err := s.client.CreatePartition(ctx, s.collection, namespace); err != nil {
			return fmt.Errorf("failed to create partition '%s': %w", namespace, err)
		}
	}

	ids := make([]string, len(records))
	vectors := make([][]float32, len(records))
	metadatas := make([][]byte, len(records))
	dim := 0
	for i, rec := range records {
		ids[i] = rec.ID
		vectors[i] = rec.Values
		if len(rec.Values) > dim {
			dim = len(rec.Values)
		}

		raw, err := json.Marshal(rec.Metadata)
		if err != nil {
			return fmt.Errorf("failed to encode metadata for vector %s: %w", rec.ID, err)
		}
		metadatas[i] = raw
	}

	idCol := entity.NewColumnVarChar(FieldID, ids)
	embeddingCol := entity.NewColumnFloatVector(FieldEmbedding, dim, vectors)
	metadataCol := entity.NewColumnJSONBytes(FieldMetadata, metadatas)

	s.log.Info(fmt.Sprintf("Upserting %d vectors into namespace '%s' of collection '%s'", len(records), namespace, s.collection))
	_, err = s.client.Upsert(ctx, s.collection, namespace, idCol, embeddingCol, metadataCol)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to upsert vectors into Milvus: %v", err))
		return fmt.Errorf("failed to upsert vectors into Milvus: %w", err)
	}

	return nil
}

// Query performs a similarity search in the named namespace. Vector values
// are deliberately excluded from the output fields: callers never need them
// and omitting them keeps response payloads small.
func (s *MilvusIndex) Query(ctx context.Context, namespace string, vector []float32, topK int) ([]*schema.Match, error) {
	searchParams, _ := entity.NewIndexIvfFlatSearchParam(10)
	outputFields := []string{FieldID, FieldMetadata}

	searchResults, err := s.client.Search(
		ctx, s.collection, []string{namespace}, "", outputFields,
		[]entity.Vector{entity.FloatVector(vector)},
		FieldEmbedding, entity.L2, topK, searchParams,
	)
	if err != nil {
		s.log.Error(fmt.Sprintf("Failed to search namespace '%s' in Milvus: %v", namespace, err))
		return nil, fmt.Errorf("failed to search in Milvus: %w", err)
	}

	var matches []*schema.Match
	for _, res := range searchResults {
		findColumn := func(name string) entity.Column {
			for _, field := range res.Fields {
				if field.Name() == name {
					return field
				}
			}
			return nil
		}

		idCol, ok := findColumn(FieldID).(*entity.ColumnVarChar)
		if !ok {
			s.log.Warn("Search result is missing ID field or has wrong type, skipping.")
			continue
		}
		idData := idCol.Data()

		var metadataData [][]byte
		if metadataCol, ok := findColumn(FieldMetadata).(*entity.ColumnJSONBytes); ok {
			metadataData = metadataCol.Data()
		}

		for i := 0; i < res.ResultCount; i++ {
			match := &schema.Match{
				ID:    idData[i],
				Score: res.Scores[i],
			}
			if metadataData != nil {
				match.Metadata = decodeMetadata(metadataData[i])
			}
			matches = append(matches, match)
		}
	}

	return matches, nil
}

// Fetch returns the stored metadata for the given vector ids. Ids that are
// not present in the namespace are simply absent from the result.
func (s *MilvusIndex) Fetch(ctx context.Context, namespace string, ids []string) (map[string]*schema.Match, error) {
	result := make(map[string]*schema.Match)
	if len(ids) == 0 {
		return result, nil
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = strconv.Quote(id)
	}
	expr := fmt.Sprintf("%s in [%s]", FieldID, strings.Join(quoted, ", "))

	rs, err := s.client.Query(ctx, s.collection, []string{namespace}, expr, []string{FieldID, FieldMetadata})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch vectors from Milvus: %w", err)
	}

	idCol, ok := rs.GetColumn(FieldID).(*entity.ColumnVarChar)
	if !ok {
		return result, nil
	}
	var metadataData [][]byte
	if metadataCol, ok := rs.GetColumn(FieldMetadata).(*entity.ColumnJSONBytes); ok {
		metadataData = metadataCol.Data()
	}

	for i, id := range idCol.Data() {
		match := &schema.Match{ID: id}
		if metadataData != nil && i < len(metadataData) {
			match.Metadata = decodeMetadata(metadataData[i])
		}
		result[id] = match
	}

	return result, nil
}

// decodeMetadata tolerates undecodable metadata rather than failing the
// whole query; such a match just carries no metadata.
func decodeMetadata(raw []byte) map[string]interface{} {
	if len(raw) == 0 {
		return nil
	}
	var md map[string]interface{}
	if err := json.Unmarshal(raw, &md); err != nil {
		return nil
	}
	return md
}

// compile-time check to ensure MilvusIndex implements the VectorIndex interface
var _ interfaces.VectorIndex = (*MilvusIndex)(nil)
