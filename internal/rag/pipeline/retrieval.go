package pipeline

import (
	"context"
	"fmt"

	"vectorbridge/internal/config"
	"vectorbridge/internal/rag/interfaces"
	"vectorbridge/internal/rag/schema"
	"vectorbridge/pkg/logger"
)

// Retriever answers similarity queries against the index and reshapes the
// ranked matches into the uniform QueryResult envelope.
//
// Unlike ingestion, retrieval propagates errors: it is a request/response
// call and the caller decides how to handle a failed lookup.
type Retriever struct {
	index interfaces.VectorIndex
	log   *logger.Logger
}

// NewRetriever creates a new Retriever.
func NewRetriever(index interfaces.VectorIndex, log *logger.Logger) *Retriever {
	return &Retriever{index: index, log: log}
}

// SimilarityResponse queries the namespace for the topK nearest neighbors
// of queryVector. The four output sequences are index-aligned and keep the
// index's own ranking order; no filtering or re-ranking happens here. A
// match without metadata contributes an empty context text rather than
// failing the query. topK defaults when non-positive.
func (r *Retriever) SimilarityResponse(ctx context.Context, namespace string, queryVector []float32, topK int) (*schema.QueryResult, error) {
	if topK <= 0 {
		topK = config.DefaultTopK
	}

	matches, err := r.index.Query(ctx, namespace, queryVector, topK)
	if err != nil {
		return nil, fmt.Errorf("similarity query against namespace '%s' failed: %w", namespace, err)
	}

	result := &schema.QueryResult{
		VectorIDs:       make([]string, 0, len(matches)),
		ContextTexts:    make([]string, 0, len(matches)),
		SourceDocuments: make([]*schema.Match, 0, len(matches)),
		Scores:          make([]float32, 0, len(matches)),
	}
	for _, match := range matches {
		contextText := ""
		if match.Metadata != nil {
			if text, ok := match.Metadata[schema.MetadataKeyText].(string); ok {
				contextText = text
			}
		}
		result.VectorIDs = append(result.VectorIDs, match.ID)
		result.ContextTexts = append(result.ContextTexts, contextText)
		result.SourceDocuments = append(result.SourceDocuments, match)
		result.Scores = append(result.Scores, match.Score)
	}

	r.log.Debug(fmt.Sprintf("Similarity query in namespace '%s' returned %d matches", namespace, len(matches)))
	return result, nil
}

// Metadata fetches the stored metadata of the given vector ids, one entry
// per vector found, each tagged with its vector id.
func (r *Retriever) Metadata(ctx context.Context, namespace string, vectorIDs []string) ([]map[string]interface{}, error) {
	fetched, err := r.index.Fetch(ctx, namespace, vectorIDs)
	if err != nil {
		return nil, fmt.Errorf("metadata fetch from namespace '%s' failed: %w", namespace, err)
	}

	metadatas := make([]map[string]interface{}, 0, len(fetched))
	for _, id := range vectorIDs {
		match, ok := fetched[id]
		if !ok {
			continue
		}
		md := make(map[string]interface{}, len(match.Metadata)+1)
		for k, v := range match.Metadata {
			md[k] = v
		}
		md["vectorId"] = match.ID
		metadatas = append(metadatas, md)
	}

	return metadatas, nil
}
