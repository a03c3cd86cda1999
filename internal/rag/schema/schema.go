package schema

const (
	// MetadataKeyText is the metadata key carrying the chunk text of a
	// stored vector. Retrieval reads it back as the context text.
	MetadataKeyText = "text"
)

// VectorRecord is one embeddable unit as written to the vector index:
// a generated id, the embedding values, and the source document metadata
// plus the chunk text. Records are written once and never mutated.
type VectorRecord struct {
	ID       string
	Values   []float32
	Metadata map[string]interface{}
}

// Match is one ranked result returned by a similarity query or an
// id-based fetch against the index.
type Match struct {
	ID       string
	Score    float32
	Metadata map[string]interface{}
}

// QueryResult is the uniform retrieval envelope: four index-aligned
// sequences of equal length, one entry per match, in the index's own
// ranking order.
type QueryResult struct {
	VectorIDs       []string
	ContextTexts    []string
	SourceDocuments []*Match
	Scores          []float32
}

// CachedVector is the snapshot form of a written vector, persisted
// outside the index for offline recovery and audit.
type CachedVector struct {
	VectorDBID string                 `json:"vectorDbId"`
	Values     []float32              `json:"values"`
	Metadata   map[string]interface{} `json:"metadata"`
}

// NamespaceStats holds the per-namespace counters reported by the index.
type NamespaceStats struct {
	VectorCount int64
}

// IndexStats is the introspection snapshot of the whole index. Dimension
// is already resolved: when the index reports none, the configured
// fallback dimension is substituted before this struct is built.
type IndexStats struct {
	Dimension        int
	TotalRecordCount int64
	Namespaces       map[string]NamespaceStats
}

// NamespaceInfo is the listing form of one namespace.
type NamespaceInfo struct {
	Name  string
	Count int64
}
