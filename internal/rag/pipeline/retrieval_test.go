package pipeline

import (
	"context"
	"fmt"
	"testing"

	"vectorbridge/internal/rag/schema"
)

func rankedMatches(n int) []*schema.Match {
	matches := make([]*schema.Match, n)
	for i := range matches {
		matches[i] = &schema.Match{
			ID:    fmt.Sprintf("vec-%d", i),
			Score: float32(n - i), // non-increasing, as the index ranks
			Metadata: map[string]interface{}{
				schema.MetadataKeyText: fmt.Sprintf("context %d", i),
				"title":                "doc",
			},
		}
	}
	return matches
}

func TestSimilarityResponseAlignment(t *testing.T) {
	matches := rankedMatches(4)
	matches[2].Metadata = nil // a match without metadata must not fail the query
	index := &fakeIndex{queryResult: matches}
	r := NewRetriever(index, newTestLogger())

	result, err := r.SimilarityResponse(context.Background(), "ns", []float32{0.1, 0.2}, 4)
	if err != nil {
		t.Fatalf("SimilarityResponse() error = %v", err)
	}

	if len(result.VectorIDs) != 4 || len(result.ContextTexts) != 4 ||
		len(result.SourceDocuments) != 4 || len(result.Scores) != 4 {
		t.Fatalf("result sequences not aligned: %d/%d/%d/%d",
			len(result.VectorIDs), len(result.ContextTexts), len(result.SourceDocuments), len(result.Scores))
	}

	for i := range result.VectorIDs {
		if result.VectorIDs[i] != matches[i].ID {
			t.Errorf("vector id %d out of order: %s", i, result.VectorIDs[i])
		}
		if result.Scores[i] != matches[i].Score {
			t.Errorf("score %d mismatch", i)
		}
		if result.SourceDocuments[i] != matches[i] {
			t.Errorf("source document %d mismatch", i)
		}
		if i > 0 && result.Scores[i] > result.Scores[i-1] {
			t.Errorf("scores not non-increasing at %d", i)
		}
	}

	if result.ContextTexts[0] != "context 0" {
		t.Errorf("unexpected context text: %q", result.ContextTexts[0])
	}
	if result.ContextTexts[2] != "" {
		t.Errorf("metadata-less match must yield an empty context text, got %q", result.ContextTexts[2])
	}
}

func TestSimilarityResponseDefaultTopK(t *testing.T) {
	index := &fakeIndex{queryResult: rankedMatches(10)}
	r := NewRetriever(index, newTestLogger())

	result, err := r.SimilarityResponse(context.Background(), "ns", []float32{0.1}, 0)
	if err != nil {
		t.Fatalf("SimilarityResponse() error = %v", err)
	}
	if len(result.VectorIDs) != 4 {
		t.Errorf("expected the default topK of 4, got %d matches", len(result.VectorIDs))
	}
}

func TestSimilarityResponsePropagatesErrors(t *testing.T) {
	index := &fakeIndex{queryErr: fmt.Errorf("index unreachable")}
	r := NewRetriever(index, newTestLogger())

	if _, err := r.SimilarityResponse(context.Background(), "ns", []float32{0.1}, 4); err == nil {
		t.Fatal("retrieval must propagate index errors, not swallow them")
	}
}

func TestMetadataReshapesFetchedVectors(t *testing.T) {
	index := &fakeIndex{fetchResult: map[string]*schema.Match{
		"vec-1": {ID: "vec-1", Metadata: map[string]interface{}{"title": "doc"}},
		"vec-2": {ID: "vec-2"},
	}}
	r := NewRetriever(index, newTestLogger())

	metadatas, err := r.Metadata(context.Background(), "ns", []string{"vec-1", "vec-2", "vec-gone"})
	if err != nil {
		t.Fatalf("Metadata() error = %v", err)
	}
	if len(metadatas) != 2 {
		t.Fatalf("expected 2 metadata entries, got %d", len(metadatas))
	}
	if metadatas[0]["vectorId"] != "vec-1" || metadatas[0]["title"] != "doc" {
		t.Errorf("unexpected first entry: %v", metadatas[0])
	}
	if metadatas[1]["vectorId"] != "vec-2" {
		t.Errorf("unexpected second entry: %v", metadatas[1])
	}
}
