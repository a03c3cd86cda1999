package embeddings

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
)

type embeddingsRequest struct {
	Input []string `json:"input"`
	Model string   `json:"model"`
}

type embeddingData struct {
	Object    string    `json:"object"`
	Index     int       `json:"index"`
	Embedding []float32 `json:"embedding"`
}

type embeddingsResponse struct {
	Object string          `json:"object"`
	Data   []embeddingData `json:"data"`
	Model  string          `json:"model"`
}

// newEmbeddingsServer serves a fake embeddings endpoint whose response data
// is produced from the decoded request by build.
func newEmbeddingsServer(t *testing.T, build func(req embeddingsRequest) []embeddingData) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req embeddingsRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("failed to decode embeddings request: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		resp := embeddingsResponse{Object: "list", Data: build(req), Model: req.Model}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			t.Fatalf("failed to encode embeddings response: %v", err)
		}
	}))
}

func newTestModel(t *testing.T, baseURL string) *OpenAIModel {
	t.Helper()
	m, err := NewOpenAIModel("test-key", "text-embedding-ada-002", baseURL)
	if err != nil {
		t.Fatalf("NewOpenAIModel() error = %v", err)
	}
	return m
}

func TestEmbedBatchAligned(t *testing.T) {
	srv := newEmbeddingsServer(t, func(req embeddingsRequest) []embeddingData {
		// Answer out of order on purpose: alignment must follow the
		// reported index, not response order.
		data := make([]embeddingData, 0, len(req.Input))
		for i := len(req.Input) - 1; i >= 0; i-- {
			data = append(data, embeddingData{
				Object:    "embedding",
				Index:     i,
				Embedding: []float32{float32(i), 0.5},
			})
		}
		return data
	})
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	texts := []string{"alpha", "beta", "gamma"}

	vectors, err := m.EmbedBatch(context.Background(), texts)
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if len(vectors) != len(texts) {
		t.Fatalf("expected %d vectors, got %d", len(texts), len(vectors))
	}
	for i, v := range vectors {
		if v[0] != float32(i) {
			t.Errorf("vector %d not index-aligned: first value = %v", i, v[0])
		}
	}
}

func TestEmbedBatchFewerResultsIsAtomic(t *testing.T) {
	srv := newEmbeddingsServer(t, func(req embeddingsRequest) []embeddingData {
		return []embeddingData{{Object: "embedding", Index: 0, Embedding: []float32{0.1}}}
	})
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	vectors, err := m.EmbedBatch(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil vectors for short response, got %d", len(vectors))
	}
}

func TestEmbedBatchMissingValuesIsAtomic(t *testing.T) {
	srv := newEmbeddingsServer(t, func(req embeddingsRequest) []embeddingData {
		data := make([]embeddingData, len(req.Input))
		for i := range req.Input {
			data[i] = embeddingData{Object: "embedding", Index: i, Embedding: []float32{0.1}}
		}
		data[1].Embedding = nil // one unusable entry poisons the batch
		return data
	})
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	vectors, err := m.EmbedBatch(context.Background(), []string{"alpha", "beta", "gamma"})
	if err != nil {
		t.Fatalf("EmbedBatch() error = %v", err)
	}
	if vectors != nil {
		t.Errorf("expected nil vectors when any embedding is missing, got %d", len(vectors))
	}
}

func TestEmbedBatchProviderError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"boom"}}`, http.StatusInternalServerError)
	}))
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	if _, err := m.EmbedBatch(context.Background(), []string{"alpha"}); err == nil {
		t.Error("expected an error for a failing provider call")
	}
}

func TestEmbedSingle(t *testing.T) {
	srv := newEmbeddingsServer(t, func(req embeddingsRequest) []embeddingData {
		return []embeddingData{{Object: "embedding", Index: 0, Embedding: []float32{0.25, 0.75}}}
	})
	defer srv.Close()

	m := newTestModel(t, srv.URL)
	vector, err := m.Embed(context.Background(), "alpha")
	if err != nil {
		t.Fatalf("Embed() error = %v", err)
	}
	if len(vector) != 2 || vector[0] != 0.25 {
		t.Errorf("unexpected vector: %v", vector)
	}
}
