package embeddings

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"vectorbridge/internal/rag/interfaces"

	ollama "github.com/ollama/ollama/api"
)

// OllamaModel is an EmbeddingModel backed by a local Ollama server. It
// carries the same error/nil-payload asymmetry as OpenAIModel.
type OllamaModel struct {
	client *ollama.Client
	model  string
}

// NewOllamaModel creates a new OllamaModel client. baseURL defaults to the
// local Ollama endpoint when empty.
func NewOllamaModel(model, baseURL string) (*OllamaModel, error) {
	if baseURL == "" {
		baseURL = "http://localhost:11434"
	}

	parsedURL, err := url.Parse(baseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base URL: %w", err)
	}

	hc := &http.Client{
		Timeout: 120 * time.Second,
	}

	return &OllamaModel{client: ollama.NewClient(parsedURL, hc), model: model}, nil
}

// Embed requests a single embedding. Returns nil, nil when the response
// holds no usable embedding.
func (m *OllamaModel) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil || vectors == nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch requests embeddings for all texts in one call. Atomic: a
// response with fewer or empty embeddings degrades to nil.
func (m *OllamaModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := m.client.Embed(ctx, &ollama.EmbedRequest{
		Model: m.model,
		Input: texts,
	})
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	if len(resp.Embeddings) < len(texts) {
		return nil, nil
	}
	for _, v := range resp.Embeddings {
		if len(v) == 0 {
			return nil, nil
		}
	}
	return resp.Embeddings[:len(texts)], nil
}

// compile-time check to ensure OllamaModel implements the EmbeddingModel interface
var _ interfaces.EmbeddingModel = (*OllamaModel)(nil)
