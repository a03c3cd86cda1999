package embeddings

import (
	"context"
	"fmt"

	"vectorbridge/internal/rag/interfaces"

	openai "github.com/meguminnnnnnnnn/go-openai"
)

// OpenAIModel is an EmbeddingModel backed by the OpenAI embeddings API.
//
// Transport and auth failures surface as errors; a successful call whose
// payload carries no usable embeddings yields a nil result with a nil
// error. Callers rely on that distinction to tell "the call failed" from
// "the call succeeded but nothing was embeddable".
type OpenAIModel struct {
	client *openai.Client
	model  string
}

// NewOpenAIModel creates a new OpenAIModel client. baseURL overrides the
// API endpoint and may be empty for the public API.
func NewOpenAIModel(apiKey, modelName, baseURL string) (*OpenAIModel, error) {
	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	client := openai.NewClientWithConfig(config)
	return &OpenAIModel{client: client, model: modelName}, nil
}

// Embed requests a single embedding. Returns nil, nil when the provider
// response holds no usable embedding.
func (m *OpenAIModel) Embed(ctx context.Context, text string) ([]float32, error) {
	vectors, err := m.EmbedBatch(ctx, []string{text})
	if err != nil || vectors == nil {
		return nil, err
	}
	return vectors[0], nil
}

// EmbedBatch requests embeddings for all texts in one provider call. The
// result is index-aligned with texts. It is atomic: if any embedding in
// the response is missing or empty, the whole batch degrades to nil.
func (m *OpenAIModel) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	req := openai.EmbeddingRequest{
		Input: texts,
		Model: openai.EmbeddingModel(m.model),
	}

	resp, err := m.client.CreateEmbeddings(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("embedding request failed: %w", err)
	}

	return decodeEmbeddings(resp, len(texts)), nil
}

// decodeEmbeddings turns a provider response into an index-aligned vector
// list, or nil when the payload is not fully usable. Alignment follows the
// per-item index reported by the provider, not response order.
func decodeEmbeddings(resp openai.EmbeddingResponse, want int) [][]float32 {
	if len(resp.Data) < want {
		return nil
	}

	vectors := make([][]float32, want)
	for _, d := range resp.Data {
		if len(d.Embedding) == 0 || d.Index < 0 || d.Index >= want {
			return nil
		}
		vectors[d.Index] = d.Embedding
	}
	for _, v := range vectors {
		if v == nil {
			return nil
		}
	}
	return vectors
}

// compile-time check to ensure OpenAIModel implements the EmbeddingModel interface
var _ interfaces.EmbeddingModel = (*OpenAIModel)(nil)
