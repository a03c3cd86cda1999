package embeddings

import (
	"fmt"

	"vectorbridge/internal/config"
	"vectorbridge/internal/rag/interfaces"
)

// New creates an EmbeddingModel for the provider named in cfg.
func New(cfg *config.EmbeddingConfig) (interfaces.EmbeddingModel, error) {
	switch cfg.Provider {
	case "openai":
		return NewOpenAIModel(cfg.OpenAI.APIKey, cfg.OpenAI.Model, "")
	case "ollama":
		return NewOllamaModel(cfg.Ollama.Model, cfg.Ollama.BaseURL)
	default:
		return nil, fmt.Errorf("unsupported embedding provider: %s", cfg.Provider)
	}
}
