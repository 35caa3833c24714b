package analyzer

import (
	"context"
	"fmt"
	"time"

	"github.com/BerylCAtieno/legal-document-summarizer/internal/utils"
)

const (
	ProviderOpenRouter = "openrouter"
	ProviderOpenAI     = "openai"
	ProviderOllama     = "ollama"
	ProviderVertex     = "vertex"
)

type BackendConfig struct {
	Provider string
	APIKey   string
	BaseURL  string
	Model    string
	Timeout  time.Duration

	// Vertex AI only
	ProjectID string
	Region    string
}

// NewBackend builds the backend for cfg.Provider. Backends that hold
// connections also implement io.Closer.
func NewBackend(ctx context.Context, cfg BackendConfig, logger *utils.Logger) (Backend, error) {
	switch cfg.Provider {
	case ProviderOpenRouter, "":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openrouter: API key is required")
		}
		return NewOpenRouterBackend(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout, logger), nil
	case ProviderOpenAI:
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("openai: API key is required")
		}
		return NewOpenAIBackend(cfg.APIKey, cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case ProviderOllama:
		return NewOllamaBackend(cfg.BaseURL, cfg.Model, cfg.Timeout), nil
	case ProviderVertex:
		b, err := NewVertexBackend(ctx, cfg.ProjectID, cfg.Region, cfg.Model)
		if err != nil {
			return nil, err
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unknown LLM provider %q", cfg.Provider)
	}
}
