// Package ai provides factory functions for creating AI service adapters.
package ai

import (
	"context"
	"fmt"
	"time"

	ollamaembed "github.com/lena-labs/lena-cli/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/lena-labs/lena-cli/internal/adapters/driven/embedding/openai"
	ollamagen "github.com/lena-labs/lena-cli/internal/adapters/driven/generation/ollama"
	openaigen "github.com/lena-labs/lena-cli/internal/adapters/driven/generation/openai"
	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// pingTimeout is the maximum time to wait for service connectivity validation.
const pingTimeout = 5 * time.Second

// CreateEmbeddingService creates the appropriate embedding service
// based on settings. Embedding is mandatory for both ingestion and
// answering, so an unconfigured provider is an error.
func CreateEmbeddingService(settings domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if !settings.IsConfigured() {
		return nil, fmt.Errorf("%w: embedding provider not configured, set [embedding] in config.toml",
			domain.ErrEmbeddingUnavailable)
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamaembed.NewEmbeddingService(ollamaembed.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrEmbeddingUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unknown embedding provider %q",
			domain.ErrEmbeddingUnavailable, settings.Provider)
	}
}

// CreateGenerationService creates the appropriate generation service
// based on settings. Returns nil when generation is off or not
// configured; composition then runs extractively.
func CreateGenerationService(settings domain.GenerationSettings) (driven.GenerationService, error) {
	if !settings.IsConfigured() {
		return nil, nil
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamagen.NewGenerationService(ollamagen.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaigen.NewGenerationService(openaigen.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("%w: %v", domain.ErrGenerationUnavailable, err)
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: unknown generation provider %q",
			domain.ErrGenerationUnavailable, settings.Provider)
	}
}

// ValidateEmbeddingService pings the embedding service to confirm it is
// reachable before a long ingestion run starts.
func ValidateEmbeddingService(svc driven.EmbeddingService) error {
	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()

	if err := svc.Ping(ctx); err != nil {
		return fmt.Errorf("%w: service unreachable (%v)", domain.ErrEmbeddingUnavailable, err)
	}
	return nil
}
