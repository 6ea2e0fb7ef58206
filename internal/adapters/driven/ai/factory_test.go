package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

func TestCreateEmbeddingServiceOllama(t *testing.T) {
	svc, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama,
		Model:    "nomic-embed-text",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Equal(t, "nomic-embed-text", svc.ModelName())
}

func TestCreateEmbeddingServiceOpenAIRequiresKey(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{
		Provider: domain.AIProviderOpenAI,
	})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateEmbeddingServiceUnconfigured(t *testing.T) {
	_, err := CreateEmbeddingService(domain.EmbeddingSettings{})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
}

func TestCreateGenerationServiceOffIsNil(t *testing.T) {
	svc, err := CreateGenerationService(domain.GenerationSettings{
		Mode:     domain.GenerationModeOff,
		Provider: domain.AIProviderOllama,
	})
	require.NoError(t, err)
	assert.Nil(t, svc)
}

func TestCreateGenerationServiceOllama(t *testing.T) {
	svc, err := CreateGenerationService(domain.GenerationSettings{
		Mode:     domain.GenerationModeOn,
		Provider: domain.AIProviderOllama,
		Model:    "llama3.2",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()

	assert.Equal(t, "llama3.2", svc.ModelName())
}

func TestCreateGenerationServiceOpenAI(t *testing.T) {
	svc, err := CreateGenerationService(domain.GenerationSettings{
		Mode:     domain.GenerationModeOn,
		Provider: domain.AIProviderOpenAI,
		APIKey:   "sk-test",
	})
	require.NoError(t, err)
	require.NotNil(t, svc)
	defer svc.Close()
}
