package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	store, _ := newTestStore(t)

	settings, err := store.Load()
	require.NoError(t, err)

	defaults := domain.DefaultAppSettings()
	assert.Equal(t, defaults.Retrieval, settings.Retrieval)
	assert.Equal(t, defaults.Collection, settings.Collection)
	assert.Equal(t, defaults.QdrantURL, settings.QdrantURL)
}

func TestLoadOverlaysFileValues(t *testing.T) {
	store, dir := newTestStore(t)

	config := `
qdrant_url = "http://qdrant.internal:6333"
default_course_id = "anth101"

[embedding]
provider = "ollama"
model = "nomic-embed-text"

[retrieval]
top_k = 10
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte(config), 0o600))

	settings, err := store.Load()
	require.NoError(t, err)

	assert.Equal(t, "http://qdrant.internal:6333", settings.QdrantURL)
	assert.Equal(t, "anth101", settings.DefaultCourseID)
	assert.Equal(t, domain.AIProviderOllama, settings.Embedding.Provider)
	assert.Equal(t, 10, settings.Retrieval.TopK)
	// Unset keys keep their defaults.
	assert.Equal(t, 700, settings.Retrieval.MaxTokens)
	assert.Equal(t, 0.55, settings.Retrieval.EscalationThreshold)
}

func TestLoadMalformedFile(t *testing.T) {
	store, dir := newTestStore(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigFileName), []byte("not = [valid"), 0o600))

	_, err := store.Load()
	assert.Error(t, err)
}

func TestSaveRoundTrip(t *testing.T) {
	store, _ := newTestStore(t)

	settings := domain.DefaultAppSettings()
	settings.Embedding.Provider = domain.AIProviderOpenAI
	settings.Embedding.Model = "text-embedding-3-small"
	settings.Embedding.APIKey = "sk-test"
	settings.Generation.Mode = domain.GenerationModeOff
	settings.Collection = "pilot_two"

	require.NoError(t, store.Save(settings))

	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, domain.AIProviderOpenAI, loaded.Embedding.Provider)
	assert.Equal(t, "sk-test", loaded.Embedding.APIKey)
	assert.Equal(t, domain.GenerationModeOff, loaded.Generation.Mode)
	assert.Equal(t, "pilot_two", loaded.Collection)
}

func TestEnvAPIKeyFillsBlanks(t *testing.T) {
	store, _ := newTestStore(t)
	t.Setenv("OPENAI_API_KEY", "sk-env")

	settings, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-env", settings.Embedding.APIKey)
	assert.Equal(t, "sk-env", settings.Generation.APIKey)
}

func TestEnvDoesNotOverrideFileKey(t *testing.T) {
	store, _ := newTestStore(t)

	settings := domain.DefaultAppSettings()
	settings.Embedding.APIKey = "sk-file"
	require.NoError(t, store.Save(settings))

	t.Setenv("OPENAI_API_KEY", "sk-env")
	loaded, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "sk-file", loaded.Embedding.APIKey)
}
