package domain

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or generation.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is a local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is the OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	default:
		return unknownDescription
	}
}

// GenerationMode selects how answers are composed.
type GenerationMode string

// Available generation modes.
const (
	// GenerationModeOn composes answers with the generation provider,
	// falling back to extractive mode on failure.
	GenerationModeOn GenerationMode = "on"

	// GenerationModeOff composes answers extractively, never invoking
	// the generation provider.
	GenerationModeOff GenerationMode = "off"
)

// IsValid returns true if the generation mode is recognised.
func (m GenerationMode) IsValid() bool {
	return m == GenerationModeOn || m == GenerationModeOff
}

// String returns the string representation.
func (m GenerationMode) String() string {
	return string(m)
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// GenerationSettings holds generation provider configuration.
type GenerationSettings struct {
	// Mode switches between generated and extractive answers.
	Mode GenerationMode

	// Provider is the generation service provider.
	Provider AIProvider

	// Model is the generation model name.
	Model string

	// BaseURL is the API endpoint (for Ollama or compatible APIs).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string

	// MaxNewTokens bounds the output-token budget per answer.
	MaxNewTokens int
}

// IsConfigured returns true if the generation provider is set up and
// generation mode is enabled.
func (g GenerationSettings) IsConfigured() bool {
	if g.Mode != GenerationModeOn {
		return false
	}
	if !g.Provider.IsValid() {
		return false
	}
	if g.Provider.RequiresAPIKey() && g.APIKey == "" {
		return false
	}
	return true
}

// RetrievalSettings holds retrieval and scoring configuration.
type RetrievalSettings struct {
	// TopK is the number of chunks requested per query.
	TopK int

	// MaxTokens is the chunk window size in words.
	MaxTokens int

	// Overlap is the word overlap between consecutive chunks.
	Overlap int

	// EscalationThreshold is the confidence below which answers are
	// flagged for instructor follow-up.
	EscalationThreshold float64
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Embedding holds embedding provider settings.
	Embedding EmbeddingSettings

	// Generation holds generation provider settings.
	Generation GenerationSettings

	// Retrieval holds retrieval and scoring settings.
	Retrieval RetrievalSettings

	// QdrantURL is the vector index base URL.
	QdrantURL string

	// Collection is the vector index collection name.
	Collection string

	// DataDir is the corpus root containing per-course material.
	DataDir string

	// StorageDir holds the catalog and interaction sink.
	StorageDir string

	// DefaultCourseID is the tenant applied when a corpus file carries
	// no per-course path segment.
	DefaultCourseID string
}

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; users must set them explicitly.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Generation: GenerationSettings{
			Mode:         GenerationModeOn,
			MaxNewTokens: 256,
		},
		Retrieval: RetrievalSettings{
			TopK:                6,
			MaxTokens:           700,
			Overlap:             120,
			EscalationThreshold: 0.55,
		},
		QdrantURL:  "http://localhost:6333",
		Collection: "lena_pilot",
		DataDir:    "data",
		StorageDir: "storage",
	}
}
