package driven

import "context"

// GenerationService produces answer text from a prompt.
// This is an optional service - when nil or failing, answer composition
// degrades to extractive mode. Generation errors are never surfaced to
// the caller as hard failures.
//
// Implementations may include:
//   - OpenAI (GPT-4 family)
//   - Ollama (local models)
type GenerationService interface {
	// Generate produces text completion from a prompt.
	// A single attempt per request; callers enforce timeouts via ctx.
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}

// GenerateOptions configures text generation behaviour.
type GenerateOptions struct {
	// MaxTokens is the maximum number of tokens to generate.
	MaxTokens int

	// Temperature controls randomness (0.0 = deterministic).
	// Grounded answering always uses deterministic decoding.
	Temperature float64

	// StopWords are sequences that stop generation when encountered.
	StopWords []string
}
