package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrCourseUnknown indicates the requested course id is not in the
	// catalog. Rejected before any retrieval work begins.
	ErrCourseUnknown = errors.New("course unknown")

	// ErrCourseInvalid indicates a course id that is syntactically unsafe
	// (path separators, dot segments). Never allowed to influence
	// filesystem path construction.
	ErrCourseInvalid = errors.New("course id invalid")

	// ErrCorpusUnreachable indicates the corpus root cannot be read.
	// Callers translate this into a server-side failure.
	ErrCorpusUnreachable = errors.New("corpus unreachable")

	// ErrEmbeddingUnavailable indicates the embedding provider failed or
	// is not configured. During answering there is no sensible fallback
	// without a query vector, so the request fails.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrGenerationUnavailable indicates the generation provider is not
	// configured. Composition degrades to extractive mode.
	ErrGenerationUnavailable = errors.New("generation service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not
	// configured or unreachable. Retrieval degrades to the filesystem
	// fallback path.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")
)
