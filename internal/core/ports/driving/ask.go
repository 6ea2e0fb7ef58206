package driving

import (
	"context"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// Assistant answers natural-language questions about course material.
type Assistant interface {
	// Ask resolves the course, retrieves supporting chunks and composes
	// a grounded answer. courseID may be empty to use the default
	// course. Invalid or unknown course ids are rejected before any
	// retrieval work begins; a valid question otherwise always yields a
	// best-effort answer, even with zero citations and zero confidence.
	Ask(ctx context.Context, question, courseID string) (*domain.Answer, error)
}
