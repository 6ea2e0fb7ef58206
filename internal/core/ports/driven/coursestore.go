package driven

import (
	"context"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// CourseStore is the tenant catalog consumed by the answer entrypoint to
// resolve and validate course ids before any retrieval work begins.
type CourseStore interface {
	// Get looks up a course by id. Returns domain.ErrNotFound when the
	// id is not in the catalog.
	Get(ctx context.Context, id string) (*domain.Course, error)

	// Default returns the course used when no id is given.
	// Returns domain.ErrNotFound when the catalog is empty.
	Default(ctx context.Context) (*domain.Course, error)
}
