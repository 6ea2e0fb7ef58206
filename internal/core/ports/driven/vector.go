package driven

import (
	"context"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// VectorIndex is a named collection of (id, vector, payload) triples with
// filtered similarity search. The core treats it as a black box with
// network-failure and not-found error modes that are recoverable by
// recreating the collection.
type VectorIndex interface {
	// EnsureCollection creates the collection if absent, or recreates it
	// when the stored vector dimensionality differs from dim. A model
	// swap invalidates the whole index: mixed-dimension vectors are not
	// comparable.
	EnsureCollection(ctx context.Context, name string, dim int) error

	// Upsert writes points into the collection, replacing points with
	// matching ids.
	Upsert(ctx context.Context, name string, points []Point) error

	// Search returns up to limit hits ordered by descending similarity.
	// A nil filter searches the whole collection.
	Search(ctx context.Context, name string, vector []float32, limit int, filter *Filter) ([]Hit, error)

	// Delete removes all points matching the filter. Deleting with a
	// filter that matches nothing is a no-op, not an error.
	Delete(ctx context.Context, name string, filter *Filter) error

	// Close releases resources.
	Close() error
}

// Point is one (id, vector, payload) triple to upsert.
type Point struct {
	// ID is the deterministic chunk id.
	ID string

	// Vector is the chunk embedding.
	Vector []float32

	// Text is the chunk body, stored in the payload for retrieval.
	Text string

	// Metadata is the typed chunk payload.
	Metadata domain.ChunkMetadata
}

// Hit is one similarity search result.
type Hit struct {
	// ID is the matched point id.
	ID string

	// Score is the similarity score (cosine, higher is closer).
	Score float64

	// Text is the stored chunk body.
	Text string

	// Metadata is the stored chunk payload.
	Metadata domain.ChunkMetadata
}

// Filter restricts a search or delete to matching payloads.
// Zero-value fields are ignored.
type Filter struct {
	// CourseID matches the tenant field. This is the tenant-isolation
	// boundary: a query scoped to one course must never surface another
	// course's content.
	CourseID string

	// DocID matches the owning document, used for per-document
	// delete-then-insert during re-ingestion.
	DocID string
}

// IsZero reports whether the filter matches everything.
func (f *Filter) IsZero() bool {
	return f == nil || (f.CourseID == "" && f.DocID == "")
}
