package driving

import (
	"context"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// Ingestor walks corpus roots and populates the vector index.
type Ingestor interface {
	// Ingest processes every supported file under the given roots.
	// Returns domain.ErrCorpusUnreachable when a root cannot be read.
	// Per-document parse and embedding failures skip that document;
	// the returned stats reflect partial success.
	Ingest(ctx context.Context, roots []string) (domain.IngestStats, error)
}
