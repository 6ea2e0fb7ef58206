package driven

import (
	"context"

	"github.com/lena-labs/lena-cli/internal/core/domain"
)

// Parser transforms a raw corpus file into titled sections.
// Each parser handles specific file extensions (e.g., markdown, ICS).
type Parser interface {
	// Extensions returns the lowercased file extensions this parser
	// handles, including the leading dot (e.g., ".md").
	Extensions() []string

	// Parse produces the sections for one file. Implementations must
	// not return an empty section list for non-empty input; flat
	// formats yield a single synthetic section.
	Parse(ctx context.Context, file RawFile) ([]domain.Section, error)
}

// RawFile is one corpus file handed to a parser.
type RawFile struct {
	// SourcePath is the path relative to the corpus root.
	SourcePath string

	// Content is the raw file bytes.
	Content []byte
}
