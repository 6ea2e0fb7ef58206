// Package plaintext parses flat text files into a single section.
package plaintext

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// Parser handles flat text documents.
type Parser struct{}

// New creates a new plain text parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".txt", ".text"}
}

// Parse yields one synthetic section holding the whole file.
func (p *Parser) Parse(_ context.Context, file driven.RawFile) ([]domain.Section, error) {
	stem := filepath.Base(file.SourcePath)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	title := strings.TrimSpace(strings.NewReplacer("-", " ", "_", " ").Replace(stem))
	if title == "" {
		title = file.SourcePath
	}

	return []domain.Section{{
		Title:   title,
		Content: string(file.Content),
	}}, nil
}
