// Package markdown parses heading-structured markdown into sections.
package markdown

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// Ensure Parser implements the interface.
var _ driven.Parser = (*Parser)(nil)

// headingPattern matches ATX headings of any level.
var headingPattern = regexp.MustCompile(`^(#{1,6})\s+(.*)`)

// Parser handles markdown documents.
type Parser struct{}

// New creates a new markdown parser.
func New() *Parser {
	return &Parser{}
}

// Extensions returns the file extensions this parser handles.
func (p *Parser) Extensions() []string {
	return []string{".md", ".markdown"}
}

// Parse splits the file on heading markers into sections. Text before
// the first heading is collected under an implicit title derived from
// the filename; each heading starts a new section titled by it.
func (p *Parser) Parse(_ context.Context, file driven.RawFile) ([]domain.Section, error) {
	text := string(file.Content)

	var sections []domain.Section
	currentTitle := stemTitle(file.SourcePath)
	var buffer []string

	flush := func() {
		if len(buffer) == 0 {
			return
		}
		content := strings.TrimSpace(strings.Join(buffer, "\n"))
		sections = append(sections, domain.Section{Title: currentTitle, Content: content})
		buffer = buffer[:0]
	}

	for _, line := range strings.Split(text, "\n") {
		if m := headingPattern.FindStringSubmatch(line); m != nil {
			flush()
			currentTitle = strings.TrimSpace(m[2])
			continue
		}
		buffer = append(buffer, line)
	}
	flush()

	// A file with no body lines still yields one section so the
	// document keeps a title.
	if len(sections) == 0 {
		sections = append(sections, domain.Section{Title: currentTitle, Content: text})
	}

	return sections, nil
}

// stemTitle derives a readable title from the filename stem.
func stemTitle(path string) string {
	stem := filepath.Base(path)
	if ext := filepath.Ext(stem); ext != "" {
		stem = strings.TrimSuffix(stem, ext)
	}
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.TrimSpace(stem)

	words := strings.Fields(stem)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
