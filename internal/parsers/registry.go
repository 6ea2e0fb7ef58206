package parsers

import (
	"sort"
	"strings"

	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// Registry maps file extensions to parsers.
type Registry struct {
	byExt map[string]driven.Parser
}

// NewRegistry creates an empty parser registry.
func NewRegistry() *Registry {
	return &Registry{
		byExt: make(map[string]driven.Parser),
	}
}

// Register adds a parser for each of its declared extensions.
// Later registrations for the same extension win.
func (r *Registry) Register(p driven.Parser) {
	for _, ext := range p.Extensions() {
		r.byExt[strings.ToLower(ext)] = p
	}
}

// For returns the parser for the given filename extension.
// The second return is false when no parser handles the extension.
func (r *Registry) For(ext string) (driven.Parser, bool) {
	p, ok := r.byExt[strings.ToLower(ext)]
	return p, ok
}

// Extensions returns all registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
