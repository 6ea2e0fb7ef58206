package driven

// ParserRegistry resolves a parser for a file extension.
// The concrete registry lives with the parsers; core services only need
// lookup.
type ParserRegistry interface {
	// For returns the parser handling ext (lowercased, with leading
	// dot). The second return is false when the extension is
	// unsupported.
	For(ext string) (Parser, bool)
}
