// Package chunker provides a sliding word-window text chunker.
package chunker

import "strings"

// DefaultMaxTokens is the default number of words per chunk.
const DefaultMaxTokens = 700

// DefaultOverlap is the default number of overlapping words between
// consecutive chunks.
const DefaultOverlap = 120

// Chunker splits section text into overlapping word windows.
// The window bounds per-chunk context handed to the generation provider
// while the overlap keeps content at a window boundary retrievable from
// either adjacent chunk.
type Chunker struct {
	maxTokens int
	overlap   int
}

// Option configures the chunker.
type Option func(*Chunker)

// WithMaxTokens sets the window size in words.
func WithMaxTokens(n int) Option {
	return func(c *Chunker) {
		if n > 0 {
			c.maxTokens = n
		}
	}
}

// WithOverlap sets the overlap between chunks in words.
func WithOverlap(n int) Option {
	return func(c *Chunker) {
		if n >= 0 {
			c.overlap = n
		}
	}
}

// New creates a chunker with the given options.
func New(opts ...Option) *Chunker {
	c := &Chunker{
		maxTokens: DefaultMaxTokens,
		overlap:   DefaultOverlap,
	}

	for _, opt := range opts {
		opt(c)
	}

	// Overlap must leave the window a positive advance
	if c.overlap >= c.maxTokens {
		c.overlap = c.maxTokens / 4
	}

	return c
}

// MaxTokens returns the configured window size.
func (c *Chunker) MaxTokens() int { return c.maxTokens }

// Overlap returns the configured overlap.
func (c *Chunker) Overlap() int { return c.overlap }

// Split cuts text into chunks of at most maxTokens words, each window
// starting overlap words before the previous window's end. The final
// chunk may be shorter than the window; empty text yields no chunks.
func (c *Chunker) Split(text string) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}

	estimated := len(words)/(c.maxTokens-c.overlap) + 1
	chunks := make([]string, 0, estimated)

	start := 0
	for start < len(words) {
		end := start + c.maxTokens
		if end > len(words) {
			end = len(words)
		}
		chunks = append(chunks, strings.Join(words[start:end], " "))
		if end == len(words) {
			break
		}
		start = end - c.overlap
	}

	return chunks
}
