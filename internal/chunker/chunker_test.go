package chunker

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// words builds a deterministic n-word text like "w0 w1 w2 ...".
func words(n int) string {
	parts := make([]string, n)
	for i := range parts {
		parts[i] = fmt.Sprintf("w%d", i)
	}
	return strings.Join(parts, " ")
}

func TestNew_Defaults(t *testing.T) {
	c := New()
	assert.Equal(t, DefaultMaxTokens, c.MaxTokens())
	assert.Equal(t, DefaultOverlap, c.Overlap())
}

func TestNew_OverlapClampedToWindow(t *testing.T) {
	c := New(WithMaxTokens(100), WithOverlap(100))
	assert.Equal(t, 25, c.Overlap())
}

func TestSplit_Empty(t *testing.T) {
	c := New()
	assert.Empty(t, c.Split(""))
	assert.Empty(t, c.Split("   \n\t  "))
}

func TestSplit_ShorterThanWindow(t *testing.T) {
	c := New(WithMaxTokens(10), WithOverlap(3))
	chunks := c.Split("one two three")
	require.Len(t, chunks, 1)
	assert.Equal(t, "one two three", chunks[0])
}

func TestSplit_ExactWindow(t *testing.T) {
	c := New(WithMaxTokens(5), WithOverlap(2))
	chunks := c.Split(words(5))
	require.Len(t, chunks, 1)
}

func TestSplit_OverlapBetweenConsecutiveChunks(t *testing.T) {
	c := New(WithMaxTokens(5), WithOverlap(2))
	chunks := c.Split(words(12))

	require.True(t, len(chunks) >= 2)
	for i := 1; i < len(chunks); i++ {
		prev := strings.Fields(chunks[i-1])
		cur := strings.Fields(chunks[i])
		// Each window starts exactly overlap words before the
		// previous window's end.
		assert.Equal(t, prev[len(prev)-2:], cur[:2],
			"chunks %d and %d should share 2 words", i-1, i)
	}
}

func TestSplit_EveryWordCovered(t *testing.T) {
	tests := []struct {
		name      string
		maxTokens int
		overlap   int
		n         int
	}{
		{"small windows", 5, 2, 23},
		{"window equals text", 10, 3, 10},
		{"one word spill", 10, 3, 11},
		{"defaults", DefaultMaxTokens, DefaultOverlap, 1850},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := New(WithMaxTokens(tt.maxTokens), WithOverlap(tt.overlap))
			chunks := c.Split(words(tt.n))

			covered := make(map[string]bool)
			for _, chunk := range chunks {
				for _, w := range strings.Fields(chunk) {
					covered[w] = true
				}
			}
			assert.Len(t, covered, tt.n, "every word index must appear in some chunk")

			for _, chunk := range chunks {
				assert.LessOrEqual(t, len(strings.Fields(chunk)), tt.maxTokens)
			}
		})
	}
}

func TestSplit_Deterministic(t *testing.T) {
	c := New(WithMaxTokens(7), WithOverlap(3))
	text := words(40)
	assert.Equal(t, c.Split(text), c.Split(text))
}
