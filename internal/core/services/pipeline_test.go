package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
)

// hitsFromPoints converts the indexed points into search hits so a
// retrieval can run against exactly what ingestion wrote.
func hitsFromPoints(index *mockIndex, scores map[string]float64) []driven.Hit {
	var hits []driven.Hit
	for _, point := range index.points["col"] {
		score, ok := scores[point.Metadata.SourcePath]
		if !ok {
			score = 0.5
		}
		hits = append(hits, driven.Hit{
			ID:       point.ID,
			Score:    score,
			Text:     point.Text,
			Metadata: point.Metadata,
		})
	}
	return hits
}

func TestIngestThenRetrieveScopedToTenant(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "c1/policy.md", "# Late Policy\nAssignments lose 10% per day late.")
	writeCorpusFile(t, root, "c1/schedule.md", "# Schedule\nAssignment 1 is due Friday.")

	embedding := newMockEmbedding(4)
	index := newMockIndex()
	ingestor := newTestIngestor(embedding, index)

	_, err := ingestor.Ingest(context.Background(), []string{root})
	require.NoError(t, err)

	index.searchHits = hitsFromPoints(index, map[string]float64{
		"c1/policy.md":   0.8,
		"c1/schedule.md": 0.82,
	})

	retriever := NewRetriever(embedding, index, "col", "")
	chunks, err := retriever.Retrieve(context.Background(), "What is the late policy?", "c1", 5)
	require.NoError(t, err)
	require.NotEmpty(t, chunks)

	// The keyword bias promotes the policy chunk over the higher-scored
	// schedule chunk without touching its numeric score.
	assert.Contains(t, chunks[0].Metadata.SourcePath, "policy")
	assert.InDelta(t, 0.8, chunks[0].Score, 0.001)

	for _, chunk := range chunks {
		assert.Equal(t, "c1", chunk.Metadata.CourseID)
	}
}

func TestIngestThenRetrieveEmptyTenantSeesNothing(t *testing.T) {
	root := t.TempDir()
	writeCorpusFile(t, root, "c1/policy.md", "# Late Policy\nAssignments lose 10% per day late.")

	embedding := newMockEmbedding(4)
	index := newMockIndex()
	ingestor := newTestIngestor(embedding, index)

	_, err := ingestor.Ingest(context.Background(), []string{root})
	require.NoError(t, err)

	index.searchHits = hitsFromPoints(index, nil)

	retriever := NewRetriever(embedding, index, "col", "")
	chunks, err := retriever.Retrieve(context.Background(), "What is the late policy?", "c2", 5)
	require.NoError(t, err)

	for _, chunk := range chunks {
		assert.NotEqual(t, "c1", chunk.Metadata.CourseID)
	}
	assert.Empty(t, chunks)
}
