package domain

// RetrievedChunk is a read-only projection returned by the retriever.
// It is created per query and discarded after the request completes.
type RetrievedChunk struct {
	// ID is the chunk's index id.
	ID string

	// Text is the chunk body.
	Text string

	// Score is the similarity score reported by the vector index.
	// The keyword-bias rerank reorders chunks but never rewrites this.
	Score float64

	// Metadata carries the chunk's document attributes.
	Metadata ChunkMetadata
}

// Citation is a deduplicated-by-source projection of retrieved chunk
// metadata shown to the caller. At most one citation exists per distinct
// source path within a single answer, in first-seen order.
type Citation struct {
	// Title is the cited document's title.
	Title string `json:"title"`

	// Section is the cited section, when known.
	Section string `json:"section,omitempty"`

	// SourcePath identifies the cited document within the corpus.
	SourcePath string `json:"source_path"`
}

// Answer is the produced response for one question.
type Answer struct {
	// QuestionID uniquely identifies this question/answer exchange.
	QuestionID string `json:"question_id"`

	// Text is the answer body (generated or extractive).
	Text string `json:"answer"`

	// Citations reference the supporting sources, deduplicated.
	Citations []Citation `json:"citations"`

	// Confidence is the retrieval confidence in [0, 1].
	Confidence float64 `json:"confidence"`

	// EscalationSuggested is true when confidence fell below the
	// configured threshold and an instructor should follow up.
	EscalationSuggested bool `json:"escalation_suggested"`
}

// BuildCitations extracts unique citations from retrieved chunks.
// Chunks sharing a source path collapse into the first occurrence so the
// same document is never cited twice in one answer.
func BuildCitations(chunks []RetrievedChunk) []Citation {
	seen := make(map[string]bool)
	citations := make([]Citation, 0, len(chunks))

	for _, chunk := range chunks {
		sourcePath := chunk.Metadata.SourcePath
		if sourcePath == "" || seen[sourcePath] {
			continue
		}
		seen[sourcePath] = true

		title := chunk.Metadata.Title
		if title == "" {
			title = sourcePath
		}
		citations = append(citations, Citation{
			Title:      title,
			Section:    chunk.Metadata.Section,
			SourcePath: sourcePath,
		})
	}

	return citations
}
