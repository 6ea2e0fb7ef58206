package services

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/logger"
)

// fallbackScore is the nominal relevance assigned to a chunk recovered
// from the filesystem when the vector index is unavailable. Low enough
// that escalation logic treats degraded answers with suspicion.
const fallbackScore = 0.25

// fallbackMaxChars bounds the excerpt taken from a fallback file.
const fallbackMaxChars = 2000

// Retriever embeds a question and fetches the closest chunks for a
// course, degrading to a filesystem keyword scan when the index is
// unreachable.
type Retriever struct {
	embedding  driven.EmbeddingService
	index      driven.VectorIndex
	collection string
	dataDir    string
}

// NewRetriever creates a new retriever. dataDir is the corpus root used
// for degraded filesystem retrieval; empty disables the fallback.
func NewRetriever(embedding driven.EmbeddingService, index driven.VectorIndex, collection, dataDir string) *Retriever {
	return &Retriever{
		embedding:  embedding,
		index:      index,
		collection: collection,
		dataDir:    dataDir,
	}
}

// Retrieve returns up to topK chunks relevant to the question within
// the given course, reranked so chunks whose metadata mentions question
// keywords come first.
func (r *Retriever) Retrieve(ctx context.Context, question, courseID string, topK int) ([]domain.RetrievedChunk, error) {
	vector, err := r.embedding.Embed(ctx, question)
	if err != nil {
		return nil, fmt.Errorf("embed question: %w", err)
	}

	hits, err := r.index.Search(ctx, r.collection, vector, topK, &driven.Filter{CourseID: courseID})
	if err != nil {
		logger.Warn("Vector search failed, trying filesystem fallback: %v", err)
		return r.fallback(question, courseID, topK)
	}
	if len(hits) == 0 {
		logger.Debug("Vector search returned no hits, trying filesystem fallback")
		return r.fallback(question, courseID, topK)
	}

	chunks := make([]domain.RetrievedChunk, len(hits))
	for i, hit := range hits {
		chunks[i] = domain.RetrievedChunk{
			ID:       hit.ID,
			Text:     hit.Text,
			Score:    hit.Score,
			Metadata: hit.Metadata,
		}
	}

	return rerankByKeywords(question, chunks), nil
}

// rerankByKeywords stably partitions chunks into those whose title,
// section or source path mentions a question keyword and those that do
// not. Relative order inside each bucket is preserved, so the vector
// similarity ranking still decides ties.
func rerankByKeywords(question string, chunks []domain.RetrievedChunk) []domain.RetrievedChunk {
	keywords := questionKeywords(question)
	if len(keywords) == 0 {
		return chunks
	}

	matched := make([]domain.RetrievedChunk, 0, len(chunks))
	rest := make([]domain.RetrievedChunk, 0, len(chunks))
	for _, chunk := range chunks {
		haystack := strings.ToLower(chunk.Metadata.Title + " " + chunk.Metadata.Section + " " + chunk.Metadata.SourcePath)
		if containsAny(haystack, keywords) {
			matched = append(matched, chunk)
		} else {
			rest = append(rest, chunk)
		}
	}

	return append(matched, rest...)
}

// questionKeywords extracts the lowercased words of length > 2 from the
// question. Short words are too noisy to bias the ranking.
func questionKeywords(question string) []string {
	var keywords []string
	for _, word := range strings.Fields(strings.ToLower(question)) {
		word = strings.Trim(word, ".,;:!?\"'()[]")
		if len(word) > 2 {
			keywords = append(keywords, word)
		}
	}
	return keywords
}

func containsAny(haystack string, needles []string) bool {
	for _, needle := range needles {
		if strings.Contains(haystack, needle) {
			return true
		}
	}
	return false
}

// fallback scans the course's corpus directory for the file whose name
// and content best match the question keywords and returns its prefix
// as a single synthetic chunk.
func (r *Retriever) fallback(question, courseID string, topK int) ([]domain.RetrievedChunk, error) {
	if r.dataDir == "" {
		return nil, nil
	}
	if !domain.ValidCourseID(courseID) {
		return nil, nil
	}

	root := filepath.Join(r.dataDir, courseID)
	if info, err := os.Stat(root); err != nil || !info.IsDir() {
		root = r.dataDir
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			return nil, nil
		}
	}

	keywords := questionKeywords(question)

	type scored struct {
		path  string
		rel   string
		score int
	}
	var best *scored

	_ = filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil || entry.IsDir() {
			return nil
		}
		switch filepath.Ext(path) {
		case ".md", ".markdown", ".txt", ".text", ".ics":
		default:
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return nil
		}

		rel, relErr := filepath.Rel(r.dataDir, path)
		if relErr != nil {
			rel = path
		}
		rel = filepath.ToSlash(rel)

		haystack := strings.ToLower(rel + " " + string(content))
		score := 0
		for _, keyword := range keywords {
			score += strings.Count(haystack, keyword)
		}
		if score == 0 {
			return nil
		}
		if best == nil || score > best.score {
			best = &scored{path: path, rel: rel, score: score}
		}
		return nil
	})

	if best == nil {
		return nil, nil
	}

	content, err := os.ReadFile(best.path)
	if err != nil {
		return nil, nil
	}
	text := string(content)
	if len(text) > fallbackMaxChars {
		text = text[:fallbackMaxChars]
	}

	logger.Debug("Filesystem fallback selected %s (score %d)", best.rel, best.score)

	title := stemTitle(best.rel)
	chunk := domain.RetrievedChunk{
		ID:    "fallback:" + best.rel,
		Text:  text,
		Score: fallbackScore,
		Metadata: domain.ChunkMetadata{
			Collection: detectCollection(best.rel),
			Title:      title,
			SourcePath: best.rel,
			CourseID:   courseID,
		},
	}

	return []domain.RetrievedChunk{chunk}, nil
}

// stemTitle turns a file path into a human-readable title.
func stemTitle(rel string) string {
	stem := filepath.Base(rel)
	stem = strings.TrimSuffix(stem, filepath.Ext(stem))
	stem = strings.ReplaceAll(stem, "-", " ")
	stem = strings.ReplaceAll(stem, "_", " ")
	stem = strings.TrimSpace(stem)
	if stem == "" {
		return rel
	}
	words := strings.Fields(stem)
	for i, word := range words {
		words[i] = strings.ToUpper(word[:1]) + word[1:]
	}
	return strings.Join(words, " ")
}
