package services

import (
	"context"
	"crypto/sha1"
	"encoding/hex"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/lena-labs/lena-cli/internal/chunker"
	"github.com/lena-labs/lena-cli/internal/core/domain"
	"github.com/lena-labs/lena-cli/internal/core/ports/driven"
	"github.com/lena-labs/lena-cli/internal/core/ports/driving"
	"github.com/lena-labs/lena-cli/internal/logger"
)

// Ensure Ingestor implements the interface.
var _ driving.Ingestor = (*Ingestor)(nil)

// chunkNamespace scopes deterministic chunk ids. Re-ingesting the same
// document with unchanged content reproduces identical ids, which makes
// upserts idempotent.
var chunkNamespace = uuid.NewSHA1(uuid.NameSpaceDNS, []byte("chunks.lena"))

// Ingestor walks corpus roots, parses and chunks each file, embeds the
// chunks and upserts them into the vector index.
type Ingestor struct {
	embedding     driven.EmbeddingService
	index         driven.VectorIndex
	parsers       driven.ParserRegistry
	chunker       *chunker.Chunker
	collection    string
	defaultCourse string
}

// NewIngestor creates a new ingestor.
func NewIngestor(
	embedding driven.EmbeddingService,
	index driven.VectorIndex,
	registry driven.ParserRegistry,
	chk *chunker.Chunker,
	collection string,
	defaultCourse string,
) *Ingestor {
	return &Ingestor{
		embedding:     embedding,
		index:         index,
		parsers:       registry,
		chunker:       chk,
		collection:    collection,
		defaultCourse: defaultCourse,
	}
}

// Ingest processes every supported file under the given roots.
func (ing *Ingestor) Ingest(ctx context.Context, roots []string) (domain.IngestStats, error) {
	logger.Section("Ingestion")

	var stats domain.IngestStats

	if err := ing.index.EnsureCollection(ctx, ing.collection, ing.embedding.Dimensions()); err != nil {
		return stats, fmt.Errorf("ensure collection: %w", err)
	}

	for _, root := range roots {
		info, err := os.Stat(root)
		if err != nil || !info.IsDir() {
			return stats, fmt.Errorf("%w: %s", domain.ErrCorpusUnreachable, root)
		}

		logger.Info("Walking corpus root %s", root)
		if err := ing.ingestRoot(ctx, root, &stats); err != nil {
			return stats, err
		}
	}

	logger.Info("Ingestion complete: %d documents, %d chunks", stats.DocsProcessed, stats.ChunksWritten)
	return stats, nil
}

// ingestRoot walks one root in lexicographic path order so re-runs
// produce stable diagnostics.
func (ing *Ingestor) ingestRoot(ctx context.Context, root string, stats *domain.IngestStats) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, err error) error {
		if err != nil {
			logger.Warn("Skipping %s: %v", path, err)
			return nil
		}
		if entry.IsDir() {
			return nil
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		parser, ok := ing.parsers.For(filepath.Ext(path))
		if !ok {
			logger.Debug("No parser for %s, skipping", path)
			return nil
		}

		doc, err := ing.parseFile(ctx, root, path, parser)
		if err != nil {
			logger.Warn("Parse failed for %s: %v", path, err)
			return nil
		}

		written, err := ing.indexDocument(ctx, doc)
		if err != nil {
			logger.Warn("Indexing failed for %s: %v", doc.SourcePath, err)
			return nil
		}

		stats.DocsProcessed++
		stats.ChunksWritten += written
		return nil
	})
}

// parseFile reads one corpus file and builds its Document.
func (ing *Ingestor) parseFile(ctx context.Context, root, path string, parser driven.Parser) (*domain.Document, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	rel, err := filepath.Rel(root, path)
	if err != nil {
		return nil, fmt.Errorf("relative path: %w", err)
	}
	rel = filepath.ToSlash(rel)

	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("stat file: %w", err)
	}

	sections, err := parser.Parse(ctx, driven.RawFile{SourcePath: rel, Content: content})
	if err != nil {
		return nil, fmt.Errorf("parse: %w", err)
	}

	title := ""
	if len(sections) > 0 {
		title = sections[0].Title
	}
	if title == "" {
		title = rel
	}

	sum := sha1.Sum([]byte(rel))

	return &domain.Document{
		DocID:      hex.EncodeToString(sum[:]),
		VersionID:  strconv.FormatInt(info.ModTime().Unix(), 10),
		Collection: detectCollection(rel),
		Title:      title,
		SourcePath: rel,
		CourseID:   ing.courseID(rel),
		Sections:   sections,
	}, nil
}

// indexDocument chunks, embeds and upserts one document. The delete of
// the document's previous chunks happens only after embeddings succeed,
// so an embedding failure leaves the index untouched for this doc_id.
func (ing *Ingestor) indexDocument(ctx context.Context, doc *domain.Document) (int, error) {
	var texts []string
	var sectionTitles []string
	for _, section := range doc.Sections {
		for _, text := range ing.chunker.Split(section.Content) {
			texts = append(texts, text)
			sectionTitles = append(sectionTitles, section.Title)
		}
	}

	if len(texts) == 0 {
		logger.Debug("Document %s produced no chunks", doc.SourcePath)
		return 0, nil
	}

	vectors, err := ing.embedding.EmbedBatch(ctx, texts)
	if err != nil {
		return 0, fmt.Errorf("embed chunks: %w", err)
	}
	if len(vectors) != len(texts) {
		return 0, fmt.Errorf("embed chunks: got %d vectors for %d texts", len(vectors), len(texts))
	}

	crawlTS := time.Now().UTC()
	points := make([]driven.Point, len(texts))
	for i, text := range texts {
		points[i] = driven.Point{
			ID:     ChunkID(doc.DocID, i),
			Vector: vectors[i],
			Text:   text,
			Metadata: domain.ChunkMetadata{
				DocID:      doc.DocID,
				VersionID:  doc.VersionID,
				Collection: doc.Collection,
				Title:      doc.Title,
				Section:    sectionTitles[i],
				SourcePath: doc.SourcePath,
				CourseID:   doc.CourseID,
				CrawlTS:    crawlTS,
			},
		}
	}

	// Re-ingestion is delete-then-insert per document, never a global
	// wipe, so serving traffic for unrelated documents is unaffected.
	if err := ing.index.Delete(ctx, ing.collection, &driven.Filter{DocID: doc.DocID}); err != nil {
		return 0, fmt.Errorf("delete previous chunks: %w", err)
	}
	if err := ing.index.Upsert(ctx, ing.collection, points); err != nil {
		return 0, fmt.Errorf("upsert chunks: %w", err)
	}

	logger.Debug("Indexed %s: %d chunks", doc.SourcePath, len(points))
	return len(points), nil
}

// courseID derives the tenant from the first path segment when the
// corpus is organised by course, falling back to the configured default
// tenant for top-level files.
func (ing *Ingestor) courseID(rel string) string {
	if idx := strings.IndexByte(rel, '/'); idx > 0 {
		return rel[:idx]
	}
	return ing.defaultCourse
}

// ChunkID returns the deterministic id for a document's nth chunk.
func ChunkID(docID string, ordinal int) string {
	return uuid.NewSHA1(chunkNamespace, []byte(fmt.Sprintf("%s:%d", docID, ordinal))).String()
}

// detectCollection coarsely categorises a document by its filename.
func detectCollection(rel string) string {
	stem := strings.ToLower(filepath.Base(rel))
	if ext := filepath.Ext(stem); ext != "" {
		if ext == ".ics" {
			return domain.CollectionCalendar
		}
		stem = strings.TrimSuffix(stem, ext)
	}
	if strings.Contains(stem, "policy") || strings.Contains(stem, "syllabus") {
		return domain.CollectionPolicy
	}
	return domain.CollectionCourse
}
