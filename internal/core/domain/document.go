package domain

import "time"

// Collection names used to coarsely categorise corpus documents.
const (
	// CollectionPolicy groups policy-like material (syllabus, late policy).
	CollectionPolicy = "policy"

	// CollectionCalendar groups calendar-derived material.
	CollectionCalendar = "calendar"

	// CollectionCourse is the default collection for course content.
	CollectionCourse = "course"
)

// Document represents a single parsed corpus file.
// It exists only for the duration of one ingestion pass; only its
// derived chunks are persisted.
type Document struct {
	// DocID is a content address derived from the file's relative path.
	// It is stable across ingestion runs.
	DocID string

	// VersionID is derived from the file modification time.
	// A changed version invalidates previously indexed chunks.
	VersionID string

	// Collection is the coarse category ("policy", "calendar", "course").
	Collection string

	// Title is the human-readable document title.
	Title string

	// SourcePath is the path relative to the corpus root.
	SourcePath string

	// CourseID is the tenant this document belongs to.
	CourseID string

	// Sections are the titled spans the parser produced.
	Sections []Section
}

// Section is a titled contiguous span of a document's text.
// Heading-delimited for structured formats, synthetic single-section
// for flat formats. Produced and consumed within one ingestion pass.
type Section struct {
	// Title is the section heading (or carried-forward implicit title).
	Title string

	// Content is the section body text.
	Content string
}

// ChunkMetadata is the typed payload stored alongside each chunk vector.
// It is converted to and from the vector index's loosely-typed payload
// only inside the index adapter.
type ChunkMetadata struct {
	// DocID identifies the owning document.
	DocID string

	// VersionID is the owning document's version at ingestion time.
	VersionID string

	// Collection is the owning document's collection.
	Collection string

	// Title is the owning document's title.
	Title string

	// Section is the title of the section the chunk was cut from.
	Section string

	// SourcePath is the owning document's corpus-relative path.
	SourcePath string

	// CourseID is the tenant. Retrieval filters on this field.
	CourseID string

	// CrawlTS is when the chunk was ingested.
	CrawlTS time.Time
}

// Chunk is the unit indexed and retrieved.
// Chunks are created during ingestion and never mutated in place;
// re-ingesting a document deletes all of its chunks before upserting
// the new set.
type Chunk struct {
	// ID is deterministic: a stable hash of DocID and the chunk ordinal.
	// Re-ingesting unchanged content reproduces identical ids.
	ID string

	// Text is the chunk body (bounded by the chunker's window size).
	Text string

	// Vector is the embedding of Text.
	Vector []float32

	// Metadata carries the owning document's attributes.
	Metadata ChunkMetadata
}

// IngestStats summarises one ingestion pass.
// Counts reflect partial success: documents that failed to parse or
// embed are excluded.
type IngestStats struct {
	// DocsProcessed is the number of documents fully ingested.
	DocsProcessed int

	// ChunksWritten is the total number of chunks upserted.
	ChunksWritten int
}
