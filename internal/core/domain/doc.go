// Package domain defines the core business entities for LENA.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A parsed corpus file with its titled sections
//   - Chunk: The unit of embedding, indexing and retrieval
//   - RetrievedChunk: A read-only retrieval result projection
//   - Citation: A deduplicated source reference shown to the caller
//   - Answer: The produced answer with citations and confidence
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
