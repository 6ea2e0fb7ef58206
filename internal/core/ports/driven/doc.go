// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - EmbeddingService: Maps text to fixed-length vectors
//   - VectorIndex: Stores and searches (id, vector, payload) triples
//   - Parser: Turns raw corpus files into titled sections
//   - CourseStore: Resolves and validates tenant identifiers
//
// # Optional Interfaces
//
//   - GenerationService: Produces grounded answer text; when absent or
//     failing, composition degrades to extractive mode
//   - InteractionStore: Write-only sink for ask events and answer records
package driven
