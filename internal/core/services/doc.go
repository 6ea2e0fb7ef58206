// Package services implements the core answering pipeline.
//
// Services implement the driving ports and depend only on domain types
// and driven port interfaces. Infrastructure is injected at construction
// time, which keeps every service testable with fakes.
//
//   - Ingestor: walks corpus roots into the vector index
//   - Retriever: tenant-filtered similarity search with keyword bias
//   - Confidence: retrieval-quality scoring
//   - Composer: grounded or extractive answer composition
//   - Assistant: the answer entrypoint tying the pipeline together
package services
