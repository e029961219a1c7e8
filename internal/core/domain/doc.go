// Package domain defines the core business entities for kbsync.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: An uploaded knowledge-base file and its ingestion status
//   - Chunk: A read-only preview of one ingested unit of a document
//   - Note: A freeform knowledge entry with normalised tags
//   - Instruction: The single custom-instruction blob per bot
//   - Stats: Server-computed aggregate counters
//   - SearchResult: One hit in a knowledge-base search
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
