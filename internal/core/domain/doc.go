// Package domain defines the core business entities for reportrag.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Document: A retrieved chunk handed to the tools
//   - Metadata: Typed scalar key-value pairs attached to a chunk
//   - ImageReference: An image link discovered inside chunk content
//   - AggregatedResult: The per-call assembly of retrieved documents
//   - Report: An ingested source report and its chunks
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
