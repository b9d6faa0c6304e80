// Package vector holds the vector index adapters.
//
//   - chromem: embedded index persisted under the data directory
//   - qdrant: remote Qdrant server over gRPC
//
// Both store chunk metadata alongside each vector so that metadata filters
// are applied by the index itself.
package vector
