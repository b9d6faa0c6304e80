// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the tools to function:
//
//   - Retriever: Returns ranked documents for a query
//   - ImageStore: Answers existence checks under the image root
//   - EmbeddingService: Generates vector embeddings for queries and chunks
//   - VectorIndex: Vector storage/search (chromem-go or Qdrant)
//   - DocumentStore: Report and chunk persistence
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - LLMService: Language model used for self-query filter inference.
//     Without it, filters are inferred by rules.
//   - PromptStore: User-editable prompt templates. Defaults are built in.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
