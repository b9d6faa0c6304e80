package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown provider, backend or value type.
	ErrUnsupportedType = errors.New("unsupported type")

	// ErrLLMUnavailable indicates the LLM service is not configured.
	// Self-query filter inference falls back to rules without it.
	ErrLLMUnavailable = errors.New("LLM service unavailable")

	// ErrEmbeddingUnavailable indicates the embedding service is not configured.
	// Retrieval and indexing are disabled without embeddings.
	ErrEmbeddingUnavailable = errors.New("embedding service unavailable")

	// ErrVectorIndexUnavailable indicates the vector index is not configured or closed.
	ErrVectorIndexUnavailable = errors.New("vector index unavailable")

	// ErrRetrieverUnavailable indicates no retriever is wired for a tool.
	ErrRetrieverUnavailable = errors.New("retriever unavailable")

	// ErrInvalidFilter indicates an inferred metadata filter could not be parsed.
	ErrInvalidFilter = errors.New("invalid metadata filter")

	// ErrRetrievalPanic indicates the retrieval backend panicked.
	ErrRetrievalPanic = errors.New("retrieval backend panicked")
)
