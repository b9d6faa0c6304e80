package driven

import "context"

// EmbeddingService maps text to vectors for the VectorIndex.
type EmbeddingService interface {
	Embed(ctx context.Context, text string) ([]float32, error)
	// EmbedBatch returns one vector per input, in input order.
	EmbedBatch(ctx context.Context, texts []string) ([][]float32, error)
	// Dimensions must agree with the index the vectors are written to.
	Dimensions() int
	ModelName() string
	Ping(ctx context.Context) error
	Close() error
}
