package driven

import "context"

// LLMService turns a prompt into text. The self-query tool uses it to
// extract metadata filters; without one it falls back to rule-based parsing.
type LLMService interface {
	Generate(ctx context.Context, prompt string, opts GenerateOptions) (string, error)
	ModelName() string
	// Ping makes the cheapest request the provider offers.
	Ping(ctx context.Context) error
	Close() error
}

// GenerateOptions tunes a single Generate call. Zero values leave the
// provider default in place.
type GenerateOptions struct {
	System      string
	MaxTokens   int
	Temperature float64
}
