// Package openai provides an embedding service adapter using the OpenAI API.
package openai

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	openai "github.com/sashabaranov/go-openai"

	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

var _ driven.EmbeddingService = (*EmbeddingService)(nil)

const (
	DefaultModel   = "text-embedding-3-small"
	DefaultTimeout = 60 * time.Second

	fallbackDimensions = 1536
)

// nativeDimensions is the full output size of each known model.
var nativeDimensions = map[string]int{
	"text-embedding-3-small": 1536,
	"text-embedding-3-large": 3072,
	"text-embedding-ada-002": 1536,
}

// Config configures the service. Only APIKey is required.
type Config struct {
	APIKey  string
	BaseURL string // for OpenAI-compatible servers
	Model   string
	Timeout time.Duration
	// Dimensions asks text-embedding-3 models for shortened vectors.
	Dimensions int
}

// EmbeddingService embeds text through the OpenAI embeddings endpoint.
type EmbeddingService struct {
	client *openai.Client
	model  string
	dims   int
	// requestDims is sent with each request when shortening; zero otherwise.
	requestDims int
}

// NewEmbeddingService validates cfg and builds the client.
func NewEmbeddingService(cfg Config) (*EmbeddingService, error) {
	if cfg.APIKey == "" {
		return nil, errors.New("openai: API key is required")
	}
	model := cmp.Or(cfg.Model, DefaultModel)

	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	clientCfg.HTTPClient = &http.Client{Timeout: cmp.Or(cfg.Timeout, DefaultTimeout)}

	svc := &EmbeddingService{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
		dims:   cmp.Or(nativeDimensions[model], fallbackDimensions),
	}
	if cfg.Dimensions > 0 && cfg.Dimensions != svc.dims {
		svc.dims = cfg.Dimensions
		svc.requestDims = cfg.Dimensions
	}
	return svc, nil
}

// Embed embeds one text.
func (s *EmbeddingService) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := s.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch embeds texts in one request. Results keep input order.
func (s *EmbeddingService) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	resp, err := s.client.CreateEmbeddings(ctx, openai.EmbeddingRequest{
		Input:      texts,
		Model:      openai.EmbeddingModel(s.model),
		Dimensions: s.requestDims,
	})
	if err != nil {
		return nil, fmt.Errorf("openai: create embeddings: %w", err)
	}

	// The API may answer out of order; Index ties each vector to its input.
	vecs := make([][]float32, len(texts))
	for _, d := range resp.Data {
		if d.Index < 0 || d.Index >= len(vecs) {
			return nil, fmt.Errorf("openai: embedding index %d out of range", d.Index)
		}
		vecs[d.Index] = d.Embedding
	}
	if i := slices.IndexFunc(vecs, func(v []float32) bool { return v == nil }); i >= 0 {
		return nil, fmt.Errorf("openai: missing embedding for input %d", i)
	}
	return vecs, nil
}

// Dimensions returns the size of the vectors this service produces.
func (s *EmbeddingService) Dimensions() int {
	return s.dims
}

// ModelName returns the configured model.
func (s *EmbeddingService) ModelName() string {
	return s.model
}

// Ping lists models, which checks the API key without running inference.
func (s *EmbeddingService) Ping(ctx context.Context) error {
	if _, err := s.client.ListModels(ctx); err != nil {
		return fmt.Errorf("openai: ping failed: %w", err)
	}
	return nil
}

// Close is a no-op.
func (s *EmbeddingService) Close() error {
	return nil
}
