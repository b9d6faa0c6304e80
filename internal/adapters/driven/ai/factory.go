// Package ai provides factory functions for creating AI service adapters
// and the vector index they feed.
package ai

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	ollamaembed "github.com/custodia-labs/reportrag/internal/adapters/driven/embedding/ollama"
	openaiembed "github.com/custodia-labs/reportrag/internal/adapters/driven/embedding/openai"
	anthropicllm "github.com/custodia-labs/reportrag/internal/adapters/driven/llm/anthropic"
	ollamallm "github.com/custodia-labs/reportrag/internal/adapters/driven/llm/ollama"
	openaillm "github.com/custodia-labs/reportrag/internal/adapters/driven/llm/openai"
	"github.com/custodia-labs/reportrag/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/reportrag/internal/adapters/driven/vector/qdrant"
	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/logger"
)

const (
	pingTimeout = 5 * time.Second
	vectorDir   = "vectors" // chromem directory under the data dir
	fixHint     = "Run 'reportrag settings' to fix"
)

// InitResult holds the AI-side services the runtime is built from.
// LLMService is nil when no LLM is configured or it could not be reached;
// FellBack distinguishes the latter and Warnings says why.
type InitResult struct {
	EmbeddingService driven.EmbeddingService
	LLMService       driven.LLMService
	VectorIndex      driven.VectorIndex
	Warnings         []string
	FellBack         bool
}

// Close releases whatever was opened. Close errors are not actionable here.
func (r *InitResult) Close() {
	for _, c := range []interface{ Close() error }{r.EmbeddingService, r.VectorIndex, r.LLMService} {
		if c != nil {
			_ = c.Close()
		}
	}
}

// Initialise builds every AI-side dependency from settings. The embedding
// service and vector index are required; a broken LLM only downgrades
// filter inference to rules.
func Initialise(settings *domain.AppSettings, dataDir string) (*InitResult, error) {
	embedder, err := CreateAndValidateEmbeddingService(&settings.Embedding)
	if err != nil {
		return nil, err
	}
	if embedder == nil {
		return nil, fmt.Errorf("%w: no embedding provider configured. %s", domain.ErrEmbeddingUnavailable, fixHint)
	}
	result := &InitResult{EmbeddingService: embedder}

	dims := settings.Vector.Dimensions
	if dims == 0 {
		dims = embedder.Dimensions()
	}
	if result.VectorIndex, err = CreateVectorIndex(&settings.Vector, dataDir, dims); err != nil {
		result.Close()
		return nil, err
	}

	if settings.LLM.Provider == "" {
		return result, nil
	}
	llm, err := CreateAndValidateLLMService(&settings.LLM)
	if err != nil {
		logger.Warn("LLM unavailable, inferring filters by rules: %v", err)
		result.Warnings = append(result.Warnings, err.Error())
		result.FellBack = true
		return result, nil
	}
	result.LLMService = llm
	return result, nil
}

type pingCloser interface {
	Ping(ctx context.Context) error
	Close() error
}

// dial builds a service and pings it, closing it again if unreachable.
func dial[S pingCloser](build func() (S, error), unavailable error) (S, error) {
	var zero S
	svc, err := build()
	if err != nil {
		return zero, fmt.Errorf("%w: %w. %s", unavailable, err, fixHint)
	}

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := svc.Ping(ctx); err != nil {
		_ = svc.Close()
		return zero, fmt.Errorf("%w: service unreachable (%w). %s", unavailable, err, fixHint)
	}
	return svc, nil
}

// probe builds a throwaway service and pings it.
func probe[S pingCloser](build func() (S, error)) error {
	svc, err := build()
	if err != nil {
		return err
	}
	defer svc.Close()

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	return svc.Ping(ctx)
}

// CreateAndValidateEmbeddingService returns a reachable embedding service,
// or nil without error when none is configured.
func CreateAndValidateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil || !settings.IsConfigured() {
		return nil, nil
	}
	return dial(func() (driven.EmbeddingService, error) { return CreateEmbeddingService(settings) },
		domain.ErrEmbeddingUnavailable)
}

// CreateAndValidateLLMService returns a reachable LLM service.
func CreateAndValidateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil || !settings.IsConfigured() {
		var provider domain.AIProvider
		if settings != nil {
			provider = settings.Provider
		}
		return nil, fmt.Errorf("%w: provider %q is not configured", domain.ErrLLMUnavailable, provider)
	}
	return dial(func() (driven.LLMService, error) { return CreateLLMService(settings) },
		domain.ErrLLMUnavailable)
}

// ValidateEmbeddingConfig checks credentials before the settings command saves them.
// Unconfigured settings pass.
func ValidateEmbeddingConfig(settings *domain.EmbeddingSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	return probe(func() (driven.EmbeddingService, error) { return CreateEmbeddingService(settings) })
}

// ValidateLLMConfig is ValidateEmbeddingConfig for the LLM section.
func ValidateLLMConfig(settings *domain.LLMSettings) error {
	if settings == nil || !settings.IsConfigured() {
		return nil
	}
	return probe(func() (driven.LLMService, error) { return CreateLLMService(settings) })
}

// CreateEmbeddingService creates the appropriate embedding service based on settings.
func CreateEmbeddingService(settings *domain.EmbeddingSettings) (driven.EmbeddingService, error) {
	if settings == nil {
		return nil, errors.New("embedding settings are missing")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return createOllamaEmbedding(settings), nil

	case domain.AIProviderOpenAI:
		svc, err := openaiembed.NewEmbeddingService(openaiembed.Config{
			APIKey:     settings.APIKey,
			BaseURL:    settings.BaseURL,
			Model:      settings.Model,
			Dimensions: domain.EmbeddingDimensions()[settings.Model],
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		return nil, fmt.Errorf("%w: anthropic does not support embeddings, use ollama or openai",
			domain.ErrUnsupportedType)

	default:
		return nil, fmt.Errorf("%w: embedding provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

// CreateLLMService creates the appropriate LLM service based on settings.
func CreateLLMService(settings *domain.LLMSettings) (driven.LLMService, error) {
	if settings == nil {
		return nil, errors.New("LLM settings are missing")
	}

	switch settings.Provider {
	case domain.AIProviderOllama:
		return ollamallm.NewLLMService(ollamallm.Config{
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		}), nil

	case domain.AIProviderOpenAI:
		svc, err := openaillm.NewLLMService(openaillm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	case domain.AIProviderAnthropic:
		svc, err := anthropicllm.NewLLMService(anthropicllm.Config{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Model,
		})
		if err != nil {
			return nil, err
		}
		return svc, nil

	default:
		return nil, fmt.Errorf("%w: LLM provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}

func createOllamaEmbedding(settings *domain.EmbeddingSettings) driven.EmbeddingService {
	dimensions := domain.EmbeddingDimensions()[settings.Model]
	if dimensions == 0 {
		dimensions = ollamaembed.DefaultDimensions
	}

	return ollamaembed.NewEmbeddingService(ollamaembed.Config{
		BaseURL:    settings.BaseURL,
		Model:      settings.Model,
		Dimensions: dimensions,
	})
}

// CreateVectorIndex opens the configured vector backend.
// chromem lives in dataDir/vectors; an empty dataDir keeps it in memory.
func CreateVectorIndex(settings *domain.VectorSettings, dataDir string, dims int) (driven.VectorIndex, error) {
	switch settings.Backend {
	case domain.VectorBackendChromem, "":
		dir := ""
		if dataDir != "" {
			dir = filepath.Join(dataDir, vectorDir)
		}
		idx, err := chromem.NewIndex(dir)
		if err != nil {
			return nil, err
		}
		return idx, nil

	case domain.VectorBackendQdrant:
		idx, err := qdrant.NewIndex(qdrant.Config{
			Host:       settings.Qdrant.Host,
			Port:       settings.Qdrant.Port,
			APIKey:     settings.Qdrant.APIKey,
			UseTLS:     settings.Qdrant.UseTLS,
			Dimensions: dims,
		})
		if err != nil {
			return nil, err
		}
		return idx, nil

	default:
		return nil, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, settings.Backend)
	}
}
