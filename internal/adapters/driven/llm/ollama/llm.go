// Package ollama generates text with a local Ollama server.
package ollama

import (
	"context"
	"strings"
	"time"

	"github.com/custodia-labs/reportrag/internal/adapters/driven/ollamaapi"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

var _ driven.LLMService = (*LLMService)(nil)

// Defaults used when Config leaves a field empty.
const (
	DefaultBaseURL = ollamaapi.DefaultBaseURL
	DefaultModel   = "llama3.2"
	DefaultTimeout = 120 * time.Second
)

// Config configures the LLM service.
type Config struct {
	BaseURL string
	Model   string
	Timeout time.Duration
}

// LLMService calls /api/generate without streaming.
type LLMService struct {
	api   *ollamaapi.Client
	model string
}

type generateRequest struct {
	Model   string   `json:"model"`
	Prompt  string   `json:"prompt"`
	System  string   `json:"system,omitempty"`
	Stream  bool     `json:"stream"`
	Options *options `json:"options,omitempty"`
}

type options struct {
	NumPredict  int     `json:"num_predict,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
}

type generateResponse struct {
	Response string `json:"response"`
}

// NewLLMService creates an LLM service, filling in defaults.
func NewLLMService(cfg Config) *LLMService {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	return &LLMService{
		api:   ollamaapi.New(cfg.BaseURL, cfg.Timeout),
		model: cfg.Model,
	}
}

// Generate returns the trimmed completion for prompt.
func (s *LLMService) Generate(ctx context.Context, prompt string, opts driven.GenerateOptions) (string, error) {
	in := generateRequest{Model: s.model, Prompt: prompt, System: opts.System}
	if opts.MaxTokens > 0 || opts.Temperature > 0 {
		in.Options = &options{NumPredict: opts.MaxTokens, Temperature: opts.Temperature}
	}

	var out generateResponse
	if err := s.api.Post(ctx, "/api/generate", in, &out); err != nil {
		return "", err
	}
	return strings.TrimSpace(out.Response), nil
}

// ModelName returns the model used for generation.
func (s *LLMService) ModelName() string {
	return s.model
}

// Ping checks the server is up.
func (s *LLMService) Ping(ctx context.Context) error {
	return s.api.Ping(ctx)
}

// Close is a no-op.
func (s *LLMService) Close() error {
	return nil
}
