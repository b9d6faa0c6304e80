package services

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// Ensure SettingsService implements the interface.
var _ driving.SettingsService = (*SettingsService)(nil)

// Config keys for settings storage.
//
//nolint:gosec // G101: These are config key names, not actual credentials.
const (
	keyDataDir        = "data.dir"
	keyImageRoot      = "images.root"
	keySourceLabel    = "tools.source_label"
	keyToolTimeout    = "tools.timeout"
	keyTopK           = "retrieval.top_k"
	keyVectorBackend  = "vector.backend"
	keyVectorDims     = "vector.dimensions"
	keyQdrantHost     = "vector.qdrant.host"
	keyQdrantPort     = "vector.qdrant.port"
	keyQdrantAPIKey   = "vector.qdrant.api_key"
	keyQdrantTLS      = "vector.qdrant.use_tls"
	keyEmbedProvider  = "embedding.provider"
	keyEmbedModel     = "embedding.model"
	keyEmbedBaseURL   = "embedding.base_url"
	keyEmbedAPIKey    = "embedding.api_key"
	keyLLMProvider    = "llm.provider"
	keyLLMModel       = "llm.model"
	keyLLMBaseURL     = "llm.base_url"
	keyLLMAPIKey      = "llm.api_key"
	keyChunkSize      = "index.chunk_size"
	keyChunkOverlap   = "index.chunk_overlap"
	keyIndexRateLimit = "index.rate_limit"
	keyIndexWorkers   = "index.workers"
	keyServerAddr     = "server.addr"
)

const defaultOllamaURL = "http://localhost:11434"

// SettingsService manages application settings.
type SettingsService struct {
	configStore driven.ConfigStore
	getenv      func(string) string
}

// NewSettingsService creates a new settings service.
// API keys missing from the config are read from the provider's environment variable.
func NewSettingsService(configStore driven.ConfigStore) *SettingsService {
	return &SettingsService{
		configStore: configStore,
		getenv:      os.Getenv,
	}
}

// Get retrieves current application settings.
func (s *SettingsService) Get() (*domain.AppSettings, error) {
	defaults := domain.DefaultAppSettings()

	embedProvider := s.getProvider(keyEmbedProvider, defaults.Embedding.Provider)
	llmProvider := s.getProvider(keyLLMProvider, defaults.LLM.Provider)

	settings := &domain.AppSettings{
		DataDir: s.configStore.GetString(keyDataDir),
		Tools: domain.ToolSettings{
			ImageRoot:   s.getString(keyImageRoot, defaults.Tools.ImageRoot),
			SourceLabel: s.getString(keySourceLabel, defaults.Tools.SourceLabel),
			Timeout:     s.getDuration(keyToolTimeout, defaults.Tools.Timeout),
			TopK:        s.getInt(keyTopK, defaults.Tools.TopK),
		},
		Embedding: domain.EmbeddingSettings{
			Provider: embedProvider,
			Model:    s.getString(keyEmbedModel, domain.DefaultEmbeddingModels()[embedProvider]),
			BaseURL:  s.configStore.GetString(keyEmbedBaseURL), // No default - empty is valid for cloud providers
			APIKey:   s.apiKey(keyEmbedAPIKey, embedProvider),
		},
		LLM: domain.LLMSettings{
			Provider: llmProvider,
			Model:    s.getString(keyLLMModel, domain.DefaultLLMModels()[llmProvider]),
			BaseURL:  s.configStore.GetString(keyLLMBaseURL),
			APIKey:   s.apiKey(keyLLMAPIKey, llmProvider),
		},
		Vector: domain.VectorSettings{
			Backend:    s.getBackend(defaults.Vector.Backend),
			Dimensions: s.configStore.GetInt(keyVectorDims),
			Qdrant: domain.QdrantSettings{
				Host:   s.getString(keyQdrantHost, defaults.Vector.Qdrant.Host),
				Port:   s.getInt(keyQdrantPort, defaults.Vector.Qdrant.Port),
				APIKey: s.configStore.GetString(keyQdrantAPIKey),
				UseTLS: s.getBool(keyQdrantTLS, defaults.Vector.Qdrant.UseTLS),
			},
		},
		Index: domain.IndexSettings{
			ChunkSize:    s.getInt(keyChunkSize, defaults.Index.ChunkSize),
			ChunkOverlap: s.getInt(keyChunkOverlap, defaults.Index.ChunkOverlap),
			RateLimit:    s.configStore.GetFloat(keyIndexRateLimit),
			Workers:      s.getInt(keyIndexWorkers, defaults.Index.Workers),
		},
		Server: domain.ServerSettings{
			Addr: s.getString(keyServerAddr, defaults.Server.Addr),
		},
	}

	return settings, nil
}

// Save persists application settings.
// API keys that only come from the environment are not written.
func (s *SettingsService) Save(settings *domain.AppSettings) error {
	values := []struct {
		key   string
		value any
	}{
		{keyDataDir, settings.DataDir},
		{keyImageRoot, settings.Tools.ImageRoot},
		{keySourceLabel, settings.Tools.SourceLabel},
		{keyToolTimeout, settings.Tools.Timeout.String()},
		{keyTopK, settings.Tools.TopK},
		{keyVectorBackend, string(settings.Vector.Backend)},
		{keyVectorDims, settings.Vector.Dimensions},
		{keyQdrantHost, settings.Vector.Qdrant.Host},
		{keyQdrantPort, settings.Vector.Qdrant.Port},
		{keyQdrantTLS, settings.Vector.Qdrant.UseTLS},
		{keyEmbedProvider, settings.Embedding.Provider.String()},
		{keyEmbedModel, settings.Embedding.Model},
		{keyEmbedBaseURL, settings.Embedding.BaseURL},
		{keyLLMProvider, settings.LLM.Provider.String()},
		{keyLLMModel, settings.LLM.Model},
		{keyLLMBaseURL, settings.LLM.BaseURL},
		{keyChunkSize, settings.Index.ChunkSize},
		{keyChunkOverlap, settings.Index.ChunkOverlap},
		{keyIndexRateLimit, settings.Index.RateLimit},
		{keyIndexWorkers, settings.Index.Workers},
		{keyServerAddr, settings.Server.Addr},
	}
	for _, v := range values {
		if err := s.configStore.Set(v.key, v.value); err != nil {
			return fmt.Errorf("save %s: %w", v.key, err)
		}
	}

	secrets := []struct {
		key      string
		value    string
		provider domain.AIProvider
	}{
		{keyEmbedAPIKey, settings.Embedding.APIKey, settings.Embedding.Provider},
		{keyLLMAPIKey, settings.LLM.APIKey, settings.LLM.Provider},
		{keyQdrantAPIKey, settings.Vector.Qdrant.APIKey, ""},
	}
	for _, sec := range secrets {
		if sec.value == "" || s.fromEnv(sec.provider, sec.value) {
			continue
		}
		if err := s.configStore.Set(sec.key, sec.value); err != nil {
			return fmt.Errorf("save %s: %w", sec.key, err)
		}
	}

	return s.configStore.Save()
}

// SetEmbeddingProvider configures the embedding provider.
func (s *SettingsService) SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid embedding provider: %s", provider)
	}

	supported := false
	for _, p := range domain.AllEmbeddingProviders() {
		if p == provider {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("provider %s does not support embeddings", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && provider == settings.Embedding.Provider {
		apiKey = settings.Embedding.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.Embedding.Provider = provider
	settings.Embedding.Model = modelOrDefault(model, domain.DefaultEmbeddingModels()[provider])
	settings.Embedding.BaseURL = baseURLFor(provider, settings.Embedding.BaseURL)
	settings.Embedding.APIKey = apiKey

	// Update vector dimensions based on model
	if d, ok := domain.EmbeddingDimensions()[settings.Embedding.Model]; ok {
		settings.Vector.Dimensions = d
	}

	return s.Save(settings)
}

// SetLLMProvider configures the LLM provider.
func (s *SettingsService) SetLLMProvider(provider domain.AIProvider, model, apiKey string) error {
	if !provider.IsValid() {
		return fmt.Errorf("invalid LLM provider: %s", provider)
	}

	settings, err := s.Get()
	if err != nil {
		return err
	}

	if apiKey == "" && provider == settings.LLM.Provider {
		apiKey = settings.LLM.APIKey
	}
	if provider.RequiresAPIKey() && apiKey == "" {
		return fmt.Errorf("API key required for %s", provider)
	}

	settings.LLM.Provider = provider
	settings.LLM.Model = modelOrDefault(model, domain.DefaultLLMModels()[provider])
	settings.LLM.BaseURL = baseURLFor(provider, settings.LLM.BaseURL)
	settings.LLM.APIKey = apiKey

	return s.Save(settings)
}

// Validate checks that the settings can run the tools.
func (s *SettingsService) Validate() error {
	settings, err := s.Get()
	if err != nil {
		return err
	}

	var errs []error
	if !settings.Embedding.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: set embedding.provider (%s)",
			domain.ErrEmbeddingUnavailable, joinProviders(domain.AllEmbeddingProviders())))
	}
	if settings.LLM.Provider != "" && !settings.LLM.IsConfigured() {
		errs = append(errs, fmt.Errorf("%w: %s needs an API key", domain.ErrLLMUnavailable, settings.LLM.Provider))
	}
	if !settings.Vector.Backend.IsValid() {
		errs = append(errs, fmt.Errorf("%w: vector backend %q", domain.ErrUnsupportedType, settings.Vector.Backend))
	}
	if settings.Vector.Backend == domain.VectorBackendQdrant && settings.Vector.Qdrant.Host == "" {
		errs = append(errs, fmt.Errorf("%w: qdrant host is empty", domain.ErrInvalidInput))
	}
	if settings.Tools.ImageRoot == "" {
		errs = append(errs, fmt.Errorf("%w: images.root is empty", domain.ErrInvalidInput))
	}
	if settings.Index.ChunkOverlap >= settings.Index.ChunkSize {
		errs = append(errs, fmt.Errorf("%w: index.chunk_overlap must be smaller than index.chunk_size", domain.ErrInvalidInput))
	}

	return errors.Join(errs...)
}

// GetDefaults returns default settings.
func (s *SettingsService) GetDefaults() domain.AppSettings {
	return domain.DefaultAppSettings()
}

// Helper methods for reading config with defaults.

func (s *SettingsService) getString(key, defaultVal string) string {
	val := s.configStore.GetString(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getInt(key string, defaultVal int) int {
	val := s.configStore.GetInt(key)
	if val <= 0 {
		return defaultVal
	}
	return val
}

func (s *SettingsService) getBool(key string, defaultVal bool) bool {
	if _, exists := s.configStore.Get(key); !exists {
		return defaultVal
	}
	return s.configStore.GetBool(key)
}

// getDuration accepts a Go duration string ("45s") or a number of seconds.
func (s *SettingsService) getDuration(key string, defaultVal time.Duration) time.Duration {
	if str := s.configStore.GetString(key); str != "" {
		if d, err := time.ParseDuration(str); err == nil && d > 0 {
			return d
		}
		return defaultVal
	}
	if secs := s.configStore.GetFloat(key); secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	return defaultVal
}

func (s *SettingsService) getProvider(key string, defaultVal domain.AIProvider) domain.AIProvider {
	provider := domain.AIProvider(s.configStore.GetString(key))
	if !provider.IsValid() {
		return defaultVal
	}
	return provider
}

func (s *SettingsService) getBackend(defaultVal domain.VectorBackend) domain.VectorBackend {
	backend := domain.VectorBackend(s.configStore.GetString(keyVectorBackend))
	if !backend.IsValid() {
		return defaultVal
	}
	return backend
}

func (s *SettingsService) apiKey(key string, provider domain.AIProvider) string {
	if v := s.configStore.GetString(key); v != "" {
		return v
	}
	if env := provider.APIKeyEnv(); env != "" {
		return s.getenv(env)
	}
	return ""
}

func (s *SettingsService) fromEnv(provider domain.AIProvider, value string) bool {
	env := provider.APIKeyEnv()
	return env != "" && s.getenv(env) == value
}

func modelOrDefault(model, defaultModel string) string {
	if model != "" {
		return model
	}
	return defaultModel
}

func baseURLFor(provider domain.AIProvider, current string) string {
	if !provider.IsLocal() {
		return ""
	}
	if current == "" {
		return defaultOllamaURL
	}
	return current
}

func joinProviders(ps []domain.AIProvider) string {
	names := make([]string, len(ps))
	for i, p := range ps {
		names[i] = p.String()
	}
	return strings.Join(names, " or ")
}
