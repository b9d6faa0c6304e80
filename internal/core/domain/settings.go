package domain

import "time"

const unknownDescription = "Unknown"

// AIProvider identifies an AI service provider for embeddings or LLM.
type AIProvider string

// Available AI providers.
const (
	// AIProviderOllama is local Ollama instance.
	AIProviderOllama AIProvider = "ollama"

	// AIProviderOpenAI is OpenAI cloud API.
	AIProviderOpenAI AIProvider = "openai"

	// AIProviderAnthropic is Anthropic cloud API.
	AIProviderAnthropic AIProvider = "anthropic"
)

// IsValid returns true if the AI provider is recognised.
func (p AIProvider) IsValid() bool {
	switch p {
	case AIProviderOllama, AIProviderOpenAI, AIProviderAnthropic:
		return true
	default:
		return false
	}
}

// RequiresAPIKey returns true if this provider needs an API key.
func (p AIProvider) RequiresAPIKey() bool {
	return p == AIProviderOpenAI || p == AIProviderAnthropic
}

// IsLocal returns true if this provider runs locally.
func (p AIProvider) IsLocal() bool {
	return p == AIProviderOllama
}

// String returns the string representation.
func (p AIProvider) String() string {
	return string(p)
}

// Description returns a human-readable description of the provider.
func (p AIProvider) Description() string {
	switch p {
	case AIProviderOllama:
		return "Ollama (local)"
	case AIProviderOpenAI:
		return "OpenAI (cloud)"
	case AIProviderAnthropic:
		return "Anthropic (cloud)"
	default:
		return unknownDescription
	}
}

// APIKeyEnv returns the environment variable consulted when no key is configured.
func (p AIProvider) APIKeyEnv() string {
	switch p {
	case AIProviderOpenAI:
		return "OPENAI_API_KEY"
	case AIProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return ""
	}
}

// VectorBackend identifies the vector index implementation.
type VectorBackend string

// Available vector backends.
const (
	// VectorBackendChromem is the embedded on-disk index.
	VectorBackendChromem VectorBackend = "chromem"

	// VectorBackendQdrant is a remote Qdrant server.
	VectorBackendQdrant VectorBackend = "qdrant"
)

// IsValid returns true if the backend is recognised.
func (b VectorBackend) IsValid() bool {
	return b == VectorBackendChromem || b == VectorBackendQdrant
}

// EmbeddingSettings holds embedding provider configuration.
type EmbeddingSettings struct {
	// Provider is the embedding service provider.
	Provider AIProvider

	// Model is the embedding model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI).
	APIKey string
}

// IsConfigured returns true if the embedding provider is set up.
func (e EmbeddingSettings) IsConfigured() bool {
	if !e.Provider.IsValid() || e.Provider == AIProviderAnthropic {
		return false
	}
	if e.Provider.RequiresAPIKey() && e.APIKey == "" {
		return false
	}
	return true
}

// LLMSettings holds LLM provider configuration.
type LLMSettings struct {
	// Provider is the LLM service provider.
	Provider AIProvider

	// Model is the LLM model name.
	Model string

	// BaseURL is the API endpoint (for Ollama).
	BaseURL string

	// APIKey is the API key (for OpenAI/Anthropic).
	APIKey string
}

// IsConfigured returns true if the LLM provider is set up.
func (l LLMSettings) IsConfigured() bool {
	if !l.Provider.IsValid() {
		return false
	}
	if l.Provider.RequiresAPIKey() && l.APIKey == "" {
		return false
	}
	return true
}

// QdrantSettings holds connection details for a Qdrant server.
type QdrantSettings struct {
	Host   string
	Port   int
	APIKey string
	UseTLS bool
}

// VectorSettings holds vector index configuration.
type VectorSettings struct {
	// Backend selects the index implementation.
	Backend VectorBackend

	// Dimensions is the embedding vector size. Zero means derive from the model.
	Dimensions int

	// Qdrant holds settings used when Backend is qdrant.
	Qdrant QdrantSettings
}

// ToolSettings holds tool facade configuration.
type ToolSettings struct {
	// ImageRoot is the directory image references are resolved against.
	ImageRoot string

	// SourceLabel attributes multimodal payloads.
	SourceLabel string

	// Timeout bounds a single retrieval.
	Timeout time.Duration

	// TopK is the number of chunks retrieved per call.
	TopK int
}

// IndexSettings holds ingestion configuration.
type IndexSettings struct {
	// ChunkSize is the target chunk size in runes.
	ChunkSize int

	// ChunkOverlap is the overlap between consecutive chunks in runes.
	ChunkOverlap int

	// RateLimit caps embedding requests per second. Zero disables limiting.
	RateLimit float64

	// Workers bounds concurrently indexed files.
	Workers int
}

// ServerSettings holds the HTTP transport configuration.
type ServerSettings struct {
	// Addr is the listen address for MCP over HTTP.
	Addr string
}

// AppSettings holds all application settings.
type AppSettings struct {
	// DataDir holds the SQLite database and the embedded vector index.
	// Empty means the configuration directory.
	DataDir string

	Tools     ToolSettings
	Embedding EmbeddingSettings
	LLM       LLMSettings
	Vector    VectorSettings
	Index     IndexSettings
	Server    ServerSettings
}

// Defaults used when no configuration overrides them.
const (
	DefaultImageRoot    = "data/extracted_images"
	DefaultToolTimeout  = 30 * time.Second
	DefaultTopK         = 4
	DefaultChunkSize    = 1000
	DefaultChunkOverlap = 200
	DefaultWorkers      = 4
	DefaultServerAddr   = "127.0.0.1:8765"
	DefaultQdrantPort   = 6334
)

// DefaultAppSettings returns settings with sensible defaults.
// AI providers are left unconfigured; retrieval needs an embedding provider.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Tools: ToolSettings{
			ImageRoot:   DefaultImageRoot,
			SourceLabel: DefaultSourceLabel,
			Timeout:     DefaultToolTimeout,
			TopK:        DefaultTopK,
		},
		Vector: VectorSettings{
			Backend: VectorBackendChromem,
			Qdrant: QdrantSettings{
				Host: "localhost",
				Port: DefaultQdrantPort,
			},
		},
		Index: IndexSettings{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
			Workers:      DefaultWorkers,
		},
		Server: ServerSettings{
			Addr: DefaultServerAddr,
		},
	}
}

// AllEmbeddingProviders returns providers that support embeddings.
func AllEmbeddingProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
	}
}

// AllLLMProviders returns providers that support LLM operations.
func AllLLMProviders() []AIProvider {
	return []AIProvider{
		AIProviderOllama,
		AIProviderOpenAI,
		AIProviderAnthropic,
	}
}

// DefaultEmbeddingModels returns default models for each embedding provider.
func DefaultEmbeddingModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama: "nomic-embed-text",
		AIProviderOpenAI: "text-embedding-3-small",
	}
}

// DefaultLLMModels returns default models for each LLM provider.
func DefaultLLMModels() map[AIProvider]string {
	return map[AIProvider]string{
		AIProviderOllama:    "llama3.2",
		AIProviderOpenAI:    "gpt-4o-mini",
		AIProviderAnthropic: "claude-3-5-haiku-latest",
	}
}

// EmbeddingDimensions returns the vector dimensions for known models.
func EmbeddingDimensions() map[string]int {
	return map[string]int{
		// Ollama models
		"nomic-embed-text":  768,
		"mxbai-embed-large": 1024,
		"bge-m3":            1024,
		// OpenAI models
		"text-embedding-3-small": 1536,
		"text-embedding-3-large": 3072,
		"text-embedding-ada-002": 1536,
	}
}
