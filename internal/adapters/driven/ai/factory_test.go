package ai

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/adapters/driven/vector/chromem"
	"github.com/custodia-labs/reportrag/internal/core/domain"
)

// newOllamaServer answers the endpoints Ping uses.
func newOllamaServer(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/api/tags" {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{"models":[]}`))
			return
		}
		http.NotFound(w, r)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestInitResult_Close(t *testing.T) {
	result := &InitResult{}
	assert.NotPanics(t, result.Close)
}

func TestCreateEmbeddingService(t *testing.T) {
	tests := []struct {
		name    string
		in      *domain.EmbeddingSettings
		wantErr error
		dims    int
	}{
		{
			name: "ollama with known model",
			in:   &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "bge-m3"},
			dims: 1024,
		},
		{
			name: "ollama with unknown model uses default dimensions",
			in:   &domain.EmbeddingSettings{Provider: domain.AIProviderOllama, Model: "custom"},
			dims: 768,
		},
		{
			name: "openai",
			in:   &domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI, APIKey: "k", Model: "text-embedding-3-large"},
			dims: 3072,
		},
		{
			name:    "anthropic is unsupported",
			in:      &domain.EmbeddingSettings{Provider: domain.AIProviderAnthropic, APIKey: "k"},
			wantErr: domain.ErrUnsupportedType,
		},
		{
			name:    "unknown provider",
			in:      &domain.EmbeddingSettings{Provider: "mystery"},
			wantErr: domain.ErrUnsupportedType,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, err := CreateEmbeddingService(tt.in)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, svc)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.dims, svc.Dimensions())
			assert.NoError(t, svc.Close())
		})
	}
}

func TestCreateEmbeddingService_OpenAIWithoutKey(t *testing.T) {
	svc, err := CreateEmbeddingService(&domain.EmbeddingSettings{Provider: domain.AIProviderOpenAI})

	assert.Error(t, err)
	assert.Nil(t, svc)
}

func TestCreateLLMService(t *testing.T) {
	for _, p := range domain.AllLLMProviders() {
		t.Run(string(p), func(t *testing.T) {
			svc, err := CreateLLMService(&domain.LLMSettings{Provider: p, APIKey: "k", Model: "m"})

			require.NoError(t, err)
			assert.Equal(t, "m", svc.ModelName())
		})
	}

	_, err := CreateLLMService(&domain.LLMSettings{Provider: "mystery"})
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)
}

func TestCreateAndValidateEmbeddingService(t *testing.T) {
	t.Run("unconfigured returns nil", func(t *testing.T) {
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{})
		assert.NoError(t, err)
		assert.Nil(t, svc)
	})

	t.Run("reachable ollama", func(t *testing.T) {
		srv := newOllamaServer(t)
		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama, BaseURL: srv.URL, Model: "nomic-embed-text",
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})

	t.Run("unreachable ollama", func(t *testing.T) {
		srv := newOllamaServer(t)
		url := srv.URL
		srv.Close()

		svc, err := CreateAndValidateEmbeddingService(&domain.EmbeddingSettings{
			Provider: domain.AIProviderOllama, BaseURL: url, Model: "nomic-embed-text",
		})
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
		assert.Contains(t, err.Error(), "reportrag settings")
		assert.Nil(t, svc)
	})
}

func TestCreateAndValidateLLMService_Unconfigured(t *testing.T) {
	_, err := CreateAndValidateLLMService(&domain.LLMSettings{Provider: domain.AIProviderOpenAI})

	assert.ErrorIs(t, err, domain.ErrLLMUnavailable)
}

func TestValidateConfigs(t *testing.T) {
	srv := newOllamaServer(t)

	assert.NoError(t, ValidateEmbeddingConfig(nil))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{}))
	assert.NoError(t, ValidateEmbeddingConfig(&domain.EmbeddingSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL,
	}))
	assert.NoError(t, ValidateLLMConfig(&domain.LLMSettings{
		Provider: domain.AIProviderOllama, BaseURL: srv.URL,
	}))
}

func TestCreateVectorIndex(t *testing.T) {
	t.Run("chromem in data dir", func(t *testing.T) {
		idx, err := CreateVectorIndex(&domain.VectorSettings{Backend: domain.VectorBackendChromem}, t.TempDir(), 768)
		require.NoError(t, err)
		assert.IsType(t, &chromem.Index{}, idx)
	})

	t.Run("unknown backend", func(t *testing.T) {
		_, err := CreateVectorIndex(&domain.VectorSettings{Backend: "faiss"}, "", 768)
		assert.ErrorIs(t, err, domain.ErrUnsupportedType)
	})
}

func TestInitialise(t *testing.T) {
	srv := newOllamaServer(t)

	t.Run("without embedding provider", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		_, err := Initialise(&settings, "")
		assert.ErrorIs(t, err, domain.ErrEmbeddingUnavailable)
	})

	t.Run("unusable LLM falls back", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOpenAI}

		result, err := Initialise(&settings, t.TempDir())
		require.NoError(t, err)
		defer result.Close()

		assert.NotNil(t, result.EmbeddingService)
		assert.NotNil(t, result.VectorIndex)
		assert.Nil(t, result.LLMService)
		assert.True(t, result.FellBack)
		assert.Len(t, result.Warnings, 1)
	})

	t.Run("reachable LLM", func(t *testing.T) {
		settings := domain.DefaultAppSettings()
		settings.Embedding = domain.EmbeddingSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}
		settings.LLM = domain.LLMSettings{Provider: domain.AIProviderOllama, BaseURL: srv.URL}

		result, err := Initialise(&settings, "")
		require.NoError(t, err)
		defer result.Close()

		assert.NotNil(t, result.LLMService)
		assert.False(t, result.FellBack)
	})
}
