package driving

import "github.com/custodia-labs/reportrag/internal/core/domain"

// SettingsService reads and writes the provider and backend choices that
// the runtime is built from.
type SettingsService interface {
	Get() (*domain.AppSettings, error)
	Save(settings *domain.AppSettings) error
	// SetEmbeddingProvider and SetLLMProvider leave other sections untouched.
	SetEmbeddingProvider(provider domain.AIProvider, model, apiKey string) error
	SetLLMProvider(provider domain.AIProvider, model, apiKey string) error
	// Validate reports the first setting that would stop the tools from running.
	Validate() error
	GetDefaults() domain.AppSettings
}
