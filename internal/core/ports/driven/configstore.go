package driven

// ConfigStore is a flat key/value view over the config file, addressed with
// dotted keys such as "embedding.model". Typed getters return the zero value
// when the key is missing or holds another type.
type ConfigStore interface {
	Get(key string) (any, bool)
	GetString(key string) string
	GetInt(key string) int
	GetFloat(key string) float64
	GetBool(key string) bool

	// Set changes the in-memory value; call Save to write it out.
	Set(key string, value any) error
	Save() error
	// Load rereads the file, replacing unsaved changes.
	Load() error
	Path() string
}
