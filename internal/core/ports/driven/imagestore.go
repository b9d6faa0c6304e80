package driven

// ImageStore is the read-only directory image references resolve into.
type ImageStore interface {
	// Root returns the absolute image root.
	Root() string

	// Exists reports whether path names an existing regular file.
	Exists(path string) bool
}
