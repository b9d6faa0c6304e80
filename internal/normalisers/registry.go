package normalisers

import (
	"path/filepath"
	"sort"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// Registry selects a normaliser by file extension.
type Registry struct {
	byExt map[string]driven.Normaliser
}

// NewRegistry creates a registry holding the given normalisers.
// Later normalisers win when extensions overlap.
func NewRegistry(ns ...driven.Normaliser) *Registry {
	r := &Registry{byExt: make(map[string]driven.Normaliser)}
	for _, n := range ns {
		r.Register(n)
	}
	return r
}

// Register adds a normaliser for all of its extensions.
func (r *Registry) Register(n driven.Normaliser) {
	for _, ext := range n.SupportedExtensions() {
		r.byExt[strings.ToLower(ext)] = n
	}
}

// For returns the normaliser handling path, if any.
func (r *Registry) For(path string) (driven.Normaliser, bool) {
	n, ok := r.byExt[strings.ToLower(filepath.Ext(path))]
	return n, ok
}

// Supports reports whether some normaliser handles path.
func (r *Registry) Supports(path string) bool {
	_, ok := r.For(path)
	return ok
}

// Extensions returns the registered extensions, sorted.
func (r *Registry) Extensions() []string {
	exts := make([]string, 0, len(r.byExt))
	for ext := range r.byExt {
		exts = append(exts, ext)
	}
	sort.Strings(exts)
	return exts
}
