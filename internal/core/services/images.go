package services

import (
	"path"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// imageRefPattern matches markdown image references and captures the path.
// Matching is non-greedy on both parts, so one line may hold several references.
var imageRefPattern = regexp.MustCompile(`!\[.*?\]\((.*?)\)`)

// ImageResolver finds image references in document content and resolves
// them against the image store.
//
// Only the final path component of a reference is used, so a reference can
// never resolve outside the store root.
type ImageResolver struct {
	store driven.ImageStore
}

// NewImageResolver creates a resolver backed by store.
func NewImageResolver(store driven.ImageStore) *ImageResolver {
	return &ImageResolver{store: store}
}

// ExtractImagePaths returns the raw paths of every image reference in content, left to right.
func ExtractImagePaths(content string) []string {
	matches := imageRefPattern.FindAllStringSubmatch(content, -1)
	if len(matches) == 0 {
		return nil
	}
	paths := make([]string, 0, len(matches))
	for _, m := range matches {
		paths = append(paths, m[1])
	}
	return paths
}

// Resolve maps a raw reference path to its location under the store root.
func (r *ImageResolver) Resolve(raw string) domain.ImageReference {
	ref := domain.ImageReference{RawPath: raw}
	name := referenceBasename(raw)
	if name == "" {
		return ref
	}
	ref.ResolvedPath = filepath.Join(r.store.Root(), name)
	ref.Exists = r.store.Exists(ref.ResolvedPath)
	return ref
}

// ResolveAll returns the existing image paths referenced by content, in scan order.
// Each distinct raw path is resolved once and each image is listed once.
func (r *ImageResolver) ResolveAll(content string) []string {
	raws := ExtractImagePaths(content)
	if len(raws) == 0 {
		return nil
	}

	checked := newOrderedSet()
	found := newOrderedSet()
	for _, raw := range raws {
		if !checked.Add(raw) {
			continue
		}
		if ref := r.Resolve(raw); ref.Exists {
			found.Add(ref.ResolvedPath)
		}
	}
	return found.Items()
}

// referenceBasename returns the final component of a reference path.
// Both separators are honoured. Returns "" when no usable name remains.
func referenceBasename(raw string) string {
	p := strings.TrimSpace(strings.ReplaceAll(raw, `\`, "/"))
	if p == "" {
		return ""
	}
	name := path.Base(p)
	switch name {
	case ".", "..", "/":
		return ""
	}
	return name
}
