// Package filesystem provides the image store backed by a local directory.
package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/custodia-labs/reportrag/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.ImageStore = (*Store)(nil)

// Store answers existence checks for extracted report images.
// It never writes to the directory.
type Store struct {
	root string
}

// NewStore creates a store rooted at dir. Relative roots are made absolute
// against the working directory. The directory need not exist yet.
func NewStore(dir string) (*Store, error) {
	if dir == "" {
		return nil, fmt.Errorf("image root is empty")
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve image root %s: %w", dir, err)
	}
	return &Store{root: abs}, nil
}

// Root returns the absolute image root.
func (s *Store) Root() string {
	return s.root
}

// Exists reports whether path is a regular file inside the root.
// Symlinks are followed.
func (s *Store) Exists(path string) bool {
	rel, err := filepath.Rel(s.root, path)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
