package filesystem

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ResolvePath turns a user-supplied location into an absolute local path.
// Handles file:// URIs and a leading ~.
func ResolvePath(uri string) (string, error) {
	p := strings.TrimPrefix(uri, "file://")
	if p == "" {
		return "", fmt.Errorf("empty path")
	}

	if p == "~" || strings.HasPrefix(p, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		p = filepath.Join(home, strings.TrimPrefix(p, "~"))
	}

	abs, err := filepath.Abs(p)
	if err != nil {
		return "", fmt.Errorf("resolve %s: %w", uri, err)
	}
	return abs, nil
}
