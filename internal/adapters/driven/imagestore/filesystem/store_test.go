package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewStore(t *testing.T) {
	_, err := NewStore("")
	assert.Error(t, err)

	s, err := NewStore("relative/images")
	require.NoError(t, err)
	assert.True(t, filepath.IsAbs(s.Root()))
}

func TestStore_Exists(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "a.png"), []byte("png"), 0o600))
	require.NoError(t, os.Mkdir(filepath.Join(root, "dir.png"), 0o700))

	outside := filepath.Join(t.TempDir(), "secret.png")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o600))

	s, err := NewStore(root)
	require.NoError(t, err)

	tests := []struct {
		name string
		path string
		want bool
	}{
		{"regular file", filepath.Join(root, "a.png"), true},
		{"missing file", filepath.Join(root, "b.png"), false},
		{"directory", filepath.Join(root, "dir.png"), false},
		{"outside root", outside, false},
		{"parent escape", filepath.Join(root, "..", "a.png"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, s.Exists(tt.path))
		})
	}
}
