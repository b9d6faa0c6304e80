package filesystem

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolvePath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	wd, err := os.Getwd()
	require.NoError(t, err)

	tests := []struct {
		name string
		uri  string
		want string
	}{
		{
			name: "file URI is converted to local path",
			uri:  "file:///reports/2024/q1.md",
			want: "/reports/2024/q1.md",
		},
		{
			name: "file URI with spaces",
			uri:  "file:///reports/my reports",
			want: "/reports/my reports",
		},
		{
			name: "absolute path is cleaned",
			uri:  "/reports/./2024/",
			want: "/reports/2024",
		},
		{
			name: "relative path is made absolute",
			uri:  "data/reports",
			want: filepath.Join(wd, "data/reports"),
		},
		{
			name: "home directory is expanded",
			uri:  "~/reports",
			want: filepath.Join(home, "reports"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ResolvePath(tt.uri)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err = ResolvePath("")
	assert.Error(t, err)
}
