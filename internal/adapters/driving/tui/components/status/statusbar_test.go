package status

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
)

func TestNewBar(t *testing.T) {
	b := NewBar(nil, nil)

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
	assert.Equal(t, 80, b.Width())
	assert.Contains(t, b.View(), "Ready")
	assert.Contains(t, b.View(), "enter: search")
}

func TestBar_States(t *testing.T) {
	tests := []struct {
		name     string
		state    State
		message  string
		expected string
	}{
		{"searching default", StateSearching, "", "Searching..."},
		{"searching message", StateSearching, "Running basic...", "Running basic..."},
		{"error", StateError, "boom", "Error: boom"},
		{"error without message", StateError, "", "Error"},
		{"results", StateResults, "basic: 3 documents", "basic: 3 documents"},
		{"results without message", StateResults, "", "Done"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := NewBar(nil, nil)
			b.SetWidth(120)
			b.SetState(tt.state, tt.message)

			assert.Equal(t, tt.state, b.State())
			assert.Contains(t, b.View(), tt.expected)
		})
	}
}

func TestBar_SetHints(t *testing.T) {
	km := keymap.DefaultKeyMap()
	b := NewBar(nil, km)
	b.SetWidth(120)

	b.SetHints(km.ListHelp())

	assert.Contains(t, b.View(), "r: reload")
}

func TestBar_Clear(t *testing.T) {
	b := NewBar(nil, nil)
	b.SetState(StateError, "boom")

	b.Clear()

	assert.Equal(t, StateReady, b.State())
	assert.Empty(t, b.Message())
}
