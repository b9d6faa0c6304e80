package menu

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
)

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewView(t *testing.T) {
	view := NewView(nil)

	require.NotNil(t, view)
	assert.NotNil(t, view.styles)
	assert.Len(t, view.items, 3)
	assert.Equal(t, 0, view.Selected())
	assert.Nil(t, view.Init())
}

func TestView_RendersAfterResize(t *testing.T) {
	view := NewView(nil)
	assert.Equal(t, "Initialising...", view.View())

	updated, cmd := view.Update(tea.WindowSizeMsg{Width: 100, Height: 40})

	assert.Same(t, view, updated)
	assert.Nil(t, cmd)
	out := view.View()
	assert.Contains(t, out, "reportrag")
	assert.Contains(t, out, "Search")
	assert.Contains(t, out, "Reports")
	assert.Contains(t, out, "Quit")
}

func TestView_Navigation(t *testing.T) {
	view := NewView(nil)

	view.Update(keyMsg("k"))
	assert.Equal(t, 0, view.Selected())

	view.Update(keyMsg("j"))
	assert.Equal(t, 1, view.Selected())

	view.Update(keyMsg("down"))
	view.Update(keyMsg("down"))
	assert.Equal(t, 2, view.Selected())

	view.Update(keyMsg("up"))
	assert.Equal(t, 1, view.Selected())
}

func TestView_SelectEmitsViewChanged(t *testing.T) {
	tests := []struct {
		name     string
		moves    int
		expected messages.ViewType
	}{
		{"search", 0, messages.ViewSearch},
		{"reports", 1, messages.ViewReports},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			view := NewView(nil)
			for i := 0; i < tt.moves; i++ {
				view.Update(keyMsg("j"))
			}

			_, cmd := view.Update(keyMsg("enter"))

			require.NotNil(t, cmd)
			assert.Equal(t, messages.ViewChanged{View: tt.expected}, cmd())
		})
	}
}

func TestView_Quit(t *testing.T) {
	view := NewView(nil)
	_, cmd := view.Update(keyMsg("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())

	view = NewView(nil)
	view.Update(keyMsg("j"))
	view.Update(keyMsg("j"))
	_, cmd = view.Update(keyMsg("enter"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}
