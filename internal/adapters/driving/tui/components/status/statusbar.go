// Package status renders the one-line bar at the bottom of each view.
package status

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
)

// State selects the colour and default text of the left side.
type State string

const (
	StateReady     State = "ready"
	StateSearching State = "searching"
	StateError     State = "error"
	StateResults   State = "results"
)

// Bar shows a state message on the left and key hints on the right.
type Bar struct {
	styles  *styles.Styles
	hints   []key.Binding
	state   State
	message string
	width   int
}

// NewBar returns a ready bar showing the query input hints.
// Nil arguments select the defaults.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, hints: km.InputHelp(), state: StateReady, width: 80}
}

// View renders the bar at its full width.
func (s *Bar) View() string {
	left, right := s.stateText(), s.hintText()
	// one cell of style padding on each side
	gap := max(s.width-2-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) stateText() string {
	style, fallback := s.styles.Muted, "Ready"
	text := s.message
	switch s.state {
	case StateSearching:
		fallback = "Searching..."
	case StateResults:
		style, fallback = s.styles.Normal, "Done"
	case StateError:
		style, fallback = s.styles.Error, "Error"
		if text != "" {
			text = "Error: " + text
		}
	default:
		text = ""
	}
	if text == "" {
		text = fallback
	}
	return style.Render(text)
}

func (s *Bar) hintText() string {
	var b strings.Builder
	for i, binding := range s.hints {
		if i > 0 {
			b.WriteString(" | ")
		}
		h := binding.Help()
		b.WriteString(h.Key + ": " + h.Desc)
	}
	return s.styles.Muted.Render(b.String())
}

// SetHints replaces the key hints.
func (s *Bar) SetHints(bindings []key.Binding) { s.hints = bindings }

// SetState changes the state. An empty message shows the state's default text.
func (s *Bar) SetState(state State, message string) {
	s.state, s.message = state, message
}

func (s *Bar) State() State    { return s.state }
func (s *Bar) Message() string { return s.message }
func (s *Bar) SetWidth(w int)  { s.width = w }
func (s *Bar) Width() int      { return s.width }

// Clear returns to the ready state.
func (s *Bar) Clear() { s.SetState(StateReady, "") }
