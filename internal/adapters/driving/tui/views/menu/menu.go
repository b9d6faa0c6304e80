// Package menu is the landing screen of the TUI.
package menu

import (
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
)

// Item is one entry. An item with Quit set ends the program.
type Item struct {
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

var defaultItems = []Item{
	{Label: "Search", Hint: "run the retrieval tools", View: messages.ViewSearch},
	{Label: "Reports", Hint: "browse indexed reports", View: messages.ViewReports},
	{Label: "Quit", Quit: true},
}

// View lists the items with a cursor.
type View struct {
	styles *styles.Styles
	keys   *keymap.KeyMap
	items  []Item
	cursor int
	ready  bool
}

// NewView builds the menu; nil styles selects the defaults.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, keys: keymap.DefaultKeyMap(), items: defaultItems}
}

// Init implements the bubbletea component contract.
func (v *View) Init() tea.Cmd { return nil }

// Update moves the cursor or acts on the highlighted item.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		return v, v.handleKey(msg.String())
	}
	return v, nil
}

func (v *View) handleKey(k string) tea.Cmd {
	switch {
	case keymap.Matches(k, v.keys.Up):
		v.cursor = max(v.cursor-1, 0)
	case keymap.Matches(k, v.keys.Down):
		v.cursor = min(v.cursor+1, len(v.items)-1)
	case keymap.Matches(k, v.keys.Select):
		return v.activate(v.items[v.cursor])
	case keymap.Matches(k, v.keys.Quit):
		return tea.Quit
	}
	return nil
}

func (v *View) activate(item Item) tea.Cmd {
	if item.Quit {
		return tea.Quit
	}
	target := item.View
	return func() tea.Msg { return messages.ViewChanged{View: target} }
}

// View renders the menu once dimensions are known.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	lines := []string{
		v.styles.Title.Render("reportrag"),
		"",
		v.styles.Muted.Render("Industry monitoring report retrieval"),
		"",
	}
	for i, item := range v.items {
		marker, label := "  ", v.styles.Normal.Render(item.Label)
		if i == v.cursor {
			marker, label = "> ", v.styles.Subtitle.Render(item.Label)
		}
		line := marker + label
		if item.Hint != "" {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", v.styles.Help.Render(helpLine(v.keys.Up, v.keys.Down, v.keys.Select, v.keys.Quit)))
	return strings.Join(lines, "\n")
}

func helpLine(bindings ...key.Binding) string {
	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, "["+h.Key+"] "+h.Desc)
	}
	return strings.Join(parts, "  ")
}

// SetDimensions marks the view ready. The menu does not depend on size.
func (v *View) SetDimensions(_, _ int) {
	v.ready = true
}

// Selected returns the cursor position.
func (v *View) Selected() int {
	return v.cursor
}
