// Package search provides the tool runner view for the TUI.
package search

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// Lines reserved for the header, tabs, input and status bar.
const chromeHeight = 10

// View runs one tool at a time and shows its raw response.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.QueryInput
	output    viewport.Model
	statusbar *status.Bar

	tools driving.ToolService
	kinds []domain.ToolKind
	tool  int
	ctx   context.Context

	width      int
	height     int
	ready      bool
	focusInput bool // true = typing a query, false = reading a result
	query      string
	result     *domain.ToolResult
	err        error
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, tools driving.ToolService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	var kinds []domain.ToolKind
	if tools != nil {
		kinds = tools.Tools()
	}
	if len(kinds) == 0 {
		kinds = domain.AllToolKinds()
	}

	v := &View{
		styles:     s,
		keymap:     km,
		input:      input.NewQueryInput(s),
		output:     viewport.New(80, 24-chromeHeight),
		statusbar:  status.NewBar(s, km),
		tools:      tools,
		kinds:      kinds,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true,
	}
	v.input.SetTool(kinds[0])
	return v
}

// WithContext sets the context tool calls run under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.ToolCompleted:
		v.handleToolCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError, msg.Err.Error())
		return v, nil
	}

	var cmd tea.Cmd
	if v.focusInput {
		v.input, cmd = v.input.Update(msg)
	} else {
		v.output, cmd = v.output.Update(msg)
	}
	return v, cmd
}

func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()

	switch {
	case keymap.Matches(k, v.keymap.Back):
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}

	case keymap.Matches(k, v.keymap.NextTool):
		return v, v.selectTool(v.tool + 1)

	case keymap.Matches(k, v.keymap.PrevTool):
		return v, v.selectTool(v.tool - 1)
	}

	if v.focusInput {
		if keymap.Matches(k, v.keymap.Submit) {
			query := strings.TrimSpace(v.input.Value())
			if query == "" {
				return v, nil
			}
			return v, v.run(query)
		}
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	if keymap.Matches(k, v.keymap.NewQuery) {
		v.focusInput = true
		v.input.SetValue("")
		v.statusbar.SetHints(v.keymap.InputHelp())
		return v, v.input.Focus()
	}

	var cmd tea.Cmd
	v.output, cmd = v.output.Update(msg)
	return v, cmd
}

// selectTool switches the active tool, re-running the last query when a
// result is on screen.
func (v *View) selectTool(i int) tea.Cmd {
	n := len(v.kinds)
	v.tool = ((i % n) + n) % n
	v.input.SetTool(v.kinds[v.tool])

	if !v.focusInput && v.query != "" {
		return v.run(v.query)
	}
	return nil
}

func (v *View) run(query string) tea.Cmd {
	kind := v.kinds[v.tool]
	v.query = query
	v.focusInput = false
	v.input.Blur()
	v.statusbar.SetState(status.StateSearching, fmt.Sprintf("Running %s...", kind.Flag()))
	v.statusbar.SetHints(v.keymap.ResultsHelp())
	return v.performSearch(kind, query)
}

// performSearch invokes the tool off the update loop.
func (v *View) performSearch(kind domain.ToolKind, query string) tea.Cmd {
	tools, ctx := v.tools, v.ctx
	return func() tea.Msg {
		if tools == nil {
			return messages.ErrorOccurred{Err: ErrNoToolService}
		}
		return messages.ToolCompleted{Query: query, Result: tools.Invoke(ctx, kind, query)}
	}
}

func (v *View) handleToolCompleted(msg messages.ToolCompleted) {
	res := msg.Result
	v.result = &res
	v.err = nil
	v.output.SetContent(v.formatResult(res))
	v.output.GotoTop()

	if res.Failed {
		v.statusbar.SetState(status.StateError, res.Kind.ErrorPrefix())
		return
	}
	v.statusbar.SetState(status.StateResults, fmt.Sprintf("%s: %q", res.Kind.Flag(), msg.Query))
}

// formatResult lays the tool text out for the viewport.
func (v *View) formatResult(res domain.ToolResult) string {
	wrap := lipgloss.NewStyle().Width(v.output.Width)

	if res.Failed {
		return v.styles.Error.Inherit(wrap).Render(res.Text)
	}

	text := res.Text
	if res.Kind == domain.ToolMultimodal {
		var buf bytes.Buffer
		if err := json.Indent(&buf, []byte(text), "", "  "); err == nil {
			text = buf.String()
		}
	}

	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isLabel(line) {
			lines[i] = v.styles.Label.Render(line)
		}
	}
	return wrap.Render(strings.Join(lines, "\n"))
}

func isLabel(line string) bool {
	return strings.HasPrefix(line, "[Document ") ||
		line == "Content:" || strings.HasPrefix(line, "Metadata:")
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 9)
	sections = append(sections,
		v.styles.Title.Render("reportrag"), "",
		v.renderTabs(), "",
		v.input.View(), "",
	)

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	} else if v.result != nil {
		sections = append(sections, v.output.View())
	} else {
		sections = append(sections, v.styles.Muted.Render(v.kinds[v.tool].Description()))
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *View) renderTabs() string {
	tabs := make([]string, 0, len(v.kinds))
	for i, k := range v.kinds {
		if i == v.tool {
			tabs = append(tabs, v.styles.ActiveTab.Render(k.Flag()))
		} else {
			tabs = append(tabs, v.styles.Tab.Render(k.Flag()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	v.input.SetWidth(width)
	v.statusbar.SetWidth(width)
	v.output.Width = width
	v.output.Height = max(height-chromeHeight, 3)
	if v.result != nil {
		v.output.SetContent(v.formatResult(*v.result))
	}
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Tool returns the active tool.
func (v *View) Tool() domain.ToolKind {
	return v.kinds[v.tool]
}

// Query returns the last submitted query.
func (v *View) Query() string {
	return v.query
}

// SetQuery fills the input.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Result returns the last tool result, or nil before the first run.
func (v *View) Result() *domain.ToolResult {
	return v.result
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}

// Reset returns the view to input mode with no result.
func (v *View) Reset() {
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.query = ""
	v.result = nil
	v.err = nil
	v.output.SetContent("")
	v.statusbar.Clear()
	v.statusbar.SetHints(v.keymap.InputHelp())
}
