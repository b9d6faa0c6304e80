package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/views/reports"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/views/search"
)

var _ tea.Model = (*App)(nil)

// App is the root model. It owns one instance of each view, switches
// between them on ViewChanged and delivers async results to the view
// that asked for them even if the user has moved on.
type App struct {
	menu    *menu.View
	search  *search.View
	reports *reports.View

	active messages.ViewType
	err    error // last error surfaced by any view
	ready  bool
}

// NewApp wires the views to the given services.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	theme, keys := styles.DefaultStyles(), keymap.DefaultKeyMap()
	return &App{
		menu:    menu.NewView(theme),
		search:  search.NewView(theme, keys, ports.Tools),
		reports: reports.NewView(theme, keys, ports.Index),
		active:  messages.ViewMenu,
	}, nil
}

// WithContext bounds tool calls and report listings started from the UI.
func (a *App) WithContext(ctx context.Context) *App {
	a.search.WithContext(ctx)
	a.reports.WithContext(ctx)
	return a
}

// Init sets the terminal title.
func (a *App) Init() tea.Cmd {
	return tea.SetWindowTitle("reportrag")
}

// Update handles app-level messages and forwards the rest to the active view.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return a, tea.Quit
		}
	case messages.ViewChanged:
		return a, a.switchTo(msg.View)
	case messages.ToolCompleted:
		var cmd tea.Cmd
		a.search, cmd = a.search.Update(msg)
		a.err = a.search.Err()
		return a, cmd
	case messages.ReportsLoaded:
		var cmd tea.Cmd
		a.reports, cmd = a.reports.Update(msg)
		a.err = msg.Err
		return a, cmd
	case messages.ErrorOccurred:
		a.err = msg.Err
	}
	return a, a.forward(msg)
}

func (a *App) switchTo(view messages.ViewType) tea.Cmd {
	a.active = view
	switch view {
	case messages.ViewSearch:
		a.search.Reset()
		return a.search.Init()
	case messages.ViewReports:
		return a.reports.Init()
	default:
		return nil
	}
}

func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.active {
	case messages.ViewSearch:
		a.search, cmd = a.search.Update(msg)
	case messages.ViewReports:
		a.reports, cmd = a.reports.Update(msg)
	default:
		a.menu, cmd = a.menu.Update(msg)
	}
	return cmd
}

// View renders the active view.
func (a *App) View() string {
	switch {
	case !a.ready:
		return "Initialising..."
	case a.active == messages.ViewSearch:
		return a.search.View()
	case a.active == messages.ViewReports:
		return a.reports.View()
	default:
		return a.menu.View()
	}
}

func (a *App) CurrentView() messages.ViewType { return a.active }
func (a *App) Err() error                     { return a.err }
func (a *App) Ready() bool                    { return a.ready }

// SetDimensions resizes every view, not just the active one.
func (a *App) SetDimensions(width, height int) {
	a.ready = true
	a.menu.SetDimensions(width, height)
	a.search.SetDimensions(width, height)
	a.reports.SetDimensions(width, height)
}
