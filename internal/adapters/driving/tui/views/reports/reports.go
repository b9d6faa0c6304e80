// Package reports provides the indexed report browser for the TUI.
package reports

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

// View lists the reports in the index.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.ReportList
	statusbar *status.Bar
	index     driving.IndexService
	ctx       context.Context

	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

// NewView creates a reports view. index may be nil.
func NewView(s *styles.Styles, km *keymap.KeyMap, index driving.IndexService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ListHelp())

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewReportList(s),
		statusbar: bar,
		index:     index,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context listing runs under.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the report list.
func (v *View) Init() tea.Cmd {
	return v.Load()
}

// Load fetches the reports asynchronously.
func (v *View) Load() tea.Cmd {
	v.loading = true
	v.statusbar.SetState(status.StateSearching, "Loading reports...")

	index, ctx := v.index, v.ctx
	return func() tea.Msg {
		if index == nil {
			return messages.ReportsLoaded{}
		}
		reports, err := index.ListReports(ctx)
		return messages.ReportsLoaded{Reports: reports, Err: err}
	}
}

// Update handles messages for the reports view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.ReportsLoaded:
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError, msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.list.SetReports(msg.Reports)
		v.statusbar.SetState(status.StateResults, fmt.Sprintf("%d reports", len(msg.Reports)))

	case tea.KeyMsg:
		k := msg.String()
		switch {
		case keymap.Matches(k, v.keymap.Back):
			return v, func() tea.Msg {
				return messages.ViewChanged{View: messages.ViewMenu}
			}
		case keymap.Matches(k, v.keymap.Up):
			v.list.MoveUp()
		case keymap.Matches(k, v.keymap.Down):
			v.list.MoveDown()
		case keymap.Matches(k, v.keymap.Reload):
			if !v.loading {
				return v, v.Load()
			}
		}
	}

	return v, nil
}

// View renders the report list.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Indexed reports"), ""}

	switch {
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading..."))
	default:
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-5)
	v.statusbar.SetWidth(width)
}

// Reports returns the loaded reports.
func (v *View) Reports() []domain.Report {
	return v.list.Reports()
}

// SelectedReport returns the highlighted report, or nil.
func (v *View) SelectedReport() *domain.Report {
	return v.list.SelectedReport()
}

// Loading reports whether a listing is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last listing error.
func (v *View) Err() error {
	return v.err
}
