package tui

import (
	"context"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/reportrag/internal/core/domain"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
)

type mockToolService struct {
	calls []string
	ctx   context.Context
}

func (m *mockToolService) Invoke(ctx context.Context, kind domain.ToolKind, query string) domain.ToolResult {
	m.ctx = ctx
	m.calls = append(m.calls, string(kind)+":"+query)
	return domain.ToolResult{Kind: kind, Text: "[Document 1]\nContent:\n" + query}
}

func (m *mockToolService) Tools() []domain.ToolKind {
	return domain.AllToolKinds()
}

type mockIndexService struct {
	reports []domain.Report
	err     error
}

func (m *mockIndexService) IndexPath(context.Context, string) (driving.IndexStats, error) {
	return driving.IndexStats{}, nil
}

func (m *mockIndexService) IndexFile(context.Context, string) (int, error) { return 0, nil }

func (m *mockIndexService) RemoveFile(context.Context, string) error { return nil }

func (m *mockIndexService) ListReports(context.Context) ([]domain.Report, error) {
	return m.reports, m.err
}

func newTestApp(t *testing.T) (*App, *mockToolService) {
	t.Helper()
	tools := &mockToolService{}
	app, err := NewApp(&Ports{
		Tools: tools,
		Index: &mockIndexService{reports: []domain.Report{{ID: "1", URI: "/r/a.md", Title: "2024년 1분기"}}},
	})
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	return app, tools
}

// send runs a message through the app and feeds back up to one level of
// resulting commands.
func send(app *App, msg tea.Msg) {
	_, cmd := app.Update(msg)
	if cmd == nil {
		return
	}
	if next := cmd(); next != nil {
		if _, ok := next.(tea.BatchMsg); ok {
			return
		}
		app.Update(next)
	}
}

func TestNewApp_RequiresTools(t *testing.T) {
	_, err := NewApp(&Ports{})
	assert.ErrorIs(t, err, ErrMissingToolService)

	_, err = NewApp(nil)
	assert.ErrorIs(t, err, ErrMissingToolService)
}

func TestApp_StartsOnMenu(t *testing.T) {
	tools := &mockToolService{}
	app, err := NewApp(&Ports{Tools: tools})
	require.NoError(t, err)

	assert.Equal(t, messages.ViewMenu, app.CurrentView())
	assert.False(t, app.Ready())
	assert.Equal(t, "Initialising...", app.View())
	assert.NotNil(t, app.Init())

	app.Update(tea.WindowSizeMsg{Width: 80, Height: 24})
	assert.True(t, app.Ready())
	assert.Contains(t, app.View(), "reportrag")
}

func TestApp_SearchFlow(t *testing.T) {
	app, tools := newTestApp(t)

	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, messages.ViewSearch, app.CurrentView())

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("반도체")})
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	assert.Equal(t, []string{"basic:반도체"}, tools.calls)
	assert.Contains(t, app.View(), "[Document 1]")
	assert.NoError(t, app.Err())

	send(app, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, app.CurrentView())
}

func TestApp_ReportsFlow(t *testing.T) {
	app, _ := newTestApp(t)

	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("j")})
	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	require.Equal(t, messages.ViewReports, app.CurrentView())

	// ViewChanged triggers the listing; deliver its result.
	_, cmd := app.Update(messages.ViewChanged{View: messages.ViewReports})
	require.NotNil(t, cmd)
	app.Update(cmd())

	assert.Contains(t, app.View(), "2024년 1분기")
}

func TestApp_ReportsErrorIsRecorded(t *testing.T) {
	app, err := NewApp(&Ports{Tools: &mockToolService{}, Index: &mockIndexService{err: assert.AnError}})
	require.NoError(t, err)

	app.Update(messages.ReportsLoaded{Err: assert.AnError})

	assert.ErrorIs(t, app.Err(), assert.AnError)
}

func TestApp_CtrlCQuits(t *testing.T) {
	app, _ := newTestApp(t)

	_, cmd := app.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_ErrorOccurredForwardsToSearch(t *testing.T) {
	app, _ := newTestApp(t)
	app.Update(messages.ViewChanged{View: messages.ViewSearch})

	app.Update(messages.ErrorOccurred{Err: assert.AnError})

	assert.ErrorIs(t, app.Err(), assert.AnError)
	assert.Contains(t, app.View(), "Error:")
}

func TestApp_WithContext(t *testing.T) {
	app, tools := newTestApp(t)
	type ctxKey struct{}
	ctx := context.WithValue(context.Background(), ctxKey{}, "tui")

	assert.Same(t, app, app.WithContext(ctx))

	send(app, tea.KeyMsg{Type: tea.KeyEnter})
	app.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("조선")})
	send(app, tea.KeyMsg{Type: tea.KeyEnter})

	require.NotNil(t, tools.ctx)
	assert.Equal(t, "tui", tools.ctx.Value(ctxKey{}))
}
