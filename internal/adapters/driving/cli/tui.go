package cli

import (
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportrag/internal/adapters/driving/tui"
)

// newProgram is swapped in tests to avoid taking over the terminal.
var newProgram = func(m tea.Model) interface{ Run() (tea.Model, error) } {
	return tea.NewProgram(m, tea.WithAltScreen())
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface.

Run the retrieval tools against the index and browse indexed reports.

Controls:
  Tab/Shift+Tab - Switch tool
  Enter         - Run the query
  /             - New query
  ↑/k, ↓/j      - Scroll / navigate
  Esc           - Back
  Ctrl+C        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) error {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if err := requireRuntime(); err != nil {
		return err
	}

	app, err := tui.NewApp(&tui.Ports{Tools: toolService, Index: indexService})
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	app.WithContext(cmd.Context())

	if _, err := newProgram(app).Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
