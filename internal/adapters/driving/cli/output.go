package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))
	queryStyle  = lipgloss.NewStyle().Italic(true).Foreground(lipgloss.Color("245"))
	labelStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("214"))
	bodyStyle   = lipgloss.NewStyle().PaddingLeft(2)
)

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// renderResult styles a tool result for a terminal.
// Multimodal payloads are indented; plain results get their labels highlighted.
func renderResult(res domain.ToolResult, query string) string {
	var b strings.Builder
	b.WriteString(headerStyle.Render(res.Kind.LogLabel() + " search"))
	b.WriteString(" ")
	b.WriteString(queryStyle.Render(query))
	b.WriteString("\n\n")

	if res.Kind == domain.ToolMultimodal {
		var pretty bytes.Buffer
		if err := json.Indent(&pretty, []byte(res.Text), "", "  "); err == nil {
			b.WriteString(bodyStyle.Render(pretty.String()))
			return b.String()
		}
	}

	lines := strings.Split(res.Text, "\n")
	for i, line := range lines {
		lines[i] = highlightLabel(line)
	}
	b.WriteString(bodyStyle.Render(strings.Join(lines, "\n")))
	return b.String()
}

// highlightLabel styles document headers and the Metadata and Content labels.
func highlightLabel(line string) string {
	for _, label := range []string{"Content:", "Metadata:"} {
		if strings.HasPrefix(line, label) {
			return labelStyle.Render(label) + strings.TrimPrefix(line, label)
		}
	}
	if strings.HasPrefix(line, "[Document ") && strings.HasSuffix(line, "]") {
		return labelStyle.Render(line)
	}
	return line
}
