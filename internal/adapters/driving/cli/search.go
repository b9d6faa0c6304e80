package cli

import (
	"errors"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportrag/internal/core/domain"
)

var (
	searchTool string
	searchRaw  bool
)

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Run a retrieval tool against the indexed reports",
	Long: `Runs one of the retrieval tools and prints exactly what an agent would receive.

Tools:
  basic       - similarity search over report text
  self-query  - infers year and quarter filters from the question first
  multimodal  - returns JSON with the text context and referenced image paths`,
	Example: `  reportrag search "2024년 1분기 반도체 수출 동향" --tool self-query
  reportrag search "조선업 수주" --tool multimodal --raw`,
	Args: cobra.MinimumNArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVarP(&searchTool, "tool", "t", domain.ToolBasic.Flag(),
		"tool to run (basic, self-query, multimodal)")
	searchCmd.Flags().BoolVar(&searchRaw, "raw", false, "print the tool output without styling")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	kind, err := domain.ParseToolKind(searchTool)
	if err != nil {
		return err
	}
	if err := requireRuntime(); err != nil {
		return err
	}

	query := strings.Join(args, " ")
	res := toolService.Invoke(cmd.Context(), kind, query)
	if res.Failed {
		return errors.New(res.Text)
	}

	out := cmd.OutOrStdout()
	if searchRaw || !isTerminal(out) {
		cmd.Println(res.Text)
		return nil
	}
	cmd.Println(renderResult(res, query))
	return nil
}
