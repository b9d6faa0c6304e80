package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var reportsCmd = &cobra.Command{
	Use:   "reports",
	Short: "List indexed reports",
	Args:  cobra.NoArgs,
	RunE:  runReports,
}

var reportsRemoveCmd = &cobra.Command{
	Use:   "remove <path>",
	Short: "Remove a report from the index",
	Args:  cobra.ExactArgs(1),
	RunE:  runReportsRemove,
}

func init() {
	reportsCmd.AddCommand(reportsRemoveCmd)
	rootCmd.AddCommand(reportsCmd)
}

func runReports(cmd *cobra.Command, _ []string) error {
	if err := requireRuntime(); err != nil {
		return err
	}

	reports, err := indexService.ListReports(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list reports: %w", err)
	}

	if len(reports) == 0 {
		cmd.Println("No reports indexed. Run 'reportrag index <dir>' first.")
		return nil
	}

	for i := range reports {
		cmd.Printf("  %s\n", reports[i].ID)
		cmd.Printf("    Title: %s\n", reports[i].Title)
		cmd.Printf("    URI: %s\n", reports[i].URI)
		if len(reports[i].Metadata) > 0 {
			cmd.Printf("    Metadata: %s\n", reports[i].Metadata.Literal())
		}
		cmd.Println()
	}

	cmd.Printf("Total: %d reports\n", len(reports))
	return nil
}

func runReportsRemove(cmd *cobra.Command, args []string) error {
	if err := requireRuntime(); err != nil {
		return err
	}
	if err := indexService.RemoveFile(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to remove %s: %w", args[0], err)
	}
	cmd.Printf("Removed %s\n", args[0])
	return nil
}
