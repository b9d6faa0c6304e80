package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportrag/internal/connectors/filesystem"
)

var (
	indexWatch  bool
	indexDryRun bool
)

var indexCmd = &cobra.Command{
	Use:   "index <path>",
	Short: "Index report files",
	Long: `Indexes every supported report (.md, .txt) under path, or a single file.
Re-indexing a file replaces its previous chunks.

With --watch the command keeps running and re-indexes files as they change.
With --dry-run every file is parsed, chunked and embedded but nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVarP(&indexWatch, "watch", "w", false, "keep watching the directory for changes")
	indexCmd.Flags().BoolVar(&indexDryRun, "dry-run", false, "run the pipeline without storing anything")
	indexCmd.MarkFlagsMutuallyExclusive("watch", "dry-run")
	rootCmd.AddCommand(indexCmd)
}

func runIndex(cmd *cobra.Command, args []string) error {
	path, err := filesystem.ResolvePath(args[0])
	if err != nil {
		return err
	}
	if indexDryRun {
		return runIndexDryRun(cmd, path)
	}
	if err := requireRuntime(); err != nil {
		return err
	}

	ctx := cmd.Context()
	stats, err := indexService.IndexPath(ctx, path)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}
	cmd.Printf("Indexed %d files (%d chunks), skipped %d, failed %d\n",
		stats.Files, stats.Chunks, stats.Skipped, stats.Failed)

	if !indexWatch {
		if stats.Failed > 0 {
			return fmt.Errorf("%d files failed to index", stats.Failed)
		}
		return nil
	}

	conn := filesystem.New(path, supportsFile)
	defer conn.Close()

	cmd.Printf("Watching %s for changes (Ctrl+C to stop)\n", path)
	if err := conn.Run(ctx, indexService); err != nil {
		return fmt.Errorf("watching %s: %w", path, err)
	}
	return nil
}

func runIndexDryRun(cmd *cobra.Command, path string) error {
	ss, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	scratch, release, err := NewScratchIndex(settings)
	if err != nil {
		return err
	}
	defer release()

	stats, err := scratch.IndexPath(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("indexing %s: %w", path, err)
	}
	cmd.Printf("Dry run: %d files would produce %d chunks, skipped %d, failed %d\n",
		stats.Files, stats.Chunks, stats.Skipped, stats.Failed)
	if stats.Failed > 0 {
		return fmt.Errorf("%d files failed to index", stats.Failed)
	}
	return nil
}
