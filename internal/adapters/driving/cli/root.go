// Package cli implements the reportrag command line.
package cli

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/custodia-labs/reportrag/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reportrag/internal/core/ports/driving"
	"github.com/custodia-labs/reportrag/internal/core/services"
	"github.com/custodia-labs/reportrag/internal/logger"
)

// version is set at build time via SetVersion.
var version = "dev"

var (
	verbose   bool
	configDir string
)

// Services used by the commands. They are built on first use so that
// commands like version never touch the configuration directory.
var (
	settingsService driving.SettingsService
	toolService     driving.ToolService
	indexService    driving.IndexService
	supportsFile    func(path string) bool
	activeRuntime   *Runtime
)

var rootCmd = &cobra.Command{
	Use:   "reportrag",
	Short: "Retrieval tools over Bank of Korea industry monitoring reports",
	Long: `reportrag indexes Bank of Korea industry monitoring reports and exposes
three retrieval tools (basic, self-query and multimodal) to agents over MCP,
on the command line and in a terminal UI.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
		loadDotEnv(resolveConfigDir())
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		return closeRuntime()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&configDir, "config-dir", "", "configuration directory (default ~/.reportrag)")
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	version = v
}

// Execute runs the root command.
func Execute(ctx context.Context) error {
	err := rootCmd.ExecuteContext(ctx)
	if closeErr := closeRuntime(); err == nil {
		err = closeErr
	}
	return err
}

// resolveConfigDir returns the configuration directory, defaulting to ~/.reportrag.
func resolveConfigDir() string {
	if configDir != "" {
		return configDir
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ".reportrag"
	}
	return filepath.Join(home, ".reportrag")
}

// loadDotEnv loads .env from the working directory and the configuration
// directory. Variables already set in the environment are kept.
func loadDotEnv(dir string) {
	for _, path := range []string{".env", filepath.Join(dir, ".env")} {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			logger.Warn("loading %s: %v", path, err)
		}
	}
}

// requireSettings builds the settings service from the TOML config if needed.
func requireSettings() (driving.SettingsService, error) {
	if settingsService != nil {
		return settingsService, nil
	}
	store, err := file.NewConfigStore(resolveConfigDir())
	if err != nil {
		return nil, fmt.Errorf("loading configuration: %w", err)
	}
	settingsService = services.NewSettingsService(store)
	return settingsService, nil
}

// requireRuntime builds the retrieval and indexing services if needed.
func requireRuntime() error {
	if toolService != nil && indexService != nil {
		return nil
	}
	ss, err := requireSettings()
	if err != nil {
		return err
	}
	settings, err := ss.Get()
	if err != nil {
		return fmt.Errorf("reading settings: %w", err)
	}

	rt, err := NewRuntime(settings, resolveConfigDir())
	if err != nil {
		return err
	}
	for _, w := range rt.Warnings {
		logger.Warn("%s", w)
	}

	activeRuntime = rt
	toolService = rt.Tools
	indexService = rt.Index
	supportsFile = rt.Supports
	return nil
}

func closeRuntime() error {
	if activeRuntime == nil {
		return nil
	}
	err := activeRuntime.Close()
	activeRuntime = nil
	toolService = nil
	indexService = nil
	supportsFile = nil
	return err
}
