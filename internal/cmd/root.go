// Package cmd implements the minicrm CLI commands using Cobra.
// It provides the interactive contact browser plus one-shot commands for
// listing, adding, editing and removing contacts.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/config"
	"github.com/jmgilman/minicrm/internal/slogger"
)

var rootCmd = &cobra.Command{
	Use:   "minicrm",
	Short: "Manage contacts from the terminal",
	Long: `minicrm is a terminal client for a contacts API.

Run without a subcommand to open the interactive browser. The other
commands perform a single operation and exit, which makes them suitable
for scripts.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadAppConfig,
	RunE:              runTUICmd,
}

// Execute runs the root command with ctx.
func Execute(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}

// Main runs the CLI and returns a process exit code.
func Main() int {
	if err := Execute(context.Background()); err != nil {
		return 1
	}
	return 0
}

func init() {
	rootCmd.PersistentFlags().CountP("verbose", "v", "increase log verbosity (-v info, -vv debug)")
}

// loadAppConfig loads configuration and puts it, its loader and a stderr
// logger on the command context.
func loadAppConfig(cmd *cobra.Command, _ []string) error {
	ctx := withStderrLogger(cmd)

	loader, err := config.NewLoader()
	if err != nil {
		return fmt.Errorf("init config loader: %w", err)
	}

	cfg, err := loader.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	ctx = WithConfig(ctx, cfg)
	ctx = WithLoader(ctx, loader)
	cmd.SetContext(ctx)
	return nil
}

func withStderrLogger(cmd *cobra.Command) context.Context {
	logger := slogger.New(slogger.Config{
		Verbosity: verbosity(cmd),
		Output:    os.Stderr,
	})
	ctx := slogger.WithLogger(cmd.Context(), logger)
	cmd.SetContext(ctx)
	return ctx
}

func verbosity(cmd *cobra.Command) int {
	v, err := cmd.Flags().GetCount("verbose")
	if err != nil {
		return 0
	}
	return v
}
