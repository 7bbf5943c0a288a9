package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/form"
	"github.com/jmgilman/minicrm/internal/listview"
	"github.com/jmgilman/minicrm/internal/logging"
	"github.com/jmgilman/minicrm/internal/notify"
	"github.com/jmgilman/minicrm/internal/slogger"
	"github.com/jmgilman/minicrm/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive contact browser",
	Long: `Open the interactive contact browser. This is also what minicrm does
when run without a subcommand.

Keys: / search, enter submit search, esc clear, a add, e edit, d delete,
r reload, q quit. Diagnostics go to a log file; see minicrm logs.`,
	Args: cobra.NoArgs,
	RunE: runTUICmd,
}

func runTUICmd(cmd *cobra.Command, _ []string) error {
	if !isInteractive() {
		return errors.New("the contact browser needs a terminal; use minicrm list instead")
	}

	ctx := cmd.Context()
	cfg, err := requireConfig(ctx)
	if err != nil {
		return err
	}

	// The browser owns the terminal, so log to a per-run file.
	logFile, err := logging.OpenSession(logging.NewPathManager(cfg.Storage.Logs), tuiLogKind, time.Now())
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()

	logger := slogger.New(slogger.Config{
		Verbosity: max(verbosity(cmd), 1),
		Output:    logFile,
		File:      true,
	})
	ctx = slogger.WithLogger(ctx, logger)
	logger.Info("starting browser", "api", cfg.API.URL, "log", logFile.LogPath())

	client, err := newClient(ctx, tokenSource())
	if err != nil {
		return err
	}

	toaster := notify.NewToaster(cfg.Notify.Duration)
	defer toaster.Close()
	logged := notify.NewLogNotifier(logger)
	notifier := notify.NotifierFunc(func(message string, kind notify.Kind) {
		logged.Notify(message, kind)
		toaster.Notify(message, kind)
	})

	list := listview.New(client, notifier,
		listview.WithDebounce(cfg.Search.Debounce),
		listview.WithLogger(logger),
	)
	defer list.Close()

	f := form.New(list)
	list.OnEditCleared(f.EditCleared)

	return tui.Run(ctx, list, f, toaster)
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}
