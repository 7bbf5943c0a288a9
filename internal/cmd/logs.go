package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/logging"
)

// Default poll interval for following logs.
const defaultLogPollInterval = 100 * time.Millisecond

// tuiLogKind names the log sessions written by the interactive browser.
const tuiLogKind = "tui"

var logsCmd = &cobra.Command{
	Use:   "logs [session]",
	Short: "View logs from the interactive browser",
	Long: `View the log file written by an interactive browser session.

The browser draws on the terminal, so it logs to a file instead. Each run
gets its own file; the latest is shown unless a session is named.`,
	Example: `  # Recent lines from the latest session
  minicrm logs

  # Follow the latest session while the browser runs elsewhere
  minicrm logs -f

  # List sessions
  minicrm logs --list

  # Show a whole session
  minicrm logs tui-20261018-090000 --full`,
	Args: cobra.MaximumNArgs(1),
	RunE: runLogsCmd,
}

func runLogsCmd(cmd *cobra.Command, args []string) error {
	follow, err := cmd.Flags().GetBool("follow")
	if err != nil {
		return fmt.Errorf("get follow flag: %w", err)
	}
	lines, err := cmd.Flags().GetInt("lines")
	if err != nil {
		return fmt.Errorf("get lines flag: %w", err)
	}
	full, err := cmd.Flags().GetBool("full")
	if err != nil {
		return fmt.Errorf("get full flag: %w", err)
	}
	list, err := cmd.Flags().GetBool("list")
	if err != nil {
		return fmt.Errorf("get list flag: %w", err)
	}

	cfg, err := requireConfig(cmd.Context())
	if err != nil {
		return err
	}
	pathMgr := logging.NewPathManager(cfg.Storage.Logs)
	out := cmd.OutOrStdout()

	if list {
		sessions, err := pathMgr.ListSessions(tuiLogKind)
		if err != nil {
			return fmt.Errorf("list sessions: %w", err)
		}
		for _, s := range sessions {
			fmt.Fprintln(out, s)
		}
		return nil
	}

	var session string
	if len(args) == 1 {
		session = args[0]
		if !pathMgr.LogExists(session) {
			return fmt.Errorf("no log file found for session %s", session)
		}
	} else {
		session, err = pathMgr.Latest(tuiLogKind)
		if errors.Is(err, logging.ErrNoLogs) {
			return errors.New("no logs yet: run minicrm to start the browser")
		}
		if err != nil {
			return fmt.Errorf("find latest session: %w", err)
		}
	}

	return outputLogs(cmd.Context(), out, logging.NewReader(pathMgr), session, follow, lines, full)
}

func outputLogs(ctx context.Context, out io.Writer, reader *logging.Reader, session string, follow bool, lines int, full bool) error {
	if follow {
		return reader.FollowWithHistory(ctx, session, out, lines, defaultLogPollInterval)
	}

	var logLines []string
	var err error
	if full {
		logLines, err = reader.ReadAll(session)
	} else {
		logLines, err = reader.ReadLastN(session, lines)
	}
	if err != nil {
		return fmt.Errorf("read log: %w", err)
	}

	for _, line := range logLines {
		fmt.Fprintln(out, line)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(logsCmd)

	logsCmd.Flags().BoolP("follow", "f", false, "follow log output in real-time")
	logsCmd.Flags().IntP("lines", "n", logging.DefaultTailLines, "number of lines to show")
	logsCmd.Flags().Bool("full", false, "show entire log from session start")
	logsCmd.Flags().Bool("list", false, "list log sessions, oldest first")
}
