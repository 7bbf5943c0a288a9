package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/slogger"
	"github.com/jmgilman/minicrm/internal/spinner"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List contacts",
	Long: `List contacts, optionally filtered by a search query.

The query matches contact names and email addresses.`,
	Example: `  # List every contact
  minicrm list

  # Only contacts matching "ann"
  minicrm list --query ann`,
	Args: cobra.NoArgs,
	RunE: runListCmd,
}

func runListCmd(cmd *cobra.Command, _ []string) error {
	query, err := cmd.Flags().GetString("query")
	if err != nil {
		return fmt.Errorf("get query flag: %w", err)
	}

	ctx := cmd.Context()
	m, err := newMachine(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer m.Close()

	m.Search(ctx, query)
	err = spinner.Run(os.Stderr, "Loading contacts", func() error {
		return m.SubmitSearch(ctx)
	})
	if err != nil {
		return storeError(err)
	}

	contacts := m.Snapshot().Contacts
	if len(contacts) == 0 {
		if query != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "No contacts match %q\n", query)
		} else {
			fmt.Fprintln(cmd.OutOrStdout(), "No contacts")
		}
		return nil
	}
	slogger.L(ctx).Debug("listed contacts", "count", len(contacts), "query", query)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	if _, err := fmt.Fprintln(w, "ID\tNAME\tEMAIL\tPHONE"); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for _, c := range contacts {
		if _, err := fmt.Fprintf(w, "%s\t%s\t%s\t%s\n", c.ID, c.Name, c.Email, c.PhoneOrEmpty()); err != nil {
			return fmt.Errorf("write contact: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}

	return nil
}

func init() {
	rootCmd.AddCommand(listCmd)

	listCmd.Flags().StringP("query", "q", "", "only show contacts matching this text")
}
