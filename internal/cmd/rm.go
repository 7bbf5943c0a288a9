package cmd

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/spinner"
)

var rmCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Delete a contact",
	Long: `Delete a contact by id.

Asks for confirmation first unless --force is given. When stdin is not a
terminal the answer is read from stdin as a y/N line.`,
	Example: `  # Delete with confirmation prompt
  minicrm rm 12

  # Delete without confirmation
  minicrm rm 12 --force`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := contact.ParseID(args[0])
		if err != nil {
			return fmt.Errorf("invalid contact id %q", args[0])
		}
		force, err := cmd.Flags().GetBool("force")
		if err != nil {
			return fmt.Errorf("get force flag: %w", err)
		}

		ctx := cmd.Context()
		m, err := newMachine(ctx, cmd.OutOrStdout())
		if err != nil {
			return err
		}
		defer m.Close()

		c, err := findContact(ctx, m, id)
		if err != nil {
			return err
		}
		if err := m.RequestRemove(c.ID); err != nil {
			return fmt.Errorf("request removal: %w", err)
		}

		if !force {
			confirmed, err := confirmRemoval(cmd, c)
			if err != nil {
				m.DeclineRemove()
				return err
			}
			if !confirmed {
				m.DeclineRemove()
				fmt.Fprintln(cmd.OutOrStdout(), "Canceled")
				return nil
			}
		}

		err = spinner.Run(os.Stderr, "Deleting "+c.Name, func() error {
			return m.ConfirmRemove(ctx)
		})
		return storeError(err)
	},
}

func confirmRemoval(cmd *cobra.Command, c contact.Contact) (bool, error) {
	if isInteractive() {
		return newPrompter().Confirm(fmt.Sprintf("Delete %s?", c.Name), c.Email)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Delete %s <%s>? [y/N] ", c.Name, c.Email)
	response, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return false, fmt.Errorf("read response: %w", err)
	}
	response = strings.TrimSpace(strings.ToLower(response))
	return response == "y" || response == "yes", nil
}

func init() {
	rootCmd.AddCommand(rmCmd)

	rmCmd.Flags().BoolP("force", "f", false, "skip confirmation prompt")
}
