package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/form"
	"github.com/jmgilman/minicrm/internal/validate"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Change a contact's name or phone",
	Long: `Change a contact's name or phone number.

Without --name or --phone an interactive form is shown. Email addresses
cannot be changed. Pass --phone "" to remove a phone number.`,
	Example: `  # Interactive form
  minicrm edit 12

  # Rename
  minicrm edit 12 --name "Ann Lee-Park"`,
	Args: cobra.ExactArgs(1),
	RunE: runEditCmd,
}

func runEditCmd(cmd *cobra.Command, args []string) error {
	id, err := contact.ParseID(args[0])
	if err != nil {
		return fmt.Errorf("invalid contact id %q", args[0])
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

	f := form.New(m)
	if err := f.StartEdit(c); err != nil {
		return fmt.Errorf("start edit: %w", err)
	}

	changed := false
	for _, field := range []validate.Field{validate.FieldName, validate.FieldPhone} {
		if !cmd.Flags().Changed(string(field)) {
			continue
		}
		v, err := cmd.Flags().GetString(string(field))
		if err != nil {
			return fmt.Errorf("get %s flag: %w", field, err)
		}
		if err := f.SetField(field, v); err != nil {
			return fmt.Errorf("set %s: %w", field, err)
		}
		changed = true
	}

	if !changed {
		if !isInteractive() {
			f.Cancel()
			return errors.New("nothing to change: pass --name or --phone")
		}
		fields, err := newPrompter().Contact("Edit contact", f.Snapshot().Fields, true)
		if err != nil {
			f.Cancel()
			return err
		}
		for _, field := range []validate.Field{validate.FieldName, validate.FieldPhone} {
			if err := f.SetField(field, fields.Get(field)); err != nil {
				return fmt.Errorf("set %s: %w", field, err)
			}
		}
	}

	return submitForm(ctx, f, "Saving "+c.Name)
}

func init() {
	rootCmd.AddCommand(editCmd)

	editCmd.Flags().String("name", "", "new contact name")
	editCmd.Flags().String("phone", "", "new phone number (empty to remove)")
}
