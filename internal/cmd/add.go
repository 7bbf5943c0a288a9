package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/form"
	"github.com/jmgilman/minicrm/internal/spinner"
	"github.com/jmgilman/minicrm/internal/validate"
)

// formFields is the order field errors are reported in.
var formFields = []validate.Field{validate.FieldName, validate.FieldEmail, validate.FieldPhone}

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a contact",
	Long: `Add a contact.

Without --name and --email an interactive form is shown. The email address
cannot be changed later.`,
	Example: `  # Interactive form
  minicrm add

  # Non-interactive
  minicrm add --name "Ann Lee" --email ann@example.com --phone "+1 555 0100"`,
	Args: cobra.NoArgs,
	RunE: runAddCmd,
}

func runAddCmd(cmd *cobra.Command, _ []string) error {
	fields := validate.Fields{}
	for _, field := range formFields {
		v, err := cmd.Flags().GetString(string(field))
		if err != nil {
			return fmt.Errorf("get %s flag: %w", field, err)
		}
		fields.Set(field, v)
	}

	if !cmd.Flags().Changed("name") && !cmd.Flags().Changed("email") {
		if !isInteractive() {
			return errors.New("--name and --email are required when not running in a terminal")
		}
		var err error
		fields, err = newPrompter().Contact("Add contact", fields, false)
		if err != nil {
			return err
		}
	}

	ctx := cmd.Context()
	m, err := newMachine(ctx, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	defer m.Close()

	f := form.New(m)
	for _, field := range formFields {
		if err := f.SetField(field, fields.Get(field)); err != nil {
			return fmt.Errorf("set %s: %w", field, err)
		}
	}
	return submitForm(ctx, f, "Adding "+strings.TrimSpace(fields.Name))
}

// submitForm submits f behind a spinner and turns field errors into a
// single message.
func submitForm(ctx context.Context, f *form.Form, title string) error {
	err := spinner.Run(os.Stderr, title, func() error {
		return f.Submit(ctx)
	})

	var verr *form.ValidationError
	if errors.As(err, &verr) {
		msgs := make([]string, 0, len(verr.Errors))
		for _, field := range formFields {
			if msg, ok := verr.Errors[field]; ok {
				msgs = append(msgs, msg)
			}
		}
		return fmt.Errorf("invalid contact: %s", strings.Join(msgs, "; "))
	}
	return storeError(err)
}

func init() {
	rootCmd.AddCommand(addCmd)

	addCmd.Flags().String("name", "", "contact name")
	addCmd.Flags().String("email", "", "contact email address")
	addCmd.Flags().String("phone", "", "contact phone number")
}
