// Package prompt provides user interaction primitives using charmbracelet/huh.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/jmgilman/minicrm/internal/validate"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// Login is what the user typed at the login prompt.
type Login struct {
	Email    string
	Password string
}

// Prompter abstracts user interaction for testability.
//
//go:generate go run github.com/matryer/moq@latest -pkg mocks -out mocks/prompter.go . Prompter
type Prompter interface {
	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)

	// Login prompts for an email and password. email pre-fills the form.
	Login(email string) (Login, error)

	// Contact prompts for contact fields, starting from fields. In edit mode
	// the email is shown but cannot be changed.
	Contact(title string, fields validate.Fields, editing bool) (validate.Fields, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh for interactive forms.
type HuhPrompter struct{}

// New creates a new HuhPrompter for interactive terminal prompts.
func New() *HuhPrompter {
	return &HuhPrompter{}
}

// Confirm prompts for yes/no confirmation.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	var confirmed bool

	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		return false, wrap("confirm prompt", err)
	}

	return confirmed, nil
}

// Login prompts for account credentials.
func (p *HuhPrompter) Login(email string) (Login, error) {
	in := Login{Email: email}

	err := huh.NewForm(huh.NewGroup(
		huh.NewInput().
			Title("Email").
			Value(&in.Email).
			Validate(fieldValidator(validate.FieldEmail)),
		huh.NewInput().
			Title("Password").
			EchoMode(huh.EchoModePassword).
			Value(&in.Password).
			Validate(required("Password is required")),
	)).Run()
	if err != nil {
		return Login{}, wrap("login prompt", err)
	}

	in.Email = strings.TrimSpace(in.Email)
	return in, nil
}

// Contact prompts for contact fields. Validation runs as the user types
// using the same rules the form applies on submit.
func (p *HuhPrompter) Contact(title string, fields validate.Fields, editing bool) (validate.Fields, error) {
	out := fields
	if err := contactForm(title, &out, editing).Run(); err != nil {
		return validate.Fields{}, wrap("contact prompt", err)
	}
	return out, nil
}

func contactForm(title string, f *validate.Fields, editing bool) *huh.Form {
	email := huh.Field(huh.NewInput().
		Title("Email").
		Value(&f.Email).
		Validate(fieldValidator(validate.FieldEmail)))
	if editing {
		email = huh.NewNote().
			Title("Email").
			Description(f.Email + " (cannot be changed)")
	}

	return huh.NewForm(huh.NewGroup(
		huh.NewNote().Title(title),
		huh.NewInput().
			Title("Name").
			Value(&f.Name).
			CharLimit(100).
			Validate(fieldValidator(validate.FieldName)),
		email,
		huh.NewInput().
			Title("Phone").
			Placeholder("optional").
			Value(&f.Phone).
			Validate(fieldValidator(validate.FieldPhone)),
	))
}

func fieldValidator(field validate.Field) func(string) error {
	return func(s string) error {
		if msg := validate.Check(field, s); msg != "" {
			return errors.New(msg)
		}
		return nil
	}
}

func required(msg string) func(string) error {
	return func(s string) error {
		if strings.TrimSpace(s) == "" {
			return errors.New(msg)
		}
		return nil
	}
}

func wrap(op string, err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return ErrCanceled
	}
	return fmt.Errorf("%s: %w", op, err)
}
