package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/term"

	"github.com/jmgilman/minicrm/internal/config"
	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/credentials"
	"github.com/jmgilman/minicrm/internal/listview"
	"github.com/jmgilman/minicrm/internal/notify"
	"github.com/jmgilman/minicrm/internal/prompt"
	"github.com/jmgilman/minicrm/internal/remote"
	"github.com/jmgilman/minicrm/internal/slogger"
)

// Environment variables read outside the config file.
const (
	// envToken overrides the stored API token.
	envToken = "MINICRM_TOKEN"

	// envKeyringBackend forces a keyring backend, e.g. "file".
	envKeyringBackend = "MINICRM_KEYRING_BACKEND"

	// envKeyringDir is the directory for the file keyring backend.
	envKeyringDir = "MINICRM_KEYRING_DIR"

	// envKeyringPassword unlocks the file keyring backend.
	envKeyringPassword = "MINICRM_KEYRING_PASSWORD"
)

// newPrompter is swapped in tests.
var newPrompter = func() prompt.Prompter { return prompt.New() }

func requireConfig(ctx context.Context) (*config.Config, error) {
	cfg := ConfigFromContext(ctx)
	if cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}

func defaultDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, config.DefaultDataDir), nil
}

// openCredentials opens the keyring holding the API token.
func openCredentials() (credentials.Storage, error) {
	dir := os.Getenv(envKeyringDir)
	if dir == "" {
		dataDir, err := defaultDataDir()
		if err != nil {
			return nil, err
		}
		dir = filepath.Join(dataDir, "keyring")
	}

	storage, err := credentials.OpenKeyring(credentials.KeyringConfig{
		Backend:      os.Getenv(envKeyringBackend),
		FileDir:      dir,
		FilePassword: os.Getenv(envKeyringPassword),
	})
	if err != nil {
		return nil, fmt.Errorf("initialize credential storage: %w", err)
	}
	return storage, nil
}

// tokenSource returns the API token from MINICRM_TOKEN, then the keyring.
// Having no token is not an error; the server decides whether it needs one.
func tokenSource() remote.TokenFunc {
	open := sync.OnceValues(openCredentials)
	return func() (string, error) {
		if tok := os.Getenv(envToken); tok != "" {
			return tok, nil
		}
		storage, err := open()
		if err != nil {
			return "", err
		}
		tok, err := credentials.Load(storage)
		if errors.Is(err, credentials.ErrNotFound) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("load credential: %w", err)
		}
		return tok.AccessToken, nil
	}
}

// newClient builds an API client. token may be nil to send no token.
func newClient(ctx context.Context, token remote.TokenFunc) (remote.Client, error) {
	cfg, err := requireConfig(ctx)
	if err != nil {
		return nil, err
	}

	client, err := remote.NewClient(remote.ClientConfig{
		BaseURL:  cfg.API.URL,
		Timeout:  cfg.API.Timeout,
		PageSize: cfg.API.PageSize,
		Insecure: cfg.API.Insecure,
		Token:    token,
	})
	if err != nil {
		return nil, fmt.Errorf("create api client: %w", err)
	}
	return client, nil
}

// cliNotifier prints success messages to out. Failures are logged at debug
// level only: the command returns them as its error.
func cliNotifier(ctx context.Context, out io.Writer) notify.Notifier {
	printer := notify.NewPrinter(out)
	logger := slogger.L(ctx)
	return notify.NotifierFunc(func(message string, kind notify.Kind) {
		if kind == notify.KindError {
			logger.Debug("operation failed", "message", message)
			return
		}
		printer.Notify(message, kind)
	})
}

// newMachine builds a list machine for a one-shot command.
func newMachine(ctx context.Context, out io.Writer) (*listview.Machine, error) {
	client, err := newClient(ctx, tokenSource())
	if err != nil {
		return nil, err
	}
	return listview.New(client, cliNotifier(ctx, out), listview.WithLogger(slogger.L(ctx))), nil
}

// findContact loads the full list and returns the contact with id.
func findContact(ctx context.Context, m *listview.Machine, id contact.ID) (contact.Contact, error) {
	if err := m.Reload(ctx); err != nil {
		return contact.Contact{}, storeError(err)
	}
	contacts := m.Snapshot().Contacts
	i := contact.IndexOf(contacts, id)
	if i < 0 {
		return contact.Contact{}, fmt.Errorf("contact %s: %w", id, contact.ErrNotFound)
	}
	return contacts[i], nil
}

// storeError points the user at login when the API refused the token.
func storeError(err error) error {
	if errors.Is(err, contact.ErrUnauthorized) {
		return fmt.Errorf("%w (run 'minicrm login')", err)
	}
	return err
}

// isInteractive reports whether prompts can be shown. Swapped in tests.
var isInteractive = func() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
