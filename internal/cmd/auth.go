package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmgilman/minicrm/internal/credentials"
	"github.com/jmgilman/minicrm/internal/prompt"
	"github.com/jmgilman/minicrm/internal/remote"
	"github.com/jmgilman/minicrm/internal/slogger"
	"github.com/jmgilman/minicrm/internal/spinner"
	"github.com/jmgilman/minicrm/internal/validate"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the contacts API",
	Long: `Sign in to the contacts API and store the access token in the system
keyring.

Set MINICRM_TOKEN to use a token without storing it.`,
	Example: `  # Interactive
  minicrm login

  # From a script
  echo "$PASSWORD" | minicrm login --email me@example.com --password-stdin`,
	Args: cobra.NoArgs,
	RunE: runLoginCmd,
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Remove the stored access token",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		storage, err := openCredentials()
		if err != nil {
			return err
		}
		if err := credentials.Clear(storage); err != nil {
			return fmt.Errorf("clear credential: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Logged out")
		return nil
	},
}

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Inspect authentication",
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show who is logged in and when the token expires",
	Args:  cobra.NoArgs,
	RunE:  runAuthStatusCmd,
}

func init() {
	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(authCmd)
	authCmd.AddCommand(authStatusCmd)

	loginCmd.Flags().String("email", "", "account email address")
	loginCmd.Flags().Bool("password-stdin", false, "read the password from stdin")
}

func runLoginCmd(cmd *cobra.Command, _ []string) error {
	email, err := cmd.Flags().GetString("email")
	if err != nil {
		return fmt.Errorf("get email flag: %w", err)
	}
	fromStdin, err := cmd.Flags().GetBool("password-stdin")
	if err != nil {
		return fmt.Errorf("get password-stdin flag: %w", err)
	}

	var in prompt.Login
	switch {
	case fromStdin:
		if email == "" {
			return errors.New("--email is required with --password-stdin")
		}
		password, err := readPassword(cmd.InOrStdin())
		if err != nil {
			return err
		}
		in = prompt.Login{Email: strings.TrimSpace(email), Password: password}
	case isInteractive():
		in, err = newPrompter().Login(email)
		if err != nil {
			return err
		}
	default:
		return errors.New("not running in a terminal: use --email with --password-stdin")
	}

	if msg := validate.Check(validate.FieldEmail, in.Email); msg != "" {
		return errors.New(msg)
	}

	ctx := cmd.Context()
	client, err := newClient(ctx, nil)
	if err != nil {
		return err
	}

	var tok remote.Token
	err = spinner.Run(os.Stderr, "Signing in", func() error {
		var loginErr error
		tok, loginErr = client.Login(ctx, in.Email, in.Password)
		return loginErr
	})
	if err != nil {
		return fmt.Errorf("login: %w", err)
	}

	storage, err := openCredentials()
	if err != nil {
		return err
	}
	err = credentials.Store(storage, credentials.Token{
		AccessToken: tok.AccessToken,
		TokenType:   tok.TokenType,
		Email:       in.Email,
		CreatedAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("store credential: %w", err)
	}

	slogger.L(ctx).Info("stored access token", "email", in.Email)
	fmt.Fprintf(cmd.OutOrStdout(), "Logged in as %s\n", in.Email)
	return nil
}

func readPassword(r io.Reader) (string, error) {
	line, err := bufio.NewReader(r).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", fmt.Errorf("read password: %w", err)
	}
	password := strings.TrimRight(line, "\r\n")
	if password == "" {
		return "", errors.New("empty password on stdin")
	}
	return password, nil
}

func runAuthStatusCmd(cmd *cobra.Command, _ []string) error {
	out := cmd.OutOrStdout()

	accessToken, who := os.Getenv(envToken), ""
	if accessToken == "" {
		storage, err := openCredentials()
		if err != nil {
			return err
		}
		tok, err := credentials.Load(storage)
		if errors.Is(err, credentials.ErrNotFound) {
			fmt.Fprintln(out, "Not logged in")
			return nil
		}
		if err != nil {
			return fmt.Errorf("load credential: %w", err)
		}
		accessToken, who = tok.AccessToken, tok.Email
	}

	claims, err := credentials.Inspect(accessToken)
	if err != nil {
		return err
	}
	if who == "" {
		who = claims.Subject
	}

	switch {
	case claims.Expired(time.Now()):
		fmt.Fprintf(out, "Session for %s expired at %s; run 'minicrm login'\n",
			who, claims.ExpiresAt.Local().Format(time.DateTime))
	case claims.ExpiresAt.IsZero():
		fmt.Fprintf(out, "Logged in as %s (no expiry)\n", who)
	default:
		fmt.Fprintf(out, "Logged in as %s (expires %s)\n",
			who, claims.ExpiresAt.Local().Format(time.DateTime))
	}
	return nil
}
