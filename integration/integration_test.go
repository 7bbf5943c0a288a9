//go:build integration

// Package integration runs the minicrm CLI end to end against a fake API
// using testscript.
package integration

import (
	"context"
	"fmt"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/rogpeppe/go-internal/testscript"

	"github.com/jmgilman/minicrm/internal/cmd"
	"github.com/jmgilman/minicrm/internal/contact"
	"github.com/jmgilman/minicrm/internal/remote/remotetest"
)

const (
	testEmail    = "me@example.com"
	testPassword = "secret"
	serverKey    = "server"
)

// TestMain registers the CLI so scripts can exec it in-process.
func TestMain(m *testing.M) {
	os.Exit(testscript.RunMain(m, map[string]func() int{
		"minicrm": cmd.Main,
	}))
}

// TestScripts runs all testscript files in testdata/scripts.
func TestScripts(t *testing.T) {
	testscript.Run(t, testscript.Params{
		Dir:   "testdata/scripts",
		Setup: setupTestEnv,
		Cmds: map[string]func(ts *testscript.TestScript, neg bool, args []string){
			"seed":      cmdSeed,
			"fail_next": cmdFailNext,
			"contacts":  cmdContacts,
		},
	})
}

// setupTestEnv starts a fake API for the script and isolates HOME and the
// keyring. TOKEN holds a valid session token scripts can export as
// MINICRM_TOKEN to skip logging in.
func setupTestEnv(env *testscript.Env) error {
	fake := remotetest.NewServer(
		remotetest.WithAuth(),
		remotetest.WithUser(testEmail, testPassword),
	)
	srv := httptest.NewServer(fake)
	env.Defer(srv.Close)
	env.Values[serverKey] = fake

	token, err := fake.IssueToken(testEmail, time.Hour)
	if err != nil {
		return fmt.Errorf("issue token: %w", err)
	}

	home := filepath.Join(env.WorkDir, "home")
	if err := os.MkdirAll(home, 0o755); err != nil {
		return fmt.Errorf("create home: %w", err)
	}

	env.Setenv("HOME", home)
	env.Setenv("MINICRM_API_URL", srv.URL+"/api")
	env.Setenv("MINICRM_KEYRING_BACKEND", "file")
	env.Setenv("MINICRM_KEYRING_DIR", filepath.Join(home, "keyring"))
	env.Setenv("MINICRM_KEYRING_PASSWORD", "test")
	env.Setenv("TEST_EMAIL", testEmail)
	env.Setenv("TEST_PASSWORD", testPassword)
	env.Setenv("TOKEN", token)

	return nil
}

func server(ts *testscript.TestScript) *remotetest.Server {
	fake, ok := ts.Value(serverKey).(*remotetest.Server)
	if !ok {
		ts.Fatalf("no fake server in script environment")
	}
	return fake
}

// cmdSeed adds a contact directly to the fake API.
func cmdSeed(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("seed does not support negation")
	}
	if len(args) < 2 || len(args) > 3 {
		ts.Fatalf("usage: seed <name> <email> [phone]")
	}

	in := contact.CreateInput{Name: args[0], Email: args[1]}
	if len(args) == 3 {
		in.Phone = &args[2]
	}
	if _, err := server(ts).Store.Create(context.Background(), in); err != nil {
		ts.Fatalf("seed contact: %v", err)
	}
}

// cmdFailNext makes the next API request fail.
func cmdFailNext(ts *testscript.TestScript, neg bool, args []string) {
	if neg {
		ts.Fatalf("fail_next does not support negation")
	}
	if len(args) != 2 {
		ts.Fatalf("usage: fail_next <status> <detail>")
	}

	var status int
	if _, err := fmt.Sscanf(args[0], "%d", &status); err != nil {
		ts.Fatalf("invalid status: %s", args[0])
	}
	server(ts).FailNext(status, args[1])
}

// cmdContacts asserts how many contacts the fake API holds.
func cmdContacts(ts *testscript.TestScript, neg bool, args []string) {
	if len(args) != 1 {
		ts.Fatalf("usage: contacts <count>")
	}

	var want int
	if _, err := fmt.Sscanf(args[0], "%d", &want); err != nil {
		ts.Fatalf("invalid count: %s", args[0])
	}

	got := server(ts).Store.Len()
	if (got == want) == neg {
		ts.Fatalf("fake API holds %d contacts", got)
	}
}
