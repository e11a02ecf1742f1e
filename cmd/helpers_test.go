package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alt-project/accountctl/internal/adapter/gateway/kratostest"
	"github.com/alt-project/accountctl/internal/infrastructure/sessionstore"
)

type cliResult struct {
	stdout string
	stderr string
	err    error
}

// setupCLITest points accountctl at a fresh fake Kratos server with an
// isolated home, working directory and session file.
func setupCLITest(t *testing.T) *kratostest.Server {
	t.Helper()

	server := kratostest.NewServer()
	t.Cleanup(server.Close)

	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())
	t.Setenv("ACCOUNTCTL_ACCOUNT_URL", server.URL)
	t.Setenv("ACCOUNTCTL_SESSION_FILE", filepath.Join(t.TempDir(), "session.json"))
	t.Setenv("ACCOUNTCTL_EVENTS_ENABLED", "false")

	// Reset flag-bound globals that persist between test runs
	cfgFile = ""
	verbose = false
	quiet = false
	colorMode = "never"
	accountURL = ""
	sessionFile = ""
	loginEmail = ""
	loginPassword = ""
	t.Cleanup(closeNotifier)

	return server
}

func runCLI(t *testing.T, stdin string, args ...string) cliResult {
	t.Helper()

	var stdout, stderr bytes.Buffer
	rootCmd.SetIn(strings.NewReader(stdin))
	rootCmd.SetOut(&stdout)
	rootCmd.SetErr(&stderr)
	rootCmd.SetArgs(args)

	err := rootCmd.Execute()
	return cliResult{stdout: stdout.String(), stderr: stderr.String(), err: err}
}

func testSessionFile() string {
	return os.Getenv("ACCOUNTCTL_SESSION_FILE")
}

func storeSession(t *testing.T, token, server string) {
	t.Helper()
	store := sessionstore.NewFileStore(testSessionFile())
	if err := store.Save(&sessionstore.Session{Token: token, Server: server}); err != nil {
		t.Fatalf("saving session: %v", err)
	}
}

func sessionStored() bool {
	_, err := sessionstore.NewFileStore(testSessionFile()).Load()
	return err == nil
}

func countCalls(calls []string, call string) int {
	n := 0
	for _, c := range calls {
		if c == call {
			n++
		}
	}
	return n
}
