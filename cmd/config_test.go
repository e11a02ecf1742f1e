package cmd

import (
	"strings"
	"testing"
)

func setupConfigTest(t *testing.T) string {
	t.Helper()
	server := setupCLITest(t)
	configCmd.Flags().Set("path", "false")
	configCmd.Flags().Set("json", "false")
	return server.URL
}

func TestConfig_Default(t *testing.T) {
	url := setupConfigTest(t)

	res := runCLI(t, "", "config")
	if res.err != nil {
		t.Fatalf("config command failed: %v", res.err)
	}

	for _, want := range []string{"account.url", url, "prompt.max_attempts", "anonymous"} {
		if !strings.Contains(res.stdout, want) {
			t.Errorf("config output missing %q:\n%s", want, res.stdout)
		}
	}
}

func TestConfig_ShowsAuthenticatedSession(t *testing.T) {
	url := setupConfigTest(t)
	storeSession(t, "ory_st_stored", url)

	res := runCLI(t, "", "config")
	if res.err != nil {
		t.Fatalf("config command failed: %v", res.err)
	}

	if !strings.Contains(res.stdout, "[authenticated]") {
		t.Errorf("expected authenticated badge, got:\n%s", res.stdout)
	}
}

func TestConfig_JSON(t *testing.T) {
	url := setupConfigTest(t)

	res := runCLI(t, "", "config", "--json")
	if res.err != nil {
		t.Fatalf("config --json failed: %v", res.err)
	}

	if !strings.Contains(res.stdout, url) {
		t.Errorf("expected account URL in JSON output, got:\n%s", res.stdout)
	}
}

func TestConfig_Path(t *testing.T) {
	setupConfigTest(t)

	res := runCLI(t, "", "config", "--path")
	if res.err != nil {
		t.Fatalf("config --path failed: %v", res.err)
	}

	if !strings.Contains(res.stdout, testSessionFile()) {
		t.Errorf("expected session file path, got:\n%s", res.stdout)
	}
}
