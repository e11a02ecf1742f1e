package output

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestCLIError_Error(t *testing.T) {
	err := &CLIError{
		Summary:    "something failed",
		Detail:     "because of reasons",
		Suggestion: "try again",
		ExitCode:   ExitGeneral,
	}

	if err.Error() != "something failed" {
		t.Errorf("Error() = %q, want %q", err.Error(), "something failed")
	}
}

func TestCLIError_Unwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := &CLIError{Summary: "account service unavailable", Err: cause}

	if !errors.Is(err, cause) {
		t.Error("errors.Is should reach the wrapped cause")
	}
}

func TestFormatError_AllFields(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode:    ColorNever,
		ConfigColors: false,
	})
	p.err = &stderr

	cliErr := &CLIError{
		Summary:    "not logged in",
		Detail:     "no session stored at /tmp/session.json",
		Suggestion: "Run 'accountctl login' first",
		ExitCode:   ExitAuthError,
	}

	p.FormatError(cliErr)

	out := stderr.String()
	if !strings.Contains(out, "not logged in") {
		t.Errorf("missing summary in output: %q", out)
	}
	if !strings.Contains(out, "no session stored at /tmp/session.json") {
		t.Errorf("missing detail in output: %q", out)
	}
	if !strings.Contains(out, "Run 'accountctl login' first") {
		t.Errorf("missing suggestion in output: %q", out)
	}
}

func TestFormatError_NoDetail(t *testing.T) {
	var stderr bytes.Buffer
	p := NewPrinterWithOptions(PrinterOptions{
		ColorMode:    ColorNever,
		ConfigColors: false,
	})
	p.err = &stderr

	cliErr := &CLIError{
		Summary:    "config file not found",
		Suggestion: "Check .accountctl.yaml syntax or use --config flag",
		ExitCode:   ExitConfigError,
	}

	p.FormatError(cliErr)

	out := stderr.String()
	if !strings.Contains(out, "config file not found") {
		t.Errorf("missing summary in output: %q", out)
	}
	if strings.Contains(out, "Cause:") {
		t.Errorf("should not contain Cause line when Detail is empty: %q", out)
	}
	if !strings.Contains(out, "Check .accountctl.yaml syntax or use --config flag") {
		t.Errorf("missing suggestion in output: %q", out)
	}
}

func TestExitCodes(t *testing.T) {
	// Verify exit code constants have expected values
	if ExitSuccess != 0 {
		t.Errorf("ExitSuccess = %d, want 0", ExitSuccess)
	}
	if ExitGeneral != 1 {
		t.Errorf("ExitGeneral = %d, want 1", ExitGeneral)
	}
	if ExitUsageError != 2 {
		t.Errorf("ExitUsageError = %d, want 2", ExitUsageError)
	}
	if ExitAuthError != 3 {
		t.Errorf("ExitAuthError = %d, want 3", ExitAuthError)
	}
	if ExitUnavailable != 5 {
		t.Errorf("ExitUnavailable = %d, want 5", ExitUnavailable)
	}
}
