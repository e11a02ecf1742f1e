package cmd

import (
	"errors"
	"io"
	"os"
	"strings"

	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/output"
	"github.com/alt-project/accountctl/internal/validation"
)

// ReportError prints err as a structured CLI error on stderr and
// returns the process exit code for it.
func ReportError(err error) int {
	cliErr := toCLIError(err)

	mode, _ := output.ParseColorMode(colorMode)
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	printer := output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Err:          os.Stderr,
	})
	printer.FormatError(cliErr)

	return cliErr.ExitCode
}

// toCLIError maps domain errors to user-facing errors with exit codes.
func toCLIError(err error) *output.CLIError {
	var cliErr *output.CLIError
	if errors.As(err, &cliErr) {
		return cliErr
	}

	var validationErr *validation.Error
	switch {
	case errors.As(err, &validationErr):
		return &output.CLIError{
			Summary:  "invalid input",
			Detail:   validationErr.Error(),
			ExitCode: output.ExitUsageError,
			Err:      err,
		}
	case errors.Is(err, domain.ErrNotLoggedIn):
		return &output.CLIError{
			Summary:    "not logged in",
			Detail:     detail(err, domain.ErrNotLoggedIn),
			Suggestion: "Run 'accountctl login' first",
			ExitCode:   output.ExitAuthError,
			Err:        err,
		}
	case errors.Is(err, domain.ErrSessionInactive):
		return &output.CLIError{
			Summary:    "session expired",
			Detail:     detail(err, domain.ErrSessionInactive),
			Suggestion: "Run 'accountctl login' again",
			ExitCode:   output.ExitAuthError,
			Err:        err,
		}
	case errors.Is(err, domain.ErrInvalidTwoFactorCode):
		return &output.CLIError{
			Summary:    domain.ErrInvalidTwoFactorCode.Error(),
			Detail:     detail(err, domain.ErrInvalidTwoFactorCode),
			Suggestion: "Check your authenticator app and run 'accountctl login' again",
			ExitCode:   output.ExitAuthError,
			Err:        err,
		}
	case errors.Is(err, domain.ErrUnavailable):
		return &output.CLIError{
			Summary:    domain.ErrUnavailable.Error(),
			Detail:     detail(err, domain.ErrUnavailable),
			Suggestion: "Check account.url (or --account-url) and that the service is reachable",
			ExitCode:   output.ExitUnavailable,
			Err:        err,
		}
	case errors.Is(err, domain.ErrAuthentication):
		return authError(err, domain.ErrAuthentication)
	case errors.Is(err, domain.ErrRegistration):
		return authError(err, domain.ErrRegistration)
	case errors.Is(err, domain.ErrTokenLogin):
		return authError(err, domain.ErrTokenLogin)
	case errors.Is(err, io.EOF):
		return &output.CLIError{
			Summary:  "input aborted",
			ExitCode: output.ExitGeneral,
			Err:      err,
		}
	}

	return &output.CLIError{
		Summary:  err.Error(),
		ExitCode: output.ExitGeneral,
		Err:      err,
	}
}

func authError(err, kind error) *output.CLIError {
	return &output.CLIError{
		Summary:  kind.Error(),
		Detail:   detail(err, kind),
		ExitCode: output.ExitAuthError,
		Err:      err,
	}
}

// detail strips the sentinel prefix, leaving the service message.
func detail(err, sentinel error) string {
	msg := strings.TrimPrefix(err.Error(), sentinel.Error())
	return strings.TrimPrefix(msg, ": ")
}
