// Package cmd contains all CLI commands for accountctl
package cmd

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	"github.com/alt-project/accountctl/internal/config"
	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/infrastructure/sessionstore"
	"github.com/alt-project/accountctl/internal/output"
)

// annotationRequiresSession marks commands that need a stored session.
const annotationRequiresSession = "accountctl/requires-session"

var (
	cfgFile     string
	verbose     bool
	quiet       bool
	colorMode   string
	accountURL  string
	sessionFile string
	cfg         *config.Config
	logger      *slog.Logger
	version     = "dev"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "accountctl",
	Short: "Account authentication CLI",
	Long: `accountctl logs you in to your account, signs you up and tells you who
you are, keeping the session between invocations.

Example usage:
  accountctl login                       # Prompt for email and password
  accountctl login -e me@mycompany.com   # Prompt for the password only
  accountctl signup                      # Create an account and log in
  accountctl whoami                      # Show username and email
  accountctl logout                      # End the session`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := initConfig(); err != nil {
			return err
		}
		if requiresSession(cmd) {
			return checkSession()
		}
		return nil
	},
}

// Execute runs the root command and flushes pending notifications.
// Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	err := rootCmd.ExecuteContext(ctx)
	closeNotifier()
	return err
}

// SetVersion sets the version string for the CLI
func SetVersion(v string) {
	version = v
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is .accountctl.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().StringVar(&colorMode, "color", "auto", "color output: auto, always, or never")
	rootCmd.PersistentFlags().StringVar(&accountURL, "account-url", "", "account service URL (overrides account.url)")
	rootCmd.PersistentFlags().StringVar(&sessionFile, "session-file", "", "session file (overrides session.file)")

	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	rootCmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return &output.CLIError{
			Summary:    err.Error(),
			Suggestion: fmt.Sprintf("Run '%s --help' for usage", c.CommandPath()),
			ExitCode:   output.ExitUsageError,
			Err:        err,
		}
	})
}

// initConfig reads in config file and ENV variables if set.
func initConfig() error {
	var err error

	logger = newLogger(slog.LevelInfo, "text")

	if _, err := output.ParseColorMode(colorMode); err != nil {
		return &output.CLIError{
			Summary:  err.Error(),
			ExitCode: output.ExitUsageError,
			Err:      err,
		}
	}

	cfg, err = config.Load(cfgFile, accountURL)
	if err != nil {
		return &output.CLIError{
			Summary:    "invalid configuration",
			Detail:     err.Error(),
			Suggestion: "Check .accountctl.yaml syntax or use --config flag",
			ExitCode:   output.ExitConfigError,
			Err:        err,
		}
	}

	level := slog.LevelInfo
	switch {
	case verbose:
		level = slog.LevelDebug
	case cfg.Logging.Level == "debug":
		level = slog.LevelDebug
	case cfg.Logging.Level == "warn":
		level = slog.LevelWarn
	case cfg.Logging.Level == "error":
		level = slog.LevelError
	}
	logger = newLogger(level, cfg.Logging.Format)

	logger.Debug("configuration loaded",
		"account_url", cfg.Account.URL,
		"session_file", sessionPath(),
		"events_enabled", cfg.Events.Enabled,
	)

	return nil
}

func newLogger(level slog.Level, format string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: level}
	if format == "json" {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// newPrinter builds a printer from the global flags and config, writing
// to the command's streams.
func newPrinter(cmd *cobra.Command) *output.Printer {
	mode, _ := output.ParseColorMode(colorMode)
	configColors := true
	if cfg != nil {
		configColors = cfg.Output.Colors
	}
	return output.NewPrinterWithOptions(output.PrinterOptions{
		ColorMode:    mode,
		ConfigColors: configColors,
		Quiet:        quiet,
		Out:          cmd.OutOrStdout(),
		Err:          cmd.ErrOrStderr(),
	})
}

// sessionPath resolves the session file from --session-file, then
// session.file, then the default location.
func sessionPath() string {
	if sessionFile != "" {
		return sessionFile
	}
	if cfg != nil && cfg.Session.File != "" {
		return cfg.Session.File
	}
	return sessionstore.DefaultPath()
}

func requiresSession(cmd *cobra.Command) bool {
	return cmd.Annotations[annotationRequiresSession] == "true"
}

func checkSession() error {
	store := sessionstore.NewFileStore(sessionPath())
	if _, err := store.Load(); err != nil {
		if errors.Is(err, sessionstore.ErrNoSession) {
			return fmt.Errorf("%w: no session stored at %s", domain.ErrNotLoggedIn, store.Path())
		}
		return fmt.Errorf("reading session: %w", err)
	}
	return nil
}
