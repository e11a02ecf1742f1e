package cmd

import (
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/alt-project/accountctl/internal/infrastructure/sessionstore"
	"github.com/alt-project/accountctl/internal/output"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	Long: `Display the current accountctl configuration.

Examples:
  accountctl config                # Show all config
  accountctl config --path         # Show config and session file paths
  accountctl config --json         # Output as JSON`,
	Args: cobra.NoArgs,
	RunE: runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)

	configCmd.Flags().Bool("path", false, "show config and session file paths")
	configCmd.Flags().Bool("json", false, "output as JSON")
}

func runConfig(cmd *cobra.Command, args []string) error {
	printer := newPrinter(cmd)

	showPath, _ := cmd.Flags().GetBool("path")
	jsonOutput, _ := cmd.Flags().GetBool("json")

	if showPath {
		if cfgFile == "" {
			printer.Print("Config file:  (searching .accountctl.yaml in . and $HOME/.config/accountctl)")
		} else {
			printer.Print("Config file:  %s", printer.Bold(cfgFile))
		}
		printer.Print("Session file: %s", printer.Bold(sessionPath()))
		return nil
	}

	if jsonOutput {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(cfg)
	}

	printer.Header("Current Configuration")

	table := output.NewTable(cmd.OutOrStdout(), []string{"KEY", "VALUE"}, quiet)
	table.AddRow([]string{"account.url", cfg.Account.URL})
	table.AddRow([]string{"account.timeout", cfg.Account.Timeout.String()})
	table.AddRow([]string{"session.file", sessionPath()})
	table.AddRow([]string{"events.enabled", strconv.FormatBool(cfg.Events.Enabled)})
	table.AddRow([]string{"events.endpoint", cfg.Events.Endpoint})
	table.AddRow([]string{"events.buffer_size", strconv.Itoa(cfg.Events.BufferSize)})
	table.AddRow([]string{"events.flush_timeout", cfg.Events.FlushTimeout.String()})
	table.AddRow([]string{"events.rate_limit", strconv.FormatFloat(cfg.Events.RateLimit, 'g', -1, 64)})
	table.AddRow([]string{"prompt.max_attempts", strconv.Itoa(cfg.Prompt.MaxAttempts)})
	table.AddRow([]string{"logging.level", cfg.Logging.Level})
	table.AddRow([]string{"logging.format", cfg.Logging.Format})
	table.AddRow([]string{"output.colors", strconv.FormatBool(cfg.Output.Colors)})
	table.Render()

	status := "anonymous"
	if _, err := sessionstore.NewFileStore(sessionPath()).Load(); err == nil {
		status = "authenticated"
	}
	if !printer.IsQuiet() {
		fmt.Fprintln(cmd.OutOrStdout())
	}
	printer.Info("Session: %s", printer.StatusBadge(status))
	printer.PrintHints("config")

	return nil
}
