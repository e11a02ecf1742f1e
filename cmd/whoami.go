package cmd

import (
	"github.com/spf13/cobra"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current username and email address",
	Long: `Show the username and email address of the logged in account.

Examples:
  accountctl whoami`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRequiresSession: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)

		_, err := a.orchestrator.Whoami(cmd.Context())
		return err
	},
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}
