package cmd

import (
	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Log out of your account",
	Long: `End the current session on the account service and remove the
locally stored session.

Examples:
  accountctl logout`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{annotationRequiresSession: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		a := newApp(cmd)

		if err := a.orchestrator.Logout(cmd.Context()); err != nil {
			return err
		}

		a.printer.Success("Logged out")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}
