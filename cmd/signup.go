package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/accountctl/internal/domain"
)

var signupCmd = &cobra.Command{
	Use:   "signup",
	Short: "Create an account",
	Long: `Create a new account. On success you are logged in to it.

Examples:
  $ accountctl signup
  Email: me@mycompany.com
  Username: johndoe
  Password: ***********

  $ accountctl whoami`,
	Args: cobra.NoArgs,
	RunE: runSignup,
}

func init() {
	rootCmd.AddCommand(signupCmd)
}

func runSignup(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)

	if err := a.orchestrator.Signup(cmd.Context(), domain.Registration{}); err != nil {
		return err
	}

	a.printer.Success("Account created, you are now logged in")
	a.printer.PrintHints("signup")
	return nil
}
