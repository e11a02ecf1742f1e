package cmd

import (
	"github.com/spf13/cobra"

	"github.com/alt-project/accountctl/internal/domain"
)

var (
	loginEmail    string
	loginPassword string
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in to your account",
	Long: `Log in to your account with email and password.

Fields given as flags are not prompted for. When the account has two-factor
authentication enabled you are asked for the code; a wrong code ends the
session that was just opened.

Examples:
  accountctl login
  accountctl login --email me@mycompany.com
  accountctl login -e me@mycompany.com -p s3cret`,
	Args: cobra.NoArgs,
	RunE: runLogin,
}

func init() {
	rootCmd.AddCommand(loginCmd)

	loginCmd.Flags().StringVarP(&loginEmail, "email", "e", "", "account email")
	loginCmd.Flags().StringVarP(&loginEmail, "user", "u", "", "account email (alias of --email)")
	loginCmd.Flags().StringVarP(&loginPassword, "password", "p", "", "account password (prompted when omitted)")
	_ = loginCmd.Flags().MarkHidden("user")
}

func runLogin(cmd *cobra.Command, args []string) error {
	a := newApp(cmd)

	username, err := a.orchestrator.Login(cmd.Context(), domain.Credentials{
		Email:    loginEmail,
		Password: loginPassword,
	})
	if err != nil {
		return err
	}

	a.printer.Success("Successfully logged in as: %s", username)
	a.printer.PrintHints("login")
	return nil
}
