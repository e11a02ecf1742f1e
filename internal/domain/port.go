package domain

import "context"

// AccountService is the remote account service as seen by the CLI.
// The session it creates is owned by the implementation.
type AccountService interface {
	Login(ctx context.Context, creds Credentials) error
	RegisterAccount(ctx context.Context, reg Registration) (string, error)
	LoginWithToken(ctx context.Context, token string) error
	Logout(ctx context.Context) error
	IsTwoFactorPassed(ctx context.Context) (bool, error)
	SubmitTwoFactorCode(ctx context.Context, code string) error
	CurrentIdentity(ctx context.Context) (string, error)
	CurrentEmail(ctx context.Context) (string, error)
	HasSession() bool
}

// Prompter collects operator input and renders records.
// Non-empty overrides suppress the prompt of the matching field.
type Prompter interface {
	Collect(ctx context.Context, fields []Field, overrides map[string]string) (map[string]string, error)
	Render(title string, rows []Row) error
}

// Notifier emits fire-and-forget notifications.
type Notifier interface {
	Notify(event string)
}
