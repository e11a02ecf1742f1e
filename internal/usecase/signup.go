package usecase

import (
	"context"

	"github.com/alt-project/accountctl/internal/domain"
)

// Signup registers a new account and logs in with the token the
// registration returns. Registration alone does not open a session.
func (o *Orchestrator) Signup(ctx context.Context, overrides domain.Registration) error {
	values, err := o.prompter.Collect(ctx, registrationFields(o.validator), map[string]string{
		"email":    overrides.Email,
		"username": overrides.Username,
		"password": overrides.Password,
	})
	if err != nil {
		return err
	}

	reg := domain.Registration{
		Email:    values["email"],
		Username: values["username"],
		Password: values["password"],
	}
	if err := o.validator.Struct(reg); err != nil {
		return err
	}

	token, err := o.account.RegisterAccount(ctx, reg)
	if err != nil {
		return err
	}

	if err := o.account.LoginWithToken(ctx, token); err != nil {
		return err
	}

	o.logger.Info("signup completed", "username", reg.Username)
	o.notify(domain.EventUserSignup)
	return nil
}
