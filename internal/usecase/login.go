package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/alt-project/accountctl/internal/domain"
)

// LoginState is the position of a login attempt in the two-factor gate.
type LoginState int

const (
	// StateAwaitingPrimary means no session exists yet.
	StateAwaitingPrimary LoginState = iota
	// StateAwaitingChallenge means a session exists but is not yet trusted.
	StateAwaitingChallenge
	// StateAuthenticated means the session passed the two-factor gate.
	StateAuthenticated
)

func (s LoginState) String() string {
	switch s {
	case StateAwaitingPrimary:
		return "awaiting_primary"
	case StateAwaitingChallenge:
		return "awaiting_challenge"
	case StateAuthenticated:
		return "authenticated"
	default:
		return fmt.Sprintf("LoginState(%d)", int(s))
	}
}

// loginFlow drives one login attempt. A flow that leaves
// StateAwaitingChallenge through a failure always compensates first.
type loginFlow struct {
	o     *Orchestrator
	state LoginState
}

// Login authenticates with overrides pre-filling any supplied field and
// returns the identity bound to the new session.
func (o *Orchestrator) Login(ctx context.Context, overrides domain.Credentials) (string, error) {
	f := &loginFlow{o: o, state: StateAwaitingPrimary}

	if err := f.primary(ctx, overrides); err != nil {
		return "", err
	}
	if err := f.challenge(ctx); err != nil {
		return "", err
	}

	username, err := o.account.CurrentIdentity(ctx)
	if err != nil {
		return "", err
	}

	o.logger.Info("login completed", "username", username)
	o.notify(domain.EventUserLogin)
	return username, nil
}

func (f *loginFlow) transition(to LoginState) {
	f.o.logger.Debug("login state transition",
		"from", f.state.String(),
		"to", to.String())
	f.state = to
}

// primary collects and validates credentials, then opens a session.
func (f *loginFlow) primary(ctx context.Context, overrides domain.Credentials) error {
	values, err := f.o.prompter.Collect(ctx, credentialFields(f.o.validator), map[string]string{
		"email":    overrides.Email,
		"password": overrides.Password,
	})
	if err != nil {
		return err
	}

	creds := domain.Credentials{Email: values["email"], Password: values["password"]}
	if err := f.o.validator.Struct(creds); err != nil {
		return err
	}

	if err := f.o.account.Login(ctx, creds); err != nil {
		return err
	}

	f.transition(StateAwaitingChallenge)
	return nil
}

// challenge resolves the two-factor gate. Any failure here rolls the
// session back before returning.
func (f *loginFlow) challenge(ctx context.Context) error {
	passed, err := f.o.account.IsTwoFactorPassed(ctx)
	if err != nil {
		return f.compensate(ctx, err)
	}
	if passed {
		f.transition(StateAuthenticated)
		return nil
	}

	values, err := f.o.prompter.Collect(ctx, []domain.Field{challengeField}, nil)
	if err != nil {
		return f.compensate(ctx, err)
	}

	answer := domain.TwoFactorChallenge{Code: values["code"]}
	if err := f.o.account.SubmitTwoFactorCode(ctx, answer.Code); err != nil {
		f.o.logger.Debug("two-factor code rejected", "error", err)
		return f.compensate(ctx, domain.ErrInvalidTwoFactorCode)
	}

	f.transition(StateAuthenticated)
	return nil
}

// compensate destroys the partially authenticated session and returns
// cause. A failing logout is logged and never replaces cause.
func (f *loginFlow) compensate(ctx context.Context, cause error) error {
	if err := f.o.account.Logout(context.WithoutCancel(ctx)); err != nil {
		f.o.logger.Warn("compensating logout failed",
			slog.String("error", err.Error()))
	}
	f.transition(StateAwaitingPrimary)
	return cause
}
