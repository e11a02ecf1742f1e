// Package usecase holds the authentication orchestrator: login, logout,
// signup and whoami against a domain.AccountService.
package usecase

import (
	"log/slog"

	"github.com/alt-project/accountctl/internal/domain"
	"github.com/alt-project/accountctl/internal/validation"
)

// Orchestrator sequences prompts and account service calls.
type Orchestrator struct {
	account   domain.AccountService
	prompter  domain.Prompter
	notifier  domain.Notifier
	validator *validation.Validator
	logger    *slog.Logger
}

// NewOrchestrator creates a new Orchestrator.
func NewOrchestrator(a domain.AccountService, p domain.Prompter, n domain.Notifier, l *slog.Logger) *Orchestrator {
	return &Orchestrator{
		account:   a,
		prompter:  p,
		notifier:  n,
		validator: validation.New(),
		logger:    l,
	}
}

// notify hands the event to the notifier without waiting on it.
func (o *Orchestrator) notify(event string) {
	if o.notifier == nil {
		return
	}
	o.notifier.Notify(event)
}

func credentialFields(v *validation.Validator) []domain.Field {
	return []domain.Field{
		{Name: "email", Message: "Email:", Validate: v.Email},
		{Name: "password", Message: "Password:", Secret: true},
	}
}

func registrationFields(v *validation.Validator) []domain.Field {
	return []domain.Field{
		{Name: "email", Message: "Email:", Validate: v.Email},
		{Name: "username", Message: "Username:", Validate: v.Username},
		{Name: "password", Message: "Password:", Secret: true, Validate: v.Password},
	}
}

var challengeField = domain.Field{Name: "code", Message: "Two factor auth challenge:"}
