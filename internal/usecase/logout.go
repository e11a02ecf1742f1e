package usecase

import (
	"context"

	"github.com/alt-project/accountctl/internal/domain"
)

// Logout destroys the current session.
func (o *Orchestrator) Logout(ctx context.Context) error {
	if err := o.account.Logout(ctx); err != nil {
		return err
	}

	o.logger.Info("logout completed")
	o.notify(domain.EventUserLogout)
	return nil
}
