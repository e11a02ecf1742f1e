package usecase

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/alt-project/accountctl/internal/domain"
)

// Whoami reads the identity bound to the session and renders it.
// Both reads run concurrently; either failing fails the query.
func (o *Orchestrator) Whoami(ctx context.Context) (domain.Identity, error) {
	var identity domain.Identity

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		username, err := o.account.CurrentIdentity(gctx)
		if err != nil {
			return err
		}
		identity.Username = username
		return nil
	})

	g.Go(func() error {
		email, err := o.account.CurrentEmail(gctx)
		if err != nil {
			return err
		}
		identity.Email = email
		return nil
	})

	if err := g.Wait(); err != nil {
		return domain.Identity{}, err
	}

	err := o.prompter.Render("Account information", []domain.Row{
		{Label: "username", Value: identity.Username},
		{Label: "email", Value: identity.Email},
	})
	if err != nil {
		return domain.Identity{}, err
	}
	return identity, nil
}
