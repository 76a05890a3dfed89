package service

import (
	"context"
	"errors"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// currentActor reloads the caller's role from storage, so a demotion applies
// before the caller's token expires. A caller whose account is gone is
// forbidden.
func currentActor(ctx context.Context, accounts ports.AccountRepository, actor ports.Actor) (ports.Actor, error) {
	account, err := accounts.FindByID(ctx, actor.AccountID)
	if errors.Is(err, domain.ErrNotFound) {
		return ports.Actor{}, domain.ErrForbidden
	}
	if err != nil {
		return ports.Actor{}, err
	}
	if account.Role == nil {
		return ports.Actor{}, domain.ErrForbidden
	}
	return ports.Actor{AccountID: account.ID, Role: account.Role.Name}, nil
}
