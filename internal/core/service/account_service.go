package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/lifecycle"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

type AccountService struct {
	accounts     ports.AccountRepository
	events       ports.EventRepository
	gate         *lifecycle.Gate
	availability *Availability
	audit        ports.AuditRecorder
	logger       zerolog.Logger
}

func NewAccountService(
	accounts ports.AccountRepository,
	events ports.EventRepository,
	gate *lifecycle.Gate,
	audit ports.AuditRecorder,
	logger zerolog.Logger,
) *AccountService {
	return &AccountService{
		accounts:     accounts,
		events:       events,
		gate:         gate,
		availability: NewAvailability(accounts),
		audit:        audit,
		logger:       logger,
	}
}

// GetAccount returns the account with its role and the requested relations.
func (s *AccountService) GetAccount(ctx context.Context, id string, embeds ports.AccountEmbeds) (*ports.AccountDetail, error) {
	account, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	detail := &ports.AccountDetail{Account: account}
	if embeds.AttendedEvents {
		if detail.AttendedEvents, err = s.events.ListAttendedBy(ctx, id); err != nil {
			return nil, err
		}
	}
	if embeds.ChairedEvents {
		if detail.ChairedEvents, err = s.events.ListChairedBy(ctx, id); err != nil {
			return nil, err
		}
	}
	return detail, nil
}

// ListAccounts returns one page of accounts. Limit defaults to 20 and is
// capped at 100.
func (s *AccountService) ListAccounts(ctx context.Context, filter ports.AccountFilter) (*ports.ListAccountsResult, error) {
	if filter.Limit <= 0 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}

	items, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := int((total + int64(filter.Limit) - 1) / int64(filter.Limit))
	return &ports.ListAccountsResult{
		Items:      items,
		Total:      total,
		Page:       filter.Page,
		Limit:      filter.Limit,
		TotalPages: totalPages,
	}, nil
}

// UpdateAccount applies a partial update. The actor must own the account or
// be an admin, and only admins may change roles. The actor's role is read
// from storage, not from the token. Any failure before the write leaves the
// stored account untouched.
func (s *AccountService) UpdateAccount(ctx context.Context, actor ports.Actor, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
	actor, err := currentActor(ctx, s.accounts, actor)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() && actor.AccountID != id {
		return nil, domain.ErrForbidden
	}
	if in.Role != nil && !actor.IsAdmin() {
		return nil, domain.ErrRoleChangeDenied
	}

	current, err := s.accounts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	change := toChange(in, current)
	if err := s.availability.Check(ctx, change, id); err != nil {
		return nil, err
	}

	gated, err := s.gate.Apply(ctx, change, current)
	if err != nil {
		s.logger.Debug().Err(err).Str("account_id", id).Msg("account update rejected")
		return nil, err
	}

	updated, err := s.accounts.Update(ctx, id, gated)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ports.AuditEntry{
		Action:    ports.AuditAccountUpdated,
		AccountID: id,
		ActorID:   actor.AccountID,
		Email:     updated.Email,
		Fields:    change.Fields(),
	})
	s.logger.Info().Str("account_id", id).Str("actor_id", actor.AccountID).Strs("fields", change.Fields()).Msg("account updated")

	return updated, nil
}

// DeleteAccount removes an account. Admin only.
func (s *AccountService) DeleteAccount(ctx context.Context, actor ports.Actor, id string) error {
	actor, err := currentActor(ctx, s.accounts, actor)
	if err != nil {
		return err
	}
	if !actor.IsAdmin() {
		return domain.ErrForbidden
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}

	s.audit.Record(ports.AuditEntry{Action: ports.AuditAccountDeleted, AccountID: id, ActorID: actor.AccountID})
	s.logger.Info().Str("account_id", id).Str("actor_id", actor.AccountID).Msg("account deleted")
	return nil
}

// toChange maps update input to a pending change. full_name only fills the
// name parts not given explicitly. Email and barcode are dropped when they
// equal the stored values so the availability check does not trip on them.
func toChange(in ports.UpdateAccountInput, current *domain.Account) domain.AccountChange {
	change := domain.AccountChange{
		Password:  in.Password,
		FirstName: in.FirstName,
		LastName:  in.LastName,
		House:     in.House,
		RoleName:  in.Role,
	}
	if in.FullName != nil {
		first, last := domain.SplitFullName(*in.FullName)
		if change.FirstName == nil {
			change.FirstName = &first
		}
		if change.LastName == nil {
			change.LastName = &last
		}
	}
	if in.Email != nil && *in.Email != current.Email {
		change.Email = in.Email
	}
	if in.Barcode != nil && *in.Barcode != current.Barcode {
		change.Barcode = in.Barcode
	}
	return change
}
