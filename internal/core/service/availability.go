package service

import (
	"context"
	"errors"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// Availability runs the advisory email and barcode uniqueness checks. They
// race with concurrent writes; the unique indexes behind AccountRepository
// remain the real guarantee.
type Availability struct {
	accounts ports.AccountRepository
}

func NewAvailability(accounts ports.AccountRepository) *Availability {
	return &Availability{accounts: accounts}
}

// IsEmailAvailable reports whether no account other than exceptID uses email.
func (a *Availability) IsEmailAvailable(ctx context.Context, email, exceptID string) (bool, error) {
	found, err := a.accounts.FindByEmail(ctx, email)
	return available(found, err, exceptID)
}

// IsBarcodeAvailable reports whether no account other than exceptID uses barcode.
func (a *Availability) IsBarcodeAvailable(ctx context.Context, barcode, exceptID string) (bool, error) {
	found, err := a.accounts.FindByBarcode(ctx, barcode)
	return available(found, err, exceptID)
}

// Check rejects a change whose email or barcode already belongs to another account.
func (a *Availability) Check(ctx context.Context, change domain.AccountChange, exceptID string) error {
	if change.Email != nil {
		ok, err := a.IsEmailAvailable(ctx, *change.Email, exceptID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrEmailTaken
		}
	}
	if change.Barcode != nil && *change.Barcode != "" {
		ok, err := a.IsBarcodeAvailable(ctx, *change.Barcode, exceptID)
		if err != nil {
			return err
		}
		if !ok {
			return domain.ErrBarcodeTaken
		}
	}
	return nil
}

// available treats a lookup miss as available and a match as taken, unless
// the match is the account being updated.
func available(found *domain.Account, err error, exceptID string) (bool, error) {
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return true, nil
		}
		return false, err
	}
	return exceptID != "" && found.ID == exceptID, nil
}
