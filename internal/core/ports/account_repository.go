package ports

import (
	"context"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// AccountFilter carries the optional exact-match filters for listing accounts.
type AccountFilter struct {
	Email     string
	FirstName string
	LastName  string
	House     string
	Page      int // 1-based
	Limit     int
}

// AccountRepository persists accounts. Implementations must enforce email and
// barcode uniqueness at the storage level and report violations as
// domain.ErrEmailTaken / domain.ErrBarcodeTaken.
type AccountRepository interface {
	FindByID(ctx context.Context, id string) (*domain.Account, error)
	FindByEmail(ctx context.Context, email string) (*domain.Account, error)
	FindByBarcode(ctx context.Context, barcode string) (*domain.Account, error)
	List(ctx context.Context, filter AccountFilter) ([]*domain.Account, int64, error)

	// Create inserts a gated change and returns the stored account with its role.
	Create(ctx context.Context, change domain.AccountChange) (*domain.Account, error)
	// Update applies a gated change and returns the stored account with its role.
	// Returns domain.ErrAccountNotFound when no row matched.
	Update(ctx context.Context, id string, change domain.AccountChange) (*domain.Account, error)
	// Delete removes the account. Returns domain.ErrAccountNotFound when no row was deleted.
	Delete(ctx context.Context, id string) error
}

// RoleRepository looks roles up by their exact name.
type RoleRepository interface {
	FindByName(ctx context.Context, name string) (*domain.Role, error)
}
