package ports

import (
	"context"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// Actor is the authenticated caller of a mutating operation.
type Actor struct {
	AccountID string
	Role      string
}

// IsAdmin reports whether the actor holds the admin role.
func (a Actor) IsAdmin() bool { return a.Role == domain.RoleAdmin }

// UpdateAccountInput carries the optional fields of an account update. Nil
// fields are left untouched.
type UpdateAccountInput struct {
	Email     *string
	Password  *string
	FirstName *string
	LastName  *string
	FullName  *string
	Barcode   *string
	House     *string
	Role      *string
}

// AccountEmbeds selects which relations GetAccount loads.
type AccountEmbeds struct {
	AttendedEvents bool
	ChairedEvents  bool
}

// AccountDetail is an account plus the relations requested through AccountEmbeds.
type AccountDetail struct {
	Account        *domain.Account
	AttendedEvents []*domain.Event
	ChairedEvents  []*domain.Event
}

// ListAccountsResult is one page of accounts.
type ListAccountsResult struct {
	Items      []*domain.Account
	Total      int64
	Page       int
	Limit      int
	TotalPages int
}

type AccountService interface {
	GetAccount(ctx context.Context, id string, embeds AccountEmbeds) (*AccountDetail, error)
	ListAccounts(ctx context.Context, filter AccountFilter) (*ListAccountsResult, error)
	UpdateAccount(ctx context.Context, actor Actor, id string, in UpdateAccountInput) (*domain.Account, error)
	DeleteAccount(ctx context.Context, actor Actor, id string) error
}
