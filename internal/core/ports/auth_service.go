package ports

import (
	"context"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// RegisterInput is an untrusted self-registration request.
type RegisterInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Barcode   string
	House     string
	Role      string
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*domain.Account, error)
	Login(ctx context.Context, email, password string) (string, *domain.Account, error)
	CurrentAccount(ctx context.Context, id string) (*domain.Account, error)
}
