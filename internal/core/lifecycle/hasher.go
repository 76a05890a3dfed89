package lifecycle

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// Hasher derives and verifies password hashes. Verify reports a mismatch as
// (false, nil); a non-nil error is always an operational failure. Hash
// returns domain.ErrPasswordTooLong for input past domain.MaxPasswordBytes.
type Hasher interface {
	Hash(plaintext string) (string, error)
	Verify(plaintext, hash string) (bool, error)
}

// BcryptHasher implements Hasher with bcrypt at a fixed work factor.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher returns a hasher using cost, falling back to
// bcrypt.DefaultCost when cost is outside bcrypt's accepted range.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Cost returns the configured work factor.
func (h *BcryptHasher) Cost() int { return h.cost }

func (h *BcryptHasher) Hash(plaintext string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plaintext), h.cost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return "", domain.ErrPasswordTooLong
	}
	if err != nil {
		return "", fmt.Errorf("bcrypt hash: %w", err)
	}
	return string(b), nil
}

func (h *BcryptHasher) Verify(plaintext, hash string) (bool, error) {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plaintext))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, bcrypt.ErrMismatchedHashAndPassword):
		return false, nil
	default:
		return false, fmt.Errorf("bcrypt verify: %w", err)
	}
}
