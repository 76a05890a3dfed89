package domain

import (
	"errors"
	"fmt"
)

// Error categories. Every domain error wraps exactly one of these so callers
// can branch on the category with errors.Is.
var (
	ErrValidation      = errors.New("validation failed")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrAuthentication  = errors.New("authentication failed")
	ErrForbidden       = errors.New("access forbidden")
	ErrTooManyAttempts = errors.New("too many attempts")
	ErrOperational     = errors.New("operational failure")
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

var (
	ErrAccountNotFound    = fmt.Errorf("account %w", ErrNotFound)
	ErrRoleNotFound       = fmt.Errorf("role %w", ErrNotFound)
	ErrEventNotFound      = fmt.Errorf("event %w", ErrNotFound)
	ErrEmailTaken         = fmt.Errorf("email is already taken: %w", ErrConflict)
	ErrBarcodeTaken       = fmt.Errorf("barcode is already taken: %w", ErrConflict)
	ErrUnsafeRole         = fmt.Errorf("role must be initiate or pending: %w", ErrValidation)
	ErrEmptyPassword      = fmt.Errorf("password must not be empty: %w", ErrValidation)
	ErrPasswordTooLong    = fmt.Errorf("password must be at most %d bytes: %w", MaxPasswordBytes, ErrValidation)
	ErrRoleChangeDenied   = fmt.Errorf("only admins may change roles: %w", ErrForbidden)
	ErrLoginThrottled     = fmt.Errorf("login temporarily locked: %w", ErrTooManyAttempts)
	ErrAlreadyAttended    = fmt.Errorf("attendance already recorded: %w", ErrConflict)
	ErrInvalidCredentials = &AuthError{Message: "The email and password entered don't match."}
	ErrAccountNotVerified = &AuthError{Message: "Your account hasn't been verified. Check your email for a verification code."}
)

// AuthError is a rejected login. Message is safe to show to the caller.
type AuthError struct {
	Message string
}

func (e *AuthError) Error() string { return e.Message }

func (e *AuthError) Unwrap() error { return ErrAuthentication }

// Operational wraps an infrastructure failure (storage, hashing) so it is
// never mistaken for one of the user-facing categories.
func Operational(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrOperational, err)
}
