package domain

import (
	"strings"
	"time"
)

// Account models a member of the organization.
//
// PasswordHash, RoleID, IsValid and EmailVerificationCode never leave the
// process through JSON.
type Account struct {
	ID                    string    `json:"id"`
	Email                 string    `json:"email"`
	PasswordHash          string    `json:"-"`
	FirstName             string    `json:"first_name"`
	LastName              string    `json:"last_name"`
	Barcode               string    `json:"barcode,omitempty"`
	House                 string    `json:"house,omitempty"`
	RoleID                uint      `json:"-"`
	Role                  *Role     `json:"role,omitempty"`
	IsValid               bool      `json:"-"`
	EmailVerificationCode string    `json:"-"`
	CreatedAt             time.Time `json:"created_at"`
	UpdatedAt             time.Time `json:"updated_at"`
}

// FullName is the derived "<first> <last>" view. It is never persisted.
func (a *Account) FullName() string {
	return a.FirstName + " " + a.LastName
}

// RoleName returns the attached role's name, or "" when the role was not loaded.
func (a *Account) RoleName() string {
	if a.Role == nil {
		return ""
	}
	return a.Role.Name
}

// SplitFullName splits a full name on its first space into first and last
// name. A single word yields an empty last name.
func SplitFullName(full string) (first, last string) {
	full = strings.TrimSpace(full)
	first, last, _ = strings.Cut(full, " ")
	return first, strings.TrimSpace(last)
}
