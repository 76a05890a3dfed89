package handler

import (
	"strings"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Auth ---

type registerRequest struct {
	Email     string `json:"email"      validate:"required,email,max=254"`
	Password  string `json:"password"   validate:"omitempty,min=6,max_bytes=72"`
	FirstName string `json:"first_name" validate:"required,max=100"`
	LastName  string `json:"last_name"  validate:"required,max=100"`
	Barcode   string `json:"barcode"    validate:"omitempty,max=64"`
	House     string `json:"house"      validate:"omitempty,max=64"`
	Role      string `json:"role"       validate:"required,safe_role"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string          `json:"token"`
	User  *domain.Account `json:"user"`
}

// --- Accounts ---

// updateAccountRequest is a partial update: absent fields are left untouched.
type updateAccountRequest struct {
	Email     *string `json:"email"      validate:"omitempty,email,max=254"`
	Password  *string `json:"password"   validate:"omitempty,min=6,max_bytes=72"`
	FirstName *string `json:"first_name" validate:"omitempty,min=1,max=100"`
	LastName  *string `json:"last_name"  validate:"omitempty,max=100"`
	FullName  *string `json:"full_name"  validate:"omitempty,min=1,max=201"`
	Barcode   *string `json:"barcode"    validate:"omitempty,max=64"`
	House     *string `json:"house"      validate:"omitempty,max=64"`
	Role      *string `json:"role"       validate:"omitempty,min=1"`
}

// accountResponse is an account plus the optional derived and embedded fields.
type accountResponse struct {
	*domain.Account
	FullName       string          `json:"full_name,omitempty"`
	AttendedEvents []*domain.Event `json:"attended_events,omitempty"`
	ChairedEvents  []*domain.Event `json:"chaired_events,omitempty"`
}

type listAccountsResponse struct {
	Items      []accountResponse `json:"items"`
	Total      int64             `json:"total"`
	Page       int               `json:"page"`
	Limit      int               `json:"limit"`
	TotalPages int               `json:"total_pages"`
}

// --- Events ---

type eventResponse struct {
	*domain.Event
	Officer   *domain.Account   `json:"officer,omitempty"`
	Attendees []*domain.Account `json:"attendees,omitempty"`
}

type checkInRequest struct {
	Barcode string `json:"barcode" validate:"required,max=64"`
}

// parseEmbeds splits a comma separated embed query value into a set.
func parseEmbeds(raw string) map[string]bool {
	set := make(map[string]bool)
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			set[part] = true
		}
	}
	return set
}
