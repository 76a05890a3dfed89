// Package lifecycle runs the ordered steps every account create or update
// passes through before it is written: password hashing, role resolution and
// the validity flag.
package lifecycle

import (
	"context"
	"errors"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// Step transforms a pending change. current is the persisted account, or nil
// on create. A step returns a new change and never writes through the
// pointers of the one it received.
type Step struct {
	Name string
	Run  func(ctx context.Context, change domain.AccountChange, current *domain.Account) (domain.AccountChange, error)
}

// StepError reports which step aborted a mutation.
type StepError struct {
	Step string
	Err  error
}

func (e *StepError) Error() string { return e.Step + ": " + e.Err.Error() }

func (e *StepError) Unwrap() error { return e.Err }

// Gate applies its steps in order. The first failure aborts the mutation and
// no partially transformed change is returned.
type Gate struct {
	steps []Step
}

// NewGate builds the account gate: hash password, resolve role, update validity.
func NewGate(hasher Hasher, roles ports.RoleRepository) *Gate {
	return &Gate{steps: []Step{
		HashPassword(hasher),
		ResolveRole(roles),
		UpdateValidity(),
	}}
}

// Steps returns the names of the gate's steps in execution order.
func (g *Gate) Steps() []string {
	names := make([]string, len(g.steps))
	for i, s := range g.steps {
		names[i] = s.Name
	}
	return names
}

// Apply runs every step over change and returns the change ready to persist.
func (g *Gate) Apply(ctx context.Context, change domain.AccountChange, current *domain.Account) (domain.AccountChange, error) {
	for _, step := range g.steps {
		next, err := step.Run(ctx, change, current)
		if err != nil {
			return domain.AccountChange{}, &StepError{Step: step.Name, Err: err}
		}
		change = next
	}
	return change, nil
}

// HashPassword replaces a plaintext password with its hash. Changes without a
// password are returned as received.
func HashPassword(hasher Hasher) Step {
	return Step{Name: "hash_password", Run: func(_ context.Context, change domain.AccountChange, _ *domain.Account) (domain.AccountChange, error) {
		if change.Password == nil {
			return change, nil
		}
		if *change.Password == "" {
			return domain.AccountChange{}, domain.ErrEmptyPassword
		}
		if len(*change.Password) > domain.MaxPasswordBytes {
			return domain.AccountChange{}, domain.ErrPasswordTooLong
		}

		hash, err := hasher.Hash(*change.Password)
		if errors.Is(err, domain.ErrValidation) {
			return domain.AccountChange{}, err
		}
		if err != nil {
			return domain.AccountChange{}, domain.Operational("hash password", err)
		}

		change.Password = nil
		change.PasswordHash = &hash
		return change, nil
	}}
}

// ResolveRole replaces a role name with the matching role ID. An unknown name
// aborts with domain.ErrRoleNotFound.
func ResolveRole(roles ports.RoleRepository) Step {
	return Step{Name: "resolve_role", Run: func(ctx context.Context, change domain.AccountChange, _ *domain.Account) (domain.AccountChange, error) {
		if change.RoleName == nil {
			return change, nil
		}

		role, err := roles.FindByName(ctx, *change.RoleName)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return domain.AccountChange{}, domain.ErrRoleNotFound
			}
			return domain.AccountChange{}, err
		}

		id := role.ID
		change.RoleName = nil
		change.RoleID = &id
		return change, nil
	}}
}

// UpdateValidity sets IsValid from the pending hash, falling back to the
// persisted one. It always runs.
func UpdateValidity() Step {
	return Step{Name: "update_validity", Run: func(_ context.Context, change domain.AccountChange, current *domain.Account) (domain.AccountChange, error) {
		candidate := ""
		switch {
		case change.PasswordHash != nil:
			candidate = *change.PasswordHash
		case current != nil:
			candidate = current.PasswordHash
		}

		valid := candidate != ""
		change.IsValid = &valid
		return change, nil
	}}
}
