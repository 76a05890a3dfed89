package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/crypto/bcrypt"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/lifecycle"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// ---------------------------------------------------------------------------
// In-memory stub repositories
// ---------------------------------------------------------------------------

var testRoles = map[string]*domain.Role{
	domain.RoleAdmin:    {ID: 1, Name: domain.RoleAdmin},
	domain.RoleOfficer:  {ID: 2, Name: domain.RoleOfficer},
	domain.RoleMember:   {ID: 3, Name: domain.RoleMember},
	domain.RoleInitiate: {ID: 4, Name: domain.RoleInitiate},
	domain.RolePending:  {ID: 5, Name: domain.RolePending},
}

type stubRoleRepo struct{}

func (stubRoleRepo) FindByName(_ context.Context, name string) (*domain.Role, error) {
	role, ok := testRoles[name]
	if !ok {
		return nil, domain.ErrRoleNotFound
	}
	clone := *role
	return &clone, nil
}

func roleByID(id uint) *domain.Role {
	for _, r := range testRoles {
		if r.ID == id {
			clone := *r
			return &clone
		}
	}
	return nil
}

type stubAccountRepo struct {
	byID      map[string]*domain.Account
	seq       int
	findErr   error // if set, every Find* returns this error
	creates   int
	updates   int
	deletes   int
	lastInput domain.AccountChange
}

func newStubAccountRepo() *stubAccountRepo {
	return &stubAccountRepo{byID: make(map[string]*domain.Account)}
}

func cloneAccount(a *domain.Account) *domain.Account {
	clone := *a
	if a.Role != nil {
		role := *a.Role
		clone.Role = &role
	}
	return &clone
}

func (r *stubAccountRepo) put(a *domain.Account) *domain.Account {
	if a.ID == "" {
		r.seq++
		a.ID = fmt.Sprintf("acc-%d", r.seq)
	}
	if a.Role == nil {
		a.Role = roleByID(a.RoleID)
	}
	r.byID[a.ID] = cloneAccount(a)
	return a
}

func (r *stubAccountRepo) find(match func(*domain.Account) bool) (*domain.Account, error) {
	if r.findErr != nil {
		return nil, r.findErr
	}
	for _, a := range r.byID {
		if match(a) {
			return cloneAccount(a), nil
		}
	}
	return nil, domain.ErrAccountNotFound
}

func (r *stubAccountRepo) FindByID(_ context.Context, id string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.ID == id })
}

func (r *stubAccountRepo) FindByEmail(_ context.Context, email string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Email == email })
}

func (r *stubAccountRepo) FindByBarcode(_ context.Context, barcode string) (*domain.Account, error) {
	return r.find(func(a *domain.Account) bool { return a.Barcode != "" && a.Barcode == barcode })
}

func (r *stubAccountRepo) List(_ context.Context, f ports.AccountFilter) ([]*domain.Account, int64, error) {
	var matched []*domain.Account
	for _, a := range r.byID {
		if f.House != "" && a.House != f.House {
			continue
		}
		matched = append(matched, cloneAccount(a))
	}
	total := int64(len(matched))

	skip := (f.Page - 1) * f.Limit
	if skip > len(matched) {
		return []*domain.Account{}, total, nil
	}
	end := skip + f.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[skip:end], total, nil
}

func apply(a *domain.Account, c domain.AccountChange) {
	set := func(dst *string, src *string) {
		if src != nil {
			*dst = *src
		}
	}
	set(&a.Email, c.Email)
	set(&a.PasswordHash, c.PasswordHash)
	set(&a.FirstName, c.FirstName)
	set(&a.LastName, c.LastName)
	set(&a.Barcode, c.Barcode)
	set(&a.House, c.House)
	if c.RoleID != nil {
		a.RoleID = *c.RoleID
		a.Role = roleByID(*c.RoleID)
	}
	if c.IsValid != nil {
		a.IsValid = *c.IsValid
	}
}

func (r *stubAccountRepo) Create(_ context.Context, c domain.AccountChange) (*domain.Account, error) {
	r.creates++
	r.lastInput = c
	a := &domain.Account{}
	apply(a, c)
	return r.put(a), nil
}

func (r *stubAccountRepo) Update(_ context.Context, id string, c domain.AccountChange) (*domain.Account, error) {
	r.updates++
	r.lastInput = c
	a, ok := r.byID[id]
	if !ok {
		return nil, domain.ErrAccountNotFound
	}
	apply(a, c)
	return cloneAccount(a), nil
}

func (r *stubAccountRepo) Delete(_ context.Context, id string) error {
	r.deletes++
	if _, ok := r.byID[id]; !ok {
		return domain.ErrAccountNotFound
	}
	delete(r.byID, id)
	return nil
}

type stubEventRepo struct {
	events     map[string]*domain.Event
	types      []*domain.EventType
	attendance map[string][]string // event id -> account ids
	accounts   *stubAccountRepo
}

func newStubEventRepo(accounts *stubAccountRepo) *stubEventRepo {
	return &stubEventRepo{
		events:     make(map[string]*domain.Event),
		attendance: make(map[string][]string),
		accounts:   accounts,
	}
}

func (r *stubEventRepo) FindByID(_ context.Context, id string) (*domain.Event, error) {
	e, ok := r.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	clone := *e
	return &clone, nil
}

func (r *stubEventRepo) ListTypes(context.Context) ([]*domain.EventType, error) {
	return r.types, nil
}

func (r *stubEventRepo) ListAttendedBy(_ context.Context, accountID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for eventID, ids := range r.attendance {
		for _, id := range ids {
			if id == accountID {
				clone := *r.events[eventID]
				out = append(out, &clone)
			}
		}
	}
	return out, nil
}

func (r *stubEventRepo) ListChairedBy(_ context.Context, accountID string) ([]*domain.Event, error) {
	var out []*domain.Event
	for _, e := range r.events {
		if e.OfficerID == accountID {
			clone := *e
			out = append(out, &clone)
		}
	}
	return out, nil
}

func (r *stubEventRepo) ListAttendees(_ context.Context, eventID string) ([]*domain.Account, error) {
	var out []*domain.Account
	for _, id := range r.attendance[eventID] {
		if a, ok := r.accounts.byID[id]; ok {
			out = append(out, cloneAccount(a))
		}
	}
	return out, nil
}

func (r *stubEventRepo) RecordAttendance(_ context.Context, rec domain.AttendanceRecord) error {
	for _, id := range r.attendance[rec.EventID] {
		if id == rec.AccountID {
			return domain.ErrAlreadyAttended
		}
	}
	r.attendance[rec.EventID] = append(r.attendance[rec.EventID], rec.AccountID)
	return nil
}

// ---------------------------------------------------------------------------
// Limiter and audit stubs
// ---------------------------------------------------------------------------

type stubLimiter struct {
	failures map[string]int
	limit    int
	err      error
	resets   int
}

func newStubLimiter(limit int) *stubLimiter {
	return &stubLimiter{failures: make(map[string]int), limit: limit}
}

func (l *stubLimiter) Allow(_ context.Context, email string) (bool, error) {
	if l.err != nil {
		return false, l.err
	}
	return l.failures[email] < l.limit, nil
}

func (l *stubLimiter) RecordFailure(_ context.Context, email string) error {
	if l.err != nil {
		return l.err
	}
	l.failures[email]++
	return nil
}

func (l *stubLimiter) Reset(_ context.Context, email string) error {
	if l.err != nil {
		return l.err
	}
	l.resets++
	delete(l.failures, email)
	return nil
}

type recordingAudit struct {
	mu      sync.Mutex
	entries []ports.AuditEntry
}

func (a *recordingAudit) Record(e ports.AuditEntry) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.entries = append(a.entries, e)
}

func (a *recordingAudit) actions() []string {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]string, len(a.entries))
	for i, e := range a.entries {
		out[i] = e.Action
	}
	return out
}

// ---------------------------------------------------------------------------
// Helpers
// ---------------------------------------------------------------------------

var (
	discardLogger = zerolog.Nop()
	testHasher    = lifecycle.NewBcryptHasher(bcrypt.MinCost)
	errStorage    = errors.New("connection refused")
)

func testGate() *lifecycle.Gate {
	return lifecycle.NewGate(testHasher, stubRoleRepo{})
}

// seedAccount stores an account with the given role and, when password is
// non-empty, a valid hash for it.
func seedAccount(repo *stubAccountRepo, email, password, role string) *domain.Account {
	a := &domain.Account{Email: email, FirstName: "Test", LastName: "User", RoleID: testRoles[role].ID}
	if password != "" {
		hash, err := testHasher.Hash(password)
		if err != nil {
			panic(err)
		}
		a.PasswordHash = hash
		a.IsValid = true
	}
	return repo.put(a)
}

// seedActor stores an account for an authenticated caller and returns the
// matching actor.
func seedActor(repo *stubAccountRepo, id, role string) ports.Actor {
	repo.put(&domain.Account{ID: id, Email: id + "@example.com", FirstName: "Act", LastName: "Or", RoleID: testRoles[role].ID})
	return ports.Actor{AccountID: id, Role: role}
}
