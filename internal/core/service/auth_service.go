package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/rs/zerolog"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/lifecycle"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// TokenConfig controls the JWTs issued on login.
type TokenConfig struct {
	Secret string
	TTL    time.Duration
}

// AuthService implements registration and login.
type AuthService struct {
	accounts     ports.AccountRepository
	gate         *lifecycle.Gate
	hasher       lifecycle.Hasher
	availability *Availability
	limiter      ports.LoginLimiter
	audit        ports.AuditRecorder
	token        TokenConfig
	log          zerolog.Logger
}

func NewAuthService(
	accounts ports.AccountRepository,
	gate *lifecycle.Gate,
	hasher lifecycle.Hasher,
	limiter ports.LoginLimiter,
	audit ports.AuditRecorder,
	token TokenConfig,
	log zerolog.Logger,
) *AuthService {
	if token.TTL <= 0 {
		token.TTL = 24 * time.Hour
	}
	return &AuthService{
		accounts:     accounts,
		gate:         gate,
		hasher:       hasher,
		availability: NewAvailability(accounts),
		limiter:      limiter,
		audit:        audit,
		token:        token,
		log:          log,
	}
}

// Register creates an account from an untrusted request. Only the initiate
// and pending roles are accepted.
func (s *AuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	if !domain.IsSafeRole(in.Role) {
		return nil, domain.ErrUnsafeRole
	}

	change := domain.AccountChange{
		Email:     domain.Ptr(in.Email),
		FirstName: domain.Ptr(in.FirstName),
		LastName:  domain.Ptr(in.LastName),
		House:     domain.Ptr(in.House),
		RoleName:  domain.Ptr(in.Role),
	}
	if in.Password != "" {
		change.Password = domain.Ptr(in.Password)
	}
	if in.Barcode != "" {
		change.Barcode = domain.Ptr(in.Barcode)
	}

	if err := s.availability.Check(ctx, change, ""); err != nil {
		return nil, err
	}

	gated, err := s.gate.Apply(ctx, change, nil)
	if err != nil {
		return nil, err
	}

	account, err := s.accounts.Create(ctx, gated)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ports.AuditEntry{
		Action:    ports.AuditAccountCreated,
		AccountID: account.ID,
		ActorID:   account.ID,
		Email:     account.Email,
		Fields:    change.Fields(),
	})
	s.log.Info().Str("account_id", account.ID).Str("role", account.RoleName()).Msg("account registered")

	return account, nil
}

// Login authenticates email and password and returns a signed token with the
// account. Unknown emails and wrong passwords both yield
// domain.ErrInvalidCredentials; an account without a password yields
// domain.ErrAccountNotVerified.
func (s *AuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	if email == "" || password == "" {
		return "", nil, domain.ErrInvalidCredentials
	}

	key := strings.ToLower(email)
	allowed, err := s.limiter.Allow(ctx, key)
	if err != nil {
		s.log.Warn().Err(err).Msg("login limiter unavailable, allowing attempt")
	} else if !allowed {
		s.audit.Record(ports.AuditEntry{Action: ports.AuditLoginRejected, Email: email, Reason: "throttled"})
		return "", nil, domain.ErrLoginThrottled
	}

	account, err := s.accounts.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			s.rejected(ctx, key, email, "", "unknown_email")
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, err
	}

	if !account.IsValid {
		s.audit.Record(ports.AuditEntry{Action: ports.AuditLoginRejected, AccountID: account.ID, Email: email, Reason: "not_verified"})
		return "", nil, domain.ErrAccountNotVerified
	}

	ok, err := s.hasher.Verify(password, account.PasswordHash)
	if err != nil {
		return "", nil, domain.Operational("verify password", err)
	}
	if !ok {
		s.rejected(ctx, key, email, account.ID, "password_mismatch")
		return "", nil, domain.ErrInvalidCredentials
	}

	if err := s.limiter.Reset(ctx, key); err != nil {
		s.log.Warn().Err(err).Str("account_id", account.ID).Msg("failed to reset login attempts")
	}

	token, err := s.generateToken(account)
	if err != nil {
		return "", nil, domain.Operational("sign token", err)
	}

	s.audit.Record(ports.AuditEntry{Action: ports.AuditLoginSucceeded, AccountID: account.ID, ActorID: account.ID, Email: email})
	return token, account, nil
}

// CurrentAccount returns the account behind an authenticated token.
func (s *AuthService) CurrentAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.accounts.FindByID(ctx, id)
}

func (s *AuthService) rejected(ctx context.Context, key, email, accountID, reason string) {
	if err := s.limiter.RecordFailure(ctx, key); err != nil {
		s.log.Warn().Err(err).Msg("failed to record login failure")
	}
	s.audit.Record(ports.AuditEntry{Action: ports.AuditLoginRejected, AccountID: accountID, Email: email, Reason: reason})
}

func (s *AuthService) generateToken(account *domain.Account) (string, error) {
	claims := jwt.MapClaims{
		"sub":   account.ID,
		"email": account.Email,
		"role":  account.RoleName(),
		"exp":   time.Now().Add(s.token.TTL).Unix(),
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return t.SignedString([]byte(s.token.Secret))
}
