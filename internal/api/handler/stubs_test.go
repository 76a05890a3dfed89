package handler

import (
	"context"
	"io"
	"net/http/httptest"

	"github.com/labstack/echo/v4"

	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

type stubAuthService struct {
	registerFn func(ctx context.Context, in ports.RegisterInput) (*domain.Account, error)
	loginFn    func(ctx context.Context, email, password string) (string, *domain.Account, error)
	currentFn  func(ctx context.Context, id string) (*domain.Account, error)
}

func (s *stubAuthService) Register(ctx context.Context, in ports.RegisterInput) (*domain.Account, error) {
	return s.registerFn(ctx, in)
}

func (s *stubAuthService) Login(ctx context.Context, email, password string) (string, *domain.Account, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubAuthService) CurrentAccount(ctx context.Context, id string) (*domain.Account, error) {
	return s.currentFn(ctx, id)
}

type stubAccountService struct {
	getFn    func(ctx context.Context, id string, embeds ports.AccountEmbeds) (*ports.AccountDetail, error)
	listFn   func(ctx context.Context, filter ports.AccountFilter) (*ports.ListAccountsResult, error)
	updateFn func(ctx context.Context, actor ports.Actor, id string, in ports.UpdateAccountInput) (*domain.Account, error)
	deleteFn func(ctx context.Context, actor ports.Actor, id string) error
}

func (s *stubAccountService) GetAccount(ctx context.Context, id string, embeds ports.AccountEmbeds) (*ports.AccountDetail, error) {
	return s.getFn(ctx, id, embeds)
}

func (s *stubAccountService) ListAccounts(ctx context.Context, filter ports.AccountFilter) (*ports.ListAccountsResult, error) {
	return s.listFn(ctx, filter)
}

func (s *stubAccountService) UpdateAccount(ctx context.Context, actor ports.Actor, id string, in ports.UpdateAccountInput) (*domain.Account, error) {
	return s.updateFn(ctx, actor, id, in)
}

func (s *stubAccountService) DeleteAccount(ctx context.Context, actor ports.Actor, id string) error {
	return s.deleteFn(ctx, actor, id)
}

type stubEventService struct {
	getFn     func(ctx context.Context, id string, embeds ports.EventEmbeds) (*ports.EventDetail, error)
	typesFn   func(ctx context.Context) ([]*domain.EventType, error)
	checkInFn func(ctx context.Context, in ports.CheckInInput) (*ports.CheckInResult, error)
}

func (s *stubEventService) GetEvent(ctx context.Context, id string, embeds ports.EventEmbeds) (*ports.EventDetail, error) {
	return s.getFn(ctx, id, embeds)
}

func (s *stubEventService) ListEventTypes(ctx context.Context) ([]*domain.EventType, error) {
	return s.typesFn(ctx)
}

func (s *stubEventService) CheckIn(ctx context.Context, in ports.CheckInInput) (*ports.CheckInResult, error) {
	return s.checkInFn(ctx, in)
}

// newContext builds an echo context for method and target with the package
// validator installed. A non-nil body is sent as JSON.
func newContext(method, target string, body io.Reader) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator()
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	return e.NewContext(req, rec), rec
}

// withActor injects the claims the Auth middleware would set.
func withActor(c echo.Context, id, role string) {
	c.Set("account_id", id)
	c.Set("role", role)
}

// httpCode returns the status of an *echo.HTTPError, or 0 for any other error.
func httpCode(err error) int {
	if he, ok := err.(*echo.HTTPError); ok {
		return he.Code
	}
	return 0
}
