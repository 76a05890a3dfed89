package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tbp-ucsd/membership-api/internal/api/metrics"
	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

type AuthHandler struct {
	authService ports.AuthService
}

func NewAuthHandler(authService ports.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register creates a new account.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      registerRequest  true  "Registration details"
// @Success      201   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Failure      500   {object}  errorResponse
// @Router       /auth/register [post]
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.authService.Register(c.Request().Context(), ports.RegisterInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Barcode:   req.Barcode,
		House:     req.House,
		Role:      req.Role,
	})
	if err != nil {
		observeGateRejection(err)
		return err
	}

	metrics.AccountsRegisteredTotal.WithLabelValues(account.RoleName()).Inc()
	return c.JSON(http.StatusCreated, account)
}

// Login authenticates an account and returns a JWT.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      429   {object}  errorResponse
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}

	token, account, err := h.authService.Login(c.Request().Context(), req.Email, req.Password)
	metrics.LoginAttemptsTotal.WithLabelValues(loginResult(err)).Inc()
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, loginResponse{Token: token, User: account})
}

// Me returns the authenticated account.
//
// @Summary      Current account
// @Tags         auth
// @Produce      json
// @Security     BearerAuth
// @Success      200  {object}  domain.Account
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /auth/me [get]
func (h *AuthHandler) Me(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	account, err := h.authService.CurrentAccount(c.Request().Context(), actor.AccountID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		return err
	}
	return c.JSON(http.StatusOK, account)
}

func loginResult(err error) string {
	switch {
	case err == nil:
		return "success"
	case errors.Is(err, domain.ErrAccountNotVerified):
		return "not_verified"
	case errors.Is(err, domain.ErrAuthentication):
		return "invalid_credentials"
	case errors.Is(err, domain.ErrTooManyAttempts):
		return "throttled"
	default:
		return "error"
	}
}
