package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/tbp-ucsd/membership-api/internal/api/metrics"
	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/lifecycle"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// AccountHandler handles HTTP requests for member accounts.
type AccountHandler struct {
	service ports.AccountService
}

func NewAccountHandler(service ports.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

// Show handles GET /users/:id.
//
// @Summary      Get an account
// @Tags         users
// @Produce      json
// @Param        id         path      string  true   "Account ID"
// @Param        embed      query     string  false  "Comma separated: role, attended_events, chaired_events"
// @Param        full_name  query     bool    false  "Include the derived full_name"
// @Success      200        {object}  accountResponse
// @Failure      404        {object}  errorResponse
// @Failure      500        {object}  errorResponse
// @Router       /users/{id} [get]
func (h *AccountHandler) Show(c echo.Context) error {
	embeds := parseEmbeds(c.QueryParam("embed"))

	detail, err := h.service.GetAccount(c.Request().Context(), c.Param("id"), ports.AccountEmbeds{
		AttendedEvents: embeds["attended_events"],
		ChairedEvents:  embeds["chaired_events"],
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		return err
	}

	resp := toAccountResponse(detail.Account, embeds["role"], wantFullName(c))
	resp.AttendedEvents = detail.AttendedEvents
	resp.ChairedEvents = detail.ChairedEvents
	return c.JSON(http.StatusOK, resp)
}

// Index handles GET /users.
//
// @Summary      List accounts
// @Tags         users
// @Produce      json
// @Param        email       query     string  false  "Exact email"
// @Param        first_name  query     string  false  "Exact first name"
// @Param        last_name   query     string  false  "Exact last name"
// @Param        house       query     string  false  "Exact house"
// @Param        embed       query     string  false  "Comma separated: role"
// @Param        full_name   query     bool    false  "Include the derived full_name"
// @Param        page        query     int     false  "Page number (default 1)"
// @Param        limit       query     int     false  "Page size (default 20, max 100)"
// @Success      200         {object}  listAccountsResponse
// @Failure      400         {object}  errorResponse
// @Failure      500         {object}  errorResponse
// @Router       /users [get]
func (h *AccountHandler) Index(c echo.Context) error {
	page, err := intQuery(c, "page")
	if err != nil {
		return err
	}
	limit, err := intQuery(c, "limit")
	if err != nil {
		return err
	}

	result, err := h.service.ListAccounts(c.Request().Context(), ports.AccountFilter{
		Email:     c.QueryParam("email"),
		FirstName: c.QueryParam("first_name"),
		LastName:  c.QueryParam("last_name"),
		House:     c.QueryParam("house"),
		Page:      page,
		Limit:     limit,
	})
	if err != nil {
		return err
	}

	withRole := parseEmbeds(c.QueryParam("embed"))["role"]
	withFullName := wantFullName(c)
	items := make([]accountResponse, 0, len(result.Items))
	for _, a := range result.Items {
		items = append(items, toAccountResponse(a, withRole, withFullName))
	}
	return c.JSON(http.StatusOK, listAccountsResponse{
		Items:      items,
		Total:      result.Total,
		Page:       result.Page,
		Limit:      result.Limit,
		TotalPages: result.TotalPages,
	})
}

// Update handles PATCH /users/:id.
//
// @Summary      Update an account
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Account ID"
// @Param        body  body      updateAccountRequest  true  "Fields to change"
// @Success      200   {object}  domain.Account
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      409   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /users/{id} [patch]
func (h *AccountHandler) Update(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req updateAccountRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	account, err := h.service.UpdateAccount(c.Request().Context(), actor, c.Param("id"), ports.UpdateAccountInput{
		Email:     req.Email,
		Password:  req.Password,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		FullName:  req.FullName,
		Barcode:   req.Barcode,
		House:     req.House,
		Role:      req.Role,
	})
	if err != nil {
		observeGateRejection(err)
		if errors.Is(err, domain.ErrAccountNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User could not be updated.")
		}
		return err
	}
	return c.JSON(http.StatusOK, account)
}

// Delete handles DELETE /users/:id.
//
// @Summary      Delete an account
// @Tags         users
// @Security     BearerAuth
// @Param        id   path  string  true  "Account ID"
// @Success      204
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /users/{id} [delete]
func (h *AccountHandler) Delete(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	if err := h.service.DeleteAccount(c.Request().Context(), actor, c.Param("id")); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "User not found.")
		}
		return err
	}
	return c.NoContent(http.StatusNoContent)
}

// intQuery parses an optional integer query parameter; absent means 0.
func intQuery(c echo.Context, name string) (int, error) {
	raw := c.QueryParam(name)
	if raw == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, echo.NewHTTPError(http.StatusBadRequest, name+" must be an integer")
	}
	return n, nil
}

// observeGateRejection counts writes aborted inside the account gate.
func observeGateRejection(err error) {
	var stepErr *lifecycle.StepError
	if errors.As(err, &stepErr) {
		metrics.GateRejectionsTotal.WithLabelValues(stepErr.Step).Inc()
	}
}

// toAccountResponse copies a so the role can be dropped without touching the
// service's value.
func toAccountResponse(a *domain.Account, withRole, withFullName bool) accountResponse {
	account := *a
	if !withRole {
		account.Role = nil
	}
	resp := accountResponse{Account: &account}
	if withFullName {
		resp.FullName = account.FullName()
	}
	return resp
}

func wantFullName(c echo.Context) bool {
	ok, _ := strconv.ParseBool(c.QueryParam("full_name"))
	return ok
}
