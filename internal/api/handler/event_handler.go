package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/tbp-ucsd/membership-api/internal/api/metrics"
	"github.com/tbp-ucsd/membership-api/internal/core/domain"
	"github.com/tbp-ucsd/membership-api/internal/core/ports"
)

// EventHandler handles event reads and attendance check-in.
type EventHandler struct {
	service ports.EventService
}

func NewEventHandler(service ports.EventService) *EventHandler {
	return &EventHandler{service: service}
}

// ListTypes handles GET /event-types.
//
// @Summary      List event types
// @Tags         events
// @Produce      json
// @Success      200  {array}   domain.EventType
// @Failure      500  {object}  errorResponse
// @Router       /event-types [get]
func (h *EventHandler) ListTypes(c echo.Context) error {
	types, err := h.service.ListEventTypes(c.Request().Context())
	if err != nil {
		return err
	}
	if types == nil {
		types = []*domain.EventType{}
	}
	return c.JSON(http.StatusOK, types)
}

// Show handles GET /events/:id.
//
// @Summary      Get an event
// @Tags         events
// @Produce      json
// @Param        id     path      string  true   "Event ID"
// @Param        embed  query     string  false  "Comma separated: officer, attendees"
// @Success      200    {object}  eventResponse
// @Failure      404    {object}  errorResponse
// @Router       /events/{id} [get]
func (h *EventHandler) Show(c echo.Context) error {
	embeds := parseEmbeds(c.QueryParam("embed"))

	detail, err := h.service.GetEvent(c.Request().Context(), c.Param("id"), ports.EventEmbeds{
		Officer:   embeds["officer"],
		Attendees: embeds["attendees"],
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return echo.NewHTTPError(http.StatusNotFound, "Event not found.")
		}
		return err
	}

	return c.JSON(http.StatusOK, eventResponse{
		Event:     detail.Event,
		Officer:   detail.Officer,
		Attendees: detail.Attendees,
	})
}

// CheckIn handles POST /events/:id/attendance.
//
// @Summary      Record attendance
// @Tags         events
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string          true  "Event ID"
// @Param        body  body      checkInRequest  true  "Member barcode"
// @Success      200   {object}  domain.AttendanceRecord  "Already recorded"
// @Success      201   {object}  domain.AttendanceRecord
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /events/{id}/attendance [post]
func (h *EventHandler) CheckIn(c echo.Context) error {
	actor, err := ctxActor(c)
	if err != nil {
		return err
	}

	var req checkInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusUnprocessableEntity, err.Error())
	}

	res, err := h.service.CheckIn(c.Request().Context(), ports.CheckInInput{
		EventID: c.Param("id"),
		Barcode: req.Barcode,
		Actor:   actor,
	})
	if err != nil {
		return err
	}

	if res.AlreadyRecorded {
		return c.JSON(http.StatusOK, res.Record)
	}
	metrics.AttendanceRecordedTotal.Inc()
	return c.JSON(http.StatusCreated, res.Record)
}
