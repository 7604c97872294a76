package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// ReservationHandler exposes the reservation lifecycle under /v1/reservations.
type ReservationHandler struct {
	svc    *service.ReservationService
	errs   *ErrorMapper
	logger *slog.Logger
}

// NewReservationHandler panics on a nil service.  A nil logger falls back to
// slog.Default.
func NewReservationHandler(svc *service.ReservationService, logger *slog.Logger) *ReservationHandler {
	if svc == nil {
		panic("nil service passed to NewReservationHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &ReservationHandler{svc: svc, errs: DefaultErrorMapper(), logger: logger}
}

// List handles GET /v1/reservations.  ?date= lists the day's open
// reservations, ?mobile_number= searches by phone digits, neither lists all.
func (h *ReservationHandler) List(c echo.Context) error {
	f := service.ListFilter{
		Date:         c.QueryParam("date"),
		MobileNumber: c.QueryParam("mobile_number"),
	}
	rows, err := h.svc.List(c.Request().Context(), f)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	if rows == nil {
		rows = []model.Reservation{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Create handles POST /v1/reservations.
func (h *ReservationHandler) Create(c echo.Context) error {
	var in service.ReservationInput
	if err := decodeData(c, &in); err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	res, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": res})
}

// Get handles GET /v1/reservations/:reservation_id.
func (h *ReservationHandler) Get(c echo.Context) error {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	res, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// Update handles PUT /v1/reservations/:reservation_id.  Only booked
// reservations can be edited.
func (h *ReservationHandler) Update(c echo.Context) error {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	var in service.ReservationUpdateInput
	if err := decodeData(c, &in); err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	res, err := h.svc.UpdateFields(c.Request().Context(), id, in)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}

// UpdateStatus handles PUT /v1/reservations/:reservation_id/status.
func (h *ReservationHandler) UpdateStatus(c echo.Context) error {
	id, err := pathID(c, "reservation_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	var in service.StatusInput
	if err := decodeData(c, &in); err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	res, err := h.svc.UpdateStatus(c.Request().Context(), id, in.Status)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": res})
}
