package handler

import (
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/restaurant-reservation/internal/model"
	"github.com/iliyamo/restaurant-reservation/internal/service"
)

// TableHandler exposes tables and seating under /v1/tables.
type TableHandler struct {
	svc    *service.TableService
	errs   *ErrorMapper
	logger *slog.Logger
}

func NewTableHandler(svc *service.TableService, logger *slog.Logger) *TableHandler {
	if svc == nil {
		panic("nil service passed to NewTableHandler")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &TableHandler{svc: svc, errs: DefaultErrorMapper(), logger: logger}
}

// List handles GET /v1/tables, ordered by table name.
func (h *TableHandler) List(c echo.Context) error {
	rows, err := h.svc.List(c.Request().Context())
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	if rows == nil {
		rows = []model.Table{}
	}
	return c.JSON(http.StatusOK, echo.Map{"data": rows})
}

// Create handles POST /v1/tables.
func (h *TableHandler) Create(c echo.Context) error {
	var in service.TableInput
	if err := decodeData(c, &in); err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	t, err := h.svc.Create(c.Request().Context(), in)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusCreated, echo.Map{"data": t})
}

// Get handles GET /v1/tables/:table_id.
func (h *TableHandler) Get(c echo.Context) error {
	id, err := pathID(c, "table_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	t, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Seat handles PUT /v1/tables/:table_id/seat.
func (h *TableHandler) Seat(c echo.Context) error {
	id, err := pathID(c, "table_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	var in service.SeatInput
	if err := decodeData(c, &in); err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	t, err := h.svc.Seat(c.Request().Context(), id, in.ReservationID)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}

// Reset handles DELETE /v1/tables/:table_id/seat: the seated party leaves
// and their reservation is finished.
func (h *TableHandler) Reset(c echo.Context) error {
	id, err := pathID(c, "table_id")
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	t, err := h.svc.Reset(c.Request().Context(), id)
	if err != nil {
		return respondError(c, h.errs, h.logger, err)
	}
	return c.JSON(http.StatusOK, echo.Map{"data": t})
}
