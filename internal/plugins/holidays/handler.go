package holidays

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
)

// Handler processes HTTP requests for the holidays plugin.
type Handler struct {
	svc  HolidayService
	calc *datecalc.Calc
}

// NewHandler creates a new holidays Handler. calc supplies the default year.
func NewHandler(svc HolidayService, calc *datecalc.Calc) *Handler {
	return &Handler{svc: svc, calc: calc}
}

// ListYear returns the holidays of one year.
// GET /api/v1/holidays?year=2025
func (h *Handler) ListYear(c echo.Context) error {
	year := h.calc.Today().Year()
	if q := c.QueryParam("year"); q != "" {
		v, err := strconv.Atoi(q)
		if err != nil {
			return apperror.NewBadRequest("year must be a number")
		}
		year = v
	}

	list, err := h.svc.ListForYear(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, YearResponse{Year: year, Holidays: list})
}
