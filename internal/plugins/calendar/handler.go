package calendar

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
	"github.com/keyxmakerx/kinenbi/internal/middleware"
)

// Handler processes HTTP requests for the calendar plugin.
type Handler struct {
	svc  CalendarService
	calc *datecalc.Calc
}

// NewHandler creates a new calendar Handler. calc supplies the default
// year and month.
func NewHandler(svc CalendarService, calc *datecalc.Calc) *Handler {
	return &Handler{svc: svc, calc: calc}
}

func intParam(raw, name string) (int, error) {
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, apperror.NewBadRequest(name + " must be a number")
	}
	return v, nil
}

// YearJSON returns the twelve month grids of a year.
// GET /api/v1/calendar/:year
func (h *Handler) YearJSON(c echo.Context) error {
	year, err := intParam(c.Param("year"), "year")
	if err != nil {
		return err
	}
	view, err := h.svc.Year(c.Request().Context(), year)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// MonthJSON returns one 42-cell month grid.
// GET /api/v1/calendar/:year/:month
func (h *Handler) MonthJSON(c echo.Context) error {
	year, err := intParam(c.Param("year"), "year")
	if err != nil {
		return err
	}
	month, err := intParam(c.Param("month"), "month")
	if err != nil {
		return err
	}
	view, err := h.svc.Month(c.Request().Context(), year, month)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, view)
}

// Era converts a date to its Japanese era form. Without ?date= it converts
// today. Unconvertible dates answer 200 with an empty "japanese".
// GET /api/v1/era?date=2019-05-01&year_only=true
func (h *Handler) Era(c echo.Context) error {
	date := c.QueryParam("date")
	if date == "" {
		date = h.calc.Today().String()
	}
	yearOnly := false
	if q := c.QueryParam("year_only"); q != "" {
		v, err := strconv.ParseBool(q)
		if err != nil {
			return apperror.NewBadRequest("year_only must be a boolean")
		}
		yearOnly = v
	}
	return c.JSON(http.StatusOK, h.svc.Era(date, yearOnly))
}

// Today returns today's date and dashboard header.
// GET /api/v1/today
func (h *Handler) Today(c echo.Context) error {
	return c.JSON(http.StatusOK, h.svc.Today())
}

// Show renders the HTML month page.
// GET /calendar?year=2025&month=1
func (h *Handler) Show(c echo.Context) error {
	today := h.calc.Today()
	year, month := today.Year(), int(today.Month())
	if q := c.QueryParam("year"); q != "" {
		v, err := intParam(q, "year")
		if err != nil {
			return err
		}
		year = v
	}
	if q := c.QueryParam("month"); q != "" {
		v, err := intParam(q, "month")
		if err != nil {
			return err
		}
		month = v
	}

	data, err := h.svc.MonthPage(c.Request().Context(), year, month)
	if err != nil {
		return err
	}
	return middleware.Render(c, http.StatusOK, MonthPage(data))
}
