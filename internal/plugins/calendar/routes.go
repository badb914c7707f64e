package calendar

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the calendar JSON API on the /api/v1 group and the
// HTML page on the root router.
func RegisterRoutes(e *echo.Echo, api *echo.Group, h *Handler) {
	api.GET("/calendar/:year", h.YearJSON)
	api.GET("/calendar/:year/:month", h.MonthJSON)
	api.GET("/era", h.Era)
	api.GET("/today", h.Today)

	e.GET("/calendar", h.Show)
}
