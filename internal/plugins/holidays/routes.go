package holidays

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the read-only holiday API on the /api/v1 group.
// Imports go through the kinenbi CLI, not HTTP.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/holidays", h.ListYear)
}
