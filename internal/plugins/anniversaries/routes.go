package anniversaries

import "github.com/labstack/echo/v4"

// RegisterRoutes sets up the anniversary JSON API on the /api/v1 group.
func RegisterRoutes(api *echo.Group, h *Handler) {
	api.GET("/collections", h.ListCollections)
	api.POST("/collections", h.CreateCollection)
	api.GET("/collections/:id", h.GetCollection)
	api.PUT("/collections/:id", h.UpdateCollection)
	api.DELETE("/collections/:id", h.DeleteCollection)
	api.GET("/collections/:id/anniversaries", h.ListByCollection)

	api.GET("/anniversaries.ics", h.ExportICS)
	api.POST("/anniversaries", h.Create)
	api.GET("/anniversaries/:id", h.Get)
	api.PUT("/anniversaries/:id", h.Update)
	api.DELETE("/anniversaries/:id", h.Delete)

	api.GET("/dashboard", h.Dashboard)
	api.GET("/upcoming", h.Upcoming)
}
