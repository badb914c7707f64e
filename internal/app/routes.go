package app

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/keyxmakerx/kinenbi/internal/plugins/anniversaries"
	"github.com/keyxmakerx/kinenbi/internal/plugins/calendar"
	"github.com/keyxmakerx/kinenbi/internal/plugins/holidays"
)

// healthTimeout bounds each dependency ping in /healthz.
const healthTimeout = 2 * time.Second

// RegisterRoutes sets up all application routes. This is the single place
// where plugin routes are aggregated.
func (a *App) RegisterRoutes() {
	e := a.Echo

	e.GET("/", func(c echo.Context) error {
		return c.Redirect(http.StatusFound, "/calendar")
	})
	e.GET("/healthz", a.healthz)
	e.GET("/metrics", echo.WrapHandler(a.Metrics.Handler()))

	api := e.Group("/api/v1", a.limiter.Middleware())

	holidays.RegisterRoutes(api, holidays.NewHandler(a.Holidays, a.Calc))
	anniversaries.RegisterRoutes(api, anniversaries.NewHandler(a.Anniversaries, a.Calc))
	calendar.RegisterRoutes(e, api, calendar.NewHandler(a.Calendar, a.Calc))
}

// healthz pings every configured dependency. Any failure answers 503 with
// the per-dependency status so orchestrators can tell what is down.
func (a *App) healthz(c echo.Context) error {
	status := http.StatusOK
	deps := make(map[string]string, len(a.checks))
	for _, check := range a.checks {
		ctx, cancel := context.WithTimeout(c.Request().Context(), healthTimeout)
		err := check.ping(ctx)
		cancel()
		if err != nil {
			status = http.StatusServiceUnavailable
			deps[check.name] = err.Error()
			continue
		}
		deps[check.name] = "ok"
	}

	overall := "ok"
	if status != http.StatusOK {
		overall = "unavailable"
	}
	return c.JSON(status, map[string]any{"status": overall, "checks": deps})
}
