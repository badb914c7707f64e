// Package app is the application bootstrap and dependency injection root.
// It holds the shared infrastructure (DB pool, Redis client, Echo instance,
// date calculator) and wires the holidays, anniversaries and calendar
// plugins together.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
	"github.com/keyxmakerx/kinenbi/internal/config"
	"github.com/keyxmakerx/kinenbi/internal/datecalc"
	"github.com/keyxmakerx/kinenbi/internal/middleware"
	"github.com/keyxmakerx/kinenbi/internal/plugins/anniversaries"
	"github.com/keyxmakerx/kinenbi/internal/plugins/calendar"
	"github.com/keyxmakerx/kinenbi/internal/plugins/holidays"
)

// App holds all shared dependencies and the Echo HTTP server instance.
// Created once at startup in main.go and used to register all routes.
type App struct {
	Config *config.Config

	// DB is the MariaDB connection pool. Nil in tests that never touch it.
	DB *sql.DB

	// Redis backs the holiday cache. Nil disables caching.
	Redis *redis.Client

	Echo *echo.Echo

	// Calc is the single source of "today" for every plugin.
	Calc *datecalc.Calc

	Metrics *middleware.Metrics

	Holidays      holidays.HolidayService
	Anniversaries anniversaries.AnniversaryService
	Calendar      calendar.CalendarService

	limiter *middleware.RateLimiter
	checks  []healthCheck
}

// healthCheck is one dependency probed by /healthz.
type healthCheck struct {
	name string
	ping func(ctx context.Context) error
}

// New creates the App, its services and the Echo server with global
// middleware and error handling. Routes are added by RegisterRoutes.
func New(cfg *config.Config, db *sql.DB, rdb *redis.Client, calc *datecalc.Calc) *App {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	middleware.TrustedProxies(e, cfg.TrustedProxies)

	a := &App{
		Config:  cfg,
		DB:      db,
		Redis:   rdb,
		Echo:    e,
		Calc:    calc,
		Metrics: middleware.NewMetrics(),
		limiter: middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
	}

	var cache holidays.HolidayCache
	if rdb != nil {
		cache = holidays.NewRedisCache(rdb, cfg.Holidays.CacheTTL)
		a.checks = append(a.checks, healthCheck{"redis", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		}})
	}
	if db != nil {
		a.checks = append([]healthCheck{{"mariadb", db.PingContext}}, a.checks...)
	}

	a.Holidays = holidays.NewHolidayService(holidays.NewHolidayRepository(db), cache)
	a.Anniversaries = anniversaries.NewAnniversaryService(anniversaries.NewAnniversaryRepository(db), calc)
	a.Calendar = calendar.NewCalendarService(a.Holidays, a.Anniversaries, calc)

	a.setupMiddleware()
	e.HTTPErrorHandler = a.errorHandler

	return a
}

// setupMiddleware registers global middleware on the Echo instance.
// Order matters: outermost (recovery) runs first.
func (a *App) setupMiddleware() {
	a.Echo.Use(middleware.Recovery())
	a.Echo.Use(middleware.RequestLogger())
	a.Echo.Use(a.Metrics.Middleware())
	a.Echo.Use(middleware.SecurityHeaders(strings.HasPrefix(a.Config.BaseURL, "https://")))
	// Global rather than on /api/v1 so preflights answered by the router
	// itself still get CORS headers.
	a.Echo.Use(middleware.CORS(a.Config.CORSOrigins))
}

// errorHandler maps domain errors (AppError) and Echo's own HTTP errors to
// responses: JSON for API requests, an HTML page for browsers.
func (a *App) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := defaultErrorMessage(code)

	var appErr *apperror.AppError
	var echoErr *echo.HTTPError
	switch {
	case errors.As(err, &appErr):
		code = appErr.Code
		message = appErr.Message
		if appErr.Internal != nil {
			slog.Error("internal error",
				slog.String("type", appErr.Type),
				slog.Any("internal", appErr.Internal),
				slog.String("path", c.Request().URL.Path),
			)
		}
	case errors.As(err, &echoErr):
		code = echoErr.Code
		if msg, ok := echoErr.Message.(string); ok {
			message = msg
		} else {
			message = defaultErrorMessage(code)
		}
	default:
		slog.Error("unhandled error",
			slog.Any("error", err),
			slog.String("path", c.Request().URL.Path),
		)
	}

	if c.Request().Method == http.MethodHead {
		_ = c.NoContent(code)
		return
	}
	if middleware.WantsJSON(c) {
		_ = c.JSON(code, map[string]string{
			"error":   http.StatusText(code),
			"message": message,
		})
		return
	}
	_ = middleware.Render(c, code, calendar.ErrorPage(code, message))
}

// defaultErrorMessage returns a user-friendly message for common HTTP status
// codes when the error carries none.
func defaultErrorMessage(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "The request was invalid or cannot be processed."
	case http.StatusNotFound:
		return "The page you're looking for doesn't exist."
	case http.StatusMethodNotAllowed:
		return "This action is not allowed."
	case http.StatusUnprocessableEntity:
		return "The submitted data could not be processed."
	case http.StatusTooManyRequests:
		return "You're making too many requests. Please slow down."
	case http.StatusServiceUnavailable:
		return "The service is temporarily unavailable. Please try again later."
	default:
		return "Something went wrong on our end. Please try again."
	}
}

// SeedHolidays imports the configured holiday file when the table is empty.
// A populated table is left alone so restarts never clobber an import made
// through the CLI.
func (a *App) SeedHolidays(ctx context.Context) error {
	path := a.Config.Holidays.CSVPath
	if path == "" {
		return nil
	}
	n, err := a.Holidays.Count(ctx)
	if err != nil {
		return err
	}
	if n > 0 {
		slog.Debug("holidays already loaded", slog.Int("count", n))
		return nil
	}

	list, err := LoadHolidayFile(path)
	if err != nil {
		return err
	}
	_, err = a.Holidays.Import(ctx, list)
	return err
}

// LoadHolidayFile reads a holiday list, choosing the parser by extension:
// .json for the pre-converted form, anything else as Cabinet Office CSV.
func LoadHolidayFile(path string) ([]holidays.Holiday, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening holiday file: %w", err)
	}
	defer f.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return holidays.ReadJSON(f)
	}
	return holidays.ParseCSV(f)
}

// Start sweeps idle rate-limit buckets in the background and begins
// listening on the configured port. It blocks until the server stops.
func (a *App) Start(ctx context.Context) error {
	go a.limiter.Run(ctx, time.Minute)

	addr := fmt.Sprintf(":%d", a.Config.Port)
	slog.Info("starting kinenbi server",
		slog.String("addr", addr),
		slog.String("env", a.Config.Env),
		slog.String("time_zone", a.Config.TimeZone),
	)
	return a.Echo.Start(addr)
}
