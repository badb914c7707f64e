package middleware

import (
	"log/slog"

	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/keyxmakerx/kinenbi/internal/apperror"
)

// Recovery turns a panic into a 500 AppError for the error handler. The
// panic value and stack go to the log only.
func Recovery() echo.MiddlewareFunc {
	return echomw.RecoverWithConfig(echomw.RecoverConfig{
		DisableErrorHandler: true,
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			slog.Error("panic recovered",
				slog.Any("panic", err),
				slog.String("stack", string(stack)),
				slog.String("method", c.Request().Method),
				slog.String("path", c.Request().URL.Path),
			)
			return apperror.NewInternal(err)
		},
	})
}
