package middleware

import (
	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"

	"github.com/labstack/echo/v4"
)

// TraceID copies the request id set by echo's RequestID middleware into the
// request context so services can log it.
func TraceID() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := c.Response().Header().Get(echo.HeaderXRequestID)
			if id == "" {
				id = c.Request().Header.Get(echo.HeaderXRequestID)
			}
			if id != "" {
				req := c.Request()
				c.SetRequest(req.WithContext(bandit.WithTraceID(req.Context(), id)))
			}
			return next(c)
		}
	}
}
