package middleware

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"

	jsonres "github.com/IronRon/Adaptive-Landing-AI/pkg/response"

	"github.com/labstack/echo/v4"
)

// ErrorHandler renders errors that escape handlers as the JSON error envelope.
func ErrorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	code := http.StatusInternalServerError
	message := http.StatusText(code)

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code = he.Code
		message = fmt.Sprint(he.Message)
	} else {
		logger.Error("unhandled error", "path", c.Path(), err)
	}

	status := strings.ToUpper(strings.ReplaceAll(http.StatusText(code), " ", "_"))

	var werr error
	if c.Request().Method == http.MethodHead {
		werr = c.NoContent(code)
	} else {
		werr = c.JSON(code, jsonres.Error(status, message, nil))
	}
	if werr != nil {
		logger.Error("failed to write error response", werr)
	}
}
