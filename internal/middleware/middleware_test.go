package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/utils"
)

func newEcho() *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = ErrorHandler
	return e
}

func TestAuthMiddleware(t *testing.T) {
	utils.ConfigureJWT("mw-secret", time.Hour)
	admin, err := utils.GenerateJWT("admin", RoleAdmin)
	require.NoError(t, err)
	viewer, err := utils.GenerateJWT("bob", "VIEWER")
	require.NoError(t, err)

	e := newEcho()
	e.GET("/admin", func(c echo.Context) error {
		return c.String(http.StatusOK, c.Get("user_id").(string))
	}, AuthMiddleware(), AdminOnly())

	tests := []struct {
		name   string
		header string
		code   int
	}{
		{name: "missing header", header: "", code: http.StatusUnauthorized},
		{name: "wrong scheme", header: "Basic abc", code: http.StatusUnauthorized},
		{name: "garbage token", header: "Bearer abc", code: http.StatusUnauthorized},
		{name: "not admin", header: "Bearer " + viewer, code: http.StatusForbidden},
		{name: "admin", header: "Bearer " + admin, code: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/admin", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, req)
			assert.Equal(t, tt.code, rec.Code)
		})
	}
}

func TestErrorHandler(t *testing.T) {
	e := newEcho()
	e.GET("/boom", func(c echo.Context) error { return errors.New("kaput") })

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "INTERNAL_SERVER_ERROR")
	assert.NotContains(t, rec.Body.String(), "kaput")

	rec = httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/nowhere", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "NOT_FOUND")
}

func TestTraceID(t *testing.T) {
	e := newEcho()
	e.Use(echomiddleware.RequestID(), TraceID())

	var got string
	e.GET("/", func(c echo.Context) error {
		got = bandit.TraceIDFromContext(c.Request().Context())
		return c.NoContent(http.StatusNoContent)
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(echo.HeaderXRequestID, "req-42")
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", got)
}
