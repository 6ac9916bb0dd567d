package router

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"

	"github.com/IronRon/Adaptive-Landing-AI/internal/rest"
)

func TestAdminRoutesRequireToken(t *testing.T) {
	e := echo.New()
	api := e.Group("/api/v1")
	SetBanditRoutes(api, rest.NewBanditHandler(nil))
	SetAdminRoutes(api, rest.NewAdminHandler(nil, "admin", ""))

	for _, tc := range []struct{ method, path string }{
		{http.MethodGet, "/api/v1/bandit/arms"},
		{http.MethodPost, "/api/v1/bandit/rewards"},
		{http.MethodGet, "/api/v1/admin/ai-logs"},
	} {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(tc.method, tc.path, nil))
		assert.Equal(t, http.StatusUnauthorized, rec.Code, tc.path)
	}
}
