package rest

import (
	"context"
	"net/http"
	"strconv"

	"github.com/AMFarhan21/fres"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/IronRon/Adaptive-Landing-AI/domain"
	"github.com/IronRon/Adaptive-Landing-AI/internal/middleware"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/utils"
)

const aiLogLimit = 20

type (
	AdminHandler struct {
		validate     *validator.Validate
		logs         RecommendationLogs
		username     string
		passwordHash string
	}

	RecommendationLogs interface {
		Latest(ctx context.Context, pageID uint, limit int) ([]domain.AIRecommendation, error)
	}

	AdminLoginRequest struct {
		Username string `json:"username" validate:"required"`
		Password string `json:"password" validate:"required"`
	}

	AdminLoginResponse struct {
		Token string `json:"token"`
	}
)

func NewAdminHandler(logs RecommendationLogs, username, passwordHash string) *AdminHandler {
	return &AdminHandler{
		validate:     validator.New(),
		logs:         logs,
		username:     username,
		passwordHash: passwordHash,
	}
}

// POST /api/v1/admin/login
func (h *AdminHandler) Login(c echo.Context) error {
	var req AdminLoginRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}
	if err := h.validate.Struct(&req); err != nil {
		return c.JSON(http.StatusBadRequest, ResponseError{Message: err.Error()})
	}

	if h.passwordHash == "" || req.Username != h.username || !utils.CheckPassword(h.passwordHash, req.Password) {
		logger.Warn("Admin login failed", "username", req.Username)
		return c.JSON(http.StatusUnauthorized, ResponseError{Message: "invalid credentials"})
	}

	token, err := utils.GenerateJWT(req.Username, middleware.RoleAdmin)
	if err != nil {
		logger.Error("Failed to generate token", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: "failed to generate token"})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(AdminLoginResponse{Token: token}))
}

// GET /api/v1/admin/ai-logs?page_id=1
func (h *AdminHandler) AILogs(c echo.Context) error {
	var pageID uint
	if raw := c.QueryParam("page_id"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 32)
		if err != nil {
			return c.JSON(http.StatusBadRequest, ResponseError{Message: "invalid page_id"})
		}
		pageID = uint(id)
	}

	rows, err := h.logs.Latest(c.Request().Context(), pageID, aiLogLimit)
	if err != nil {
		logger.Error("Failed to load ai logs", err)
		return c.JSON(http.StatusInternalServerError, ResponseError{Message: err.Error()})
	}

	return c.JSON(http.StatusOK, fres.Response.StatusOK(rows))
}
