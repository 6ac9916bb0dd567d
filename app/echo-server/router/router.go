package router

import (
	"github.com/IronRon/Adaptive-Landing-AI/internal/middleware"
	"github.com/IronRon/Adaptive-Landing-AI/internal/rest"

	"github.com/labstack/echo/v4"
)

func SetLandingRoutes(api *echo.Group, handler *rest.LandingHandler) {
	api.GET("/landing", handler.Landing)
}

func SetTrackingRoutes(api *echo.Group, handler *rest.TrackingHandler) {
	api.POST("/accept-cookies", handler.AcceptCookies)
	api.POST("/track-interactions", handler.Track)
}

func SetBanditRoutes(api *echo.Group, handler *rest.BanditHandler) {
	bandit := api.Group("/bandit", middleware.AuthMiddleware(), middleware.AdminOnly())
	bandit.GET("/arms", handler.Arms)
	bandit.POST("/rewards", handler.Rewards)
}

func SetAdminRoutes(api *echo.Group, handler *rest.AdminHandler) {
	admin := api.Group("/admin")
	admin.POST("/login", handler.Login)
	admin.GET("/ai-logs", handler.AILogs, middleware.AuthMiddleware(), middleware.AdminOnly())
}
