package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/IronRon/Adaptive-Landing-AI/app/echo-server/metrics"
	"github.com/IronRon/Adaptive-Landing-AI/app/echo-server/router"
	"github.com/IronRon/Adaptive-Landing-AI/business/bandit"
	"github.com/IronRon/Adaptive-Landing-AI/business/personal"
	"github.com/IronRon/Adaptive-Landing-AI/business/recommend"
	"github.com/IronRon/Adaptive-Landing-AI/business/scoring"
	"github.com/IronRon/Adaptive-Landing-AI/business/tracking"
	"github.com/IronRon/Adaptive-Landing-AI/internal/middleware"
	"github.com/IronRon/Adaptive-Landing-AI/internal/repository/llm"
	psqlRepo "github.com/IronRon/Adaptive-Landing-AI/internal/repository/postgres"
	"github.com/IronRon/Adaptive-Landing-AI/internal/rest"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/config"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/database"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/logger"
	pkgmetrics "github.com/IronRon/Adaptive-Landing-AI/pkg/metrics"
	"github.com/IronRon/Adaptive-Landing-AI/pkg/utils"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment)
	logger.Info("Starting Adaptive Landing", "version", cfg.App.Version, "strategy", cfg.Scoring.Strategy)

	db, err := database.InitPostgres(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	if err := database.Migrate(db); err != nil {
		logger.Fatal("Failed to migrate database", err)
	}

	logger.Info("Database connected successfully")

	utils.ConfigureJWT(cfg.JWT.SecretKey, cfg.JWT.TTL)
	pkgmetrics.Init()
	metrics.Init()

	// Init repo
	armRepo := psqlRepo.NewArmRepository(db)
	visitorRepo := psqlRepo.NewVisitorRepository(db)
	landingRepo := psqlRepo.NewLandingRepository(db)
	recoLogRepo := psqlRepo.NewRecommendationLogRepository(db)

	var model recommend.ModelClient
	if cfg.Model.Enabled {
		model = llm.NewClient(llm.Config{
			BaseURL:          cfg.Model.BaseURL,
			APIKey:           cfg.Model.APIKey,
			Model:            cfg.Model.Name,
			Timeout:          cfg.Model.Timeout,
			FailureThreshold: cfg.Model.FailureThreshold,
			OpenTimeout:      cfg.Model.OpenTimeout,
			IncludeAssets:    cfg.Model.IncludeAssets,
		})
	} else {
		logger.Warn("Recommendation model disabled, serving rule-based layouts")
	}

	// Init service
	banditService := bandit.NewBanditService(armRepo, bandit.DefaultRewardPolicy())
	personalService := personal.NewService(visitorRepo)
	trackingService := tracking.NewService(visitorRepo, banditService)
	recommendService := recommend.NewService(banditService, personalService, model, recoLogRepo, recommend.Config{
		Strategy:     recommend.Strategy(cfg.Scoring.Strategy),
		Weights:      scoring.Weights{Global: cfg.Scoring.WGlobal, User: cfg.Scoring.WUser},
		ModelTimeout: cfg.Model.Timeout,
	})

	// Init handler
	cookies := rest.NewCookieCodec(cfg.Cookie.EncryptionKey, cfg.Cookie.MaxAge, cfg.App.Environment == "production")
	landingHandler := rest.NewLandingHandler(landingRepo, trackingService, recommendService, banditService, cookies)
	trackingHandler := rest.NewTrackingHandler(trackingService, cookies)
	banditHandler := rest.NewBanditHandler(banditService)
	adminHandler := rest.NewAdminHandler(recoLogRepo, cfg.Admin.Username, cfg.Admin.PasswordHash)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.ErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.RequestID())
	e.Use(middleware.TraceID())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins:     cfg.Server.AllowOrigin,
		AllowMethods:     []string{http.MethodGet, http.MethodPost},
		AllowHeaders:     []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		AllowCredentials: true,
	}))

	e.GET("/metrics", echo.WrapHandler(promhttp.Handler()))

	// Setup routes
	api := e.Group("/api/v1")
	router.SetLandingRoutes(api, landingHandler)
	router.SetTrackingRoutes(api, trackingHandler)
	router.SetBanditRoutes(api, banditHandler)
	router.SetAdminRoutes(api, adminHandler)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}
	if err := database.Close(db); err != nil {
		logger.Error("Database close error", err)
	}

	logger.Info("Server stopped")
}
