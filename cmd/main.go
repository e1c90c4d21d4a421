package main

import (
	"marketplace-service/internal/handler"
	"marketplace-service/internal/middleware"
	"marketplace-service/internal/store"
	"marketplace-service/pkg/config"
	"marketplace-service/pkg/database"
	"marketplace-service/pkg/jwtutil"
	"marketplace-service/pkg/logger"
	"marketplace-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting marketplace service...", zap.String("environment", cfg.Server.Env))

	// Initialize database
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established")

	// Adopt any influencers whose owner row went missing
	if err := store.EnsureInfluencerOwners(database.GetDB()); err != nil {
		log.Fatal("Failed to backfill influencer owners", zap.Error(err))
	}

	// Initialize JWT utility
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utility initialized")

	// Wire handler-level configuration (admin account)
	handler.Init(cfg)

	// Initialize Echo framework
	e := echo.New()

	// Apply global middleware - order matters
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(logger.Middleware(log))
	e.Use(prometheus.MetricsMiddleware())

	// Public routes - no authentication required
	e.GET("/health", handler.HealthCheck)
	e.GET("/metrics", handler.MetricsHandler)

	// Authentication routes
	auth := e.Group("/auth")
	auth.POST("/register", handler.Register)
	auth.POST("/login", handler.Login)

	// Influencer listings. The viewer on reads is the user_id query
	// parameter; mutations carry the acting user_id in the body.
	influencers := e.Group("/influencers")
	influencers.GET("", handler.ListInfluencers)
	influencers.GET("/follows", handler.ListFollows)
	influencers.POST("", handler.CreateInfluencer)
	influencers.PUT("/:id", handler.UpdateInfluencer)
	influencers.DELETE("/:id", handler.DeleteInfluencer)
	influencers.POST("/:id/follow", handler.FollowInfluencer)
	influencers.POST("/:id/unfollow", handler.UnfollowInfluencer)

	// Campaign listings
	campaigns := e.Group("/campaigns")
	campaigns.GET("", handler.ListCampaigns)
	campaigns.POST("", handler.CreateCampaign)
	campaigns.PUT("/:id", handler.UpdateCampaign)
	campaigns.DELETE("/:id", handler.DeleteCampaign)

	// API routes - require a valid token
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)
	api.GET("/users/profile", handler.GetProfile)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
