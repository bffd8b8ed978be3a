package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/jmpark/gocheol-backend/config"
	"github.com/jmpark/gocheol-backend/internal/app/controller"
	"github.com/jmpark/gocheol-backend/internal/app/repository"
	"github.com/jmpark/gocheol-backend/internal/app/service"
	"github.com/jmpark/gocheol-backend/internal/db"
	"github.com/jmpark/gocheol-backend/internal/middleware"
	"github.com/jmpark/gocheol-backend/internal/router"
	"github.com/jmpark/gocheol-backend/internal/scheduler"
	"github.com/jmpark/gocheol-backend/internal/storage"
	"github.com/jmpark/gocheol-backend/internal/websocket"
	"github.com/jmpark/gocheol-backend/pkg/logger"
	"github.com/jmpark/gocheol-backend/pkg/redis"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	// Initialize logger
	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting GOCHEOL Pricing Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	// Initialize database
	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	// Run migrations
	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Seed default material types (optional)
	if err := db.Seed(); err != nil {
		logger.Warn("Failed to seed database", map[string]interface{}{
			"error": err.Error(),
		})
	}

	// Initialize Redis (optional - ticker cache works without it)
	var tickerCache service.TickerCache
	if cfg.Redis.Enabled {
		if err := redis.Init(&cfg.Redis); err != nil {
			logger.Warn("Redis unavailable, ticker cache disabled", map[string]interface{}{
				"error": err.Error(),
			})
		} else {
			defer redis.Close()
			tickerCache = redis.NewCache(redis.GetClient())
		}
	}

	// Initialize websocket hub for live ticker updates
	hub := websocket.NewHub()
	go hub.Run()

	// Initialize repositories
	materialRepo := repository.NewMaterialRepository(db.GetDB())
	marketPriceRepo := repository.NewMarketPriceRepository(db.GetDB())
	coefficientRepo := repository.NewCoefficientRepository(db.GetDB())
	decisionRepo := repository.NewDecisionRepository(db.GetDB())
	siteRepo := repository.NewSiteRepository(db.GetDB())

	// Initialize services
	marketAPI := service.NewDefaultMarketAPI(cfg.Market.APIURL, cfg.Market.APIKey)
	marketService := service.NewMarketService(marketPriceRepo, materialRepo, marketAPI, tickerCache, hub)
	pricingService := service.NewPricingService(
		materialRepo,
		marketPriceRepo,
		coefficientRepo,
		decisionRepo,
		siteRepo,
		db.GetDB(),
	)
	siteService := service.NewSiteService(siteRepo)
	materialService := service.NewMaterialService(materialRepo)

	// Initialize storage for approval evidence uploads
	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Initialize controllers
	pricingController := controller.NewPricingController(pricingService)
	marketController := controller.NewMarketController(marketService)
	siteController := controller.NewSiteController(siteService)
	materialController := controller.NewMaterialController(materialService)
	uploadController := controller.NewUploadController(s3Storage)

	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	// Start market price scheduler
	var priceScheduler *scheduler.MarketPriceScheduler
	if cfg.Scheduler.Enabled {
		priceScheduler = scheduler.NewMarketPriceScheduler(marketService, cfg.Scheduler.CronSpec)
		if err := priceScheduler.Start(); err != nil {
			logger.Error("Failed to start market price scheduler", err)
		}
	}

	// Setup router
	r := router.NewRouter(
		pricingController,
		marketController,
		siteController,
		materialController,
		uploadController,
		hub,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	// Start server in a goroutine
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	if priceScheduler != nil {
		priceScheduler.Stop()
	}
	logger.Info("Server stopped successfully")
}
