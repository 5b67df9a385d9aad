package main

import (
	"context"
	"os"
	"time"

	"app/analytics"
	"app/config"
	"app/database"
	"app/handlers"
	"app/routes"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

func main() {
	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})
	logLevel, err := logrus.ParseLevel(os.Getenv("LOG_LEVEL"))
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.Info("No .env file found, using environment variables")
	}

	// Load configuration
	config.AppConfig = config.Load()
	cfg := config.AppConfig
	if cfg.JWTSecret == "" {
		logger.Fatal("JWT_SECRET is not set")
	}

	// Initialize database. The pipeline can still run on synthetic data
	// when no database is configured.
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL != "" {
		database.InitDB(databaseURL)
		defer database.CloseDB()
	} else if !cfg.SyntheticFallback {
		logger.Fatal("DATABASE_URL is not set and synthetic fallback is disabled")
	} else {
		logger.Warn("DATABASE_URL is not set, serving synthetic data only")
	}

	// Wire the analytics pipeline
	loader := analytics.NewLoader(database.GetDB(), cfg, logger)
	engine := analytics.NewEngine(cfg, logger)
	cache := analytics.NewMemoryCache(cfg.CacheTTL)
	service := analytics.NewService(loader, engine, cache, logger)
	handlers.InitAnalytics(service, logger)

	// Scheduled refresh of the default session keeps the dashboard warm
	scheduler := cron.New()
	if _, err := scheduler.AddFunc(cfg.RefreshSchedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
		defer cancel()
		if _, err := service.Run(ctx, cfg.DefaultSession); err != nil {
			logger.WithError(err).Error("scheduled analysis refresh failed")
		}
	}); err != nil {
		logger.Fatalf("Invalid refresh schedule %q: %v", cfg.RefreshSchedule, err)
	}
	scheduler.Start()
	defer scheduler.Stop()

	app := fiber.New()

	// Add CORS middleware
	app.Use(cors.New())

	// Setup routes
	routes.SetupRoutes(app)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "3000"
	}
	logger.Fatal(app.Listen(":" + port))
}
