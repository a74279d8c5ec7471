package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"loanflow-backend/internal/adapters/http/middleware"
	"loanflow-backend/internal/adapters/http/routes"
	"loanflow-backend/internal/adapters/persistence/models"
	"loanflow-backend/internal/config"
	"loanflow-backend/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	_ "loanflow-backend/docs" // Swagger docs
)

// @title LoanFlow API
// @version 1.0
// @description Back-office loan application workflow API

// @contact.name API Support
// @contact.email support@loanflow.co.id

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0.html

// @host api.loanflow.co.id
// @BasePath /api/v1
// @schemes https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	zapLogger, err := logger.New(cfg.IsDev())
	if err != nil {
		log.Fatalf("❌ Failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	// Connect to database
	db, err := config.ConnectDatabase(cfg, zapLogger)
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		zapLogger.Fatal("Failed to auto migrate", zap.Error(err))
	}
	zapLogger.Info("Database migration completed")

	// Seed roles, menus, grants and products
	if err := config.NewSeeder(db).Run(); err != nil {
		zapLogger.Warn("Database seeding failed", zap.Error(err))
	}

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "LoanFlow API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	reminder := routes.Setup(app, db, cfg, zapLogger)

	// Daily queue reminder broadcast
	if cfg.Reminder.Enabled {
		if err := reminder.Start(); err != nil {
			zapLogger.Warn("Failed to start queue reminder", zap.Error(err))
		} else {
			defer reminder.Stop()
		}
	}

	// Graceful shutdown
	go gracefulShutdown(app, zapLogger)

	// Start server
	zapLogger.Info("Server starting",
		zap.String("port", cfg.Port),
		zap.String("mode", cfg.AppMode),
	)
	if err := app.Listen(":" + cfg.Port); err != nil {
		zapLogger.Fatal("Failed to start server", zap.Error(err))
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App, zapLogger *zap.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		zapLogger.Error("Error during shutdown", zap.Error(err))
	}
	zapLogger.Info("Server stopped gracefully")
}
