package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"github.com/Kamar-Folarin/game-updater/internal/api"
	"github.com/Kamar-Folarin/game-updater/internal/app"
	"github.com/Kamar-Folarin/game-updater/internal/config"

	_ "github.com/Kamar-Folarin/game-updater/docs"
)

// @title Game Updater API
// @version 1.0
// @description Backend for a game launcher: version checks, tracked git clone and update, launch.
// @contact.name API Support
// @contact.url http://github.com/Kamar-Folarin
// @license.name MIT
// @license.url https://opensource.org/licenses/MIT
// @host localhost:8080
// @BasePath /api/v1
// @securityDefinitions.apikey LauncherToken
// @in header
// @name X-Launcher-Token
func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{
		TimestampFormat: time.RFC3339,
	})
	logger.SetOutput(os.Stdout)

	// Load configuration with defaults
	cfg, err := config.Load()
	if err != nil {
		logger.Fatalf("Failed to load configuration: %v", err)
	}
	logger.SetLevel(cfg.LogLevel)

	if cfg.GitRepoURL == "" {
		logger.Warn("GIT_REPO_URL not set, clone and update need a repository in the install file")
	}

	launcherApp, err := app.New(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to initialize launcher: %v", err)
	}

	if err := launcherApp.Service.WatchVersions(cfg.VersionCheckInterval); err != nil {
		logger.Fatalf("Failed to schedule version checks: %v", err)
	}

	if cfg.LogLevel < logrus.DebugLevel {
		gin.SetMode(gin.ReleaseMode)
	}
	router := api.SetupRouter(api.NewHandler(launcherApp.Service, logger), api.RouterConfig{
		APIToken: cfg.APIToken,
	})

	// Create HTTP server. Blocking clones can take long, so there is no
	// write timeout.
	server := &http.Server{
		Addr:        ":" + cfg.Port,
		Handler:     router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		logger.Infof("Server starting on port %s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatalf("Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Errorf("Server shutdown failed: %v", err)
	}
	if err := launcherApp.Close(); err != nil {
		logger.Errorf("Failed to close launcher: %v", err)
	}
	logger.Info("Server exited properly")
}
