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
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"

	"github.com/saketjha34/FileForge/internal/api"
	"github.com/saketjha34/FileForge/internal/config"
	"github.com/saketjha34/FileForge/internal/platform/crypto"
	"github.com/saketjha34/FileForge/internal/service"
	"github.com/saketjha34/FileForge/internal/storage"
	"github.com/saketjha34/FileForge/internal/store/postgres"
)

// main is the entry point for the application.
func main() {
	if err := run(); err != nil {
		log.Fatalf("failed to run server: %v", err)
	}
}

// run initializes and starts the HTTP server.
func run() error {
	// =========================================================================
	// Configuration
	//
	// Load configuration from environment variables.
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}

	// Setup structured logger.
	var logger *zap.Logger
	if cfg.Debug {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		return fmt.Errorf("failed to build logger: %w", err)
	}
	defer logger.Sync()
	logger.Info("configuration loaded")

	// =========================================================================
	// Database Connection
	gdb, err := postgres.Open(cfg.Postgres, cfg.Debug)
	if err != nil {
		return fmt.Errorf("could not connect to database: %w", err)
	}
	logger.Info("database connection established")

	// =========================================================================
	// Blob Store Connection
	blobCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	blobs, err := storage.NewMinioStore(blobCtx, cfg.Minio)
	if err != nil {
		return fmt.Errorf("could not connect to blob store: %w", err)
	}
	logger.Info("blob store connection established", zap.String("bucket", cfg.Minio.Bucket))

	// =========================================================================
	// Initialize Dependencies (Dependency Injection)
	//
	// This is where we "wire" our application together.
	db := postgres.New(gdb)
	stores := db.Stores()

	passwordMgr := crypto.NewBcryptManager(0)
	tokenMgr := crypto.NewJWTManager(cfg.Auth.SecretKey, cfg.Auth.TokenTTL, cfg.Auth.JWTIssuer)

	userService := service.NewUserService(stores.Users, passwordMgr, tokenMgr)
	folderService := service.NewFolderService(stores, db, blobs, logger)
	fileService := service.NewFileService(stores, db, blobs, logger)
	archiveService := service.NewArchiveService(stores, db, blobs, logger)
	favoriteService := service.NewFavoriteService(stores)

	handlers := api.Handlers{
		Users:     api.NewUserHandler(userService),
		Folders:   api.NewFolderHandler(folderService, archiveService, logger),
		Files:     api.NewFileHandler(fileService),
		Favorites: api.NewFavoriteHandler(favoriteService),
	}
	authMiddleware := api.NewAuthMiddleware(tokenMgr)

	logger.Info("dependencies initialized")

	// =========================================================================
	// HTTP Server Setup
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())

	api.RegisterRoutes(e, handlers, authMiddleware)

	// =========================================================================
	// Start Server & Graceful Shutdown

	shutdownErr := make(chan error)

	go func() {
		logger.Info("server starting", zap.String("addr", cfg.HTTP.Port))
		shutdownErr <- e.Start(cfg.HTTP.Port)
	}()

	// Listen for OS signals for graceful shutdown.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-shutdownErr:
		if err != nil && err != http.ErrServerClosed {
			return fmt.Errorf("server error: %w", err)
		}
	case sig := <-quit:
		logger.Info("shutdown signal received", zap.String("signal", sig.String()))
	}

	// Attempt a graceful shutdown.
	ctx, cancelShutdown := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancelShutdown()

	if err := e.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	logger.Info("server shut down gracefully")
	return nil
}
