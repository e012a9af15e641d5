package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/api"
	"github.com/Nollerx/virtual-tryon-widget/internal/api/handlers"
	"github.com/Nollerx/virtual-tryon-widget/internal/config"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository/memory"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository/postgres"
	"github.com/Nollerx/virtual-tryon-widget/internal/service"
	"github.com/Nollerx/virtual-tryon-widget/internal/webhook"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Initialize logger
	var logger *zap.Logger
	if cfg.Environment == "production" {
		logger, _ = zap.NewProduction()
	} else {
		logger, _ = zap.NewDevelopment()
	}
	defer logger.Sync()

	allowedOrigin, err := cfg.Widget.AllowedOrigin()
	if err != nil {
		logger.Fatal("Invalid widget base URL", zap.Error(err))
	}

	logger.Info("Starting try-on widget server",
		zap.String("port", cfg.Port),
		zap.String("environment", cfg.Environment),
		zap.String("allowed_origin", allowedOrigin),
	)

	// Initialize repositories. Sessions and wardrobes live in memory; the
	// conversion journal is optional and Postgres-backed.
	storeRepo := memory.NewStoreRepository()
	if cfg.Widget.StoresFile != "" {
		var err error
		storeRepo, err = memory.NewStoreRepositoryFromFile(cfg.Widget.StoresFile)
		if err != nil {
			logger.Fatal("Failed to load stores file", zap.Error(err))
		}
		registered, _ := storeRepo.List(context.Background())
		logger.Info("Embed-key auth enabled", zap.Int("stores", len(registered)))
	} else {
		logger.Warn("No stores file configured, running open (demo mode)")
	}

	repos := &repository.Repositories{
		Session:  memory.NewSessionRepository(),
		Wardrobe: memory.NewWardrobeRepository(),
		Store:    storeRepo,
	}
	if cfg.Database.Enabled() {
		db, err := postgres.NewConnection(cfg.Database)
		if err != nil {
			logger.Fatal("Failed to connect to database", zap.Error(err))
		}
		defer db.Close()
		repos.ConversionEvent = postgres.NewConversionEventRepository(db, logger)
		logger.Info("Conversion journal enabled")
	}

	// Initialize services
	webhookClient := webhook.NewClient(cfg.Webhook.URL, cfg.Webhook.Timeout, logger)
	catalogService := service.NewCatalogService(
		service.DefaultFetcherFactory(cfg.Shopify.APIVersion, logger), logger)
	sessionService := service.NewSessionService(repos, catalogService, logger)

	services := &handlers.Services{
		Sessions: sessionService,
		TryOn:    service.NewTryOnService(repos, sessionService, webhookClient, logger),
		Cart: service.NewCartService(repos, service.DefaultCartFactory(logger),
			webhookClient, logger),
		Wardrobe: service.NewWardrobeService(repos, sessionService, logger),
		Chat:     service.NewChatService(repos, webhookClient, logger),
		Theme:    service.NewThemeService(cfg.Settings, logger),
	}

	registry := handlers.NewRelayRegistry(allowedOrigin, cfg.Widget.ReadyTimeout, logger)

	// Initialize router
	router := api.NewRouter(cfg, services, registry, repos, allowedOrigin, logger)

	// Create HTTP server
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	logger.Info("Server started successfully", zap.String("address", srv.Addr))

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exited")
}
