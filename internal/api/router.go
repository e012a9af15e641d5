package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/api/handlers"
	"github.com/Nollerx/virtual-tryon-widget/internal/api/middleware"
	"github.com/Nollerx/virtual-tryon-widget/internal/config"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, services *handlers.Services, registry *handlers.RelayRegistry, repos *repository.Repositories, allowedOrigin string, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "Virtual Try-On Widget API",
			"endpoints": []string{
				"GET /health",
				"POST /v1/sessions",
				"POST /v1/sessions/:id/messages",
				"POST /v1/sessions/:id/catalog",
				"POST /v1/sessions/:id/tryon",
				"POST /v1/sessions/:id/cart",
				"GET /v1/sessions/:id/wardrobe",
				"POST /v1/sessions/:id/chat",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// API v1 routes
	v1 := router.Group("/v1")
	v1.Use(middleware.OriginMiddleware(allowedOrigin, logger))
	{
		// Session creation authenticates the embedding store
		embed := v1.Group("")
		embed.Use(middleware.EmbedAuthMiddleware(repos, logger))
		{
			embed.POST("/sessions", handlers.HandleCreateSession(cfg, services, registry, logger))
		}

		sessions := v1.Group("/sessions/:id")
		{
			sessions.GET("", handlers.HandleGetSession(services, logger))
			sessions.DELETE("", handlers.HandleEndSession(services, registry, logger))
			sessions.POST("/messages", handlers.HandleRelayMessage(registry, logger))
			sessions.PUT("/viewport", handlers.HandleViewportUpdate(registry, logger))
			sessions.POST("/config", handlers.HandleApplyConfig(services, logger))
			sessions.POST("/catalog", handlers.HandleLoadCatalog(services, logger))
			sessions.GET("/catalog", handlers.HandleSearchCatalog(services, logger))
			sessions.POST("/photo", handlers.HandleUploadPhoto(services, logger))
			sessions.POST("/selection", handlers.HandleSelectClothing(services, logger))
			sessions.DELETE("/selection", handlers.HandleClearSelection(services, logger))
			sessions.POST("/open", handlers.HandleOpenWidget(services, registry, logger))
			sessions.POST("/close", handlers.HandleCloseWidget(services, registry, logger))
			sessions.POST("/mode", handlers.HandleSetMode(services, logger))
			sessions.POST("/tryon", handlers.HandleTryOn(services, logger))
			sessions.POST("/cart", handlers.HandleAddToCart(services, logger))
			sessions.POST("/chat", handlers.HandleChat(services, logger))

			wardrobe := sessions.Group("/wardrobe")
			{
				wardrobe.GET("", handlers.HandleListWardrobe(services, logger))
				wardrobe.GET("/count", handlers.HandleWardrobeCount(services, logger))
				wardrobe.DELETE("/:tryOnId", handlers.HandleRemoveWardrobeItem(services, logger))
				wardrobe.POST("/:tryOnId/cart", handlers.HandleWardrobeAddToCart(services, logger))
				wardrobe.POST("/:tryOnId/reselect", handlers.HandleReselectWardrobeItem(services, logger))
				wardrobe.POST("/:tryOnId/outfit", handlers.HandleAddToOutfit(services, logger))
				wardrobe.POST("/:tryOnId/use-photo", handlers.HandleUseOriginalPhoto(services, logger))
			}
		}

		v1.GET("/stores/:storeId/theme", handlers.HandleGetTheme(services, logger))
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
