package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
)

const StoreContextKey = "store"

// EmbedAuthMiddleware authenticates the loader's embed key. When no stores
// are registered the deployment runs open (demo mode) and requests pass
// through without a store bound to the context.
func EmbedAuthMiddleware(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stores, err := repos.Store.List(c.Request.Context())
		if err == nil && len(stores) == 0 {
			c.Next()
			return
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		parts := strings.SplitN(authHeader, " ", 2)
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}

		embedKey := strings.TrimSpace(parts[1])
		if embedKey == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing embed key"})
			c.Abort()
			return
		}

		store, err := repos.Store.GetByEmbedKey(c.Request.Context(), embedKey)
		if err != nil {
			logger.Warn("Failed to authenticate embed key", zap.Error(err))
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid embed key"})
			c.Abort()
			return
		}

		c.Set(StoreContextKey, store)
		c.Next()
	}
}

// GetStoreFromContext retrieves the authenticated store, if any
func GetStoreFromContext(c *gin.Context) (*domain.Store, bool) {
	value, exists := c.Get(StoreContextKey)
	if !exists {
		return nil, false
	}
	store, ok := value.(*domain.Store)
	return store, ok
}
