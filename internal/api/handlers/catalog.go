package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleLoadCatalog handles POST /v1/sessions/:id/catalog. Fetches and
// classifies the storefront catalog, returning the featured/quick-pick
// layout. Storefront failures degrade to demo data, never to an error.
func HandleLoadCatalog(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		selection, err := services.Sessions.LoadCatalog(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, selection)
	}
}

// HandleSearchCatalog handles GET /v1/sessions/:id/catalog?q=term
func HandleSearchCatalog(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := services.Sessions.Search(c.Request.Context(), c.Param("id"), c.Query("q"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"items": items,
			"count": len(items),
		})
	}
}
