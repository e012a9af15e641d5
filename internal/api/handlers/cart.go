package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type addToCartRequest struct {
	ClothingID     string `json:"clothingId" binding:"required"`
	VariantID      string `json:"variantId"`
	TryOnID        string `json:"tryOnId"`
	TryOnResultURL string `json:"tryOnResultUrl"`
}

// HandleAddToCart handles POST /v1/sessions/:id/cart. When the item needs
// a size choice the response carries status "needs_size" and the distinct
// options; the client retries with variantId, or never retries to cancel.
func HandleAddToCart(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req addToCartRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "clothingId is required"})
			return
		}

		result, err := services.Cart.AddToCart(c.Request.Context(), c.Param("id"),
			req.ClothingID, req.VariantID, req.TryOnResultURL, req.TryOnID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

type wardrobeCartRequest struct {
	VariantID string `json:"variantId"`
}

// HandleWardrobeAddToCart handles POST /v1/sessions/:id/wardrobe/:tryOnId/cart
func HandleWardrobeAddToCart(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req wardrobeCartRequest
		if err := c.ShouldBindJSON(&req); err != nil && c.Request.ContentLength > 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
			return
		}

		result, err := services.Cart.AddWardrobeItemToCart(c.Request.Context(), c.Param("id"),
			c.Param("tryOnId"), req.VariantID)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
