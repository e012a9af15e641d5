package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type chatRequest struct {
	Message string `json:"message" binding:"required"`
}

// HandleChat handles POST /v1/sessions/:id/chat
func HandleChat(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req chatRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "message is required"})
			return
		}

		reply, err := services.Chat.Send(c.Request.Context(), c.Param("id"), req.Message)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"reply": reply})
	}
}

// HandleGetTheme handles GET /v1/stores/:storeId/theme
func HandleGetTheme(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		theme := services.Theme.Lookup(c.Request.Context(), c.Param("storeId"))
		c.JSON(http.StatusOK, gin.H{"widgetTheme": theme})
	}
}
