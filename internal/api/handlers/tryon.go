package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleTryOn handles POST /v1/sessions/:id/tryon. Every completed attempt
// returns 200 with a renderable result; generation failures surface as a
// placeholder result, not an HTTP error. Submitting while an attempt is in
// flight (or during cooldown) returns 409.
func HandleTryOn(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		result, err := services.TryOn.Submit(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}
