package handlers

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/service"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// Services aggregates everything the handlers need
type Services struct {
	Sessions *service.SessionService
	TryOn    *service.TryOnService
	Cart     *service.CartService
	Wardrobe *service.WardrobeService
	Chat     *service.ChatService
	Theme    *service.ThemeService
}

// respondError maps domain errors onto HTTP statuses
func respondError(c *gin.Context, logger *zap.Logger, err error) {
	var (
		notFound     *errors.ErrNotFound
		unauthorized *errors.ErrUnauthorized
		validation   *errors.ErrValidation
		precondition *errors.ErrPrecondition
		transition   *errors.ErrInvalidStateTransition
		external     *errors.ErrExternal
	)

	switch {
	case stderrors.As(err, &notFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case stderrors.As(err, &unauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
	case stderrors.As(err, &validation):
		body := gin.H{"error": err.Error()}
		if len(validation.Fields) > 0 {
			body["fields"] = validation.Fields
		}
		c.JSON(http.StatusBadRequest, body)
	case stderrors.As(err, &precondition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &transition):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case stderrors.As(err, &external):
		logger.Error("Upstream call failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
	default:
		logger.Error("Unhandled error", zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
