package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// HandleListWardrobe handles GET /v1/sessions/:id/wardrobe
func HandleListWardrobe(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		items, err := services.Wardrobe.List(c.Request.Context(), c.Param("id"))
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

// HandleWardrobeCount handles GET /v1/sessions/:id/wardrobe/count. The
// widget polls this for the wardrobe button badge without shipping the
// full item list.
func HandleWardrobeCount(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		count, err := services.Wardrobe.Count(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"count": count})
	}
}

// HandleRemoveWardrobeItem handles DELETE /v1/sessions/:id/wardrobe/:tryOnId
func HandleRemoveWardrobeItem(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if err := services.Wardrobe.Remove(c.Request.Context(), c.Param("id"), c.Param("tryOnId")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"removed": c.Param("tryOnId")})
	}
}

// HandleAddToOutfit handles POST /v1/sessions/:id/wardrobe/:tryOnId/outfit.
// The saved result image becomes the new base photo so garments stack.
func HandleAddToOutfit(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Wardrobe.AddToOutfit(c.Request.Context(), c.Param("id"), c.Param("tryOnId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"photoFileId": session.UserPhotoFileID,
			"canTryOn":    session.CanTryOn(),
		})
	}
}

// HandleUseOriginalPhoto handles POST /v1/sessions/:id/wardrobe/:tryOnId/use-photo
func HandleUseOriginalPhoto(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Wardrobe.UseOriginalPhoto(c.Request.Context(), c.Param("id"), c.Param("tryOnId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"photoFileId": session.UserPhotoFileID,
			"canTryOn":    session.CanTryOn(),
		})
	}
}

// HandleReselectWardrobeItem handles POST /v1/sessions/:id/wardrobe/:tryOnId/reselect
func HandleReselectWardrobeItem(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Wardrobe.Reselect(c.Request.Context(), c.Param("id"), c.Param("tryOnId"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"selectedClothing": session.SelectedClothing,
			"canTryOn":         session.CanTryOn(),
		})
	}
}
