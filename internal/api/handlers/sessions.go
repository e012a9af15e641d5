package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/api/middleware"
	"github.com/Nollerx/virtual-tryon-widget/internal/config"
	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/relay"
)

type createSessionRequest struct {
	StoreID   string            `json:"storeId"`
	StoreName string            `json:"storeName"`
	Theme     domain.Theme      `json:"theme"`
	Device    domain.DeviceInfo `json:"device"`
	Page      relay.PageContext `json:"page"`
}

type sessionResponse struct {
	SessionID string         `json:"sessionId"`
	Phase     string         `json:"phase"`
	Geometry  relay.Geometry `json:"geometry"`
	Visible   bool           `json:"visible"`
	Theme     string         `json:"widgetTheme"`
}

// HandleCreateSession handles POST /v1/sessions. The loader calls this
// once at embed time: it registers the session, detects the host page's
// current product, and arms the relay (including its fail-open timer).
func HandleCreateSession(cfg *config.Config, services *Services, registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req createSessionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid session request"})
			return
		}

		// The loader sends its viewport; device class is derived server-side
		// from the request's user agent so the loader stays minimal.
		device := relay.DetectDevice(c.Request.UserAgent(), req.Device.Viewport)
		if req.Device.IsMobile || req.Device.IsTablet {
			device = req.Device
		}

		session, err := services.Sessions.Create(c.Request.Context(), device)
		if err != nil {
			respondError(c, logger, err)
			return
		}

		storeConfig := domain.StoreConfig{
			StoreID:         req.StoreID,
			StoreName:       req.StoreName,
			Theme:           req.Theme,
			ShopDomain:      cfg.Shopify.ShopDomain,
			StorefrontToken: cfg.Shopify.StorefrontToken,
			CurrentProduct:  relay.DetectCurrentProduct(req.Page),
		}
		if storeConfig.StoreID == "" {
			storeConfig.StoreID = "demo-store"
			storeConfig.StoreName = "Demo Store"
		}

		// A registered store's credentials override the deployment defaults
		if store, ok := middleware.GetStoreFromContext(c); ok {
			storeConfig.StoreID = store.ID
			storeConfig.StoreName = store.Name
			if store.ShopDomain != "" {
				storeConfig.ShopDomain = store.ShopDomain
				storeConfig.StorefrontToken = store.StorefrontToken
			}
		}

		rel := registry.Create(session.ID, storeConfig, device.Viewport)
		widgetTheme := services.Theme.Lookup(c.Request.Context(), storeConfig.StoreID)

		c.JSON(http.StatusCreated, sessionResponse{
			SessionID: session.ID,
			Phase:     string(session.Phase),
			Geometry:  rel.Geometry(),
			Visible:   rel.Visible(),
			Theme:     widgetTheme,
		})
	}
}

// HandleEndSession handles DELETE /v1/sessions/:id. The loader calls this
// on page unload; the session, its wardrobe, and its relay are dropped.
func HandleEndSession(services *Services, registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		sessionID := c.Param("id")
		if err := services.Sessions.End(c.Request.Context(), sessionID); err != nil {
			respondError(c, logger, err)
			return
		}
		registry.Remove(sessionID)
		c.JSON(http.StatusOK, gin.H{"ended": sessionID})
	}
}

// HandleGetSession handles GET /v1/sessions/:id
func HandleGetSession(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Sessions.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"sessionId":        session.ID,
			"phase":            session.Phase,
			"mode":             session.Mode,
			"widgetOpen":       session.WidgetOpen,
			"selectedClothing": session.SelectedClothing,
			"hasPhoto":         session.UserPhoto != "",
			"canTryOn":         session.CanTryOn(),
			"tryOnState":       session.TryOnState,
			"catalogSize":      len(session.Catalog),
		})
	}
}

// HandleApplyConfig handles POST /v1/sessions/:id/config. The widget posts
// back the configuration it received over the relay.
func HandleApplyConfig(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var storeConfig domain.StoreConfig
		if err := c.ShouldBindJSON(&storeConfig); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid store config"})
			return
		}

		session, err := services.Sessions.ApplyConfig(c.Request.Context(), c.Param("id"), storeConfig)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"phase": session.Phase})
	}
}

type photoUploadRequest struct {
	Photo string `json:"photo" binding:"required"` // data URL
}

// HandleUploadPhoto handles POST /v1/sessions/:id/photo
func HandleUploadPhoto(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req photoUploadRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "no file selected"})
			return
		}

		session, err := services.Sessions.UploadPhoto(c.Request.Context(), c.Param("id"), req.Photo)
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"fileId":   session.UserPhotoFileID,
			"canTryOn": session.CanTryOn(),
		})
	}
}

type selectionRequest struct {
	ClothingID string `json:"clothingId" binding:"required"`
}

// HandleSelectClothing handles POST /v1/sessions/:id/selection
func HandleSelectClothing(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req selectionRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "clothingId is required"})
			return
		}

		session, err := services.Sessions.SelectClothing(c.Request.Context(), c.Param("id"), req.ClothingID)
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

// HandleClearSelection handles DELETE /v1/sessions/:id/selection
func HandleClearSelection(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, err := services.Sessions.ClearSelection(c.Request.Context(), c.Param("id")); err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"selectedClothing": ""})
	}
}

// HandleOpenWidget handles POST /v1/sessions/:id/open
func HandleOpenWidget(services *Services, registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, selection, err := services.Sessions.Open(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := gin.H{"widgetOpen": session.WidgetOpen}
		if selection != nil {
			resp["selection"] = selection
			resp["selectedClothing"] = session.SelectedClothing
		}
		if rel, ok := registry.Get(session.ID); ok {
			resp["outbound"] = rel.HandleMessage(rel.AllowedOrigin(), relay.Message{Type: relay.MsgOpenPanel})
			resp["geometry"] = rel.Geometry()
		}
		c.JSON(http.StatusOK, resp)
	}
}

// HandleCloseWidget handles POST /v1/sessions/:id/close. Collapses the
// frame and resets the session's transient state.
func HandleCloseWidget(services *Services, registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		session, err := services.Sessions.Close(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, logger, err)
			return
		}

		resp := gin.H{"widgetOpen": session.WidgetOpen, "mode": session.Mode}
		if rel, ok := registry.Get(session.ID); ok {
			resp["outbound"] = rel.HandleMessage(rel.AllowedOrigin(), relay.Message{Type: relay.MsgClosePanel})
			resp["geometry"] = rel.Geometry()
		}
		c.JSON(http.StatusOK, resp)
	}
}

type modeRequest struct {
	Mode string `json:"mode" binding:"required"`
}

// HandleSetMode handles POST /v1/sessions/:id/mode
func HandleSetMode(services *Services, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req modeRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "mode is required"})
			return
		}

		session, err := services.Sessions.SetMode(c.Request.Context(), c.Param("id"), domain.WidgetMode(req.Mode))
		if err != nil {
			respondError(c, logger, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"mode": session.Mode})
	}
}
