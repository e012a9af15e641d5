package handlers

import (
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/relay"
)

// RelayRegistry tracks the per-session message relays. A relay exists from
// session creation until the session is torn down; its fail-open timer is
// armed on creation.
type RelayRegistry struct {
	mu            sync.Mutex
	relays        map[string]*relay.Relay
	allowedOrigin string
	readyTimeout  time.Duration
	logger        *zap.Logger
}

// NewRelayRegistry creates a new relay registry
func NewRelayRegistry(allowedOrigin string, readyTimeout time.Duration, logger *zap.Logger) *RelayRegistry {
	return &RelayRegistry{
		relays:        make(map[string]*relay.Relay),
		allowedOrigin: allowedOrigin,
		readyTimeout:  readyTimeout,
		logger:        logger,
	}
}

// Create builds and starts a relay for the session
func (r *RelayRegistry) Create(sessionID string, cfg domain.StoreConfig, viewport domain.Viewport) *relay.Relay {
	rel := relay.New(r.allowedOrigin, cfg, viewport, r.readyTimeout, r.logger)
	rel.Start()

	r.mu.Lock()
	r.relays[sessionID] = rel
	r.mu.Unlock()
	return rel
}

// Get returns the session's relay
func (r *RelayRegistry) Get(sessionID string) (*relay.Relay, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	rel, ok := r.relays[sessionID]
	return rel, ok
}

// Remove stops and drops the session's relay
func (r *RelayRegistry) Remove(sessionID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if rel, ok := r.relays[sessionID]; ok {
		rel.Stop()
		delete(r.relays, sessionID)
	}
}

type relayMessageRequest struct {
	Origin  string        `json:"origin" binding:"required"`
	Message relay.Message `json:"message" binding:"required"`
}

// HandleRelayMessage handles POST /v1/sessions/:id/messages. The loader
// forwards every widget message here; replies carry an explicit target
// origin. A foreign origin yields an empty reply, never an error — silent
// drop is the contract.
func HandleRelayMessage(registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel, ok := registry.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		var req relayMessageRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid message envelope"})
			return
		}

		outbound := rel.HandleMessage(req.Origin, req.Message)

		c.JSON(http.StatusOK, gin.H{
			"outbound": outbound,
			"geometry": rel.Geometry(),
			"visible":  rel.Visible(),
		})
	}
}

// HandleViewportUpdate handles PUT /v1/sessions/:id/viewport
func HandleViewportUpdate(registry *RelayRegistry, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		rel, ok := registry.Get(c.Param("id"))
		if !ok {
			c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
			return
		}

		var viewport domain.Viewport
		if err := c.ShouldBindJSON(&viewport); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid viewport"})
			return
		}

		rel.SetViewport(viewport)
		c.JSON(http.StatusOK, gin.H{"geometry": rel.Geometry()})
	}
}
