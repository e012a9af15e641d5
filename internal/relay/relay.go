// Package relay implements the host-page side of the widget: it owns the
// frame's existence, size, and security boundary, and relays a closed set
// of typed messages between the host page and the widget frame.
package relay

import (
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

// Relay processes inbound frame messages and produces outbound ones. All
// inbound messages are rejected unless the sender origin exactly equals
// the configured widget origin; non-matching messages are silently dropped
// with no state change and no reply. This is the sole security boundary.
type Relay struct {
	mu sync.Mutex

	allowedOrigin string
	config        domain.StoreConfig
	viewport      domain.Viewport

	geometry Geometry
	visible  bool
	ready    bool

	readyTimeout  time.Duration
	failOpenTimer *time.Timer

	logger *zap.Logger
}

// New creates a relay for one embedded frame. The config payload already
// carries the detected current product, if any.
func New(allowedOrigin string, config domain.StoreConfig, viewport domain.Viewport, readyTimeout time.Duration, logger *zap.Logger) *Relay {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Relay{
		allowedOrigin: allowedOrigin,
		config:        config,
		viewport:      viewport,
		geometry:      DockGeometry(),
		readyTimeout:  readyTimeout,
		logger:        logger,
	}
}

// Start arms the fail-open timer: if no ELLO_READY arrives within the
// ready timeout, the frame is revealed anyway so the widget is never
// permanently invisible. Safe to call once; idempotent with a late READY.
func (r *Relay) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOpenTimer != nil {
		return
	}
	r.failOpenTimer = time.AfterFunc(r.readyTimeout, r.failOpen)
}

// Stop disarms the fail-open timer
func (r *Relay) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failOpenTimer != nil {
		r.failOpenTimer.Stop()
		r.failOpenTimer = nil
	}
}

func (r *Relay) failOpen() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.ready || r.visible {
		return
	}
	r.visible = true
	r.logger.Warn("Widget frame never signaled ready, revealing anyway",
		zap.Duration("timeout", r.readyTimeout))
}

// HandleMessage processes one inbound message from the given origin and
// returns any outbound messages to deliver. A non-matching origin yields
// no state change and no reply.
func (r *Relay) HandleMessage(origin string, msg Message) []Outbound {
	if origin == "" || origin != r.allowedOrigin {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	switch msg.Type {
	case MsgReady:
		// May race the fail-open timer or arrive twice; both paths
		// converge on a visible, docked frame with config delivered.
		r.ready = true
		r.visible = true
		r.geometry = DockGeometry()
		return r.configPushLocked()

	case MsgOpenPanel:
		r.geometry = OverlayGeometry(r.viewport)
		return nil

	case MsgClosePanel:
		r.geometry = DockGeometry()
		return nil

	case MsgRequestFullscreen:
		r.geometry = FullscreenGeometry(r.viewport)
		return nil

	case MsgSize:
		var payload SizePayload
		if err := json.Unmarshal(msg.Payload, &payload); err != nil || payload.Height <= 0 {
			return nil
		}
		r.geometry.Height = Dimension{
			Value: ClampHeight(payload.Height, r.viewport),
			Unit:  UnitPx,
		}
		return nil

	case MsgGetConfig:
		return r.configPushLocked()

	default:
		// ignore
		return nil
	}
}

func (r *Relay) configPushLocked() []Outbound {
	msg, err := NewMessage(MsgConfig, r.config)
	if err != nil {
		r.logger.Error("Failed to marshal store config", zap.Error(err))
		return nil
	}
	return []Outbound{{Message: msg, TargetOrigin: r.allowedOrigin}}
}

// SetViewport records a host viewport change; overlay geometry is
// recomputed if the panel is open
func (r *Relay) SetViewport(viewport domain.Viewport) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.viewport = viewport
	if r.geometry.Mode == ModeOverlay {
		r.geometry = OverlayGeometry(viewport)
	}
}

// Geometry returns the frame's current geometry
func (r *Relay) Geometry() Geometry {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.geometry
}

// Visible reports whether the frame has been revealed (by READY or by the
// fail-open path)
func (r *Relay) Visible() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.visible
}

// Ready reports whether the frame signaled ELLO_READY
func (r *Relay) Ready() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ready
}

// AllowedOrigin returns the sole origin this relay accepts messages from
func (r *Relay) AllowedOrigin() string {
	return r.allowedOrigin
}
