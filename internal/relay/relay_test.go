package relay

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

const widgetOrigin = "https://widget.example.com"

func newTestRelay(viewport domain.Viewport) *Relay {
	cfg := domain.StoreConfig{
		StoreID:   "store-1",
		StoreName: "Test Store",
		Theme:     domain.Theme{Primary: "#111827", Accent: "#6EE7B7"},
	}
	return New(widgetOrigin, cfg, viewport, 3*time.Second, nil)
}

func desktopViewport() domain.Viewport { return domain.Viewport{Width: 1280, Height: 900} }
func mobileViewport() domain.Viewport  { return domain.Viewport{Width: 390, Height: 844} }

func TestHandleMessage_RejectsForeignOrigin(t *testing.T) {
	origins := []string{"", "https://evil.example.com", "http://widget.example.com", "https://widget.example.com.evil.com"}
	for _, origin := range origins {
		t.Run("origin "+origin, func(t *testing.T) {
			r := newTestRelay(desktopViewport())
			before := r.Geometry()

			out := r.HandleMessage(origin, Message{Type: MsgOpenPanel})

			assert.Nil(t, out, "foreign origin must get no reply")
			assert.Equal(t, before, r.Geometry(), "foreign origin must cause no state change")
			assert.False(t, r.Visible())
		})
	}
}

func TestHandleMessage_ReadyRevealsDocksAndPushesConfig(t *testing.T) {
	r := newTestRelay(desktopViewport())

	out := r.HandleMessage(widgetOrigin, Message{Type: MsgReady})

	require.Len(t, out, 1)
	assert.Equal(t, MsgConfig, out[0].Message.Type)
	assert.Equal(t, widgetOrigin, out[0].TargetOrigin, "outbound messages use the explicit origin, never *")
	assert.True(t, r.Visible())
	assert.Equal(t, ModeDock, r.Geometry().Mode)

	var cfg domain.StoreConfig
	require.NoError(t, json.Unmarshal(out[0].Message.Payload, &cfg))
	assert.Equal(t, "store-1", cfg.StoreID)
}

func TestHandleMessage_OpenPanelDesktopGeometry(t *testing.T) {
	r := newTestRelay(desktopViewport())

	r.HandleMessage(widgetOrigin, Message{Type: MsgOpenPanel})

	g := r.Geometry()
	assert.Equal(t, ModeOverlay, g.Mode)
	assert.Equal(t, Dimension{Value: 420, Unit: UnitPx}, g.Width)
	assert.Equal(t, Dimension{Value: 650, Unit: UnitPx}, g.Height)
	assert.True(t, g.Backdrop)
}

func TestHandleMessage_OpenPanelMobileGeometry(t *testing.T) {
	r := newTestRelay(mobileViewport())

	r.HandleMessage(widgetOrigin, Message{Type: MsgOpenPanel})

	g := r.Geometry()
	assert.Equal(t, ModeOverlay, g.Mode)
	assert.Equal(t, Dimension{Value: 92, Unit: UnitVW}, g.Width)
	assert.Equal(t, Dimension{Value: 78, Unit: UnitVH}, g.Height)
}

func TestHandleMessage_ClosePanelCollapsesToClippedDock(t *testing.T) {
	r := newTestRelay(desktopViewport())
	r.HandleMessage(widgetOrigin, Message{Type: MsgOpenPanel})

	r.HandleMessage(widgetOrigin, Message{Type: MsgClosePanel})

	g := r.Geometry()
	assert.Equal(t, ModeDock, g.Mode)
	assert.Equal(t, Dimension{Value: 64, Unit: UnitPx}, g.Width)
	assert.Equal(t, Dimension{Value: 64, Unit: UnitPx}, g.Height)
	assert.True(t, g.ClipToDock, "dock collapse uses clip-path, not relayout")
}

func TestHandleMessage_SizeClampsToViewport(t *testing.T) {
	r := newTestRelay(domain.Viewport{Width: 1280, Height: 700})

	msg, err := NewMessage(MsgSize, SizePayload{Height: 1200})
	require.NoError(t, err)
	r.HandleMessage(widgetOrigin, msg)
	assert.Equal(t, 700, r.Geometry().Height.Value)

	msg, err = NewMessage(MsgSize, SizePayload{Height: 500})
	require.NoError(t, err)
	r.HandleMessage(widgetOrigin, msg)
	assert.Equal(t, 500, r.Geometry().Height.Value)
}

func TestHandleMessage_SizeIgnoresMalformedPayload(t *testing.T) {
	r := newTestRelay(desktopViewport())
	before := r.Geometry()

	r.HandleMessage(widgetOrigin, Message{Type: MsgSize, Payload: json.RawMessage(`{"height":"tall"}`)})
	r.HandleMessage(widgetOrigin, Message{Type: MsgSize, Payload: json.RawMessage(`{"height":-5}`)})

	assert.Equal(t, before, r.Geometry())
}

func TestHandleMessage_GetConfigResends(t *testing.T) {
	r := newTestRelay(desktopViewport())

	out := r.HandleMessage(widgetOrigin, Message{Type: MsgGetConfig})

	require.Len(t, out, 1)
	assert.Equal(t, MsgConfig, out[0].Message.Type)
	assert.Equal(t, widgetOrigin, out[0].TargetOrigin)
}

func TestHandleMessage_UnknownTypeIgnored(t *testing.T) {
	r := newTestRelay(desktopViewport())
	before := r.Geometry()

	out := r.HandleMessage(widgetOrigin, Message{Type: "ELLO_UNKNOWN"})

	assert.Nil(t, out)
	assert.Equal(t, before, r.Geometry())
}

func TestFailOpen_RevealsFrameWithoutReady(t *testing.T) {
	cfg := domain.StoreConfig{StoreID: "store-1"}
	r := New(widgetOrigin, cfg, desktopViewport(), 10*time.Millisecond, nil)
	r.Start()
	defer r.Stop()

	assert.Eventually(t, r.Visible, time.Second, 5*time.Millisecond,
		"frame must fail open when READY never arrives")
	assert.False(t, r.Ready())
}

func TestFailOpen_ConvergesWithLateReady(t *testing.T) {
	cfg := domain.StoreConfig{StoreID: "store-1"}
	r := New(widgetOrigin, cfg, desktopViewport(), 5*time.Millisecond, nil)
	r.Start()
	defer r.Stop()

	time.Sleep(20 * time.Millisecond)
	out := r.HandleMessage(widgetOrigin, Message{Type: MsgReady})

	require.Len(t, out, 1, "late READY still delivers config")
	assert.True(t, r.Visible())
	assert.True(t, r.Ready())
	assert.Equal(t, ModeDock, r.Geometry().Mode)
}

func TestSetViewport_RecomputesOpenOverlay(t *testing.T) {
	r := newTestRelay(desktopViewport())
	r.HandleMessage(widgetOrigin, Message{Type: MsgOpenPanel})

	r.SetViewport(mobileViewport())

	g := r.Geometry()
	assert.Equal(t, UnitVW, g.Width.Unit)
	assert.Equal(t, 92, g.Width.Value)
}
