package relay

import "github.com/Nollerx/virtual-tryon-widget/internal/domain"

// FrameMode is the frame's visual state on the host page
type FrameMode string

const (
	ModeDock       FrameMode = "dock"
	ModeOverlay    FrameMode = "overlay"
	ModeFullscreen FrameMode = "fullscreen"
)

// Unit is a CSS length unit for frame dimensions
type Unit string

const (
	UnitPx Unit = "px"
	UnitVW Unit = "vw"
	UnitVH Unit = "vh"
)

// Dimension is one frame side length
type Dimension struct {
	Value int  `json:"value"`
	Unit  Unit `json:"unit"`
}

// Geometry describes the frame's size and clipping on the host page.
// ClipToDock means the collapse is applied with a clip-path rather than a
// relayout, preserving the host page's layout stability.
type Geometry struct {
	Mode       FrameMode `json:"mode"`
	Width      Dimension `json:"width"`
	Height     Dimension `json:"height"`
	ClipToDock bool      `json:"clipToDock"`
	Backdrop   bool      `json:"backdrop"`
}

const (
	dockSize              = 64
	mobileBreakpoint      = 768
	overlayMobileWidthVW  = 92
	overlayMobileHeightVH = 78
	overlayDesktopWidth   = 420
	overlayDesktopHeight  = 650
)

// DockGeometry is the collapsed ~64px square icon state
func DockGeometry() Geometry {
	return Geometry{
		Mode:       ModeDock,
		Width:      Dimension{Value: dockSize, Unit: UnitPx},
		Height:     Dimension{Value: dockSize, Unit: UnitPx},
		ClipToDock: true,
	}
}

// OverlayGeometry is the expanded panel state with a backdrop scrim.
// Viewports narrower than 768px get 92vw x 78vh; wider get 420x650px.
func OverlayGeometry(viewport domain.Viewport) Geometry {
	if viewport.Width < mobileBreakpoint {
		return Geometry{
			Mode:     ModeOverlay,
			Width:    Dimension{Value: overlayMobileWidthVW, Unit: UnitVW},
			Height:   Dimension{Value: overlayMobileHeightVH, Unit: UnitVH},
			Backdrop: true,
		}
	}
	return Geometry{
		Mode:     ModeOverlay,
		Width:    Dimension{Value: overlayDesktopWidth, Unit: UnitPx},
		Height:   Dimension{Value: overlayDesktopHeight, Unit: UnitPx},
		Backdrop: true,
	}
}

// FullscreenGeometry fills the viewport
func FullscreenGeometry(viewport domain.Viewport) Geometry {
	return Geometry{
		Mode:   ModeFullscreen,
		Width:  Dimension{Value: viewport.Width, Unit: UnitPx},
		Height: Dimension{Value: viewport.Height, Unit: UnitPx},
	}
}

// ClampHeight applies an ELLO_SIZE request: requested height is clamped to
// the viewport height
func ClampHeight(requested int, viewport domain.Viewport) int {
	if requested > viewport.Height {
		return viewport.Height
	}
	return requested
}
