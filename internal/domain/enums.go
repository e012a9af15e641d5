package domain

// SessionPhase is the bootstrap state of a widget session
type SessionPhase string

const (
	// AWAITING_CONFIG - session created, config handshake not yet completed
	PhaseAwaitingConfig SessionPhase = "AWAITING_CONFIG"
	// CONFIGURED - store config received and stored
	PhaseConfigured SessionPhase = "CONFIGURED"
	// CATALOG_LOADING - catalog fetch in progress
	PhaseCatalogLoading SessionPhase = "CATALOG_LOADING"
	// READY - catalog loaded (real or demo fallback), widget operational
	PhaseReady SessionPhase = "READY"
)

// IsValid checks if the session phase is valid
func (p SessionPhase) IsValid() bool {
	switch p {
	case PhaseAwaitingConfig, PhaseConfigured, PhaseCatalogLoading, PhaseReady:
		return true
	default:
		return false
	}
}

// CanTransitionTo checks if a phase transition is valid. Phases only move
// forward; READY is re-enterable on catalog reload.
func (p SessionPhase) CanTransitionTo(next SessionPhase) bool {
	switch p {
	case PhaseAwaitingConfig:
		return next == PhaseConfigured
	case PhaseConfigured:
		return next == PhaseCatalogLoading
	case PhaseCatalogLoading:
		return next == PhaseReady
	case PhaseReady:
		return next == PhaseCatalogLoading
	default:
		return false
	}
}

// TryOnState is the state of the try-on orchestration machine
type TryOnState string

const (
	TryOnIdle       TryOnState = "IDLE"
	TryOnSubmitting TryOnState = "SUBMITTING"
	TryOnSuccess    TryOnState = "SUCCESS"
	TryOnFallback   TryOnState = "FALLBACK"
	TryOnError      TryOnState = "ERROR"
)

// Terminal reports whether the state converges back to IDLE after cooldown
func (s TryOnState) Terminal() bool {
	return s == TryOnSuccess || s == TryOnFallback || s == TryOnError
}

// WidgetMode selects between the try-on panel and the chat panel
type WidgetMode string

const (
	ModeTryOn WidgetMode = "tryon"
	ModeChat  WidgetMode = "chat"
)

// ItemSource identifies where a catalog item came from; the cart flow is
// polymorphic over this
type ItemSource string

const (
	SourceShopify ItemSource = "shopify"
	SourceStorage ItemSource = "supabase"
	SourceDemo    ItemSource = "demo"
)

// ConversionType labels analytics events sent to the webhook
const (
	ConversionShopifyAddToCart  = "shopify_add_to_cart"
	ConversionWardrobeAddToCart = "wardrobe_add_to_cart"
	ConversionStoragePurchase   = "supabase_purchase_intent"
	ConversionDemoPurchase      = "demo_purchase_intent"
)
