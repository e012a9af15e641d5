package domain

import (
	"time"
)

// Theme holds the two brand colors a store configures for the widget
type Theme struct {
	Primary string `json:"primary"`
	Accent  string `json:"accent"`
}

// StoreConfig is passed once from the loader to the widget at startup.
// Immutable for the lifetime of a session.
type StoreConfig struct {
	StoreID         string          `json:"storeId"`
	StoreName       string          `json:"storeName"`
	Theme           Theme           `json:"theme"`
	ShopDomain      string          `json:"shopDomain"`
	StorefrontToken string          `json:"storefrontToken"`
	CurrentProduct  *CurrentProduct `json:"currentProduct,omitempty"`
}

// CurrentProduct is the loader's best-effort detection of the product the
// host page is currently showing
type CurrentProduct struct {
	Handle    string `json:"handle"`
	VariantID string `json:"variantId,omitempty"`
}

// Variant is a specific purchasable size/color combination of a catalog item.
// Recreated on every catalog reload, never mutated in place.
type Variant struct {
	ID        string  `json:"id"` // Shopify GID
	Title     string  `json:"title"`
	Available bool    `json:"available"`
	Price     float64 `json:"price"`
	Currency  string  `json:"currency"`
	Size      string  `json:"size"`
	Color     string  `json:"color"`
}

// ClothingItem is a normalized Shopify product. Invariant: every item held
// in a session catalog passed the clothing classifier.
type ClothingItem struct {
	ID                string     `json:"id"` // product handle
	Name              string     `json:"name"`
	Brand             string     `json:"brand"`
	Category          string     `json:"category"`
	Price             float64    `json:"price"`
	Color             string     `json:"color"`
	ImageURL          string     `json:"image_url"`
	ProductURL        string     `json:"product_url"`
	DataSource        ItemSource `json:"data_source"`
	ShopifyProductGID string     `json:"shopify_product_gid"`
	ShopifyProductID  string     `json:"shopify_product_id"`
	Variants          []Variant  `json:"variants"`
}

func (c *ClothingItem) HasVariants() bool {
	return len(c.Variants) > 0
}

// DeviceInfo describes the shopper's device, carried in webhook payloads
type DeviceInfo struct {
	IsMobile  bool     `json:"isMobile"`
	IsTablet  bool     `json:"isTablet"`
	IsIOS     bool     `json:"isIOS"`
	IsAndroid bool     `json:"isAndroid"`
	Viewport  Viewport `json:"viewport"`
}

// Viewport is the shopper's window size in CSS pixels
type Viewport struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

// Session is the single mutable record for one widget session. Created at
// load, mutated by handlers, reset on widget close. All mutation goes
// through the session service under the session lock.
type Session struct {
	ID               string
	Phase            SessionPhase
	Config           *StoreConfig
	Catalog          []ClothingItem
	SelectedClothing string // clothing item id, empty when nothing selected
	UserPhoto        string // data URL
	UserPhotoFileID  string
	CurrentTryOnID   string
	Mode             WidgetMode
	WidgetOpen       bool
	Device           DeviceInfo

	// Try-on orchestration state. tryOnInProgress is the only explicit
	// mutual-exclusion primitive in the system and must be preserved.
	TryOnInProgress bool
	TryOnState      TryOnState
	CooldownUntil   time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// CanTryOn reports whether the try-on action is eligible: both a photo and
// a selection must be present
func (s *Session) CanTryOn() bool {
	return s.UserPhoto != "" && s.SelectedClothing != ""
}

// FindCatalogItem returns the catalog item with the given id, or nil
func (s *Session) FindCatalogItem(id string) *ClothingItem {
	for i := range s.Catalog {
		if s.Catalog[i].ID == id {
			return &s.Catalog[i]
		}
	}
	return nil
}

// WardrobeItem is one persisted try-on result, keyed implicitly by
// ClothingID (upsert semantics). Lifetime is the browsing session.
type WardrobeItem struct {
	ID               string    `json:"id"` // try-on id
	ClothingID       string    `json:"clothingId"`
	ClothingName     string    `json:"clothingName"`
	ClothingPrice    float64   `json:"clothingPrice"`
	ClothingCategory string    `json:"clothingCategory"`
	ClothingColor    string    `json:"clothingColor"`
	ClothingImageURL string    `json:"clothingImageUrl"`
	ResultImageURL   string    `json:"resultImageUrl"`
	OriginalPhotoURL string    `json:"originalPhotoUrl"`
	Timestamp        time.Time `json:"timestamp"`
	SessionID        string    `json:"sessionId"`
	IsOriginalPhoto  bool      `json:"isOriginalPhoto,omitempty"`
}

// ConversionEvent is a best-effort analytics record emitted on cart adds
// and purchase intents. Failures recording these never surface.
type ConversionEvent struct {
	TryOnID        string    `json:"tryOnId"`
	SessionID      string    `json:"sessionId"`
	StoreID        string    `json:"storeId"`
	ConversionType string    `json:"conversionType"`
	RevenueAmount  float64   `json:"revenueAmount"`
	ClothingID     string    `json:"clothingId"`
	VariantID      string    `json:"variantId"`
	ResultImageURL string    `json:"tryonResultUrl"`
	Device         DeviceInfo `json:"deviceInfo"`
	Timestamp      time.Time `json:"timestamp"`
}

// Store is a registered storefront allowed to embed the widget. Embed keys
// are stored bcrypt-hashed and verified by the auth middleware.
type Store struct {
	ID              string
	Name            string
	EmbedKeyHash    string
	ShopDomain      string
	StorefrontToken string
	Theme           Theme
	IsActive        bool
	CreatedAt       time.Time
}
