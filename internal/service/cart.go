package service

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/repository"
	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
	"github.com/Nollerx/virtual-tryon-widget/internal/webhook"
	"github.com/Nollerx/virtual-tryon-widget/pkg/errors"
)

// Selectors the host page should update after a cart add; Shopify themes
// disagree about where they render the counter, so all are tried.
var CartCounterSelectors = []string{
	".cart-count",
	".cart-counter",
	".cart-item-count",
	"[data-cart-count]",
	".header__cart-count",
	".cart-link__bubble",
	".cart__count",
	"#cart-count",
	".cart-count-bubble",
}

// Events themes listen for to refresh cart drawers
var CartUpdateEvents = []string{
	"cart:updated",
	"cart:refresh",
	"cart:change",
	"cartUpdated",
	"ajaxCart:updated",
}

// CartStatus is the outcome of an add-to-cart attempt
type CartStatus string

const (
	// CartAdded means the item landed in the Shopify cart
	CartAdded CartStatus = "added"
	// CartNeedsSize means the caller must pick a size and retry; nothing
	// was mutated
	CartNeedsSize CartStatus = "needs_size"
	// CartRedirect means the shopper should finish the purchase on the
	// product's own page
	CartRedirect CartStatus = "redirect"
	// CartContactStore means the product has no purchase flow of its own
	CartContactStore CartStatus = "contact_store"
	// CartDemo means the item is demo data with no real purchase path
	CartDemo CartStatus = "demo"
)

// SizeOption is one distinct selectable size
type SizeOption struct {
	Size      string  `json:"size"`
	VariantID string  `json:"variantId"`
	Price     float64 `json:"price"`
}

// CartResult describes what happened and what the host page should do next
type CartResult struct {
	Status           CartStatus          `json:"status"`
	ItemName         string              `json:"itemName"`
	Size             string              `json:"size,omitempty"`
	SizeOptions      []SizeOption        `json:"sizeOptions,omitempty"`
	Cart             *shopify.CartState  `json:"cart,omitempty"`
	ProductURL       string              `json:"productUrl,omitempty"`
	Message          string              `json:"message,omitempty"`
	CounterSelectors []string            `json:"counterSelectors,omitempty"`
	UpdateEvents     []string            `json:"updateEvents,omitempty"`
}

// ShopifyCart is the storefront cart AJAX surface
type ShopifyCart interface {
	AddItem(ctx context.Context, numericVariantID string) (json.RawMessage, error)
	GetCart(ctx context.Context) (*shopify.CartState, error)
}

// CartClientFactory builds a cart client for a storefront domain
type CartClientFactory func(shopDomain string) ShopifyCart

// DefaultCartFactory returns a factory backed by the storefront cart AJAX API
func DefaultCartFactory(logger *zap.Logger) CartClientFactory {
	return func(shopDomain string) ShopifyCart {
		return shopify.NewCartClient("https://"+shopDomain, logger)
	}
}

// ConversionTracker sends best-effort analytics events
type ConversionTracker interface {
	TrackConversion(event domain.ConversionEvent, clothing webhook.SelectedClothing, cartResult json.RawMessage)
}

// CartService runs the add-to-cart flow, polymorphic over the item's data
// source, with size resolution and best-effort conversion analytics.
type CartService struct {
	repos   *repository.Repositories
	newCart CartClientFactory
	tracker ConversionTracker
	logger  *zap.Logger
}

// NewCartService creates a new cart service
func NewCartService(repos *repository.Repositories, newCart CartClientFactory, tracker ConversionTracker, logger *zap.Logger) *CartService {
	return &CartService{
		repos:   repos,
		newCart: newCart,
		tracker: tracker,
		logger:  logger,
	}
}

// AddToCart adds a clothing item to the cart. When the item has several
// sizes and none was chosen, it returns CartNeedsSize with the distinct
// available sizes and no side effects; the caller retries with a
// variantID once the shopper picks (or simply never retries to cancel).
func (s *CartService) AddToCart(ctx context.Context, sessionID, clothingID, variantID, tryOnResultURL, tryOnID string) (*CartResult, error) {
	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}

	clothing := session.FindCatalogItem(clothingID)
	if clothing == nil {
		return nil, &errors.ErrNotFound{Resource: "clothing item", ID: clothingID}
	}
	if len(clothing.Variants) == 0 {
		return nil, &errors.ErrPrecondition{Message: "product variants not found"}
	}

	variant, options, err := resolveVariant(clothing, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return &CartResult{
			Status:      CartNeedsSize,
			ItemName:    clothing.Name,
			SizeOptions: options,
		}, nil
	}

	conversionType := domain.ConversionShopifyAddToCart
	return s.purchase(ctx, session, clothing, variant, tryOnResultURL, tryOnID, conversionType)
}

// AddWardrobeItemToCart re-runs the cart flow for a saved wardrobe entry
func (s *CartService) AddWardrobeItemToCart(ctx context.Context, sessionID, tryOnID, variantID string) (*CartResult, error) {
	entry, err := s.repos.Wardrobe.GetByTryOnID(ctx, sessionID, tryOnID)
	if err != nil {
		return nil, err
	}

	session, err := s.repos.Session.GetByID(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	clothing := session.FindCatalogItem(entry.ClothingID)
	if clothing == nil {
		return nil, &errors.ErrNotFound{Resource: "clothing item", ID: entry.ClothingID}
	}
	if len(clothing.Variants) == 0 {
		return nil, &errors.ErrPrecondition{Message: "product variants not found"}
	}

	variant, options, err := resolveVariant(clothing, variantID)
	if err != nil {
		return nil, err
	}
	if variant == nil {
		return &CartResult{
			Status:      CartNeedsSize,
			ItemName:    clothing.Name,
			SizeOptions: options,
		}, nil
	}

	return s.purchase(ctx, session, clothing, variant, entry.ResultImageURL, tryOnID, domain.ConversionWardrobeAddToCart)
}

// purchase dispatches on the item's data source
func (s *CartService) purchase(ctx context.Context, session *domain.Session, clothing *domain.ClothingItem, variant *domain.Variant, tryOnResultURL, tryOnID, conversionType string) (*CartResult, error) {
	switch clothing.DataSource {
	case domain.SourceShopify:
		return s.shopifyPurchase(ctx, session, clothing, variant, tryOnResultURL, tryOnID, conversionType)
	case domain.SourceStorage:
		return s.storagePurchase(session, clothing, variant, tryOnResultURL, tryOnID)
	default:
		return s.demoPurchase(session, clothing, variant, tryOnResultURL, tryOnID)
	}
}

func (s *CartService) shopifyPurchase(ctx context.Context, session *domain.Session, clothing *domain.ClothingItem, variant *domain.Variant, tryOnResultURL, tryOnID, conversionType string) (*CartResult, error) {
	shopDomain := ""
	if session.Config != nil {
		shopDomain = session.Config.ShopDomain
	}
	cart := s.newCart(shopDomain)

	cartResult, err := cart.AddItem(ctx, shopify.NumericID(variant.ID))
	if err != nil {
		return nil, &errors.ErrExternal{Service: "shopify cart", Err: err}
	}

	state, err := cart.GetCart(ctx)
	if err != nil {
		// The add succeeded; a failed refresh only loses the counter update
		s.logger.Warn("Cart refresh failed after add", zap.Error(err))
		state = nil
	}

	s.track(session, clothing, variant, tryOnResultURL, tryOnID, conversionType, variant.Price, cartResult)

	sizeText := variant.Size
	if sizeText == "" {
		sizeText = variant.Title
	}
	return &CartResult{
		Status:           CartAdded,
		ItemName:         clothing.Name,
		Size:             sizeText,
		Cart:             state,
		CounterSelectors: CartCounterSelectors,
		UpdateEvents:     CartUpdateEvents,
	}, nil
}

// storagePurchase covers items that came from the settings store rather
// than Shopify: the shopper finishes on the product page when there is
// one, otherwise the store owner handles it.
func (s *CartService) storagePurchase(session *domain.Session, clothing *domain.ClothingItem, variant *domain.Variant, tryOnResultURL, tryOnID string) (*CartResult, error) {
	s.track(session, clothing, variant, tryOnResultURL, tryOnID, domain.ConversionStoragePurchase, variant.Price, nil)

	if clothing.ProductURL != "" && clothing.ProductURL != "#" {
		return &CartResult{
			Status:     CartRedirect,
			ItemName:   clothing.Name,
			ProductURL: clothing.ProductURL,
			Message:    fmt.Sprintf("%s - check the new tab to complete your purchase", clothing.Name),
		}, nil
	}
	return &CartResult{
		Status:   CartContactStore,
		ItemName: clothing.Name,
		Message:  "This product is managed by your store. Please contact the store owner to complete your purchase.",
	}, nil
}

func (s *CartService) demoPurchase(session *domain.Session, clothing *domain.ClothingItem, variant *domain.Variant, tryOnResultURL, tryOnID string) (*CartResult, error) {
	s.track(session, clothing, variant, tryOnResultURL, tryOnID, domain.ConversionDemoPurchase, variant.Price, nil)

	return &CartResult{
		Status:   CartDemo,
		ItemName: clothing.Name,
		Message:  fmt.Sprintf("%s is a demo product. Contact us to set up real products.", clothing.Name),
	}, nil
}

// track journals and ships a conversion event. Both paths are best-effort:
// analytics can never break a purchase.
func (s *CartService) track(session *domain.Session, clothing *domain.ClothingItem, variant *domain.Variant, tryOnResultURL, tryOnID, conversionType string, revenue float64, cartResult json.RawMessage) {
	storeID := "default_store"
	if session.Config != nil && session.Config.StoreID != "" {
		storeID = session.Config.StoreID
	}

	size := variant.Size
	if size == "" {
		size = variant.Title
	}

	event := domain.ConversionEvent{
		TryOnID:        tryOnID,
		SessionID:      session.ID,
		StoreID:        storeID,
		ConversionType: conversionType,
		RevenueAmount:  revenue,
		ClothingID:     clothing.ID,
		VariantID:      variant.ID,
		ResultImageURL: tryOnResultURL,
		Device:         session.Device,
		Timestamp:      time.Now().UTC(),
	}
	selected := webhook.SelectedClothing{
		ID:        clothing.ID,
		Name:      clothing.Name,
		Price:     fmt.Sprintf("%.2f", variant.Price),
		Category:  clothing.Category,
		Color:     clothing.Color,
		ImageURL:  clothing.ImageURL,
		VariantID: variant.ID,
		Size:      size,
		Source:    string(clothing.DataSource),
	}

	go s.tracker.TrackConversion(event, selected, cartResult)

	if s.repos.ConversionEvent != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.repos.ConversionEvent.Create(ctx, &event); err != nil {
			s.logger.Warn("Conversion journal write failed", zap.Error(err))
		}
	}
}

// resolveVariant applies the size-selection rules. Returns the variant to
// purchase, or the deduplicated size options when the shopper still has to
// choose. With a requested variantID the match must exist.
func resolveVariant(clothing *domain.ClothingItem, variantID string) (*domain.Variant, []SizeOption, error) {
	if variantID != "" {
		for i := range clothing.Variants {
			if clothing.Variants[i].ID == variantID {
				return &clothing.Variants[i], nil, nil
			}
		}
		return nil, nil, &errors.ErrValidation{Message: "selected size not found"}
	}

	if len(clothing.Variants) == 1 {
		return &clothing.Variants[0], nil, nil
	}

	options := sizeOptions(clothing.Variants)
	if len(options) == 0 {
		// No usable size labels: fall back to the first available variant
		for i := range clothing.Variants {
			if clothing.Variants[i].Available {
				return &clothing.Variants[i], nil, nil
			}
		}
		return &clothing.Variants[0], nil, nil
	}
	return nil, options, nil
}

// sizeOptions extracts distinct available sizes. Label precedence: the
// size option, then the variant title, then a known size token inside the
// title; "Default Title" is never a size.
func sizeOptions(variants []domain.Variant) []SizeOption {
	knownSizes := []string{"XS", "S", "M", "L", "XL", "XXL", "XXXL"}

	var options []SizeOption
	seen := make(map[string]bool)
	for _, v := range variants {
		if !v.Available {
			continue
		}

		label := ""
		switch {
		case v.Size != "" && v.Size != "Default Title":
			label = v.Size
		case v.Title != "" && v.Title != "Default Title":
			label = v.Title
		default:
			upper := strings.ToUpper(v.Title)
			for _, size := range knownSizes {
				if strings.Contains(upper, size) {
					label = size
					break
				}
			}
		}

		if label == "" || seen[label] {
			continue
		}
		seen[label] = true
		options = append(options, SizeOption{Size: label, VariantID: v.ID, Price: v.Price})
	}
	return options
}
