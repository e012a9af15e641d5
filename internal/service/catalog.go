package service

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
)

const (
	catalogPageSize = 40
	catalogMaxPages = 2
)

// ProductFetcher pages through a store's product catalog
type ProductFetcher interface {
	FetchProducts(ctx context.Context, first int, after string) (*shopify.ProductPage, error)
}

// FetcherFactory builds a ProductFetcher for a store's credentials. Each
// session may target a different storefront, so clients are built per load.
type FetcherFactory func(shopDomain, storefrontToken string) ProductFetcher

// DefaultFetcherFactory returns a factory backed by the Storefront GraphQL client
func DefaultFetcherFactory(apiVersion string, logger *zap.Logger) FetcherFactory {
	return func(shopDomain, storefrontToken string) ProductFetcher {
		return shopify.NewClient(shopDomain, storefrontToken, apiVersion, logger)
	}
}

// CatalogService loads and normalizes the clothing catalog for a session
type CatalogService struct {
	newFetcher FetcherFactory
	logger     *zap.Logger
}

// NewCatalogService creates a new catalog service
func NewCatalogService(newFetcher FetcherFactory, logger *zap.Logger) *CatalogService {
	return &CatalogService{
		newFetcher: newFetcher,
		logger:     logger,
	}
}

// Load fetches the store's catalog and filters it down to clothing items.
// It never fails: any network or auth error degrades to the demo dataset
// so the widget always has something to show.
func (s *CatalogService) Load(ctx context.Context, cfg *domain.StoreConfig) []domain.ClothingItem {
	items, err := s.loadFromShopify(ctx, cfg)
	if err != nil {
		s.logger.Warn("Catalog load failed, using demo data",
			zap.String("shop_domain", cfg.ShopDomain),
			zap.Error(err))
		return DemoCatalog()
	}

	s.logger.Info("Catalog loaded",
		zap.String("shop_domain", cfg.ShopDomain),
		zap.Int("clothing_items", len(items)))
	return items
}

func (s *CatalogService) loadFromShopify(ctx context.Context, cfg *domain.StoreConfig) ([]domain.ClothingItem, error) {
	if cfg.ShopDomain == "" || cfg.StorefrontToken == "" {
		return nil, fmt.Errorf("missing storefront credentials")
	}

	fetcher := s.newFetcher(cfg.ShopDomain, cfg.StorefrontToken)

	var items []domain.ClothingItem
	after := ""
	for page := 0; page < catalogMaxPages; page++ {
		result, err := fetcher.FetchProducts(ctx, catalogPageSize, after)
		if err != nil {
			return nil, err
		}
		for _, product := range result.Products {
			if !IsClothingItem(product) {
				continue
			}
			items = append(items, normalizeProduct(product, cfg.ShopDomain))
		}
		if !result.HasNext {
			break
		}
		after = result.Cursor
	}
	return items, nil
}

// normalizeProduct maps a Storefront product node onto the catalog shape.
// Product-level price is the cheapest variant; product-level color is the
// first variant that declares one.
func normalizeProduct(p shopify.ProductNode, shopDomain string) domain.ClothingItem {
	variants := make([]domain.Variant, 0, len(p.Variants.Edges))
	for _, edge := range p.Variants.Edges {
		node := edge.Node
		price, _ := strconv.ParseFloat(node.Price.Amount, 64)
		currency := node.Price.CurrencyCode
		if currency == "" {
			currency = "USD"
		}
		variants = append(variants, domain.Variant{
			ID:        node.ID,
			Title:     node.Title,
			Available: node.AvailableForSale,
			Price:     price,
			Currency:  currency,
			Size:      node.Option("Size"),
			Color:     node.Option("Color"),
		})
	}

	minPrice := 0.0
	for i, v := range variants {
		if i == 0 || v.Price < minPrice {
			minPrice = v.Price
		}
	}

	color := ""
	for _, v := range variants {
		if v.Color != "" {
			color = v.Color
			break
		}
	}

	imageURL := ""
	if p.FeaturedImage != nil {
		imageURL = p.FeaturedImage.URL
	} else if len(p.Images.Edges) > 0 {
		imageURL = p.Images.Edges[0].Node.URL
	}

	category := strings.ToLower(p.ProductType)
	if category == "" {
		category = "clothing"
	}

	return domain.ClothingItem{
		ID:                p.Handle,
		Name:              p.Title,
		Brand:             p.Vendor,
		Category:          category,
		Price:             minPrice,
		Color:             color,
		ImageURL:          imageURL,
		ProductURL:        fmt.Sprintf("https://%s/products/%s", shopDomain, p.Handle),
		DataSource:        domain.SourceShopify,
		ShopifyProductGID: p.ID,
		ShopifyProductID:  shopify.NumericID(p.ID),
		Variants:          variants,
	}
}

// DemoCatalog is the fixed fallback dataset shown when the storefront is
// unreachable or misconfigured
func DemoCatalog() []domain.ClothingItem {
	return []domain.ClothingItem{
		{
			ID: "demo-shirt-1", Name: "Classic White Shirt", Price: 49.99,
			Category: "shirt", Color: "white", DataSource: domain.SourceDemo,
			ImageURL:   "https://via.placeholder.com/300x400/ffffff/333333?text=White+Shirt",
			ProductURL: "#",
			Variants: []domain.Variant{
				{ID: "1", Title: "Small", Price: 49.99, Available: true, Size: "S"},
				{ID: "2", Title: "Medium", Price: 49.99, Available: true, Size: "M"},
				{ID: "3", Title: "Large", Price: 49.99, Available: true, Size: "L"},
			},
		},
		{
			ID: "demo-dress-1", Name: "Summer Floral Dress", Price: 79.99,
			Category: "dress", Color: "multicolor", DataSource: domain.SourceDemo,
			ImageURL:   "https://via.placeholder.com/300x400/ffcccc/333333?text=Floral+Dress",
			ProductURL: "#",
			Variants: []domain.Variant{
				{ID: "4", Title: "Small", Price: 79.99, Available: true, Size: "S"},
				{ID: "5", Title: "Medium", Price: 79.99, Available: true, Size: "M"},
			},
		},
		{
			ID: "demo-jacket-1", Name: "Denim Jacket", Price: 89.99,
			Category: "jacket", Color: "blue", DataSource: domain.SourceDemo,
			ImageURL:   "https://via.placeholder.com/300x400/4169e1/ffffff?text=Denim+Jacket",
			ProductURL: "#",
			Variants: []domain.Variant{
				{ID: "6", Title: "Medium", Price: 89.99, Available: true, Size: "M"},
				{ID: "7", Title: "Large", Price: 89.99, Available: true, Size: "L"},
			},
		},
	}
}
