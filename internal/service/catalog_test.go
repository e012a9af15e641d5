package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
)

type mockFetcher struct {
	pages     []*shopify.ProductPage
	err       error
	calls     int
	lastFirst int
}

func (m *mockFetcher) FetchProducts(ctx context.Context, first int, after string) (*shopify.ProductPage, error) {
	m.calls++
	m.lastFirst = first
	if m.err != nil {
		return nil, m.err
	}
	page := m.pages[0]
	if len(m.pages) > 1 {
		m.pages = m.pages[1:]
	}
	return page, nil
}

func factoryFor(f *mockFetcher) FetcherFactory {
	return func(shopDomain, storefrontToken string) ProductFetcher { return f }
}

func storefrontProduct(handle, title, productType string, variants ...shopify.VariantNode) shopify.ProductNode {
	p := shopify.ProductNode{
		ID:          "gid://shopify/Product/900" + handle,
		Handle:      handle,
		Title:       title,
		ProductType: productType,
	}
	for _, v := range variants {
		p.Variants.Edges = append(p.Variants.Edges, shopify.VariantEdge{Node: v})
	}
	return p
}

func sizedVariant(id, size, amount string) shopify.VariantNode {
	return shopify.VariantNode{
		ID:               id,
		Title:            size,
		AvailableForSale: true,
		Price:            shopify.Money{Amount: amount, CurrencyCode: "USD"},
		SelectedOptions:  []shopify.SelectedOption{{Name: "Size", Value: size}},
	}
}

func testStoreConfig() *domain.StoreConfig {
	return &domain.StoreConfig{
		StoreID:         "store-1",
		ShopDomain:      "test.myshopify.com",
		StorefrontToken: "token",
	}
}

func TestCatalogLoadFiltersAndNormalizes(t *testing.T) {
	dress := storefrontProduct("midi-dress", "Midi Dress", "Dresses",
		sizedVariant("gid://shopify/ProductVariant/11", "S", "24.00"),
		sizedVariant("gid://shopify/ProductVariant/12", "M", "17.50"),
	)
	dress.Variants.Edges[1].Node.SelectedOptions = append(
		dress.Variants.Edges[1].Node.SelectedOptions,
		shopify.SelectedOption{Name: "Color", Value: "Navy"},
	)
	candle := storefrontProduct("candle", "Scented Candle", "Homeware",
		sizedVariant("gid://shopify/ProductVariant/13", "One Size", "9.00"),
	)

	fetcher := &mockFetcher{pages: []*shopify.ProductPage{
		{Products: []shopify.ProductNode{dress, candle}, HasNext: false},
	}}
	svc := NewCatalogService(factoryFor(fetcher), zap.NewNop())

	items := svc.Load(context.Background(), testStoreConfig())

	require.Len(t, items, 1, "non-clothing products are filtered out")
	item := items[0]
	assert.Equal(t, "midi-dress", item.ID)
	assert.Equal(t, 17.50, item.Price, "product price is the cheapest variant")
	assert.Equal(t, "Navy", item.Color, "first variant that declares a color wins")
	assert.Equal(t, "900midi-dress", item.ShopifyProductID)
	assert.Equal(t, domain.SourceShopify, item.DataSource)
	assert.Equal(t, "https://test.myshopify.com/products/midi-dress", item.ProductURL)
	assert.Equal(t, "dresses", item.Category)
	assert.Len(t, item.Variants, 2)
	assert.Equal(t, 40, fetcher.lastFirst)
}

func TestCatalogLoadPagesTwice(t *testing.T) {
	pageOne := &shopify.ProductPage{
		Products: []shopify.ProductNode{storefrontProduct("shirt-1", "Oxford Shirt", "Shirts",
			sizedVariant("gid://shopify/ProductVariant/21", "M", "30.00"))},
		Cursor:  "cursor-1",
		HasNext: true,
	}
	pageTwo := &shopify.ProductPage{
		Products: []shopify.ProductNode{storefrontProduct("shirt-2", "Linen Shirt", "Shirts",
			sizedVariant("gid://shopify/ProductVariant/22", "M", "35.00"))},
		HasNext: true, // a third page exists but is never fetched
	}

	fetcher := &mockFetcher{pages: []*shopify.ProductPage{pageOne, pageTwo}}
	svc := NewCatalogService(factoryFor(fetcher), zap.NewNop())

	items := svc.Load(context.Background(), testStoreConfig())

	assert.Len(t, items, 2)
	assert.Equal(t, 2, fetcher.calls, "paging stops after two pages")
}

func TestCatalogLoadFallsBackToDemoData(t *testing.T) {
	fetcher := &mockFetcher{err: fmt.Errorf("storefront unreachable")}
	svc := NewCatalogService(factoryFor(fetcher), zap.NewNop())

	items := svc.Load(context.Background(), testStoreConfig())

	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, domain.SourceDemo, item.DataSource)
	}
	assert.Equal(t, "demo-shirt-1", items[0].ID)
	assert.Equal(t, 89.99, items[2].Price)
}

func TestCatalogLoadMissingCredentialsUsesDemoData(t *testing.T) {
	fetcher := &mockFetcher{}
	svc := NewCatalogService(factoryFor(fetcher), zap.NewNop())

	items := svc.Load(context.Background(), &domain.StoreConfig{StoreID: "store-1"})

	assert.Len(t, items, 3)
	assert.Equal(t, 0, fetcher.calls, "no network call without credentials")
}
