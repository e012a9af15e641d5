package relay

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

func TestDetectCurrentProduct_URLPathWins(t *testing.T) {
	page := PageContext{
		URLPath:            "/collections/sale/products/denim-jacket?variant=123",
		AnalyticsProductID: "987654",
		VariantID:          "gid://shopify/ProductVariant/42",
	}

	got := DetectCurrentProduct(page)

	require.NotNil(t, got)
	assert.Equal(t, "denim-jacket", got.Handle)
	assert.Equal(t, "gid://shopify/ProductVariant/42", got.VariantID)
}

func TestDetectCurrentProduct_AnalyticsFallback(t *testing.T) {
	page := PageContext{
		URLPath:            "/pages/about",
		AnalyticsProductID: "987654",
	}

	got := DetectCurrentProduct(page)

	require.NotNil(t, got)
	assert.Equal(t, "987654", got.Handle)
}

func TestDetectCurrentProduct_JSONLD(t *testing.T) {
	page := PageContext{
		URLPath: "/",
		JSONLDDocuments: []string{
			`{"@type":"Organization","name":"Shop"}`,
			`{"@type":"Product","url":"https://shop.example.com/products/floral-dress?utm=x"}`,
		},
	}

	got := DetectCurrentProduct(page)

	require.NotNil(t, got)
	assert.Equal(t, "floral-dress", got.Handle)
}

func TestDetectCurrentProduct_OpenGraphLast(t *testing.T) {
	page := PageContext{
		URLPath:      "/",
		OpenGraphURL: "https://shop.example.com/products/linen-shirt",
	}

	got := DetectCurrentProduct(page)

	require.NotNil(t, got)
	assert.Equal(t, "linen-shirt", got.Handle)
}

func TestDetectCurrentProduct_NothingDetected(t *testing.T) {
	page := PageContext{
		URLPath:         "/collections/all",
		JSONLDDocuments: []string{`not json`, `{"@type":"Product"}`},
	}

	assert.Nil(t, DetectCurrentProduct(page))
}

func TestDetectDevice(t *testing.T) {
	iphoneUA := "Mozilla/5.0 (iPhone; CPU iPhone OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
	ipadUA := "Mozilla/5.0 (iPad; CPU OS 17_0 like Mac OS X) AppleWebKit/605.1.15"
	androidPhoneUA := "Mozilla/5.0 (Linux; Android 14; Pixel 8) AppleWebKit/537.36 Mobile"
	desktopUA := "Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36"

	cases := []struct {
		name    string
		ua      string
		width   int
		mobile  bool
		tablet  bool
		ios     bool
		android bool
	}{
		{"iphone narrow", iphoneUA, 390, true, false, true, false},
		{"ipad is tablet not mobile", ipadUA, 820, false, true, true, false},
		{"android phone", androidPhoneUA, 412, true, false, false, true},
		{"wide android is tablet", androidPhoneUA, 1024, false, true, false, true},
		{"desktop", desktopUA, 1440, false, false, false, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := DetectDevice(tc.ua, domain.Viewport{Width: tc.width, Height: 800})
			assert.Equal(t, tc.mobile, got.IsMobile, "mobile")
			assert.Equal(t, tc.tablet, got.IsTablet, "tablet")
			assert.Equal(t, tc.ios, got.IsIOS, "ios")
			assert.Equal(t, tc.android, got.IsAndroid, "android")
			assert.Equal(t, tc.width, got.Viewport.Width)
		})
	}
}
