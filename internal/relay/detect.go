package relay

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

// PageContext is what the loader can observe about the host page when
// guessing which product it is showing
type PageContext struct {
	URLPath            string   // window.location.pathname
	AnalyticsProductID string   // ShopifyAnalytics.meta.product.id, if present
	JSONLDDocuments    []string // raw application/ld+json script bodies
	OpenGraphURL       string   // og:url meta content
	VariantID          string   // selected variant, if the page exposes one
}

var productPathPattern = regexp.MustCompile(`/products/([^/?]+)`)

// DetectCurrentProduct guesses the product the host page is showing.
// Detection is best-effort; the precedence is URL path, then analytics
// globals, then JSON-LD structured data, then OpenGraph URL. Returns nil
// when nothing matches. The handle slot may carry a numeric product id
// when only analytics data was available; catalog matching accepts both.
func DetectCurrentProduct(page PageContext) *domain.CurrentProduct {
	if handle := handleFromPath(page.URLPath); handle != "" {
		return &domain.CurrentProduct{Handle: handle, VariantID: page.VariantID}
	}

	if id := strings.TrimSpace(page.AnalyticsProductID); id != "" {
		return &domain.CurrentProduct{Handle: id, VariantID: page.VariantID}
	}

	for _, doc := range page.JSONLDDocuments {
		if handle := handleFromJSONLD(doc); handle != "" {
			return &domain.CurrentProduct{Handle: handle, VariantID: page.VariantID}
		}
	}

	if handle := handleFromPath(page.OpenGraphURL); handle != "" {
		return &domain.CurrentProduct{Handle: handle, VariantID: page.VariantID}
	}

	return nil
}

func handleFromPath(path string) string {
	m := productPathPattern.FindStringSubmatch(path)
	if len(m) != 2 {
		return ""
	}
	return m[1]
}

func handleFromJSONLD(doc string) string {
	var data struct {
		Type string `json:"@type"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal([]byte(doc), &data); err != nil {
		return ""
	}
	if data.Type != "Product" || data.URL == "" {
		return ""
	}
	// Trailing path segment, query stripped
	seg := data.URL
	if i := strings.LastIndex(seg, "/"); i >= 0 {
		seg = seg[i+1:]
	}
	if i := strings.Index(seg, "?"); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

var (
	mobileUAPattern = regexp.MustCompile(`(?i)android|webos|iphone|ipod|blackberry|iemobile|opera mini`)
	ipadUAPattern   = regexp.MustCompile(`(?i)ipad`)
	iosUAPattern    = regexp.MustCompile(`(?i)iphone|ipad|ipod`)
	androidPattern  = regexp.MustCompile(`(?i)android`)
)

// DetectDevice classifies the shopper's device from the user agent and
// viewport. Phones need both a mobile user agent and a narrow viewport;
// a wide Android device counts as a tablet.
func DetectDevice(userAgent string, viewport domain.Viewport) domain.DeviceInfo {
	mobileUA := mobileUAPattern.MatchString(userAgent)
	ipadUA := ipadUAPattern.MatchString(userAgent)
	android := androidPattern.MatchString(userAgent)

	return domain.DeviceInfo{
		IsMobile:  mobileUA && !ipadUA && viewport.Width > 0 && viewport.Width <= mobileBreakpoint,
		IsTablet:  ipadUA || (android && viewport.Width > mobileBreakpoint),
		IsIOS:     iosUAPattern.MatchString(userAgent),
		IsAndroid: android,
		Viewport:  viewport,
	}
}
