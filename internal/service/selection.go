package service

import (
	"strings"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

const maxQuickPicks = 6

// Category order used when no current-page product is detected
var varietyCategories = []string{"dress", "shirt", "pants", "jacket", "shorts"}

const (
	BadgeCurrentPage = "Current Page"
	BadgeTrending    = "Trending"
)

// FeaturedSelection is the layout of the catalog panel: one highlighted
// item plus up to six quick picks
type FeaturedSelection struct {
	Featured   *domain.ClothingItem  `json:"featured"`
	Badge      string                `json:"badge"`
	QuickPicks []domain.ClothingItem `json:"quickPicks"`
	// AutoSelected holds the featured item's id when it came from the
	// host page's current product, so the UI pre-selects it
	AutoSelected string `json:"autoSelected,omitempty"`
}

// SelectFeatured picks the featured item and quick picks. A detected
// current-page product wins and is removed from the quick-pick pool;
// otherwise one item per variety category is taken, padded with arbitrary
// remaining items up to seven, and the first becomes featured.
func SelectFeatured(catalog []domain.ClothingItem, current *domain.CurrentProduct) FeaturedSelection {
	if len(catalog) == 0 {
		return FeaturedSelection{}
	}

	if match := MatchCurrentProduct(catalog, current); match != nil {
		pool := make([]domain.ClothingItem, 0, len(catalog)-1)
		for _, item := range catalog {
			if item.ID != match.ID {
				pool = append(pool, item)
			}
		}
		if len(pool) > maxQuickPicks {
			pool = pool[:maxQuickPicks]
		}
		return FeaturedSelection{
			Featured:     match,
			Badge:        BadgeCurrentPage,
			QuickPicks:   pool,
			AutoSelected: match.ID,
		}
	}

	variety := make([]domain.ClothingItem, 0, 7)
	picked := make(map[string]bool)
	for _, category := range varietyCategories {
		for _, item := range catalog {
			if item.Category == category && !picked[item.ID] {
				variety = append(variety, item)
				picked[item.ID] = true
				break
			}
		}
	}
	for _, item := range catalog {
		if len(variety) >= 7 {
			break
		}
		if !picked[item.ID] {
			variety = append(variety, item)
			picked[item.ID] = true
		}
	}

	featured := variety[0]
	picks := variety[1:]
	if len(picks) > maxQuickPicks {
		picks = picks[:maxQuickPicks]
	}
	return FeaturedSelection{
		Featured:   &featured,
		Badge:      BadgeTrending,
		QuickPicks: picks,
	}
}

// MatchCurrentProduct resolves the loader's current-product signal against
// the catalog: by handle, by numeric product id, or by GID suffix.
func MatchCurrentProduct(catalog []domain.ClothingItem, current *domain.CurrentProduct) *domain.ClothingItem {
	if current == nil || current.Handle == "" {
		return nil
	}
	handle := current.Handle
	for i := range catalog {
		item := &catalog[i]
		if item.ID == handle ||
			item.ShopifyProductID == handle ||
			(item.ShopifyProductGID != "" && strings.HasSuffix(item.ShopifyProductGID, handle)) {
			clone := *item
			return &clone
		}
	}
	return nil
}
