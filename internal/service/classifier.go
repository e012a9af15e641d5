package service

import (
	"strings"

	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
)

// Keyword lists driving the clothing classifier. All comparisons are
// lowercase substring matches.
var allowedCategories = []string{
	"clothing", "apparel", "dress", "dresses", "shirt", "shirts",
	"top", "tops", "blouse", "blouses", "t-shirt", "t-shirts",
	"sweater", "sweaters", "jacket", "jackets", "coat", "coats",
	"pants", "trousers", "jeans", "shorts", "skirt", "skirts",
	"suit", "suits", "romper", "rompers", "jumpsuit", "jumpsuits",
	"cardigan", "cardigans", "hoodie", "hoodies", "sweatshirt",
	"vest", "vests", "blazer", "blazers", "tank", "tanks",
	"bodysuit", "bodysuits", "leggings", "tights", "kimono",
	"tunic", "tunics", "poncho", "ponchos", "cape", "capes",
}

var excludedCategories = []string{
	"shoes", "footwear", "boots", "sandals", "sneakers", "heels",
	"accessories", "jewelry", "jewellery", "bags", "purse", "wallet",
	"hat", "hats", "cap", "caps", "sunglasses", "glasses", "watch",
	"belt", "belts", "scarf", "scarves", "gloves", "socks",
	"underwear", "lingerie", "bra", "panties", "boxers", "briefs",
}

// Size labels that mark a product as wearable clothing
var clothingSizes = map[string]struct{}{
	"xs": {}, "s": {}, "m": {}, "l": {}, "xl": {}, "xxl": {}, "xxxl": {},
	"small": {}, "medium": {}, "large": {}, "x-large": {},
	"0": {}, "2": {}, "4": {}, "6": {}, "8": {},
	"10": {}, "12": {}, "14": {}, "16": {},
}

var clothingNameTerms = []string{"wear", "outfit", "garment", "attire", "apparel"}

// IsClothingItem decides whether a Shopify product belongs in the try-on
// catalog. The check order is load-bearing: an excluded keyword anywhere
// vetoes the product even if an allowed keyword also matches, then allowed
// keywords accept, then clothing-style size variants accept, then (only for
// empty or generic categories) generic apparel terms in the name accept.
func IsClothingItem(product shopify.ProductNode) bool {
	category := strings.ToLower(product.ProductType)
	name := strings.ToLower(product.Title)
	tags := make([]string, len(product.Tags))
	for i, t := range product.Tags {
		tags[i] = strings.ToLower(t)
	}

	matches := func(keyword string) bool {
		if strings.Contains(category, keyword) || strings.Contains(name, keyword) {
			return true
		}
		for _, tag := range tags {
			if strings.Contains(tag, keyword) {
				return true
			}
		}
		return false
	}

	for _, keyword := range excludedCategories {
		if matches(keyword) {
			return false
		}
	}

	for _, keyword := range allowedCategories {
		if matches(keyword) {
			return true
		}
	}

	if hasClothingSizeVariants(product) {
		return true
	}

	if category == "" || category == "product" {
		return isLikelyClothingByName(name)
	}

	return false
}

// hasClothingSizeVariants reports whether the product carries clothing-style
// size options. Requires more than one variant so single-variant defaults
// like "Default Title" never count.
func hasClothingSizeVariants(product shopify.ProductNode) bool {
	if len(product.Variants.Edges) <= 1 {
		return false
	}
	for _, edge := range product.Variants.Edges {
		label := edge.Node.Option("Size")
		if label == "" {
			label = edge.Node.Title
		}
		if _, ok := clothingSizes[strings.ToLower(label)]; ok {
			return true
		}
	}
	return false
}

func isLikelyClothingByName(name string) bool {
	for _, term := range clothingNameTerms {
		if strings.Contains(name, term) {
			return true
		}
	}
	return false
}
