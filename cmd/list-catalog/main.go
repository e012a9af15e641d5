package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/service"
	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
)

// Pages through the store's products the same way a widget session does and
// shows which ones the clothing filter keeps. Useful when a merchant asks why
// a product is missing from the try-on rail.
func main() {
	_ = godotenv.Load(".env")
	_ = godotenv.Load("../.env")

	shopDomain := os.Getenv("SHOPIFY_SHOP_DOMAIN")
	token := os.Getenv("SHOPIFY_STOREFRONT_TOKEN")
	apiVersion := os.Getenv("SHOPIFY_API_VERSION")

	if shopDomain == "" || token == "" {
		fmt.Fprintln(os.Stderr, "SHOPIFY_SHOP_DOMAIN and SHOPIFY_STOREFRONT_TOKEN are required")
		os.Exit(1)
	}

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(shopDomain, token, apiVersion, logger)

	fmt.Printf("🔍 Fetching catalog from %s...\n\n", shopDomain)

	ctx := context.Background()
	after := ""
	total := 0
	kept := 0
	var rejected []string

	for page := 0; page < 2; page++ {
		result, err := client.FetchProducts(ctx, 40, after)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to fetch products: %v\n", err)
			os.Exit(1)
		}

		for _, product := range result.Products {
			total++
			if !service.IsClothingItem(product) {
				rejected = append(rejected, fmt.Sprintf("%s (type: %s)", product.Title, product.ProductType))
				continue
			}
			kept++

			price := 0.0
			variants := 0
			for _, edge := range product.Variants.Edges {
				variants++
				if p, err := strconv.ParseFloat(edge.Node.Price.Amount, 64); err == nil {
					if variants == 1 || p < price {
						price = p
					}
				}
			}
			category := strings.ToLower(product.ProductType)
			if category == "" {
				category = "clothing"
			}

			fmt.Printf("✅ %s\n", product.Title)
			fmt.Printf("   ID: %s | Category: %s | Price: %.2f | Variants: %d\n",
				shopify.NumericID(product.ID), category, price, variants)
		}

		if !result.HasNext {
			break
		}
		after = result.Cursor
	}

	if len(rejected) > 0 {
		fmt.Printf("\n⛔ Filtered out (%d):\n", len(rejected))
		for _, r := range rejected {
			fmt.Printf("   %s\n", r)
		}
	}

	fmt.Printf("\n📊 Total products: %d, clothing items: %d\n", total, kept)
}
