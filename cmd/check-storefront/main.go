package main

import (
	"context"
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/shopify"
)

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

	fmt.Printf("Testing Storefront API connection...\n\n")
	fmt.Printf("Shop Domain: %s\n", shopDomain)
	fmt.Printf("Access Token: %s...%s\n",
		token[:min(8, len(token))],
		token[max(0, len(token)-4):])
	fmt.Println()

	logger, _ := zap.NewDevelopment()
	defer logger.Sync()

	client := shopify.NewClient(shopDomain, token, apiVersion, logger)

	resp, err := client.Execute(context.Background(), shopify.ShopQuery, nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "❌ Connection failed: %v\n\n", err)
		fmt.Println("Please check:")
		fmt.Println("  1. SHOPIFY_SHOP_DOMAIN format: should be 'store-name.myshopify.com' (no https://)")
		fmt.Println("  2. SHOPIFY_STOREFRONT_TOKEN: the Storefront API access token, not an Admin token")
		fmt.Println("  3. Token permissions: needs 'unauthenticated_read_product_listings' scope")
		os.Exit(1)
	}

	fmt.Println("✅ Connection successful!")
	fmt.Printf("Response: %s\n", string(resp.Data))
}

func min(a, b int) int {
	if a < b {
		return a
	}
	return b
}

func max(a, b int) int {
	if a > b {
		return a
	}
	return b
}
