package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
)

// storeRecord mirrors the stores-file entry the server reads at startup
type storeRecord struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	EmbedKeyHash    string       `json:"embedKeyHash"`
	ShopDomain      string       `json:"shopDomain"`
	StorefrontToken string       `json:"storefrontToken"`
	Theme           domain.Theme `json:"theme"`
	IsActive        bool         `json:"isActive"`
}

func main() {
	idFlag := flag.String("id", "", "Store id (e.g. acme-fashion)")
	nameFlag := flag.String("name", "", "Store display name")
	domainFlag := flag.String("shop-domain", "", "Shopify domain (e.g. acme.myshopify.com)")
	tokenFlag := flag.String("storefront-token", "", "Storefront API access token for this store")
	primaryFlag := flag.String("primary", "", "Primary brand color (e.g. #1a1a2e)")
	accentFlag := flag.String("accent", "", "Accent brand color")
	keyFlag := flag.String("embed-key", "", "Embed key to issue (generated when omitted)")
	flag.Parse()

	storeID := strings.TrimSpace(*idFlag)
	storeName := strings.TrimSpace(*nameFlag)
	if storeID == "" || storeName == "" {
		fmt.Println("Usage:")
		fmt.Println("  go run cmd/create-store/main.go --id \"acme-fashion\" --name \"Acme Fashion\" --shop-domain \"acme.myshopify.com\" --storefront-token \"shpsf_...\"")
		fmt.Println("Appendable JSON for the STORES_FILE registry is printed on stdout.")
		os.Exit(1)
	}

	// Trim so the stored hash matches what the server receives (the auth
	// middleware trims the Bearer token)
	embedKey := strings.TrimSpace(*keyFlag)
	if embedKey == "" {
		embedKey = "embed_" + uuid.NewString()
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(embedKey), 10)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to hash embed key: %v\n", err)
		os.Exit(1)
	}

	record := storeRecord{
		ID:              storeID,
		Name:            storeName,
		EmbedKeyHash:    string(hash),
		ShopDomain:      strings.TrimSpace(*domainFlag),
		StorefrontToken: strings.TrimSpace(*tokenFlag),
		Theme: domain.Theme{
			Primary: strings.TrimSpace(*primaryFlag),
			Accent:  strings.TrimSpace(*accentFlag),
		},
		IsActive:        true,
	}

	out, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to encode store record: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("✅ Store record created. Add it to the JSON array in your STORES_FILE:")
	fmt.Println()
	fmt.Println(string(out))
	fmt.Println()
	fmt.Printf("🔑 Embed key (save it; it cannot be retrieved later): %s\n", embedKey)
}
