package shopify

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

// ProductNode is one product from the Storefront products query
type ProductNode struct {
	ID            string   `json:"id"`
	Handle        string   `json:"handle"`
	Title         string   `json:"title"`
	Vendor        string   `json:"vendor"`
	ProductType   string   `json:"productType"`
	Tags          []string `json:"tags"`
	FeaturedImage *Image   `json:"featuredImage"`
	Images        struct {
		Edges []ImageEdge `json:"edges"`
	} `json:"images"`
	Variants struct {
		Edges []VariantEdge `json:"edges"`
	} `json:"variants"`
}

// ImageEdge wraps an image in the connection shape
type ImageEdge struct {
	Node Image `json:"node"`
}

// VariantEdge wraps a variant in the connection shape
type VariantEdge struct {
	Node VariantNode `json:"node"`
}

// Image is a product image
type Image struct {
	URL     string `json:"url"`
	Width   int    `json:"width"`
	Height  int    `json:"height"`
	AltText string `json:"altText"`
}

// VariantNode is one variant from the Storefront products query
type VariantNode struct {
	ID               string           `json:"id"`
	Title            string           `json:"title"`
	AvailableForSale bool             `json:"availableForSale"`
	Price            Money            `json:"price"`
	SelectedOptions  []SelectedOption `json:"selectedOptions"`
}

// Money is a Storefront price
type Money struct {
	Amount       string `json:"amount"`
	CurrencyCode string `json:"currencyCode"`
}

// SelectedOption is one variant option pair
type SelectedOption struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Option returns the value of a named selected option, or ""
func (v VariantNode) Option(name string) string {
	for _, o := range v.SelectedOptions {
		if o.Name == name {
			return o.Value
		}
	}
	return ""
}

// ProductPage is one page of the catalog
type ProductPage struct {
	Products []ProductNode
	Cursor   string
	HasNext  bool
}

// FetchProducts fetches one page of products after the given cursor
func (c *Client) FetchProducts(ctx context.Context, first int, after string) (*ProductPage, error) {
	variables := map[string]interface{}{"first": first}
	if after != "" {
		variables["after"] = after
	}

	resp, err := c.Execute(ctx, ProductsQuery, variables)
	if err != nil {
		return nil, err
	}

	var result struct {
		Products struct {
			Edges []struct {
				Cursor string      `json:"cursor"`
				Node   ProductNode `json:"node"`
			} `json:"edges"`
			PageInfo struct {
				HasNextPage bool `json:"hasNextPage"`
			} `json:"pageInfo"`
		} `json:"products"`
	}
	if err := json.Unmarshal(resp.Data, &result); err != nil {
		return nil, fmt.Errorf("failed to parse products response: %w", err)
	}

	page := &ProductPage{HasNext: result.Products.PageInfo.HasNextPage}
	for _, edge := range result.Products.Edges {
		page.Products = append(page.Products, edge.Node)
		page.Cursor = edge.Cursor
	}
	return page, nil
}

// NumericID extracts the trailing numeric segment of a Shopify global ID
// (gid://shopify/Product/123 -> "123"). Needed for the cart AJAX API and
// analytics, which use numeric ids rather than GIDs.
func NumericID(gid string) string {
	if gid == "" {
		return ""
	}
	parts := strings.Split(gid, "/")
	return parts[len(parts)-1]
}
