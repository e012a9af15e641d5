package shopify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
)

// CartClient talks to the Shopify Cart AJAX API on the storefront origin
// (/cart/add.js, /cart.js). Numeric variant ids only.
type CartClient struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewCartClient creates a cart client for the given storefront origin
func NewCartClient(baseURL string, logger *zap.Logger) *CartClient {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CartClient{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
		logger:     logger,
	}
}

// CartAddRequest is the /cart/add.js payload
type CartAddRequest struct {
	ID       string `json:"id"` // numeric variant id
	Quantity int    `json:"quantity"`
}

// CartState is the subset of /cart.js the widget cares about
type CartState struct {
	ItemCount  int             `json:"item_count"`
	TotalPrice int             `json:"total_price"` // cents
	Items      json.RawMessage `json:"items"`
}

// AddItem adds one unit of the given numeric variant id to the cart
func (c *CartClient) AddItem(ctx context.Context, numericVariantID string) (json.RawMessage, error) {
	payload, err := json.Marshal(CartAddRequest{ID: numericVariantID, Quantity: 1})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal cart add request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/cart/add.js", bytes.NewReader(payload))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("cart add request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("cart add returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// GetCart fetches the current cart state
func (c *CartClient) GetCart(ctx context.Context) (*CartState, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/cart.js", nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("Cart fetch failed", zap.Error(err))
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read cart response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("cart fetch returned %d: %s", resp.StatusCode, string(body))
	}

	var cart CartState
	if err := json.Unmarshal(body, &cart); err != nil {
		return nil, fmt.Errorf("failed to parse cart state: %w", err)
	}
	return &cart, nil
}
