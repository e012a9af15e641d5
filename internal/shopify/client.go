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

	"github.com/Nollerx/virtual-tryon-widget/pkg/retry"
)

// Client is a Shopify Storefront GraphQL client
type Client struct {
	shopDomain string
	token      string
	apiVersion string
	httpClient *http.Client
	retry      retry.Policy
	logger     *zap.Logger
}

// NewClient creates a new Storefront GraphQL client
func NewClient(shopDomain, storefrontToken, apiVersion string, logger *zap.Logger) *Client {
	// Normalize shop domain - remove https://, http://, and trailing slashes
	shopDomain = strings.TrimPrefix(shopDomain, "https://")
	shopDomain = strings.TrimPrefix(shopDomain, "http://")
	shopDomain = strings.TrimSuffix(shopDomain, "/")

	if apiVersion == "" {
		apiVersion = "2024-10"
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{
		shopDomain: shopDomain,
		token:      storefrontToken,
		apiVersion: apiVersion,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		retry:  retry.Default,
		logger: logger,
	}
}

// BaseURL returns the storefront origin (https://<shop-domain>)
func (c *Client) BaseURL() string {
	return "https://" + c.shopDomain
}

// GraphQLRequest represents a GraphQL request
type GraphQLRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables,omitempty"`
}

// GraphQLResponse represents a GraphQL response
type GraphQLResponse struct {
	Data   json.RawMessage `json:"data"`
	Errors []GraphQLError  `json:"errors,omitempty"`
}

// GraphQLError represents a GraphQL error
type GraphQLError struct {
	Message string        `json:"message"`
	Path    []interface{} `json:"path,omitempty"`
}

// Execute executes a GraphQL query against the Storefront API, retrying
// transport failures under the shared retry policy
func (c *Client) Execute(ctx context.Context, query string, variables map[string]interface{}) (*GraphQLResponse, error) {
	url := fmt.Sprintf("https://%s/api/%s/graphql.json", c.shopDomain, c.apiVersion)

	reqBody := GraphQLRequest{
		Query:     query,
		Variables: variables,
	}

	jsonData, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	var body []byte
	err = c.retry.Do(ctx, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(jsonData))
		if err != nil {
			return fmt.Errorf("failed to create request: %w", err)
		}

		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Shopify-Storefront-Access-Token", c.token)

		resp, err := c.httpClient.Do(req)
		if err != nil {
			c.logger.Warn("Storefront request failed, may retry", zap.Error(err))
			return err
		}
		defer resp.Body.Close()

		body, err = io.ReadAll(resp.Body)
		if err != nil {
			return fmt.Errorf("failed to read response: %w", err)
		}

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("storefront API error: status %d, body: %s", resp.StatusCode, string(body))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	var graphQLResp GraphQLResponse
	if err := json.Unmarshal(body, &graphQLResp); err != nil {
		return nil, fmt.Errorf("failed to unmarshal response: %w, body: %s", err, string(body))
	}

	if len(graphQLResp.Errors) > 0 {
		errorMessages := make([]string, len(graphQLResp.Errors))
		for i, err := range graphQLResp.Errors {
			errorMessages[i] = err.Message
		}
		return nil, fmt.Errorf("graphQL errors: %s", strings.Join(errorMessages, "; "))
	}

	return &graphQLResp, nil
}
