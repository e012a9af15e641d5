// Package webhook is the client for the remote try-on generation service.
// The service multiplexes three modes over one endpoint: "tryon" (image
// generation), "chat" (styling assistant), and "conversion" (analytics).
package webhook

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

	"github.com/Nollerx/virtual-tryon-widget/internal/domain"
	"github.com/Nollerx/virtual-tryon-widget/pkg/retry"
)

// Client calls the try-on webhook
type Client struct {
	url          string
	tryOnTimeout time.Duration
	httpClient   *http.Client
	retry        retry.Policy
	logger       *zap.Logger
}

// NewClient creates a webhook client. tryOnTimeout is the hard abort for
// generation calls (a generation that runs long is treated as failed).
func NewClient(url string, tryOnTimeout time.Duration, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.NewNop()
	}
	if tryOnTimeout <= 0 {
		tryOnTimeout = 30 * time.Second
	}
	return &Client{
		url:          url,
		tryOnTimeout: tryOnTimeout,
		httpClient:   &http.Client{},
		retry:        retry.Default,
		logger:       logger,
	}
}

// TryOnRequest is the mode=tryon payload
type TryOnRequest struct {
	Mode             string              `json:"mode"`
	TryOnID          string              `json:"tryOnId"`
	SessionID        string              `json:"sessionId"`
	StoreID          string              `json:"storeId"`
	UserPhoto        string              `json:"userPhoto"` // data URL
	FileID           string              `json:"file_id"`
	SelectedClothing SelectedClothing    `json:"selectedClothing"`
	DeviceInfo       domain.DeviceInfo   `json:"deviceInfo"`
	Timestamp        time.Time           `json:"timestamp"`
}

// SelectedClothing is the item summary sent with try-on and conversion calls
type SelectedClothing struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Price     string `json:"price"` // formatted with two decimals
	Category  string `json:"category"`
	Color     string `json:"color"`
	ImageURL  string `json:"image_url"`
	VariantID string `json:"variant_id,omitempty"`
	Size      string `json:"size,omitempty"`
	Source    string `json:"data_source,omitempty"`
}

// TryOnResponse is what a successful generation returns
type TryOnResponse struct {
	Success        bool   `json:"success"`
	ResultImageURL string `json:"result_image_url"`
}

// GenerateTryOn posts a try-on request with a hard client-side abort.
// Returns the raw response body alongside the parsed result so callers
// can distinguish malformed responses from transport failures.
func (c *Client) GenerateTryOn(ctx context.Context, req TryOnRequest) (*TryOnResponse, error) {
	req.Mode = "tryon"
	ctx, cancel := context.WithTimeout(ctx, c.tryOnTimeout)
	defer cancel()

	body, err := c.post(ctx, req)
	if err != nil {
		return nil, err
	}

	var result TryOnResponse
	if err := json.Unmarshal(body, &result); err != nil {
		// Malformed body is not a transport failure; the caller falls
		// back to a placeholder rather than an error state.
		return &TryOnResponse{}, nil
	}
	return &result, nil
}

// ChatRequest is the mode=chat payload
type ChatRequest struct {
	Mode       string            `json:"mode"`
	SessionID  string            `json:"sessionId"`
	Message    string            `json:"message"`
	DeviceInfo domain.DeviceInfo `json:"deviceInfo"`
	Timestamp  time.Time         `json:"timestamp"`
}

// Chat sends a chat message and extracts the assistant's reply
func (c *Client) Chat(ctx context.Context, req ChatRequest) (string, error) {
	req.Mode = "chat"

	var body []byte
	err := c.retry.Do(ctx, func(ctx context.Context) error {
		var err error
		body, err = c.post(ctx, req)
		return err
	})
	if err != nil {
		return "", err
	}

	reply := ExtractResponseText(body)
	if reply == "" {
		return "", fmt.Errorf("no usable response field in webhook reply")
	}
	return reply, nil
}

// TrackConversion sends a mode=conversion analytics event. Best-effort and
// non-blocking: intended to be called in a goroutine, and failures are
// logged and swallowed so they can never surface to the shopper.
func (c *Client) TrackConversion(event domain.ConversionEvent, clothing SelectedClothing, cartResult json.RawMessage) {
	payload := map[string]interface{}{
		"mode":              "conversion",
		"tryOnId":           event.TryOnID,
		"sessionId":         event.SessionID,
		"storeId":           event.StoreID,
		"conversionType":    event.ConversionType,
		"revenueAmount":     event.RevenueAmount,
		"selectedClothing":  clothing,
		"tryonResultUrl":    event.ResultImageURL,
		"shopifyCartResult": cartResult,
		"deviceInfo":        event.Device,
		"timestamp":         event.Timestamp,
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := c.post(ctx, payload); err != nil {
		c.logger.Warn("Conversion tracking failed, purchase result unaffected",
			zap.String("conversion_type", event.ConversionType),
			zap.Error(err))
	}
}

func (c *Client) post(ctx context.Context, payload interface{}) ([]byte, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal webhook payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read webhook response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("webhook returned %d: %s", resp.StatusCode, string(body))
	}
	return body, nil
}

// ExtractResponseText pulls the assistant reply out of a webhook response.
// The service has shipped several shapes over time, so candidates are
// checked in priority order: output.response, response, reply, message,
// text. A single-element array wrapper around the object is unwrapped
// first. Returns "" when no candidate holds a non-blank string.
func ExtractResponseText(raw []byte) string {
	var node interface{}
	if err := json.Unmarshal(raw, &node); err != nil {
		return ""
	}

	if arr, ok := node.([]interface{}); ok && len(arr) > 0 {
		node = arr[0]
	}
	obj, ok := node.(map[string]interface{})
	if !ok {
		return ""
	}

	if out, ok := obj["output"].(map[string]interface{}); ok {
		if s := stringField(out, "response"); s != "" {
			return s
		}
	}
	for _, key := range []string{"response", "reply", "message", "text"} {
		if s := stringField(obj, key); s != "" {
			return s
		}
	}
	return ""
}

func stringField(m map[string]interface{}, key string) string {
	s, _ := m[key].(string)
	return strings.TrimSpace(s)
}
