package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Nollerx/virtual-tryon-widget/internal/config"
)

// DefaultWidgetTheme is used whenever the settings lookup fails or the
// store has no theme configured
const DefaultWidgetTheme = "white"

var validWidgetThemes = map[string]bool{"white": true, "cream": true, "black": true}

// ThemeService looks up a store's widget theme from the settings store.
// Lookup failures never surface: the default theme is always usable.
type ThemeService struct {
	cfg        config.SettingsConfig
	httpClient *http.Client
	logger     *zap.Logger
}

// NewThemeService creates a new theme service
func NewThemeService(cfg config.SettingsConfig, logger *zap.Logger) *ThemeService {
	return &ThemeService{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		logger:     logger,
	}
}

// Lookup returns the widget theme configured for the store, or the default
func (s *ThemeService) Lookup(ctx context.Context, storeID string) string {
	if s.cfg.BaseURL == "" {
		return DefaultWidgetTheme
	}

	url := fmt.Sprintf("%s/rest/v1/business_settings?store_id=eq.%s", s.cfg.BaseURL, storeID)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return DefaultWidgetTheme
	}
	req.Header.Set("apikey", s.cfg.APIKey)
	req.Header.Set("Authorization", "Bearer "+s.cfg.APIKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.logger.Warn("Theme lookup failed, using default", zap.Error(err))
		return DefaultWidgetTheme
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return DefaultWidgetTheme
	}

	var rows []struct {
		WidgetTheme string `json:"widget_theme"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return DefaultWidgetTheme
	}
	if len(rows) == 0 || !validWidgetThemes[rows[0].WidgetTheme] {
		return DefaultWidgetTheme
	}
	return rows[0].WidgetTheme
}
