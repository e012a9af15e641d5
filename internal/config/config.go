package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Widget      WidgetConfig
	Shopify     ShopifyConfig
	Webhook     WebhookConfig
	Settings    SettingsConfig
	Database    DatabaseConfig
	LogLevel    string
}

// WidgetConfig drives the loader/relay side of the widget
type WidgetConfig struct {
	BaseURL      string // hosted widget origin; the sole security boundary
	ReadyTimeout time.Duration
	StoresFile   string // registered stores file; empty runs the deployment open (demo mode)
}

// AllowedOrigin derives the exact origin every relay message is checked
// against. Messages from any other origin are silently dropped.
func (w WidgetConfig) AllowedOrigin() (string, error) {
	u, err := url.Parse(w.BaseURL)
	if err != nil {
		return "", fmt.Errorf("invalid widget base URL %q: %w", w.BaseURL, err)
	}
	if u.Scheme == "" || u.Host == "" {
		return "", fmt.Errorf("widget base URL %q must include scheme and host", w.BaseURL)
	}
	return u.Scheme + "://" + u.Host, nil
}

// ShopifyConfig holds Storefront API credentials for the default store
type ShopifyConfig struct {
	ShopDomain      string
	StorefrontToken string
	APIVersion      string
}

// WebhookConfig points at the try-on generation webhook
type WebhookConfig struct {
	URL     string
	Timeout time.Duration // hard abort for mode=tryon calls
}

// SettingsConfig points at the settings store used for theme lookup
type SettingsConfig struct {
	BaseURL string // empty means theme lookup is skipped, default theme used
	APIKey  string
}

// DatabaseConfig is optional; when Host is empty the conversion journal is
// disabled and analytics stay webhook-only
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// Enabled reports whether the conversion journal should be wired up
func (d DatabaseConfig) Enabled() bool {
	return d.Host != ""
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("SHOPIFY_API_VERSION", "2024-10")
	viper.SetDefault("WIDGET_READY_TIMEOUT", "3s")
	viper.SetDefault("TRYON_WEBHOOK_TIMEOUT", "30s")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	readyTimeout, err := time.ParseDuration(getEnvOrViper("WIDGET_READY_TIMEOUT", "3s"))
	if err != nil {
		return nil, fmt.Errorf("invalid WIDGET_READY_TIMEOUT: %w", err)
	}
	webhookTimeout, err := time.ParseDuration(getEnvOrViper("TRYON_WEBHOOK_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid TRYON_WEBHOOK_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Widget: WidgetConfig{
			BaseURL:      strings.TrimSpace(getEnvOrViper("WIDGET_BASE_URL", "")),
			ReadyTimeout: readyTimeout,
			StoresFile:   strings.TrimSpace(getEnvOrViper("STORES_FILE", "")),
		},
		Shopify: ShopifyConfig{
			ShopDomain:      strings.TrimSpace(getEnvOrViper("SHOPIFY_SHOP_DOMAIN", "")),
			StorefrontToken: strings.TrimSpace(getEnvOrViper("SHOPIFY_STOREFRONT_TOKEN", "")),
			APIVersion:      getEnvOrViper("SHOPIFY_API_VERSION", "2024-10"),
		},
		Webhook: WebhookConfig{
			URL:     strings.TrimSpace(getEnvOrViper("TRYON_WEBHOOK_URL", "")),
			Timeout: webhookTimeout,
		},
		Settings: SettingsConfig{
			BaseURL: strings.TrimSpace(getEnvOrViper("SETTINGS_STORE_URL", "")),
			APIKey:  strings.TrimSpace(getEnvOrViper("SETTINGS_STORE_API_KEY", "")),
		},
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", ""),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "tryon_widget"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	// Validate required fields
	if cfg.Widget.BaseURL == "" {
		return nil, fmt.Errorf("WIDGET_BASE_URL is required")
	}
	if _, err := cfg.Widget.AllowedOrigin(); err != nil {
		return nil, err
	}
	if cfg.Webhook.URL == "" {
		return nil, fmt.Errorf("TRYON_WEBHOOK_URL is required")
	}

	return cfg, nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}
