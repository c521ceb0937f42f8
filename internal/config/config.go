package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	API APIConfig
	UI  UIConfig
}

// APIConfig holds billing API connection settings.
type APIConfig struct {
	BaseURL string
	APIKey  string
}

// UIConfig holds presentation settings.
type UIConfig struct {
	PageSize       int
	CurrencySymbol string
	DateFormat     string
}

// Load reads configuration from file and env. Env var overrides use prefix METERDESK_.
func Load() (Config, error) {
	v := viper.New()

	// default values
	v.SetDefault("api.base_url", "http://localhost:8080")
	v.SetDefault("api.api_key", "")
	v.SetDefault("ui.page_size", 20)
	v.SetDefault("ui.currency_symbol", "$")
	v.SetDefault("ui.date_format", "02 Jan 2006")

	v.SetConfigType("toml")

	cfgPath := os.Getenv("METERDESK_CONFIG")
	if cfgPath != "" {
		v.SetConfigFile(cfgPath)
	} else {
		v.AddConfigPath(filepath.Join(os.Getenv("HOME"), ".config", "meterdesk"))
		v.SetConfigName("config")
	}

	v.SetEnvPrefix("METERDESK")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// read config file if present
	_ = v.ReadInConfig()

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return Config{}, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.UI.PageSize <= 0 {
		c.UI.PageSize = 20
	}
	return c, nil
}

// Save writes the provided config to disk, creating the config directory if needed.
// This is primarily used by the TUI settings view for non-sensitive preferences.
// The API key is stored in plain text here; the secrets store or env vars are
// the better home for it.
func Save(cfg Config) error {
	path := os.Getenv("METERDESK_CONFIG")
	if path == "" {
		path = filepath.Join(os.Getenv("HOME"), ".config", "meterdesk", "config.toml")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("mkdir config dir: %w", err)
	}

	v := viper.New()
	v.SetConfigType("toml")
	v.Set("api.base_url", cfg.API.BaseURL)
	v.Set("api.api_key", cfg.API.APIKey)
	v.Set("ui.page_size", cfg.UI.PageSize)
	v.Set("ui.currency_symbol", cfg.UI.CurrencySymbol)
	v.Set("ui.date_format", cfg.UI.DateFormat)

	if err := v.WriteConfigAs(path); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}
