package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("METERDESK_CONFIG", filepath.Join(t.TempDir(), "missing.toml"))

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "http://localhost:8080", cfg.API.BaseURL)
	require.Empty(t, cfg.API.APIKey)
	require.Equal(t, 20, cfg.UI.PageSize)
	require.Equal(t, "$", cfg.UI.CurrencySymbol)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	body := `
[api]
base_url = "https://billing.example.com"
api_key = "sk-test"

[ui]
page_size = 50
currency_symbol = "€"
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	t.Setenv("METERDESK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://billing.example.com", cfg.API.BaseURL)
	require.Equal(t, "sk-test", cfg.API.APIKey)
	require.Equal(t, 50, cfg.UI.PageSize)
	require.Equal(t, "€", cfg.UI.CurrencySymbol)
}

func TestEnvOverridesFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[api]\nbase_url = \"https://file.example.com\"\n"), 0o644))
	t.Setenv("METERDESK_CONFIG", path)
	t.Setenv("METERDESK_API_BASE_URL", "https://env.example.com")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.API.BaseURL)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	t.Setenv("METERDESK_CONFIG", path)

	want := Config{
		API: APIConfig{BaseURL: "https://billing.example.com", APIKey: "sk-live"},
		UI:  UIConfig{PageSize: 25, CurrencySymbol: "£", DateFormat: "2006-01-02"},
	}
	require.NoError(t, Save(want))

	got, err := Load()
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestLoadRepairsNonPositivePageSize(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[ui]\npage_size = 0\n"), 0o644))
	t.Setenv("METERDESK_CONFIG", path)

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, 20, cfg.UI.PageSize)
}
