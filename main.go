package main

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/meterdesk/internal/billing"
	"github.com/jask/meterdesk/internal/config"
	"github.com/jask/meterdesk/internal/secrets"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config error:", err)
		os.Exit(1)
	}
	if cfg.API.APIKey == "" {
		// Config files stay key-free when the encrypted store has one.
		if key, err := secrets.FetchAPIKey("billing"); err == nil {
			cfg.API.APIKey = key
		}
	}
	api := billing.NewClient(cfg.API.BaseURL, cfg.API.APIKey)

	p := tea.NewProgram(newModel(cfg, api), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
