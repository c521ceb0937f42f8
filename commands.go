package main

import (
	"fmt"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/meterdesk/internal/billing"
)

// ---------------------------------------------------------------------------
// Command palette
// ---------------------------------------------------------------------------

type Command struct {
	ID          string
	Label       string
	Description string
	Category    string
	Enabled     func(m model) (bool, string)
	Execute     func(m model) (model, tea.Cmd, error)
}

type CommandMatch struct {
	Command        Command
	Score          int
	Enabled        bool
	DisabledReason string
}

type CommandRegistry struct {
	commands []Command
	byID     map[string]Command
}

func commandAlwaysEnabled(model) (bool, string) { return true, "" }

func NewCommandRegistry() *CommandRegistry {
	r := &CommandRegistry{}
	r.commands = []Command{
		{
			ID:          "nav:dashboard",
			Label:       "Go to Dashboard",
			Description: "Switch to Dashboard tab",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.activeTab = tabDashboard
				return m, m.ensureTabData(), nil
			},
		},
		{
			ID:          "nav:products",
			Label:       "Go to Products",
			Description: "Switch to Products tab",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.activeTab = tabProducts
				return m, m.ensureTabData(), nil
			},
		},
		{
			ID:          "nav:invoices",
			Label:       "Go to Invoices",
			Description: "Switch to Invoices tab",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.activeTab = tabInvoices
				return m, m.ensureTabData(), nil
			},
		},
		{
			ID:          "nav:settings",
			Label:       "Go to Settings",
			Description: "Switch to Settings tab",
			Category:    "Navigation",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.activeTab = tabSettings
				return m, nil, nil
			},
		},
		{
			ID:          "products:new",
			Label:       "New Product",
			Description: "Create a product in the selected family",
			Category:    "Products",
			Enabled: func(m model) (bool, string) {
				if _, ok := m.selectedFamily(); !ok {
					return false, "No product family selected."
				}
				return true, ""
			},
			Execute: func(m model) (model, tea.Cmd, error) {
				fam, ok := m.selectedFamily()
				if !ok {
					return m, nil, fmt.Errorf("no product family selected")
				}
				m.activeTab = tabProducts
				m.panel.OpenBlank()
				m.editor = newProductEditor(billing.Product{}, fam.ExternalID, false)
				return m, m.ensureTabData(), nil
			},
		},
		{
			ID:          "products:reload",
			Label:       "Reload Products",
			Description: "Refetch the product list for the selected family",
			Category:    "Products",
			Enabled: func(m model) (bool, string) {
				if _, ok := m.selectedFamily(); !ok {
					return false, "No product family selected."
				}
				return true, ""
			},
			Execute: func(m model) (model, tea.Cmd, error) {
				fam, ok := m.selectedFamily()
				if !ok {
					return m, nil, fmt.Errorf("no product family selected")
				}
				cmd := m.reload.Reload(m.productsRequest(), m.productsFetcher(fam.ExternalID))
				return m, m.startFetch(cmd), nil
			},
		},
		{
			ID:          "products:cycle-family",
			Label:       "Cycle Product Family",
			Description: "Scope the product list to the next family",
			Category:    "Products",
			Enabled: func(m model) (bool, string) {
				if len(m.families) < 2 {
					return false, "Fewer than two families loaded."
				}
				return true, ""
			},
			Execute: func(m model) (model, tea.Cmd, error) {
				old := m.productsRequest()
				m.familyIdx = (m.familyIdx + 1) % len(m.families)
				m.cache.Invalidate(old)
				m.pager.SetPage(0)
				m.prodCursor = 0
				m.syncProducts()
				return m, m.executeProducts(), nil
			},
		},
		{
			ID:          "invoices:reload",
			Label:       "Reload Invoices",
			Description: "Refetch the invoice list",
			Category:    "Invoices",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				cmd := m.reload.Reload(invoicesRequest(), m.invoicesFetcher())
				return m, m.startFetch(cmd), nil
			},
		},
		{
			ID:          "app:refresh-all",
			Label:       "Refresh Everything",
			Description: "Drop all cached data and refetch the active tab",
			Category:    "Application",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				m.cache.Reset()
				m.products = nil
				m.invoices = nil
				m.pager.SyncTotal(0)
				return m, m.ensureTabData(), nil
			},
		},
		{
			ID:          "app:quit",
			Label:       "Quit",
			Description: "Exit the application",
			Category:    "Application",
			Enabled:     commandAlwaysEnabled,
			Execute: func(m model) (model, tea.Cmd, error) {
				return m, tea.Quit, nil
			},
		},
	}
	r.byID = make(map[string]Command, len(r.commands))
	for _, cmd := range r.commands {
		r.byID[cmd.ID] = cmd
	}
	return r
}

func (r *CommandRegistry) All() []Command {
	if r == nil {
		return nil
	}
	out := make([]Command, len(r.commands))
	copy(out, r.commands)
	return out
}

func (r *CommandRegistry) Search(query string, m model, lastCommandID string) []CommandMatch {
	if r == nil {
		return nil
	}
	q := strings.TrimSpace(query)
	out := make([]CommandMatch, 0, len(r.commands))
	for _, cmd := range r.commands {
		matched, score := commandMatchScore(cmd, q)
		if !matched {
			continue
		}
		enabled := true
		reason := ""
		if cmd.Enabled != nil {
			enabled, reason = cmd.Enabled(m)
		}
		out = append(out, CommandMatch{
			Command:        cmd,
			Score:          score,
			Enabled:        enabled,
			DisabledReason: reason,
		})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Enabled != out[j].Enabled {
			return out[i].Enabled
		}
		iMRU := lastCommandID != "" && out[i].Command.ID == lastCommandID
		jMRU := lastCommandID != "" && out[j].Command.ID == lastCommandID
		if iMRU != jMRU {
			return iMRU
		}
		if out[i].Score != out[j].Score {
			return out[i].Score > out[j].Score
		}
		li := strings.ToLower(out[i].Command.Label)
		lj := strings.ToLower(out[j].Command.Label)
		if li != lj {
			return li < lj
		}
		return out[i].Command.ID < out[j].Command.ID
	})
	return out
}

func (r *CommandRegistry) ExecuteByID(id string, m model) (model, tea.Cmd, error) {
	if r == nil {
		return m, nil, fmt.Errorf("command registry is not initialized")
	}
	cmd, ok := r.byID[id]
	if !ok {
		return m, nil, fmt.Errorf("unknown command %q", id)
	}
	if cmd.Enabled != nil {
		enabled, reason := cmd.Enabled(m)
		if !enabled {
			if strings.TrimSpace(reason) == "" {
				reason = "command is disabled"
			}
			return m, nil, fmt.Errorf("%s", reason)
		}
	}
	if cmd.Execute == nil {
		return m, nil, fmt.Errorf("command %q has no executor", id)
	}
	return cmd.Execute(m)
}

// ---------------------------------------------------------------------------
// Matching
// ---------------------------------------------------------------------------

func commandMatchScore(cmd Command, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	best := -1
	fields := []string{cmd.Label, cmd.ID, cmd.Description}
	for _, field := range fields {
		matched, score := fuzzyMatchScore(field, query)
		if !matched {
			continue
		}
		if strings.EqualFold(field, query) {
			score += 15
		}
		if score > best {
			best = score
		}
	}
	if best >= 0 {
		return true, best
	}
	// Tolerate small typos against the label: "prodcuts" should still
	// surface "Go to Products".
	for _, word := range strings.Fields(strings.ToLower(cmd.Label)) {
		d := levenshtein.ComputeDistance(word, strings.ToLower(query))
		if d <= 2 && len(query) > d {
			return true, 3 - d
		}
	}
	return false, 0
}

// fuzzyMatchScore does an in-order subsequence match of query against
// label, rewarding prefix hits and adjacent runs.
func fuzzyMatchScore(label, query string) (bool, int) {
	if query == "" {
		return true, 0
	}
	labelLower := strings.ToLower(label)
	queryLower := strings.ToLower(query)

	matchIdx := make([]int, 0, len(queryLower))
	searchFrom := 0
	for i := 0; i < len(queryLower); i++ {
		ch := queryLower[i]
		found := false
		for j := searchFrom; j < len(labelLower); j++ {
			if labelLower[j] == ch {
				matchIdx = append(matchIdx, j)
				searchFrom = j + 1
				found = true
				break
			}
		}
		if !found {
			return false, 0
		}
	}

	score := len(queryLower)
	if len(matchIdx) > 0 && matchIdx[0] == 0 {
		score += 10
	}
	for i := 1; i < len(matchIdx); i++ {
		if matchIdx[i] == matchIdx[i-1]+1 {
			score += 3
		}
	}
	if strings.EqualFold(strings.TrimSpace(label), strings.TrimSpace(query)) {
		score += 20
	}
	return true, score
}

// ---------------------------------------------------------------------------
// Palette UI state
// ---------------------------------------------------------------------------

const paletteVisibleRows = 8

func (m *model) openCommandUI() {
	m.commandOpen = true
	m.commandQuery = ""
	m.commandCursor = 0
	m.rebuildCommandMatches()
}

func (m *model) closeCommandUI() {
	m.commandOpen = false
	m.commandQuery = ""
	m.commandCursor = 0
	m.commandMatches = nil
}

func (m *model) rebuildCommandMatches() {
	if m.commands == nil {
		m.commandMatches = nil
		m.commandCursor = 0
		return
	}
	m.commandMatches = m.commands.Search(m.commandQuery, *m, m.lastCommandID)
	if m.commandCursor >= len(m.commandMatches) {
		m.commandCursor = len(m.commandMatches) - 1
	}
	if m.commandCursor < 0 {
		m.commandCursor = 0
	}
}

func (m model) updateCommandUI(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc", "ctrl+k":
		m.closeCommandUI()
		return m, nil
	case "ctrl+c":
		return m, tea.Quit
	case "up", "ctrl+p":
		if m.commandCursor > 0 {
			m.commandCursor--
		}
		return m, nil
	case "down", "ctrl+n":
		if m.commandCursor < len(m.commandMatches)-1 {
			m.commandCursor++
		}
		return m, nil
	case "backspace":
		if m.commandQuery != "" {
			m.commandQuery = m.commandQuery[:len(m.commandQuery)-1]
			m.rebuildCommandMatches()
		}
		return m, nil
	case "enter":
		if len(m.commandMatches) == 0 {
			return m, nil
		}
		match := m.commandMatches[m.commandCursor]
		if !match.Enabled {
			m.setError(match.DisabledReason)
			return m, nil
		}
		m.closeCommandUI()
		m.lastCommandID = match.Command.ID
		next, cmd, err := m.commands.ExecuteByID(match.Command.ID, m)
		if err != nil {
			next.setError(err.Error())
			return next, nil
		}
		return next, cmd
	}

	if msg.Type == tea.KeyRunes {
		m.commandQuery += string(msg.Runes)
		m.commandCursor = 0
		m.rebuildCommandMatches()
	} else if msg.Type == tea.KeySpace {
		m.commandQuery += " "
		m.rebuildCommandMatches()
	}
	return m, nil
}

func (m model) paletteView() string {
	prompt := cursorStyle.Render("> ") + m.commandQuery + cursorStyle.Render("▏")
	lines := []string{
		titleStyle.Render("Commands"),
		prompt,
		"",
	}

	if len(m.commandMatches) == 0 {
		lines = append(lines, statusStyle.Render("No matching commands."))
	}
	end := len(m.commandMatches)
	if end > paletteVisibleRows {
		end = paletteVisibleRows
	}
	dimStyle := lipgloss.NewStyle().Foreground(colorOverlay0)
	catStyle := lipgloss.NewStyle().Foreground(colorOverlay1)
	for i := 0; i < end; i++ {
		match := m.commandMatches[i]
		prefix := "  "
		if i == m.commandCursor {
			prefix = cursorStyle.Render("> ")
		}
		label := match.Command.Label
		line := prefix + padRight(label, 30) + " " + catStyle.Render(match.Command.Category)
		if !match.Enabled {
			line = prefix + dimStyle.Render(padRight(label, 30)+" "+match.DisabledReason)
		}
		lines = append(lines, line)
	}
	if len(m.commandMatches) > paletteVisibleRows {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf("… %d more", len(m.commandMatches)-paletteVisibleRows)))
	}
	return strings.Join(lines, "\n")
}
