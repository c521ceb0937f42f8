package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/meterdesk/internal/query"
)

// ---------------------------------------------------------------------------
// Styles (Catppuccin Mocha themed)
// ---------------------------------------------------------------------------

var (
	// Section titles
	titleStyle = lipgloss.NewStyle().Foreground(colorBrand).Bold(true)

	// Header bar (spans full width)
	headerBarStyle = lipgloss.NewStyle().
			Foreground(colorText).
			Background(colorMantle).
			Padding(0, 2)

	// App name in header
	headerAppStyle = lipgloss.NewStyle().
			Foreground(colorBrand).
			Bold(true)

	// Tab styles
	activeTabStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Background(colorSurface0).
			Bold(true).
			Padding(0, 1)

	inactiveTabStyle = lipgloss.NewStyle().
				Foreground(colorOverlay1).
				Background(colorMantle).
				Padding(0, 1)

	tabSepStyle = lipgloss.NewStyle().
			Foreground(colorOverlay0).
			Background(colorMantle)

	// Loading / status text
	statusStyle = lipgloss.NewStyle().Foreground(colorSubtext0)

	// Footer bar
	footerStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0).
			Background(colorMantle).
			Padding(0, 2)

	// Status bar (above footer)
	statusBarStyle = lipgloss.NewStyle().
			Foreground(colorSubtext1).
			Background(colorSurface0).
			Padding(0, 2)

	statusBarErrStyle = lipgloss.NewStyle().
				Foreground(colorError).
				Background(colorSurface0).
				Padding(0, 2)

	// Section containers
	listBoxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorSurface1).
			Padding(0, 1)

	// Modal overlay
	modalStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorAccent).
			Padding(0, 1)

	// Help key styling
	helpKeyStyle = lipgloss.NewStyle().
			Foreground(colorAccent).
			Bold(true)

	helpDescStyle = lipgloss.NewStyle().
			Foreground(colorSubtext0)

	// Table styles
	tableHeaderStyle = lipgloss.NewStyle().
				Foreground(colorSubtext0).
				Bold(true)

	cursorStyle = lipgloss.NewStyle().Foreground(colorAccent).Bold(true)

	// Dashboard cards
	cardLabelStyle = lipgloss.NewStyle().Foreground(colorSubtext0)
	cardValueStyle = lipgloss.NewStyle().Foreground(colorPeach).Bold(true)

	// Scroll / page indicators
	scrollStyle = lipgloss.NewStyle().Foreground(colorOverlay1)

	staleStyle = lipgloss.NewStyle().Foreground(colorOverlay1).Italic(true)
)

// ---------------------------------------------------------------------------
// Tab names
// ---------------------------------------------------------------------------

var tabNames = []string{"Dashboard", "Products", "Invoices", "Settings"}

// ---------------------------------------------------------------------------
// Chrome rendering
// ---------------------------------------------------------------------------

func renderHeader(appName string, activeTab, width int) string {
	name := headerAppStyle.Render(appName)

	var tabs []string
	for i, tab := range tabNames {
		if i == activeTab {
			tabs = append(tabs, activeTabStyle.Render(tab))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(tab))
		}
	}
	tabBar := tabSepStyle.Render(" ") + strings.Join(tabs, tabSepStyle.Render("│"))

	content := name + "  " + tabBar
	if width <= 0 {
		return headerBarStyle.Render(content)
	}
	return headerBarStyle.Width(width).Render(content)
}

func (m model) renderSection(title, content string) string {
	contentWidth := m.sectionContentWidth()
	header := padRight(titleStyle.Render(title), contentWidth)
	sepStyle := lipgloss.NewStyle().Foreground(colorSurface2)
	separator := sepStyle.Render(strings.Repeat("─", contentWidth))
	sectionContent := header + "\n" + separator + "\n" + content
	section := listBoxStyle.Width(m.sectionWidth()).Render(sectionContent)
	if m.width == 0 {
		return section
	}
	return lipgloss.Place(m.width, lipgloss.Height(section), lipgloss.Center, lipgloss.Top, section)
}

func (m model) renderFooter(bindings []key.Binding) string {
	// Build help text where every character carries the footer background.
	bg := colorMantle
	keyStyle := helpKeyStyle.Background(bg)
	descStyle := helpDescStyle.Background(bg)
	space := lipgloss.NewStyle().Background(bg).Render(" ")
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	parts := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		help := binding.Help()
		if help.Key == "" && help.Desc == "" {
			continue
		}
		parts = append(parts, keyStyle.Render(help.Key)+space+descStyle.Render(help.Desc))
	}
	content := strings.Join(parts, sep)

	if m.width == 0 {
		return footerStyle.Render(content)
	}
	return footerStyle.Width(m.width).Render(content)
}

func (m model) renderStatus(text string) string {
	flat := strings.ReplaceAll(text, "\n", " ")
	style := statusBarStyle
	if m.statusErr {
		style = statusBarErrStyle
	}
	if m.width == 0 {
		return style.Render(flat)
	}
	return style.Width(m.width).Render(flat)
}

func (m model) placeWithFooter(body, statusLine, footer string) string {
	if m.height == 0 {
		return body + "\n\n" + statusLine + "\n" + footer
	}
	contentHeight := m.height - 2
	if contentHeight < 1 {
		contentHeight = 1
	}
	if lipgloss.Height(body) >= contentHeight {
		return body + "\n" + statusLine + "\n" + footer
	}
	main := lipgloss.Place(m.width, contentHeight, lipgloss.Left, lipgloss.Top, body)
	// Full-width lines prevent ghosting from previous frames.
	lines := splitLines(main)
	for i, line := range lines {
		lines[i] = padRight(line, m.width)
	}
	main = strings.Join(lines, "\n")
	return main + "\n" + statusLine + "\n" + footer
}

// ---------------------------------------------------------------------------
// Layout helpers
// ---------------------------------------------------------------------------

func (m model) sectionWidth() int {
	if m.width == 0 {
		return 80
	}
	width := m.width - 4
	if width < 20 {
		width = m.width
	}
	return width
}

func (m model) sectionContentWidth() int {
	if m.width == 0 {
		return 80
	}
	frameH := listBoxStyle.GetHorizontalFrameSize()
	contentWidth := m.sectionWidth() - frameH
	if contentWidth < 1 {
		contentWidth = 1
	}
	return contentWidth
}

// ---------------------------------------------------------------------------
// Modal compositing
// ---------------------------------------------------------------------------

func (m model) composePanelModal(base, statusLine, footer string) string {
	modal := modalStyle.Render(m.editor.view(m.saving))
	return m.composeModal(base, statusLine, footer, modal)
}

func (m model) composePaletteModal(base, statusLine, footer string) string {
	modal := modalStyle.Render(m.paletteView())
	return m.composeModal(base, statusLine, footer, modal)
}

func (m model) composeModal(base, statusLine, footer, modal string) string {
	baseView := m.placeWithFooter(base, statusLine, footer)
	if m.height == 0 || m.width == 0 {
		return baseView + "\n\n" + modal
	}
	targetHeight := m.height - 2
	if targetHeight < 1 {
		targetHeight = 1
	}
	return overlayCentered(baseView, modal, m.width, targetHeight)
}

// ---------------------------------------------------------------------------
// Dashboard
// ---------------------------------------------------------------------------

func (m model) dashboardView() string {
	st := m.cache.State(overviewRequest())
	var content string
	switch {
	case st.Status == query.StatusLoading && st.Data == nil:
		content = statusStyle.Render(m.spin.View() + " Loading overview…")
	case st.Status == query.StatusError && st.Data == nil:
		content = statusStyle.Render("Overview unavailable. Press tab to continue, r to retry.")
	default:
		content = m.renderOverviewCards()
		if st.Status == query.StatusLoading {
			content += "\n" + staleStyle.Render(m.spin.View()+" refreshing…")
		}
	}
	return m.renderSection("Overview", content)
}

func (m model) renderOverviewCards() string {
	rows := []struct {
		label string
		value string
	}{
		{"MRR", m.formatMoney(m.overview.MRRCents)},
		{"Active subscribers", fmt.Sprintf("%d", m.overview.ActiveSubscribers)},
		{"Pending invoices", fmt.Sprintf("%d", m.overview.PendingInvoices)},
		{"Products", fmt.Sprintf("%d", m.overview.ProductCount)},
	}
	lines := make([]string, 0, len(rows))
	for _, row := range rows {
		lines = append(lines,
			cardLabelStyle.Render(fmt.Sprintf("%-20s", row.label))+" "+cardValueStyle.Render(row.value))
	}
	return strings.Join(lines, "\n")
}

func (m model) formatMoney(cents int64) string {
	symbol := m.cfg.UI.CurrencySymbol
	if symbol == "" {
		symbol = "$"
	}
	return fmt.Sprintf("%s%.2f", symbol, float64(cents)/100)
}

// ---------------------------------------------------------------------------
// Products
// ---------------------------------------------------------------------------

func (m model) productsView() string {
	var b strings.Builder

	fam, ok := m.selectedFamily()
	if !ok {
		if m.cache.Loading(familiesRequest()) {
			b.WriteString(statusStyle.Render(m.spin.View() + " Loading product families…"))
		} else {
			b.WriteString(statusStyle.Render("No product families available."))
		}
		return m.renderSection("Products", b.String())
	}

	famLine := cardLabelStyle.Render("Family: ") +
		lipgloss.NewStyle().Foreground(colorSky).Render(fam.Name) +
		scrollStyle.Render(fmt.Sprintf("  (%d/%d, f to cycle)", m.familyIdx+1, len(m.families)))
	b.WriteString(famLine + "\n\n")

	st := m.cache.State(m.productsRequest())
	switch {
	case st.Status == query.StatusLoading && st.Data == nil:
		b.WriteString(statusStyle.Render(m.spin.View() + " Loading products…"))
	case st.Status == query.StatusError && st.Data == nil:
		b.WriteString(statusStyle.Render("Products failed to load. Press r to retry."))
	case len(m.products) == 0:
		b.WriteString(statusStyle.Render("No products in this family. Press n to create one."))
	default:
		b.WriteString(m.renderProductTable())
		if st.Status == query.StatusLoading {
			b.WriteString("\n" + staleStyle.Render(m.spin.View()+" refreshing…"))
		} else if st.Status == query.StatusError {
			b.WriteString("\n" + staleStyle.Render("showing stale data; reload failed, press r to retry"))
		}
	}
	return m.renderSection("Products", b.String())
}

func (m model) renderProductTable() string {
	width := m.sectionContentWidth()
	nameWidth := 28
	dateWidth := 12
	descWidth := width - nameWidth - dateWidth - 8
	if descWidth < 10 {
		descWidth = 10
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s", nameWidth, "Name", descWidth, "Description", dateWidth, "Created")
	lines := []string{tableHeaderStyle.Render(header)}

	page := m.pagedProducts()
	for i, p := range page {
		prefix := "  "
		if i == m.prodCursor {
			prefix = cursorStyle.Render("> ")
		}
		nameField := padRight(truncate(p.Name, nameWidth), nameWidth)
		descField := padRight(truncate(p.Description, descWidth), descWidth)
		dateField := padRight(truncate(p.CreatedAt, dateWidth), dateWidth)
		lines = append(lines, prefix+nameField+"  "+descField+"  "+dateField)
	}

	lines = append(lines, scrollStyle.Render(fmt.Sprintf(
		"── page %d/%d · %d products · [ ] to page ──",
		m.pager.Page()+1, m.pager.PageCount(), m.pager.TotalCount())))
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Invoices
// ---------------------------------------------------------------------------

func (m model) invoicesView() string {
	st := m.cache.State(invoicesRequest())
	var content string
	switch {
	case st.Status == query.StatusLoading && st.Data == nil:
		content = statusStyle.Render(m.spin.View() + " Loading invoices…")
	case st.Status == query.StatusError && st.Data == nil:
		content = statusStyle.Render("Invoices failed to load. Press r to retry.")
	case len(m.invoices) == 0:
		content = statusStyle.Render("No invoices.")
	default:
		content = m.renderInvoiceTable()
		if st.Status == query.StatusLoading {
			content += "\n" + staleStyle.Render(m.spin.View()+" refreshing…")
		}
	}
	return m.renderSection("Invoices", content)
}

func (m model) renderInvoiceTable() string {
	width := m.sectionContentWidth()
	numWidth := 12
	statusWidth := 10
	amountWidth := 12
	dateWidth := 12
	custWidth := width - numWidth - statusWidth - amountWidth - dateWidth - 12
	if custWidth < 10 {
		custWidth = 10
	}

	header := fmt.Sprintf("  %-*s  %-*s  %-*s  %*s  %-*s",
		numWidth, "Number", custWidth, "Customer", statusWidth, "Status",
		amountWidth, "Amount", dateWidth, "Issued")
	lines := []string{tableHeaderStyle.Render(header)}

	visible := m.invoiceVisibleRows()
	end := m.invTop + visible
	if end > len(m.invoices) {
		end = len(m.invoices)
	}
	for i := m.invTop; i < end; i++ {
		inv := m.invoices[i]
		prefix := "  "
		if i == m.invCursor {
			prefix = cursorStyle.Render("> ")
		}
		statusField := lipgloss.NewStyle().Foreground(invoiceStatusColor(inv.Status)).
			Render(padRight(truncate(inv.Status, statusWidth), statusWidth))
		line := prefix +
			padRight(truncate(inv.Number, numWidth), numWidth) + "  " +
			padRight(truncate(inv.CustomerName, custWidth), custWidth) + "  " +
			statusField + "  " +
			fmt.Sprintf("%*s", amountWidth, m.formatMoney(inv.AmountCents)) + "  " +
			padRight(truncate(inv.IssuedAt, dateWidth), dateWidth)
		lines = append(lines, line)
	}

	if total := len(m.invoices); total > 0 {
		lines = append(lines, scrollStyle.Render(fmt.Sprintf(
			"── showing %d-%d of %d ──", m.invTop+1, end, total)))
	}
	return strings.Join(lines, "\n")
}

// ---------------------------------------------------------------------------
// Settings
// ---------------------------------------------------------------------------

func (m model) settingsView() string {
	label := cardLabelStyle
	value := lipgloss.NewStyle().Foreground(colorText)
	masked := m.cfg.API.APIKey
	if masked != "" {
		masked = "••••" + lastN(masked, 4)
	} else {
		masked = "(not set)"
	}
	lines := []string{
		label.Render(fmt.Sprintf("%-18s", "API base URL")) + " " + value.Render(m.cfg.API.BaseURL),
		label.Render(fmt.Sprintf("%-18s", "API key")) + " " + value.Render(masked),
		label.Render(fmt.Sprintf("%-18s", "Page size")) + " " + value.Render(fmt.Sprintf("%d", m.cfg.UI.PageSize)),
		label.Render(fmt.Sprintf("%-18s", "Currency symbol")) + " " + value.Render(m.cfg.UI.CurrencySymbol),
		label.Render(fmt.Sprintf("%-18s", "Date format")) + " " + value.Render(m.cfg.UI.DateFormat),
		"",
		statusStyle.Render("+/- adjust page size · s save"),
	}
	return m.renderSection("Settings", strings.Join(lines, "\n"))
}

func lastN(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
