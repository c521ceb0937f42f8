package main

import (
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/jask/meterdesk/internal/billing"
	"github.com/jask/meterdesk/internal/config"
	"github.com/jask/meterdesk/internal/query"
)

const appName = "Meterdesk"

// Tab indices
const (
	tabDashboard = 0
	tabProducts  = 1
	tabInvoices  = 2
	tabSettings  = 3
	tabCount     = 4
)

// ---------------------------------------------------------------------------
// Bubble Tea messages
// ---------------------------------------------------------------------------

// query.Result carries fetch outcomes; the two below cover mutations.

type productSavedMsg struct {
	product billing.Product
	created bool
	err     error
}

type configSavedMsg struct {
	err error
}

// ---------------------------------------------------------------------------
// Model
// ---------------------------------------------------------------------------

type model struct {
	api    billing.API
	cfg    config.Config
	cache  *query.Cache
	reload *query.Reloader

	keys      keyMap
	panelKeys panelKeyMap

	status    string
	statusErr bool
	activeTab int
	width     int
	height    int

	spin spinner.Model

	// Products tab. The product list is scoped to the selected family;
	// until the family list arrives the list query stays gated off.
	families   []billing.ProductFamily
	familyIdx  int
	products   []billing.Product
	prodCursor int
	pager      query.Pagination
	panel      query.Panel
	editor     productEditor
	saving     bool

	// Invoices tab
	invoices  []billing.Invoice
	invCursor int
	invTop    int

	// Dashboard
	overview billing.Overview

	// Command palette
	commands       *CommandRegistry
	commandOpen    bool
	commandQuery   string
	commandCursor  int
	commandMatches []CommandMatch
	lastCommandID  string
}

func newModel(cfg config.Config, api billing.API) model {
	cache := query.NewCache()
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(colorAccent)

	m := model{
		api:       api,
		cfg:       cfg,
		cache:     cache,
		reload:    query.NewReloader(cache),
		keys:      newKeyMap(),
		panelKeys: panelKeyMap{keyMap: newKeyMap()},
		spin:      sp,
		pager:     query.NewPagination(cfg.UI.PageSize),
	}
	m.commands = NewCommandRegistry()
	return m
}

// ---------------------------------------------------------------------------
// Bubble Tea interface: Init / Update / View
// ---------------------------------------------------------------------------

func (m model) Init() tea.Cmd {
	return tea.Batch(
		m.cache.Execute(overviewRequest(), m.overviewFetcher()),
		m.cache.Execute(familiesRequest(), m.familiesFetcher()),
		m.spin.Tick,
	)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case query.Result:
		return m.handleQueryResult(msg)
	case productSavedMsg:
		return m.handleProductSaved(msg)
	case configSavedMsg:
		return m.handleConfigSaved(msg)
	case spinner.TickMsg:
		if !m.anyLoading() && !m.saving {
			return m, nil
		}
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureInvoiceCursorInWindow()
		return m, nil
	case tea.KeyMsg:
		if m.commandOpen {
			return m.updateCommandUI(msg)
		}
		if m.panel.Visible() {
			return m.updatePanel(msg)
		}
		return m.updateMain(msg)
	}
	return m, nil
}

func (m model) View() string {
	header := renderHeader(appName, m.activeTab, m.width)
	statusLine := m.renderStatus(m.status)
	footer := m.renderFooter(m.footerBindings())

	var body string
	switch m.activeTab {
	case tabDashboard:
		body = m.dashboardView()
	case tabProducts:
		body = m.productsView()
	case tabInvoices:
		body = m.invoicesView()
	case tabSettings:
		body = m.settingsView()
	default:
		body = m.dashboardView()
	}

	main := header + "\n\n" + body

	if m.commandOpen {
		return m.composePaletteModal(main, statusLine, footer)
	}
	if m.panel.Visible() {
		return m.composePanelModal(main, statusLine, footer)
	}
	return m.placeWithFooter(main, statusLine, footer)
}

// ---------------------------------------------------------------------------
// Status helpers
// ---------------------------------------------------------------------------

func (m *model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

// setError sets the status as an error message (rendered in Red).
func (m *model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}

// ---------------------------------------------------------------------------
// Derived state
// ---------------------------------------------------------------------------

func (m model) selectedFamily() (billing.ProductFamily, bool) {
	if len(m.families) == 0 {
		return billing.ProductFamily{}, false
	}
	idx := m.familyIdx
	if idx < 0 || idx >= len(m.families) {
		idx = 0
	}
	return m.families[idx], true
}

// productsRequest derives the list query for the selected family. With no
// family selected yet it is the disabled variant, so the cache never runs it.
func (m model) productsRequest() query.Request {
	fam, _ := m.selectedFamily()
	return productsRequest(fam.ExternalID)
}

func (m model) anyLoading() bool {
	return m.cache.Loading(overviewRequest()) ||
		m.cache.Loading(familiesRequest()) ||
		m.cache.Loading(invoicesRequest()) ||
		m.cache.Loading(m.productsRequest())
}

// pagedProducts returns the slice of the product list visible on the
// current page.
func (m model) pagedProducts() []billing.Product {
	lo, hi := m.pager.Window(len(m.products))
	return m.products[lo:hi]
}

func (m model) footerBindings() []key.Binding {
	if m.panel.Visible() {
		return m.panelKeys.ShortHelp()
	}
	if m.activeTab == tabProducts {
		return productsHelp(m.keys)
	}
	return m.keys.ShortHelp()
}

// ---------------------------------------------------------------------------
// Invoice scroll window
// ---------------------------------------------------------------------------

func (m *model) ensureInvoiceCursorInWindow() {
	visible := m.invoiceVisibleRows()
	if visible <= 0 {
		return
	}
	if m.invCursor < m.invTop {
		m.invTop = m.invCursor
	} else if m.invCursor >= m.invTop+visible {
		m.invTop = m.invCursor - visible + 1
	}
	maxTop := len(m.invoices) - visible
	if maxTop < 0 {
		maxTop = 0
	}
	if m.invTop > maxTop {
		m.invTop = maxTop
	}
	if m.invTop < 0 {
		m.invTop = 0
	}
}

func (m *model) invoiceVisibleRows() int {
	if m.height == 0 {
		return 10
	}
	available := m.height - 10
	if available < 3 {
		available = 3
	}
	if available > 20 {
		available = 20
	}
	return available
}
