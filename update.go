package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/meterdesk/internal/billing"
	"github.com/jask/meterdesk/internal/config"
	"github.com/jask/meterdesk/internal/query"
)

// ---------------------------------------------------------------------------
// Query result handling
// ---------------------------------------------------------------------------

// handleQueryResult folds a fetch result into the cache, then mirrors the
// typed payload into the model. Stale results are dropped wholesale: a
// response for an invalidated or superseded key changes nothing.
func (m model) handleQueryResult(msg query.Result) (tea.Model, tea.Cmd) {
	if !m.cache.Apply(msg) {
		return m, nil
	}

	switch msg.Key {
	case overviewRequest().Key():
		st := m.cache.State(overviewRequest())
		if st.Status == query.StatusError {
			m.setError(fmt.Sprintf("Overview load failed: %v", st.Err))
			return m, nil
		}
		if ov, ok := st.Data.(billing.Overview); ok {
			m.overview = ov
		}

	case familiesRequest().Key():
		st := m.cache.State(familiesRequest())
		if st.Status == query.StatusError {
			m.setError(fmt.Sprintf("Family load failed: %v", st.Err))
			return m, nil
		}
		if fams, ok := st.Data.([]billing.ProductFamily); ok {
			m.families = fams
			if m.familyIdx >= len(fams) {
				m.familyIdx = 0
			}
			// The product list was gated on the family id; now that one
			// exists the list query can run.
			if m.activeTab == tabProducts {
				return m, m.executeProducts()
			}
		}

	case invoicesRequest().Key():
		st := m.cache.State(invoicesRequest())
		if st.Status == query.StatusError {
			m.setError(fmt.Sprintf("Invoice load failed: %v", st.Err))
			return m, nil
		}
		if invs, ok := st.Data.([]billing.Invoice); ok {
			m.invoices = invs
			if m.invCursor >= len(invs) {
				m.invCursor = 0
				m.invTop = 0
			}
			m.ensureInvoiceCursorInWindow()
		}

	case m.productsRequest().Key():
		st := m.cache.State(m.productsRequest())
		if st.Status == query.StatusError {
			m.setError(fmt.Sprintf("Product load failed: %v", st.Err))
		} else if m.statusErr {
			// A successful reload supersedes an earlier failure notice.
			m.setStatus("Products reloaded.")
		}
		m.syncProducts()
	}
	return m, nil
}

// syncProducts mirrors the cached product list for the selected family and
// keeps pagination and cursor consistent with it. The client owns the
// total count; it always tracks the latest successful result's length.
func (m *model) syncProducts() {
	st := m.cache.State(m.productsRequest())
	if data, ok := st.Data.([]billing.Product); ok {
		m.products = data
	} else {
		m.products = nil
	}
	m.pager.SyncTotal(len(m.products))
	page := m.pagedProducts()
	if m.prodCursor >= len(page) {
		m.prodCursor = len(page) - 1
	}
	if m.prodCursor < 0 {
		m.prodCursor = 0
	}
}

// startFetch wraps a cache command with a spinner tick, or passes the
// dedup through when the cache declined to fetch.
func (m model) startFetch(cmd tea.Cmd) tea.Cmd {
	if cmd == nil {
		return nil
	}
	return tea.Batch(cmd, m.spin.Tick)
}

func (m model) executeProducts() tea.Cmd {
	fam, ok := m.selectedFamily()
	if !ok {
		return nil
	}
	return m.startFetch(m.cache.Execute(m.productsRequest(), m.productsFetcher(fam.ExternalID)))
}

// ensureTabData kicks off whatever the active tab needs. Cached data makes
// this a no-op, so tab switching is free once everything has loaded.
func (m model) ensureTabData() tea.Cmd {
	switch m.activeTab {
	case tabDashboard:
		return m.startFetch(m.cache.Execute(overviewRequest(), m.overviewFetcher()))
	case tabProducts:
		var cmds []tea.Cmd
		if c := m.cache.Execute(familiesRequest(), m.familiesFetcher()); c != nil {
			cmds = append(cmds, c)
		}
		if c := m.executeProducts(); c != nil {
			cmds = append(cmds, c)
		}
		if len(cmds) == 0 {
			return nil
		}
		return tea.Batch(cmds...)
	case tabInvoices:
		return m.startFetch(m.cache.Execute(invoicesRequest(), m.invoicesFetcher()))
	}
	return nil
}

// ---------------------------------------------------------------------------
// Mutation results
// ---------------------------------------------------------------------------

func (m model) handleProductSaved(msg productSavedMsg) (tea.Model, tea.Cmd) {
	m.saving = false
	if msg.err != nil {
		// Keep the panel open so the user can fix the form and retry.
		m.setError(fmt.Sprintf("Save failed: %v", msg.err))
		return m, nil
	}
	m.panel.Close()
	if msg.created {
		m.setStatus(fmt.Sprintf("Created %q", msg.product.Name))
	} else {
		m.setStatus(fmt.Sprintf("Saved %q", msg.product.Name))
	}
	fam, ok := m.selectedFamily()
	if !ok {
		return m, nil
	}
	return m, m.startFetch(m.cache.Refetch(m.productsRequest(), m.productsFetcher(fam.ExternalID)))
}

func (m model) handleConfigSaved(msg configSavedMsg) (tea.Model, tea.Cmd) {
	if msg.err != nil {
		m.setError(fmt.Sprintf("Save settings failed: %v", msg.err))
		return m, nil
	}
	m.setStatus("Settings saved.")
	return m, nil
}

// ---------------------------------------------------------------------------
// Key-input handlers
// ---------------------------------------------------------------------------

func (m model) updateMain(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit
	case "ctrl+k":
		m.openCommandUI()
		return m, nil
	case "tab":
		m.activeTab = (m.activeTab + 1) % tabCount
		return m, m.ensureTabData()
	case "shift+tab":
		m.activeTab = (m.activeTab - 1 + tabCount) % tabCount
		return m, m.ensureTabData()
	}

	switch m.activeTab {
	case tabDashboard:
		return m.updateDashboard(msg)
	case tabProducts:
		return m.updateProducts(msg)
	case tabInvoices:
		return m.updateInvoices(msg)
	case tabSettings:
		return m.updateSettings(msg)
	}
	return m, nil
}

func (m model) updateDashboard(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "r" {
		cmd := m.reload.Reload(overviewRequest(), m.overviewFetcher())
		if cmd == nil {
			return m, nil
		}
		m.setStatus("Reloading overview…")
		return m, m.startFetch(cmd)
	}
	return m, nil
}

func (m model) updateProducts(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "f":
		if len(m.families) == 0 {
			m.setStatus("No product families loaded yet.")
			return m, nil
		}
		// Invalidate the outgoing key first, so an in-flight response
		// for the old family has nowhere to land.
		old := m.productsRequest()
		m.familyIdx = (m.familyIdx + 1) % len(m.families)
		m.cache.Invalidate(old)
		m.pager.SetPage(0)
		m.prodCursor = 0
		m.syncProducts()
		fam, _ := m.selectedFamily()
		m.setStatus(fmt.Sprintf("Family: %s", fam.Name))
		return m, m.executeProducts()

	case "[":
		m.pager.PrevPage()
		m.prodCursor = 0
		return m, nil
	case "]":
		m.pager.NextPage()
		m.prodCursor = 0
		return m, nil

	case "up", "k":
		if m.prodCursor > 0 {
			m.prodCursor--
		}
		return m, nil
	case "down", "j":
		if m.prodCursor < len(m.pagedProducts())-1 {
			m.prodCursor++
		}
		return m, nil

	case "n":
		fam, ok := m.selectedFamily()
		if !ok {
			m.setError("Select a product family first.")
			return m, nil
		}
		m.panel.OpenBlank()
		m.editor = newProductEditor(billing.Product{}, fam.ExternalID, false)
		return m, nil

	case "enter":
		page := m.pagedProducts()
		if len(page) == 0 {
			return m, nil
		}
		p := page[m.prodCursor]
		m.panel.Open(p.ID)
		m.editor = newProductEditor(p, p.FamilyExternalID, true)
		return m, nil

	case "r":
		fam, ok := m.selectedFamily()
		if !ok {
			return m, nil
		}
		cmd := m.reload.Reload(m.productsRequest(), m.productsFetcher(fam.ExternalID))
		if cmd == nil {
			return m, nil
		}
		m.setStatus("Reloading products…")
		return m, m.startFetch(cmd)

	case "/":
		m.setStatus("Search is not implemented yet.")
		return m, nil
	}
	return m, nil
}

func (m model) updateInvoices(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if m.invCursor > 0 {
			m.invCursor--
			m.ensureInvoiceCursorInWindow()
		}
		return m, nil
	case "down", "j":
		if m.invCursor < len(m.invoices)-1 {
			m.invCursor++
			m.ensureInvoiceCursorInWindow()
		}
		return m, nil
	case "r":
		cmd := m.reload.Reload(invoicesRequest(), m.invoicesFetcher())
		if cmd == nil {
			return m, nil
		}
		m.setStatus("Reloading invoices…")
		return m, m.startFetch(cmd)
	case "/":
		m.setStatus("Search is not implemented yet.")
		return m, nil
	}
	return m, nil
}

func (m model) updateSettings(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "+", "=":
		m.cfg.UI.PageSize++
		m.pager.SetPageSize(m.cfg.UI.PageSize)
		m.setStatus(fmt.Sprintf("Page size: %d (press s to save)", m.cfg.UI.PageSize))
		return m, nil
	case "-":
		if m.cfg.UI.PageSize > 1 {
			m.cfg.UI.PageSize--
			m.pager.SetPageSize(m.cfg.UI.PageSize)
			m.setStatus(fmt.Sprintf("Page size: %d (press s to save)", m.cfg.UI.PageSize))
		}
		return m, nil
	case "s":
		cfg := m.cfg
		m.setStatus("Saving settings…")
		return m, func() tea.Msg {
			return configSavedMsg{err: config.Save(cfg)}
		}
	}
	return m, nil
}

func (m model) updatePanel(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		if m.saving {
			return m, nil
		}
		m.panel.Close()
		return m, nil
	case "enter":
		if m.saving {
			return m, nil
		}
		if !m.editor.valid() {
			m.setError("Name is required.")
			return m, nil
		}
		m.saving = true
		return m, tea.Batch(saveProductCmd(m.api, m.editor), m.spin.Tick)
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.update(msg)
	return m, cmd
}
