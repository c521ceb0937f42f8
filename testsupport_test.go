package main

import (
	"context"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/meterdesk/internal/billing"
	"github.com/jask/meterdesk/internal/config"
)

// stubAPI is an in-memory billing.API. Fetch commands run synchronously in
// tests, so no locking is needed.
type stubAPI struct {
	overview billing.Overview
	families []billing.ProductFamily
	products map[string][]billing.Product
	invoices []billing.Invoice

	productsErr error

	overviewCalls int
	familyCalls   int
	productsCalls int
	invoiceCalls  int
	createCalls   int
	updateCalls   int
	lastFamily    string
}

func (s *stubAPI) Overview(ctx context.Context) (billing.Overview, error) {
	s.overviewCalls++
	return s.overview, nil
}

func (s *stubAPI) ListProductFamilies(ctx context.Context) ([]billing.ProductFamily, error) {
	s.familyCalls++
	return s.families, nil
}

func (s *stubAPI) ListProducts(ctx context.Context, familyExternalID string) ([]billing.Product, error) {
	s.productsCalls++
	s.lastFamily = familyExternalID
	if s.productsErr != nil {
		return nil, s.productsErr
	}
	return s.products[familyExternalID], nil
}

func (s *stubAPI) GetProduct(ctx context.Context, id string) (billing.Product, error) {
	for _, list := range s.products {
		for _, p := range list {
			if p.ID == id {
				return p, nil
			}
		}
	}
	return billing.Product{}, fmt.Errorf("product %q not found", id)
}

func (s *stubAPI) CreateProduct(ctx context.Context, req billing.CreateProductRequest) (billing.Product, error) {
	s.createCalls++
	p := billing.Product{
		ID:               fmt.Sprintf("p-new-%d", s.createCalls),
		Name:             req.Name,
		Description:      req.Description,
		FamilyExternalID: req.FamilyExternalID,
	}
	if s.products == nil {
		s.products = map[string][]billing.Product{}
	}
	s.products[req.FamilyExternalID] = append(s.products[req.FamilyExternalID], p)
	return p, nil
}

func (s *stubAPI) UpdateProduct(ctx context.Context, id string, req billing.UpdateProductRequest) (billing.Product, error) {
	s.updateCalls++
	for fam, list := range s.products {
		for i, p := range list {
			if p.ID == id {
				p.Name = req.Name
				p.Description = req.Description
				s.products[fam][i] = p
				return p, nil
			}
		}
	}
	return billing.Product{}, fmt.Errorf("product %q not found", id)
}

func (s *stubAPI) ListInvoices(ctx context.Context) ([]billing.Invoice, error) {
	s.invoiceCalls++
	return s.invoices, nil
}

func makeProducts(family string, n int) []billing.Product {
	out := make([]billing.Product, 0, n)
	for i := 0; i < n; i++ {
		out = append(out, billing.Product{
			ID:               fmt.Sprintf("%s-p%d", family, i),
			Name:             fmt.Sprintf("Product %d", i),
			FamilyExternalID: family,
		})
	}
	return out
}

func twoFamilyStub() *stubAPI {
	return &stubAPI{
		overview: billing.Overview{MRRCents: 450000, ActiveSubscribers: 17, ProductCount: 30},
		families: []billing.ProductFamily{
			{ID: "1", Name: "Core", ExternalID: "fam-core"},
			{ID: "2", Name: "Addons", ExternalID: "fam-addons"},
		},
		products: map[string][]billing.Product{
			"fam-core":   makeProducts("fam-core", 25),
			"fam-addons": makeProducts("fam-addons", 3),
		},
		invoices: []billing.Invoice{
			{ID: "i1", Number: "INV-001", CustomerName: "Acme", Status: "paid", AmountCents: 9900},
			{ID: "i2", Number: "INV-002", CustomerName: "Globex", Status: "pending", AmountCents: 4500},
		},
	}
}

func newTestModel(t *testing.T, api billing.API) model {
	t.Helper()
	cfg := config.Config{
		API: config.APIConfig{BaseURL: "http://test", APIKey: "k"},
		UI:  config.UIConfig{PageSize: 10, CurrencySymbol: "$"},
	}
	m := newModel(cfg, api)
	return runCmd(t, m, m.Init())
}

// runCmd invokes a command tree synchronously, feeding resulting messages
// back through Update. Spinner frames are dropped so the loop terminates.
func runCmd(t *testing.T, m model, cmd tea.Cmd) model {
	t.Helper()
	if cmd == nil {
		return m
	}
	msg := cmd()
	switch v := msg.(type) {
	case tea.BatchMsg:
		for _, c := range v {
			m = runCmd(t, m, c)
		}
		return m
	case spinner.TickMsg:
		return m
	case nil:
		return m
	}
	next, nextCmd := m.Update(msg)
	return runCmd(t, next.(model), nextCmd)
}

func press(t *testing.T, m model, k string) (model, tea.Cmd) {
	t.Helper()
	var msg tea.KeyMsg
	switch k {
	case "tab":
		msg = tea.KeyMsg{Type: tea.KeyTab}
	case "shift+tab":
		msg = tea.KeyMsg{Type: tea.KeyShiftTab}
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		msg = tea.KeyMsg{Type: tea.KeyEsc}
	case "ctrl+k":
		msg = tea.KeyMsg{Type: tea.KeyCtrlK}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
	}
	next, cmd := m.Update(msg)
	return next.(model), cmd
}

// pressRun presses a key and drains the resulting command tree.
func pressRun(t *testing.T, m model, k string) model {
	t.Helper()
	next, cmd := press(t, m, k)
	return runCmd(t, next, cmd)
}

func gotoProducts(t *testing.T, m model) model {
	t.Helper()
	for m.activeTab != tabProducts {
		m = pressRun(t, m, "tab")
	}
	return m
}
