package main

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/meterdesk/internal/billing"
	"github.com/jask/meterdesk/internal/query"
)

// ---------------------------------------------------------------------------
// Query requests
// ---------------------------------------------------------------------------

func overviewRequest() query.Request {
	return query.New(billing.ProcOverviewGet)
}

func familiesRequest() query.Request {
	return query.New(billing.ProcProductFamilyList)
}

func invoicesRequest() query.Request {
	return query.New(billing.ProcInvoiceList)
}

// productsRequest is gated: without a family external id there is nothing
// to list, so the request comes back disabled and never hits the API.
func productsRequest(familyExternalID string) query.Request {
	return query.Require(billing.ProcProductList,
		query.Param{Name: "family_external_id", Value: familyExternalID})
}

// ---------------------------------------------------------------------------
// Fetchers
// ---------------------------------------------------------------------------

func (m model) overviewFetcher() query.Fetcher {
	api := m.api
	return func(ctx context.Context) (any, error) {
		return api.Overview(ctx)
	}
}

func (m model) familiesFetcher() query.Fetcher {
	api := m.api
	return func(ctx context.Context) (any, error) {
		return api.ListProductFamilies(ctx)
	}
}

func (m model) invoicesFetcher() query.Fetcher {
	api := m.api
	return func(ctx context.Context) (any, error) {
		return api.ListInvoices(ctx)
	}
}

// productsFetcher captures the family id at launch time, so a later
// selection change cannot redirect an in-flight call.
func (m model) productsFetcher(familyExternalID string) query.Fetcher {
	api := m.api
	return func(ctx context.Context) (any, error) {
		return api.ListProducts(ctx, familyExternalID)
	}
}

// ---------------------------------------------------------------------------
// Mutation commands
// ---------------------------------------------------------------------------

const mutationTimeout = 10 * time.Second

func saveProductCmd(api billing.API, ed productEditor) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), mutationTimeout)
		defer cancel()
		if ed.editing {
			p, err := api.UpdateProduct(ctx, ed.targetID, billing.UpdateProductRequest{
				Name:        ed.name.Value(),
				Description: ed.desc.Value(),
			})
			return productSavedMsg{product: p, err: err}
		}
		p, err := api.CreateProduct(ctx, billing.CreateProductRequest{
			Name:             ed.name.Value(),
			Description:      ed.desc.Value(),
			FamilyExternalID: ed.familyExternalID,
		})
		return productSavedMsg{product: p, created: true, err: err}
	}
}
