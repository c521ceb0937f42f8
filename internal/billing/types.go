package billing

import "context"

// Procedure identifiers, used as cache keys by the query layer. They
// mirror the API's RPC naming so a cache dump reads like the wire.
const (
	ProcOverviewGet       = "overview.get"
	ProcProductFamilyList = "productFamilies.list"
	ProcProductList       = "products.list"
	ProcProductGet        = "products.get"
	ProcProductCreate     = "products.create"
	ProcProductUpdate     = "products.update"
	ProcInvoiceList       = "invoices.list"
)

// API defines the remote procedures the app calls.
type API interface {
	Overview(ctx context.Context) (Overview, error)
	ListProductFamilies(ctx context.Context) ([]ProductFamily, error)
	ListProducts(ctx context.Context, familyExternalID string) ([]Product, error)
	GetProduct(ctx context.Context, id string) (Product, error)
	CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error)
	UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (Product, error)
	ListInvoices(ctx context.Context) ([]Invoice, error)
}

// Overview is the dashboard rollup: headline revenue figures plus entity counts.
type Overview struct {
	MRRCents          int64  `json:"mrr_cents"`
	ActiveSubscribers int    `json:"active_subscribers"`
	PendingInvoices   int    `json:"pending_invoices"`
	ProductCount      int    `json:"product_count"`
	Currency          string `json:"currency"`
}

type ProductFamily struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	ExternalID string `json:"external_id"`
}

type Product struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	FamilyExternalID string `json:"family_external_id"`
	CreatedAt        string `json:"created_at"`
}

type CreateProductRequest struct {
	Name             string `json:"name"`
	Description      string `json:"description"`
	FamilyExternalID string `json:"family_external_id"`
}

type UpdateProductRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type Invoice struct {
	ID           string `json:"id"`
	Number       string `json:"number"`
	CustomerName string `json:"customer_name"`
	Status       string `json:"status"`
	AmountCents  int64  `json:"amount_cents"`
	Currency     string `json:"currency"`
	IssuedAt     string `json:"issued_at"`
}
