// Package billing is the HTTP client for the metering API. It exposes
// the handful of procedures the terminal UI drives; everything else the
// API offers is out of scope here.
package billing

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
)

const requestTimeout = 10 * time.Second

// APIError is a non-2xx response decoded from the API's error envelope.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api: %s (%s)", e.Message, e.Code)
	}
	return fmt.Sprintf("api: unexpected status %d", e.Status)
}

// Client talks to the billing API over JSON/HTTP with bearer auth.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		apiKey:  apiKey,
		http:    &http.Client{Timeout: requestTimeout},
	}
}

func (c *Client) Overview(ctx context.Context) (Overview, error) {
	var out Overview
	err := c.do(ctx, http.MethodGet, "/v1/overview", nil, nil, &out)
	return out, err
}

func (c *Client) ListProductFamilies(ctx context.Context) ([]ProductFamily, error) {
	var out []ProductFamily
	err := c.do(ctx, http.MethodGet, "/v1/product-families", nil, nil, &out)
	return out, err
}

func (c *Client) ListProducts(ctx context.Context, familyExternalID string) ([]Product, error) {
	q := url.Values{"family_external_id": {familyExternalID}}
	var out []Product
	err := c.do(ctx, http.MethodGet, "/v1/products", q, nil, &out)
	return out, err
}

func (c *Client) GetProduct(ctx context.Context, id string) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodGet, "/v1/products/"+url.PathEscape(id), nil, nil, &out)
	return out, err
}

func (c *Client) CreateProduct(ctx context.Context, req CreateProductRequest) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPost, "/v1/products", nil, req, &out)
	return out, err
}

func (c *Client) UpdateProduct(ctx context.Context, id string, req UpdateProductRequest) (Product, error) {
	var out Product
	err := c.do(ctx, http.MethodPatch, "/v1/products/"+url.PathEscape(id), nil, req, &out)
	return out, err
}

func (c *Client) ListInvoices(ctx context.Context) ([]Invoice, error) {
	var out []Invoice
	err := c.do(ctx, http.MethodGet, "/v1/invoices", nil, nil, &out)
	return out, err
}

// do runs one round trip. Mutating calls carry a fresh Idempotency-Key
// so a retried create cannot double-insert server-side.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body, out any) error {
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	var rdr io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode %s %s: %w", method, path, err)
		}
		rdr = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, u, rdr)
	if err != nil {
		return fmt.Errorf("build %s %s: %w", method, path, err)
	}
	req.Header.Set("Accept", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("Idempotency-Key", uuid.NewString())
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("%s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		apiErr := &APIError{Status: resp.StatusCode}
		// Error body is best-effort; the status alone is enough to surface.
		_ = json.NewDecoder(resp.Body).Decode(apiErr)
		return apiErr
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}
