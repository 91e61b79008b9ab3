// internal/infrastructure/backend/orders.go
package backend

import (
	"context"
	"net/http"
	"net/url"
)

// CreateOrder submits a table order. The order stays open on the backend
// until it is settled.
func (c *Client) CreateOrder(ctx context.Context, req *CreateOrderRequest) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/orders", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// CreateSale submits a direct sale, paid and settled in one step.
func (c *Client) CreateSale(ctx context.Context, req *CreateSaleRequest) (*OrderResponse, error) {
	var out OrderResponse
	if err := c.do(ctx, http.MethodPost, "/api/sales", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListOrders fetches the orders currently open on the backend, optionally
// scoped to one cost center.
func (c *Client) ListOrders(ctx context.Context, costCenterID string) ([]OrderResponse, error) {
	path := "/api/orders"
	if costCenterID != "" {
		path += "?costCenterId=" + url.QueryEscape(costCenterID)
	}

	var out []OrderResponse
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListTerminals fetches the registered terminals.
func (c *Client) ListTerminals(ctx context.Context) ([]Terminal, error) {
	var out []Terminal
	if err := c.do(ctx, http.MethodGet, "/api/terminals", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// ListCostCenters fetches the known cost centers.
func (c *Client) ListCostCenters(ctx context.Context) ([]CostCenter, error) {
	var out []CostCenter
	if err := c.do(ctx, http.MethodGet, "/api/cost-centers", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// TablesWithOrders fetches the live occupancy list used by the viewer.
func (c *Client) TablesWithOrders(ctx context.Context) ([]TableWithOrders, error) {
	var out []TableWithOrders
	if err := c.do(ctx, http.MethodGet, "/api/cost-centers/tables-with-orders", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
