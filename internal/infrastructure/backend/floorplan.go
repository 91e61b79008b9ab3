// internal/infrastructure/backend/floorplan.go
package backend

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
)

// GetFloorPlan fetches the floor plan for an area. A missing plan is a
// normal condition and returns (nil, nil); the caller starts from an empty
// scene.
func (c *Client) GetFloorPlan(ctx context.Context, areaID string) (*FloorPlan, error) {
	var plan FloorPlan
	err := c.do(ctx, http.MethodGet, "/api/floor-plans/"+url.PathEscape(areaID), nil, &plan)
	if errors.Is(err, ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// ListFloorPlans fetches all saved floor plans.
func (c *Client) ListFloorPlans(ctx context.Context) ([]FloorPlan, error) {
	var plans []FloorPlan
	if err := c.do(ctx, http.MethodGet, "/api/floor-plans", nil, &plans); err != nil {
		return nil, err
	}
	return plans, nil
}

// SyncFloorPlan uploads a plan document together with its derived table
// list. The backend reconciles its table registry from the list: new
// numbers create cost centers, missing ones are retired. The response
// carries the reconciliation counts.
func (c *Client) SyncFloorPlan(ctx context.Context, plan *FloorPlan) (*SyncFloorPlanResponse, error) {
	var out SyncFloorPlanResponse
	if err := c.do(ctx, http.MethodPut, "/api/floor-plans/"+url.PathEscape(plan.Name), plan, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteFloorPlan removes the plan for an area.
func (c *Client) DeleteFloorPlan(ctx context.Context, areaID string) error {
	return c.do(ctx, http.MethodDelete, "/api/floor-plans/"+url.PathEscape(areaID), nil, nil)
}

// CheckTableNumber asks the backend whether a number is free across all
// areas. The scene enforces per-area uniqueness locally; this guards the
// cross-area case at sync time.
func (c *Client) CheckTableNumber(ctx context.Context, number string) (*CheckTableNumberResponse, error) {
	var out CheckTableNumberResponse
	path := fmt.Sprintf("/api/floor-plans/check-table-number?number=%s", url.QueryEscape(number))
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GenerateTableNumber asks the backend for the next free number across all
// areas.
func (c *Client) GenerateTableNumber(ctx context.Context) (string, error) {
	var out GenerateTableNumberResponse
	if err := c.do(ctx, http.MethodPost, "/api/floor-plans/generate-table-number", nil, &out); err != nil {
		return "", err
	}
	return out.TableNumber, nil
}
