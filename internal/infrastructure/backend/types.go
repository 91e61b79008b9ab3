// internal/infrastructure/backend/types.go
package backend

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/barbuddie/pos-terminal/internal/domain/floorplan"
)

// Amount is a monetary value that tolerates both JSON numbers and quoted
// strings. Several backend endpoints serialize decimals as strings.
type Amount float64

func (a *Amount) UnmarshalJSON(data []byte) error {
	s := strings.TrimSpace(string(data))
	if s == "null" || s == `""` {
		*a = 0
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		unquoted, err := strconv.Unquote(s)
		if err != nil {
			return fmt.Errorf("invalid amount %s: %w", s, err)
		}
		s = unquoted
	}
	value, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", s, err)
	}
	*a = Amount(value)
	return nil
}

func (a Amount) MarshalJSON() ([]byte, error) {
	return json.Marshal(float64(a))
}

// Terminal is a registered POS terminal.
type Terminal struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	IsActive bool   `json:"isActive"`
}

// CostCenter is a bookable revenue location, usually a table.
type CostCenter struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TableWithOrders is the live occupancy record for one cost center.
type TableWithOrders struct {
	CostCenterID  string `json:"costCenterId"`
	Name          string `json:"name"`
	HasOpenOrders bool   `json:"hasOpenOrders"`
	TotalAmount   Amount `json:"totalAmount"`
	OrderCount    int    `json:"orderCount"`
}

// Status converts the wire record to the floor-plan domain type.
func (t TableWithOrders) Status() floorplan.TableStatus {
	return floorplan.TableStatus{
		CostCenterID:  t.CostCenterID,
		Name:          t.Name,
		HasOpenOrders: t.HasOpenOrders,
		TotalAmount:   float64(t.TotalAmount),
		OrderCount:    t.OrderCount,
	}
}

// FloorPlan is the persisted floor plan for one area.
type FloorPlan struct {
	ID           string                   `json:"id,omitempty"`
	Name         string                   `json:"name"`
	CanvasWidth  float64                  `json:"canvasWidth"`
	CanvasHeight float64                  `json:"canvasHeight"`
	CanvasJSON   json.RawMessage          `json:"canvasJson"`
	Tables       []floorplan.TableSummary `json:"tables"`
	UpdatedAt    time.Time                `json:"updatedAt,omitempty"`
}

// SyncFloorPlanResponse reports the outcome of a plan sync: the stored plan
// plus the table registry changes the backend applied.
type SyncFloorPlanResponse struct {
	Plan              FloorPlan `json:"plan"`
	TablesCreated     int       `json:"tablesCreated"`
	TablesUpdated     int       `json:"tablesUpdated"`
	TablesDeactivated int       `json:"tablesDeactivated"`
}

// CheckTableNumberResponse reports server-side number availability.
type CheckTableNumberResponse struct {
	Available bool   `json:"available"`
	UsedBy    string `json:"usedBy,omitempty"`
}

// GenerateTableNumberResponse carries a server-generated table number.
type GenerateTableNumberResponse struct {
	TableNumber string `json:"tableNumber"`
}

// OrderItem is one line of an order or sale submission.
type OrderItem struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	Quantity  int     `json:"quantity"`
	UnitPrice float64 `json:"unitPrice"`
	VatLabel  string  `json:"vatLabel"`
	Size      string  `json:"size,omitempty"`
	Notes     string  `json:"notes,omitempty"`
}

// CreateOrderRequest submits a table order to the kitchen.
type CreateOrderRequest struct {
	TerminalID   string      `json:"terminalId"`
	CostCenterID string      `json:"costCenterId,omitempty"`
	TableName    string      `json:"tableName,omitempty"`
	Items        []OrderItem `json:"items"`
	Notes        string      `json:"notes,omitempty"`
	TotalAmount  float64     `json:"totalAmount"`
}

// Payment is one tender line on a sale: how much was taken through which
// payment method, and optionally into which drawer.
type Payment struct {
	ID         string  `json:"id,omitempty"`
	Name       string  `json:"name"`
	Type       string  `json:"type"`
	Amount     float64 `json:"amount"`
	DrawerID   string  `json:"drawerId,omitempty"`
	DrawerName string  `json:"drawerName,omitempty"`
}

// CreateSaleRequest submits a settled sale. OrderIDs references open orders
// being collapsed into the sale when a table is settled; a direct sale
// leaves it empty.
type CreateSaleRequest struct {
	TerminalID   string      `json:"terminalId"`
	CostCenterID string      `json:"costCenterId,omitempty"`
	OrderIDs     []string    `json:"orderIds,omitempty"`
	Items        []OrderItem `json:"items"`
	Notes        string      `json:"notes,omitempty"`
	TotalAmount  float64     `json:"totalAmount"`
	Payments     []Payment   `json:"payments"`
}

// OrderResponse is the backend's acknowledgement of a submission.
type OrderResponse struct {
	ID           string    `json:"id"`
	OrderNumber  string    `json:"orderNumber"`
	Status       string    `json:"status"`
	CostCenterID string    `json:"costCenterId,omitempty"`
	TotalAmount  Amount    `json:"totalAmount"`
	CreatedAt    time.Time `json:"createdAt"`
}
