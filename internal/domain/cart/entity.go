// internal/domain/cart/entity.go
package cart

import (
	"time"

	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

// Line represents one product line on the order being built. At most one
// line exists per (ProductID, Size) pair; adding the same pair again
// increments the quantity instead.
type Line struct {
	ID        string    `json:"id"`
	ProductID string    `json:"product_id"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"` // VAT-inclusive unit price
	Quantity  int       `json:"quantity"`
	Size      string    `json:"size,omitempty"`
	VatLabel  vat.Label `json:"vat_label"`
	Notes     string    `json:"notes,omitempty"`
}

// LineTotal returns the gross total for the line.
func (l Line) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// Totals represents calculated cart totals. Prices are VAT-inclusive, so
// the grand total equals the summed gross.
type Totals struct {
	Subtotal   float64 `json:"subtotal"`
	VatAmount  float64 `json:"vat_amount"`
	GrandTotal float64 `json:"grand_total"`
	ItemCount  int     `json:"item_count"` // sum of all quantities
}

// TableBinding holds the table the cart is attached to, if any.
type TableBinding struct {
	Name         string `json:"name"`
	CostCenterID string `json:"cost_center_id"`
}

// Snapshot is the serialized cart state persisted after every mutation so
// an interrupted terminal can restore its open order.
type Snapshot struct {
	Lines     []Line        `json:"lines"`
	Table     *TableBinding `json:"table,omitempty"`
	Notes     string        `json:"notes,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}
