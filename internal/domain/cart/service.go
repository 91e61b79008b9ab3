// internal/domain/cart/service.go
package cart

import (
	"sort"

	"github.com/google/uuid"

	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

// NewLineInput describes a product being added to the cart. The line id and
// quantity are owned by the aggregate.
type NewLineInput struct {
	ProductID string
	Name      string
	Price     float64
	Size      string
	VatLabel  vat.Label
	Notes     string
}

// AddItem adds a product to the cart, merging into an existing line when one
// with the same (ProductID, Size) pair is present. A non-positive quantity is
// a no-op. Totals are recomputed before the call returns.
func (s *Service) AddItem(input NewLineInput, quantity int) {
	if quantity <= 0 {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ProductID == input.ProductID && s.lines[i].Size == input.Size {
			s.lines[i].Quantity += quantity
			s.afterMutation()
			return
		}
	}

	s.lines = append(s.lines, Line{
		ID:        uuid.NewString(),
		ProductID: input.ProductID,
		Name:      input.Name,
		Price:     input.Price,
		Quantity:  quantity,
		Size:      input.Size,
		VatLabel:  input.VatLabel,
		Notes:     input.Notes,
	})
	s.afterMutation()
}

// RemoveItem deletes the line with the given id. Removing an unknown line is
// a no-op.
func (s *Service) RemoveItem(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			s.afterMutation()
			return
		}
	}
}

// UpdateQuantity sets the line's quantity exactly. A quantity of zero or
// less removes the line.
func (s *Service) UpdateQuantity(lineID string, quantity int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			if quantity <= 0 {
				s.lines = append(s.lines[:i], s.lines[i+1:]...)
			} else {
				s.lines[i].Quantity = quantity
			}
			s.afterMutation()
			return
		}
	}
}

// UpdateNotes replaces the free-text notes on a line.
func (s *Service) UpdateNotes(lineID, notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Notes = notes
			s.afterMutation()
			return
		}
	}
}

// SetTable binds the cart to a table. Line items are unaffected.
func (s *Service) SetTable(name, costCenterID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.table = &TableBinding{Name: name, CostCenterID: costCenterID}
	s.afterMutation()
}

// SetOrderNotes sets cart-level notes.
func (s *Service) SetOrderNotes(notes string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.notes = notes
	s.afterMutation()
}

// Clear resets the cart to its initial state: no lines, zero totals, no
// table binding, no notes. Calling Clear twice is harmless.
func (s *Service) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lines = nil
	s.table = nil
	s.notes = ""
	s.afterMutation()
}

// Lines returns a copy of the current line set.
func (s *Service) Lines() []Line {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out
}

// Totals returns the totals matching the current line set.
func (s *Service) Totals() Totals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.totals
}

// Table returns the current table binding, or nil.
func (s *Service) Table() *TableBinding {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.table == nil {
		return nil
	}
	binding := *s.table
	return &binding
}

// OrderNotes returns the cart-level notes.
func (s *Service) OrderNotes() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.notes
}

// View returns lines and totals as one consistent unit.
func (s *Service) View() ([]Line, Totals) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Line, len(s.lines))
	copy(out, s.lines)
	return out, s.totals
}

// FindLine returns the line with the given id, if present.
func (s *Service) FindLine(lineID string) (Line, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, line := range s.lines {
		if line.ID == lineID {
			return line, true
		}
	}
	return Line{}, false
}

// afterMutation recomputes totals and persists the snapshot. Must be called
// with the lock held so readers never see lines without matching totals.
func (s *Service) afterMutation() {
	s.totals = calculateTotals(s.lines)
	s.persist()
}

// calculateTotals derives totals from a line set. VAT is inclusive in the
// unit price, so the grand total equals the summed gross.
func calculateTotals(lines []Line) Totals {
	var totals Totals

	for _, line := range lines {
		lineTotal := line.LineTotal()
		totals.Subtotal += lineTotal
		totals.VatAmount += vat.AmountForLabel(lineTotal, line.VatLabel)
		totals.ItemCount += line.Quantity
	}

	totals.GrandTotal = totals.Subtotal
	return totals
}

// VatBreakdown returns per-label VAT amounts for the current lines, sorted
// by label for stable receipt output.
func (s *Service) VatBreakdown() []LabelAmount {
	s.mu.Lock()
	defer s.mu.Unlock()

	byLabel := map[vat.Label]float64{}
	for _, line := range s.lines {
		byLabel[line.VatLabel] += vat.AmountForLabel(line.LineTotal(), line.VatLabel)
	}

	out := make([]LabelAmount, 0, len(byLabel))
	for label, amount := range byLabel {
		out = append(out, LabelAmount{Label: label, Amount: amount})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Label < out[j].Label })
	return out
}

// LabelAmount pairs a VAT label with an extracted amount.
type LabelAmount struct {
	Label  vat.Label `json:"label"`
	Amount float64   `json:"amount"`
}
