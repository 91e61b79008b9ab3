// internal/domain/workflow/service.go
package workflow

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/infrastructure/backend"
)

var (
	ErrEmptyCart         = errors.New("cart is empty")
	ErrSubmissionPending = errors.New("a submission is already in progress")
	ErrNoTerminal        = errors.New("no terminal registered on the backend")
	ErrNoOpenOrders      = errors.New("no open orders to settle")
)

// API is the slice of the backend client the workflow needs.
type API interface {
	CreateOrder(ctx context.Context, req *backend.CreateOrderRequest) (*backend.OrderResponse, error)
	CreateSale(ctx context.Context, req *backend.CreateSaleRequest) (*backend.OrderResponse, error)
	ListOrders(ctx context.Context, costCenterID string) ([]backend.OrderResponse, error)
	ListTerminals(ctx context.Context) ([]backend.Terminal, error)
}

// Service drives the order and sale workflows: it turns the cart into a
// backend submission, clears the cart on success, and leaves it untouched
// on failure so nothing is lost to a flaky network. A single in-flight
// submission is enforced; double taps on the submit button surface
// ErrSubmissionPending instead of duplicate orders.
type Service struct {
	api    API
	cart   *cart.Service
	logger *logrus.Logger

	mu         sync.Mutex
	pending    bool
	terminalID string
}

// NewService creates the workflow service.
func NewService(api API, cartSvc *cart.Service, logger *logrus.Logger) *Service {
	if logger == nil {
		logger = logrus.New()
	}
	return &Service{
		api:    api,
		cart:   cartSvc,
		logger: logger,
	}
}

// begin claims the submission slot.
func (s *Service) begin() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.pending {
		return ErrSubmissionPending
	}
	s.pending = true
	return nil
}

func (s *Service) end() {
	s.mu.Lock()
	s.pending = false
	s.mu.Unlock()
}

// Pending reports whether a submission is in flight.
func (s *Service) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.pending
}

// resolveTerminal picks the terminal to submit under: the first active one,
// falling back to the first registered. Cached after the first lookup.
func (s *Service) resolveTerminal(ctx context.Context) (string, error) {
	s.mu.Lock()
	cached := s.terminalID
	s.mu.Unlock()
	if cached != "" {
		return cached, nil
	}

	terminals, err := s.api.ListTerminals(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to list terminals: %w", err)
	}
	if len(terminals) == 0 {
		return "", ErrNoTerminal
	}

	chosen := terminals[0]
	for _, t := range terminals {
		if t.IsActive {
			chosen = t
			break
		}
	}

	s.mu.Lock()
	s.terminalID = chosen.ID
	s.mu.Unlock()
	return chosen.ID, nil
}

// buildItems converts the cart lines into submission items.
func buildItems(lines []cart.Line) []backend.OrderItem {
	items := make([]backend.OrderItem, 0, len(lines))
	for _, line := range lines {
		items = append(items, backend.OrderItem{
			ProductID: line.ProductID,
			Name:      line.Name,
			Quantity:  line.Quantity,
			UnitPrice: line.Price,
			VatLabel:  string(line.VatLabel),
			Size:      line.Size,
			Notes:     line.Notes,
		})
	}
	return items
}

// SubmitOrder sends the cart as an open table order.
func (s *Service) SubmitOrder(ctx context.Context) (*backend.OrderResponse, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	lines, totals := s.cart.View()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	terminalID, err := s.resolveTerminal(ctx)
	if err != nil {
		return nil, err
	}

	req := &backend.CreateOrderRequest{
		TerminalID:  terminalID,
		Items:       buildItems(lines),
		Notes:       s.cart.OrderNotes(),
		TotalAmount: totals.GrandTotal,
	}
	if table := s.cart.Table(); table != nil {
		req.CostCenterID = table.CostCenterID
		req.TableName = table.Name
	}

	resp, err := s.api.CreateOrder(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Order submission failed, cart preserved")
		return nil, fmt.Errorf("failed to submit order: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number": resp.OrderNumber,
		"total":        totals.GrandTotal,
	}).Info("Order submitted")
	s.cart.Clear()
	return resp, nil
}

// SubmitSale sends the cart as a direct sale, settled immediately with the
// given payment method.
func (s *Service) SubmitSale(ctx context.Context, paymentMethod string) (*backend.OrderResponse, error) {
	if err := s.begin(); err != nil {
		return nil, err
	}
	defer s.end()

	lines, totals := s.cart.View()
	if len(lines) == 0 {
		return nil, ErrEmptyCart
	}

	terminalID, err := s.resolveTerminal(ctx)
	if err != nil {
		return nil, err
	}

	req := &backend.CreateSaleRequest{
		TerminalID:  terminalID,
		Items:       buildItems(lines),
		Notes:       s.cart.OrderNotes(),
		TotalAmount: totals.GrandTotal,
		Payments: []backend.Payment{{
			Name:   paymentMethod,
			Type:   paymentMethod,
			Amount: totals.GrandTotal,
		}},
	}
	if table := s.cart.Table(); table != nil {
		req.CostCenterID = table.CostCenterID
	}

	resp, err := s.api.CreateSale(ctx, req)
	if err != nil {
		s.logger.WithError(err).Error("Sale submission failed, cart preserved")
		return nil, fmt.Errorf("failed to submit sale: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"order_number":   resp.OrderNumber,
		"total":          totals.GrandTotal,
		"payment_method": paymentMethod,
	}).Info("Sale completed")
	s.cart.Clear()
	return resp, nil
}

// OpenOrders lists the orders currently open on the backend, optionally
// scoped to one cost center.
func (s *Service) OpenOrders(ctx context.Context, costCenterID string) ([]backend.OrderResponse, error) {
	orders, err := s.api.ListOrders(ctx, costCenterID)
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// SettleTable collapses the open orders on a table into one settled sale.
// The sale references the order ids so the backend closes them together,
// and carries a single payment over the combined total. The cart is not
// involved; settling happens from the floor view.
func (s *Service) SettleTable(ctx context.Context, costCenterID, paymentMethod string) error {
	orders, err := s.api.ListOrders(ctx, costCenterID)
	if err != nil {
		return fmt.Errorf("failed to list open orders: %w", err)
	}
	if len(orders) == 0 {
		return ErrNoOpenOrders
	}

	terminalID, err := s.resolveTerminal(ctx)
	if err != nil {
		return err
	}

	orderIDs := make([]string, 0, len(orders))
	var total float64
	for _, order := range orders {
		orderIDs = append(orderIDs, order.ID)
		total += float64(order.TotalAmount)
	}

	req := &backend.CreateSaleRequest{
		TerminalID:   terminalID,
		CostCenterID: costCenterID,
		OrderIDs:     orderIDs,
		TotalAmount:  total,
		Payments: []backend.Payment{{
			Name:   paymentMethod,
			Type:   paymentMethod,
			Amount: total,
		}},
	}
	if _, err := s.api.CreateSale(ctx, req); err != nil {
		return fmt.Errorf("failed to settle table: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"cost_center": costCenterID,
		"orders":      len(orderIDs),
		"total":       total,
	}).Info("Table settled")
	return nil
}
