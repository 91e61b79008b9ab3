package workflow

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/infrastructure/backend"
	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

type fakeAPI struct {
	mu          sync.Mutex
	orders      []*backend.CreateOrderRequest
	sales       []*backend.CreateSaleRequest
	open        []backend.OrderResponse
	terminals   []backend.Terminal
	orderErr    error
	saleErr     error
	blockOrder  chan struct{} // when set, CreateOrder waits until closed
	orderActive chan struct{} // signaled when CreateOrder is entered
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		terminals: []backend.Terminal{{ID: "term-1", Name: "Bar", IsActive: true}},
	}
}

func (f *fakeAPI) CreateOrder(ctx context.Context, req *backend.CreateOrderRequest) (*backend.OrderResponse, error) {
	if f.orderActive != nil {
		close(f.orderActive)
	}
	if f.blockOrder != nil {
		<-f.blockOrder
	}
	if f.orderErr != nil {
		return nil, f.orderErr
	}
	f.mu.Lock()
	f.orders = append(f.orders, req)
	f.mu.Unlock()
	return &backend.OrderResponse{ID: "o1", OrderNumber: "ORD-001", Status: "open"}, nil
}

func (f *fakeAPI) CreateSale(ctx context.Context, req *backend.CreateSaleRequest) (*backend.OrderResponse, error) {
	if f.saleErr != nil {
		return nil, f.saleErr
	}
	f.mu.Lock()
	f.sales = append(f.sales, req)
	f.mu.Unlock()
	return &backend.OrderResponse{ID: "s1", OrderNumber: "SALE-001", Status: "settled"}, nil
}

func (f *fakeAPI) ListOrders(ctx context.Context, costCenterID string) ([]backend.OrderResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open, nil
}

func (f *fakeAPI) ListTerminals(ctx context.Context) ([]backend.Terminal, error) {
	return f.terminals, nil
}

func filledCart() *cart.Service {
	svc := cart.NewService(nil, nil)
	svc.AddItem(cart.NewLineInput{ProductID: "P1", Name: "Cola", Price: 2.50, VatLabel: vat.LabelA}, 2)
	svc.SetTable("Table 5", "T05")
	return svc
}

func TestSubmitOrderClearsCartOnSuccess(t *testing.T) {
	api := newFakeAPI()
	cartSvc := filledCart()
	svc := NewService(api, cartSvc, nil)

	resp, err := svc.SubmitOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "ORD-001", resp.OrderNumber)

	require.Len(t, api.orders, 1)
	req := api.orders[0]
	assert.Equal(t, "term-1", req.TerminalID)
	assert.Equal(t, "T05", req.CostCenterID)
	assert.Equal(t, "Table 5", req.TableName)
	require.Len(t, req.Items, 1)
	assert.Equal(t, 2, req.Items[0].Quantity)
	assert.InDelta(t, 5.00, req.TotalAmount, 1e-9)

	assert.Empty(t, cartSvc.Lines())
	assert.Nil(t, cartSvc.Table())
}

func TestSubmitOrderKeepsCartOnFailure(t *testing.T) {
	api := newFakeAPI()
	api.orderErr = assert.AnError
	cartSvc := filledCart()
	svc := NewService(api, cartSvc, nil)

	_, err := svc.SubmitOrder(context.Background())
	require.Error(t, err)

	assert.Len(t, cartSvc.Lines(), 1)
	require.NotNil(t, cartSvc.Table())
	assert.Equal(t, "T05", cartSvc.Table().CostCenterID)
	// The slot is released, a retry is possible.
	assert.False(t, svc.Pending())
}

func TestSubmitOrderEmptyCart(t *testing.T) {
	svc := NewService(newFakeAPI(), cart.NewService(nil, nil), nil)

	_, err := svc.SubmitOrder(context.Background())
	assert.ErrorIs(t, err, ErrEmptyCart)
}

func TestSubmitOrderRejectsConcurrentSubmission(t *testing.T) {
	api := newFakeAPI()
	api.blockOrder = make(chan struct{})
	api.orderActive = make(chan struct{})
	cartSvc := filledCart()
	svc := NewService(api, cartSvc, nil)

	done := make(chan error, 1)
	go func() {
		_, err := svc.SubmitOrder(context.Background())
		done <- err
	}()
	<-api.orderActive

	_, err := svc.SubmitOrder(context.Background())
	assert.ErrorIs(t, err, ErrSubmissionPending)

	close(api.blockOrder)
	require.NoError(t, <-done)
	assert.False(t, svc.Pending())
}

func TestSubmitSale(t *testing.T) {
	api := newFakeAPI()
	cartSvc := filledCart()
	svc := NewService(api, cartSvc, nil)

	resp, err := svc.SubmitSale(context.Background(), "card")
	require.NoError(t, err)
	assert.Equal(t, "SALE-001", resp.OrderNumber)

	require.Len(t, api.sales, 1)
	require.Len(t, api.sales[0].Payments, 1)
	assert.Equal(t, "card", api.sales[0].Payments[0].Type)
	assert.InDelta(t, 5.00, api.sales[0].Payments[0].Amount, 1e-9)
	assert.Empty(t, cartSvc.Lines())
}

func TestResolveTerminalPrefersActive(t *testing.T) {
	api := newFakeAPI()
	api.terminals = []backend.Terminal{
		{ID: "term-1", Name: "Office", IsActive: false},
		{ID: "term-2", Name: "Bar", IsActive: true},
	}
	svc := NewService(api, filledCart(), nil)

	require.NoError(t, func() error {
		_, err := svc.SubmitOrder(context.Background())
		return err
	}())
	assert.Equal(t, "term-2", api.orders[0].TerminalID)
}

func TestResolveTerminalFallsBackToFirst(t *testing.T) {
	api := newFakeAPI()
	api.terminals = []backend.Terminal{
		{ID: "term-1", Name: "Office", IsActive: false},
		{ID: "term-2", Name: "Bar", IsActive: false},
	}
	svc := NewService(api, filledCart(), nil)

	_, err := svc.SubmitOrder(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "term-1", api.orders[0].TerminalID)
}

func TestResolveTerminalNoneRegistered(t *testing.T) {
	api := newFakeAPI()
	api.terminals = nil
	cartSvc := filledCart()
	svc := NewService(api, cartSvc, nil)

	_, err := svc.SubmitOrder(context.Background())
	assert.ErrorIs(t, err, ErrNoTerminal)
	// Nothing submitted, cart intact.
	assert.Len(t, cartSvc.Lines(), 1)
}

func TestSettleTableCollapsesOpenOrdersIntoSale(t *testing.T) {
	api := newFakeAPI()
	api.open = []backend.OrderResponse{
		{ID: "o1", OrderNumber: "ORD-001", CostCenterID: "T05", TotalAmount: backend.Amount(12.50)},
		{ID: "o2", OrderNumber: "ORD-002", CostCenterID: "T05", TotalAmount: backend.Amount(7.00)},
	}
	svc := NewService(api, cart.NewService(nil, nil), nil)

	require.NoError(t, svc.SettleTable(context.Background(), "T05", "cash"))

	require.Len(t, api.sales, 1)
	sale := api.sales[0]
	assert.Equal(t, []string{"o1", "o2"}, sale.OrderIDs)
	assert.Equal(t, "T05", sale.CostCenterID)
	require.Len(t, sale.Payments, 1)
	assert.Equal(t, "cash", sale.Payments[0].Type)
	assert.InDelta(t, 19.50, sale.Payments[0].Amount, 1e-9)
}

func TestSettleTableWithoutOpenOrders(t *testing.T) {
	api := newFakeAPI()
	svc := NewService(api, cart.NewService(nil, nil), nil)

	err := svc.SettleTable(context.Background(), "T05", "cash")
	assert.ErrorIs(t, err, ErrNoOpenOrders)
	assert.Empty(t, api.sales)
}
