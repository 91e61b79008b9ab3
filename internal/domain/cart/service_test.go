package cart

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

func newTestService() *Service {
	return NewService(nil, nil)
}

func cola() NewLineInput {
	return NewLineInput{ProductID: "P001", Name: "Cola", Price: 2.50, VatLabel: vat.LabelA}
}

func TestAddItemMergesSameProductAndSize(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 1)
	svc.AddItem(cola(), 2)
	svc.AddItem(cola(), 3)

	lines := svc.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 6, lines[0].Quantity)
}

func TestAddItemDifferentSizeCreatesNewLine(t *testing.T) {
	svc := newTestService()

	small := cola()
	small.Size = "25cl"
	large := cola()
	large.Size = "50cl"

	svc.AddItem(small, 1)
	svc.AddItem(large, 1)

	assert.Len(t, svc.Lines(), 2)
}

func TestAddItemNonPositiveQuantityIsNoOp(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 0)
	svc.AddItem(cola(), -3)

	assert.Empty(t, svc.Lines())
	assert.Equal(t, Totals{}, svc.Totals())
}

func TestTotalsRecomputedOnEveryMutation(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 2)
	totals := svc.Totals()
	assert.InDelta(t, 5.00, totals.Subtotal, 1e-9)
	assert.Equal(t, 2, totals.ItemCount)

	lines := svc.Lines()
	svc.UpdateQuantity(lines[0].ID, 5)
	totals = svc.Totals()
	assert.InDelta(t, 12.50, totals.Subtotal, 1e-9)
	assert.Equal(t, 5, totals.ItemCount)

	svc.RemoveItem(lines[0].ID)
	assert.Equal(t, Totals{}, svc.Totals())
}

func TestUpdateQuantityZeroRemovesLine(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 2)
	lines := svc.Lines()
	require.Len(t, lines, 1)

	svc.UpdateQuantity(lines[0].ID, 0)
	assert.Empty(t, svc.Lines())

	svc.AddItem(cola(), 2)
	lines = svc.Lines()
	svc.UpdateQuantity(lines[0].ID, -4)
	assert.Empty(t, svc.Lines())
}

func TestUpdateQuantitySetsExactValue(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 3)
	lines := svc.Lines()

	svc.UpdateQuantity(lines[0].ID, 2)
	lines = svc.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestRemoveUnknownLineIsNoOp(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 1)
	svc.RemoveItem("no-such-line")

	assert.Len(t, svc.Lines(), 1)
}

func TestUpdateNotes(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 1)
	lines := svc.Lines()

	svc.UpdateNotes(lines[0].ID, "no ice")

	line, ok := svc.FindLine(lines[0].ID)
	require.True(t, ok)
	assert.Equal(t, "no ice", line.Notes)
}

func TestSetTableDoesNotTouchLines(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 2)
	svc.SetTable("Table 5", "T05")

	table := svc.Table()
	require.NotNil(t, table)
	assert.Equal(t, "Table 5", table.Name)
	assert.Equal(t, "T05", table.CostCenterID)
	assert.Len(t, svc.Lines(), 1)
}

func TestClearResetsEverything(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 2)
	svc.SetTable("Table 5", "T05")
	svc.SetOrderNotes("birthday")

	svc.Clear()

	assert.Empty(t, svc.Lines())
	assert.Equal(t, Totals{}, svc.Totals())
	assert.Nil(t, svc.Table())
	assert.Empty(t, svc.OrderNotes())

	// Idempotent.
	svc.Clear()
	assert.Empty(t, svc.Lines())
	assert.Equal(t, Totals{}, svc.Totals())
}

func TestSplitVatBasket(t *testing.T) {
	svc := newTestService()

	svc.AddItem(NewLineInput{ProductID: "D1", Name: "Beer", Price: 5.00, VatLabel: vat.LabelA}, 2)
	svc.AddItem(NewLineInput{ProductID: "F1", Name: "Croque", Price: 10.00, VatLabel: vat.LabelB}, 1)

	totals := svc.Totals()
	assert.InDelta(t, 20.00, totals.Subtotal, 1e-9)
	assert.InDelta(t, 20.00, totals.GrandTotal, 1e-9)

	wantVat := 2*(5.00-5.00/1.21) + (10.00 - 10.00/1.12)
	assert.InDelta(t, wantVat, totals.VatAmount, 1e-9)
	assert.InDelta(t, 2.81, totals.VatAmount, 0.01)
	assert.Equal(t, 3, totals.ItemCount)
}

func TestVatBreakdownSortedByLabel(t *testing.T) {
	svc := newTestService()

	svc.AddItem(NewLineInput{ProductID: "F1", Name: "Soup", Price: 11.20, VatLabel: vat.LabelB}, 1)
	svc.AddItem(NewLineInput{ProductID: "D1", Name: "Wine", Price: 12.10, VatLabel: vat.LabelA}, 1)

	breakdown := svc.VatBreakdown()
	require.Len(t, breakdown, 2)
	assert.Equal(t, vat.LabelA, breakdown[0].Label)
	assert.Equal(t, vat.LabelB, breakdown[1].Label)
	assert.InDelta(t, 2.10, breakdown[0].Amount, 1e-9)
	assert.InDelta(t, 1.20, breakdown[1].Amount, 1e-9)
}

func TestViewIsConsistentUnit(t *testing.T) {
	svc := newTestService()

	svc.AddItem(cola(), 4)
	lines, totals := svc.View()
	require.Len(t, lines, 1)
	assert.Equal(t, totals.ItemCount, lines[0].Quantity)
	assert.InDelta(t, lines[0].LineTotal(), totals.Subtotal, 1e-9)
}
