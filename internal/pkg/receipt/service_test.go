package receipt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateHTMLRendersLinesAndTotals(t *testing.T) {
	svc := NewService(VenueInfo{Name: "Barbuddie", Address: "Main St 1"}, "")

	html, err := svc.generateHTML(documentData{
		Title:      "PREBILL",
		Reference:  "PB-0042",
		TableName:  "Table 5",
		Venue:      svc.venue,
		GrandTotal: 15.00,
		Lines: []lineData{
			{Name: "Cola", Size: "25cl", Quantity: 2, Total: 5.00},
			{Name: "Croque", Quantity: 1, Total: 10.00, Notes: "no ham"},
		},
		VatRows: []vatRowData{{Label: "A", Rate: "21%", Amount: 0.87}},
	})
	require.NoError(t, err)

	assert.Contains(t, html, "Barbuddie")
	assert.Contains(t, html, "PREBILL")
	assert.Contains(t, html, "PB-0042")
	assert.Contains(t, html, "Table 5")
	assert.Contains(t, html, "Cola (25cl)")
	assert.Contains(t, html, "no ham")
	assert.Contains(t, html, "15.00")
	assert.Contains(t, html, "VAT A (21%)")
	// No QR block without a verification URL.
	assert.NotContains(t, html, "data:image/png")
}

func TestGenerateHTMLEscapesUserText(t *testing.T) {
	svc := NewService(VenueInfo{Name: "Barbuddie"}, "")

	html, err := svc.generateHTML(documentData{
		Title: "RECEIPT",
		Lines: []lineData{{Name: "<script>alert(1)</script>", Quantity: 1}},
	})
	require.NoError(t, err)
	assert.NotContains(t, html, "<script>alert(1)</script>")
}
