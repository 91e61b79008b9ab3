// internal/pkg/receipt/service.go
package receipt

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"html/template"
	"time"

	"github.com/SebastiaanKlippert/go-wkhtmltopdf"
	qrcode "github.com/skip2/go-qrcode"

	"github.com/barbuddie/pos-terminal/internal/domain/cart"
	"github.com/barbuddie/pos-terminal/internal/pkg/vat"
)

// VenueInfo is the header block printed on every document.
type VenueInfo struct {
	Name      string
	Address   string
	Phone     string
	VATNumber string
	Website   string
}

// Service renders prebills and receipts as PDF.
type Service struct {
	venue VenueInfo
	// verifyBaseURL is embedded in the QR code so a guest can pull up
	// their bill; empty disables the QR block.
	verifyBaseURL string
}

// NewService creates a receipt service for a venue.
func NewService(venue VenueInfo, verifyBaseURL string) *Service {
	return &Service{
		venue:         venue,
		verifyBaseURL: verifyBaseURL,
	}
}

type documentData struct {
	Title       string
	Reference   string
	PrintedAt   string
	TableName   string
	Venue       VenueInfo
	Lines       []lineData
	Subtotal    float64
	VatRows     []vatRowData
	GrandTotal  float64
	Notes       string
	QRCodeB64   string
	FooterLabel string
}

type lineData struct {
	Name     string
	Size     string
	Quantity int
	Price    float64
	Total    float64
	Notes    string
}

type vatRowData struct {
	Label  string
	Rate   string
	Amount float64
}

// Prebill renders the pre-payment bill for the current cart.
func (s *Service) Prebill(reference string, lines []cart.Line, totals cart.Totals, breakdown []cart.LabelAmount, table *cart.TableBinding, notes string) (*bytes.Buffer, error) {
	return s.render("PREBILL", "Not a payment receipt", reference, lines, totals, breakdown, table, notes)
}

// Receipt renders the final receipt after settlement.
func (s *Service) Receipt(reference string, lines []cart.Line, totals cart.Totals, breakdown []cart.LabelAmount, table *cart.TableBinding, notes string) (*bytes.Buffer, error) {
	return s.render("RECEIPT", "Thank you for your visit", reference, lines, totals, breakdown, table, notes)
}

func (s *Service) render(title, footer, reference string, lines []cart.Line, totals cart.Totals, breakdown []cart.LabelAmount, table *cart.TableBinding, notes string) (*bytes.Buffer, error) {
	data := documentData{
		Title:       title,
		Reference:   reference,
		PrintedAt:   time.Now().Format("02/01/2006 15:04"),
		Venue:       s.venue,
		Subtotal:    totals.Subtotal,
		GrandTotal:  totals.GrandTotal,
		Notes:       notes,
		FooterLabel: footer,
	}
	if table != nil {
		data.TableName = table.Name
	}

	for _, line := range lines {
		data.Lines = append(data.Lines, lineData{
			Name:     line.Name,
			Size:     line.Size,
			Quantity: line.Quantity,
			Price:    line.Price,
			Total:    line.LineTotal(),
			Notes:    line.Notes,
		})
	}
	for _, row := range breakdown {
		data.VatRows = append(data.VatRows, vatRowData{
			Label:  string(row.Label),
			Rate:   fmt.Sprintf("%.0f%%", vat.Rate(row.Label)*100),
			Amount: row.Amount,
		})
	}

	if s.verifyBaseURL != "" {
		qr, err := qrcode.Encode(s.verifyBaseURL+"/bills/"+reference, qrcode.Medium, 160)
		if err != nil {
			return nil, fmt.Errorf("failed to generate QR code: %w", err)
		}
		data.QRCodeB64 = base64.StdEncoding.EncodeToString(qr)
	}

	htmlContent, err := s.generateHTML(data)
	if err != nil {
		return nil, fmt.Errorf("failed to generate HTML: %w", err)
	}

	pdfg, err := wkhtmltopdf.NewPDFGenerator()
	if err != nil {
		return nil, fmt.Errorf("failed to create PDF generator: %w", err)
	}

	pdfg.Dpi.Set(300)
	pdfg.Orientation.Set(wkhtmltopdf.OrientationPortrait)
	pdfg.PageWidth.Set(80) // thermal printer roll width in mm
	pdfg.PageHeight.Set(297)
	pdfg.MarginLeft.Set(4)
	pdfg.MarginRight.Set(4)

	page := wkhtmltopdf.NewPageReader(bytes.NewReader([]byte(htmlContent)))
	page.Zoom.Set(0.95)
	pdfg.AddPage(page)

	if err := pdfg.Create(); err != nil {
		return nil, fmt.Errorf("failed to create PDF: %w", err)
	}
	return bytes.NewBuffer(pdfg.Bytes()), nil
}

func (s *Service) generateHTML(data documentData) (string, error) {
	tmpl := template.Must(template.New("receipt").Parse(receiptTemplate))

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template: %w", err)
	}
	return buf.String(), nil
}

const receiptTemplate = `
<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>{{.Title}} {{.Reference}}</title>
    <style>
        body {
            font-family: "Courier New", monospace;
            font-size: 11px;
            margin: 0;
            padding: 8px;
            color: #111;
        }
        .center { text-align: center; }
        .venue-name {
            font-size: 15px;
            font-weight: bold;
        }
        .divider {
            border-top: 1px dashed #111;
            margin: 8px 0;
        }
        .doc-title {
            font-size: 13px;
            font-weight: bold;
            letter-spacing: 2px;
        }
        table { width: 100%; border-collapse: collapse; }
        td { padding: 2px 0; vertical-align: top; }
        .qty-col { width: 28px; }
        .amount-col { text-align: right; width: 60px; }
        .line-notes { font-size: 9px; color: #555; padding-left: 28px; }
        .total-row td {
            font-size: 13px;
            font-weight: bold;
            border-top: 1px solid #111;
            padding-top: 4px;
        }
        .vat-table td { font-size: 9px; color: #555; }
        .footer { font-size: 9px; color: #555; margin-top: 10px; }
        .qr { margin-top: 8px; }
    </style>
</head>
<body>
    <div class="center">
        <div class="venue-name">{{.Venue.Name}}</div>
        <div>{{.Venue.Address}}</div>
        {{if .Venue.Phone}}<div>{{.Venue.Phone}}</div>{{end}}
        {{if .Venue.VATNumber}}<div>VAT {{.Venue.VATNumber}}</div>{{end}}
    </div>

    <div class="divider"></div>

    <div class="center">
        <span class="doc-title">{{.Title}}</span><br>
        {{.Reference}} &middot; {{.PrintedAt}}
        {{if .TableName}}<br>{{.TableName}}{{end}}
    </div>

    <div class="divider"></div>

    <table>
        {{range .Lines}}
        <tr>
            <td class="qty-col">{{.Quantity}}x</td>
            <td>{{.Name}}{{if .Size}} ({{.Size}}){{end}}</td>
            <td class="amount-col">{{printf "%.2f" .Total}}</td>
        </tr>
        {{if .Notes}}
        <tr><td colspan="3" class="line-notes">{{.Notes}}</td></tr>
        {{end}}
        {{end}}
        <tr class="total-row">
            <td colspan="2">TOTAL</td>
            <td class="amount-col">{{printf "%.2f" .GrandTotal}}</td>
        </tr>
    </table>

    <table class="vat-table">
        {{range .VatRows}}
        <tr>
            <td>VAT {{.Label}} ({{.Rate}}) incl.</td>
            <td class="amount-col">{{printf "%.2f" .Amount}}</td>
        </tr>
        {{end}}
    </table>

    {{if .Notes}}
    <div class="divider"></div>
    <div>{{.Notes}}</div>
    {{end}}

    {{if .QRCodeB64}}
    <div class="center qr">
        <img src="data:image/png;base64,{{.QRCodeB64}}" width="100" height="100">
    </div>
    {{end}}

    <div class="center footer">{{.FooterLabel}}</div>
</body>
</html>
`
