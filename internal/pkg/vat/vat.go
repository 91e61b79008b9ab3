// internal/pkg/vat/vat.go
package vat

// Label is a single-letter Belgian VAT category attached to every product.
type Label string

const (
	LabelA Label = "A" // 21% - standard (drinks)
	LabelB Label = "B" // 12% - food
	LabelC Label = "C" // 6%  - reduced
	LabelD Label = "D" // 0%  - zero (tobacco)
	LabelX Label = "X" // out of scope
)

// rates maps each label to its inclusive VAT rate.
var rates = map[Label]float64{
	LabelA: 0.21,
	LabelB: 0.12,
	LabelC: 0.06,
	LabelD: 0,
	LabelX: 0,
}

// Rate returns the VAT rate for a label. Unknown labels default to 0.
func Rate(label Label) float64 {
	return rates[label]
}

// Amount extracts the VAT portion from a gross amount. Prices are
// VAT-inclusive, so net = gross/(1+rate) and vat = gross - net.
//
// Per-line amounts are kept unrounded; rounding happens once at display
// time. Summing rounded per-line figures may differ from the rounded sum
// by one cent, which is the accepted policy.
func Amount(gross, rate float64) float64 {
	return gross - gross/(1+rate)
}

// AmountForLabel extracts the VAT portion using the label's rate.
func AmountForLabel(gross float64, label Label) float64 {
	return Amount(gross, Rate(label))
}

// Valid reports whether the label is one of the known categories.
func Valid(label Label) bool {
	_, ok := rates[label]
	return ok
}
