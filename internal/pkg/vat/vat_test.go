package vat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRate(t *testing.T) {
	tests := []struct {
		label Label
		want  float64
	}{
		{LabelA, 0.21},
		{LabelB, 0.12},
		{LabelC, 0.06},
		{LabelD, 0},
		{LabelX, 0},
		{Label("Z"), 0}, // unknown defaults to 0
	}

	for _, testCase := range tests {
		t.Run(string(testCase.label), func(t *testing.T) {
			assert.Equal(t, testCase.want, Rate(testCase.label))
		})
	}
}

func TestAmountRoundTrip(t *testing.T) {
	// A gross of 121.00 at 21% carries 21.00 VAT over a 100.00 net.
	vatPart := AmountForLabel(121.00, LabelA)
	assert.InDelta(t, 21.00, vatPart, 1e-9)
	assert.InDelta(t, 100.00, 121.00-vatPart, 1e-9)
}

func TestAmountZeroRate(t *testing.T) {
	assert.Equal(t, 0.0, AmountForLabel(50.00, LabelD))
	assert.Equal(t, 0.0, AmountForLabel(50.00, LabelX))
}

func TestAmountZeroGross(t *testing.T) {
	assert.Equal(t, 0.0, Amount(0, 0.21))
}

func TestValid(t *testing.T) {
	assert.True(t, Valid(LabelA))
	assert.True(t, Valid(LabelX))
	assert.False(t, Valid(Label("Q")))
	assert.False(t, Valid(Label("")))
}
