package pricing

import "github.com/shopspring/decimal"

// Mode selects which snapshot price a bill is computed against.
type Mode string

const (
	ModeBuying  Mode = "buying"
	ModeSelling Mode = "selling"
)

// Valid reports whether the mode is one of the two supported values.
func (m Mode) Valid() bool {
	return m == ModeBuying || m == ModeSelling
}

// Line is one billable cart entry with its snapshot prices.
type Line struct {
	Quantity  int
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

// Totals is the result of a bill computation. All amounts are exact.
type Totals struct {
	Subtotal  decimal.Decimal `json:"subtotal"`
	GSTAmount decimal.Decimal `json:"gstAmount"`
	TaxAmount decimal.Decimal `json:"taxAmount"`
	Total     decimal.Decimal `json:"total"`
}

var hundred = decimal.NewFromInt(100)

// ActivePrice returns the price the mode selects from a line.
func ActivePrice(line Line, mode Mode) decimal.Decimal {
	if mode == ModeSelling {
		return line.SellPrice
	}
	return line.BuyPrice
}

// LineCost is the active price multiplied by quantity.
func LineCost(line Line, mode Mode) decimal.Decimal {
	return ActivePrice(line, mode).Mul(decimal.NewFromInt(int64(line.Quantity)))
}

// Compute derives bill totals from scratch. GST and tax are independent
// percentages of the subtotal; lines with non-positive quantity are skipped.
func Compute(lines []Line, mode Mode, gstRate, taxRate decimal.Decimal) Totals {
	subtotal := decimal.Zero
	for _, line := range lines {
		if line.Quantity <= 0 {
			continue
		}
		subtotal = subtotal.Add(LineCost(line, mode))
	}
	gst := subtotal.Mul(clampRate(gstRate)).Div(hundred)
	tax := subtotal.Mul(clampRate(taxRate)).Div(hundred)
	return Totals{
		Subtotal:  subtotal,
		GSTAmount: gst,
		TaxAmount: tax,
		Total:     subtotal.Add(gst).Add(tax),
	}
}

func clampRate(rate decimal.Decimal) decimal.Decimal {
	if rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
