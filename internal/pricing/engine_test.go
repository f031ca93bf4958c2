package pricing_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/pricing"
)

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestSubtotalMatchesIndependentSum(t *testing.T) {
	lines := []pricing.Line{
		{Quantity: 3, BuyPrice: d("10.5"), SellPrice: d("8")},
		{Quantity: 7, BuyPrice: d("0.1"), SellPrice: d("0.05")},
		{Quantity: 1, BuyPrice: d("99.99"), SellPrice: d("80")},
	}

	expected := decimal.Zero
	for _, line := range lines {
		expected = expected.Add(line.BuyPrice.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	totals := pricing.Compute(lines, pricing.ModeBuying, decimal.Zero, decimal.Zero)
	require.True(t, totals.Subtotal.Equal(expected))
	require.True(t, totals.Total.Equal(expected), "zero rates leave total equal to subtotal")
}

func TestModeSwitchRoundTrip(t *testing.T) {
	lines := []pricing.Line{
		{Quantity: 4, BuyPrice: d("12"), SellPrice: d("9")},
		{Quantity: 2, BuyPrice: d("3.25"), SellPrice: d("2.75")},
	}
	gst := d("18")
	tax := d("5")

	before := pricing.Compute(lines, pricing.ModeBuying, gst, tax)
	flipped := pricing.Compute(lines, pricing.ModeSelling, gst, tax)
	after := pricing.Compute(lines, pricing.ModeBuying, gst, tax)

	require.False(t, before.Total.Equal(flipped.Total))
	require.True(t, before.Subtotal.Equal(after.Subtotal))
	require.True(t, before.GSTAmount.Equal(after.GSTAmount))
	require.True(t, before.TaxAmount.Equal(after.TaxAmount))
	require.True(t, before.Total.Equal(after.Total))
}

func TestStoneScenario(t *testing.T) {
	lines := []pricing.Line{{Quantity: 10, BuyPrice: d("5"), SellPrice: d("2")}}

	totals := pricing.Compute(lines, pricing.ModeBuying, d("18"), decimal.Zero)
	require.Equal(t, "50.00", totals.Subtotal.StringFixed(2))
	require.Equal(t, "9.00", totals.GSTAmount.StringFixed(2))
	require.Equal(t, "0.00", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "59.00", totals.Total.StringFixed(2))
}

func TestEmptyCart(t *testing.T) {
	totals := pricing.Compute(nil, pricing.ModeSelling, d("18"), d("12"))
	require.True(t, totals.Subtotal.IsZero())
	require.True(t, totals.GSTAmount.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.Total.IsZero())
}

func TestParallelRatesNotCompounded(t *testing.T) {
	lines := []pricing.Line{{Quantity: 1, BuyPrice: d("100"), SellPrice: d("100")}}

	totals := pricing.Compute(lines, pricing.ModeBuying, d("10"), d("10"))
	require.Equal(t, "10.00", totals.GSTAmount.StringFixed(2))
	require.Equal(t, "10.00", totals.TaxAmount.StringFixed(2))
	require.Equal(t, "120.00", totals.Total.StringFixed(2))
}

func TestNonPositiveQuantitiesSkipped(t *testing.T) {
	lines := []pricing.Line{
		{Quantity: 0, BuyPrice: d("5"), SellPrice: d("5")},
		{Quantity: -3, BuyPrice: d("5"), SellPrice: d("5")},
		{Quantity: 2, BuyPrice: d("5"), SellPrice: d("5")},
	}

	totals := pricing.Compute(lines, pricing.ModeBuying, decimal.Zero, decimal.Zero)
	require.Equal(t, "10.00", totals.Subtotal.StringFixed(2))
}

func TestNegativeRatesClampToZero(t *testing.T) {
	lines := []pricing.Line{{Quantity: 1, BuyPrice: d("100"), SellPrice: d("100")}}

	totals := pricing.Compute(lines, pricing.ModeBuying, d("-18"), d("-5"))
	require.True(t, totals.GSTAmount.IsZero())
	require.True(t, totals.TaxAmount.IsZero())
	require.True(t, totals.Total.Equal(totals.Subtotal))
}

func TestModeValid(t *testing.T) {
	require.True(t, pricing.ModeBuying.Valid())
	require.True(t, pricing.ModeSelling.Valid())
	require.False(t, pricing.Mode("trading").Valid())
}
