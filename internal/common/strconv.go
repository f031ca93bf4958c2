package common

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// AtoiDefault converts the provided string to an integer falling back to the default when parsing fails.
func AtoiDefault(value string, def int) int {
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}

// QuantityOrZero coerces raw quantity input to an integer, treating anything
// unparseable as zero. Zero means removal for cart semantics.
func QuantityOrZero(value string) int {
	parsed, err := strconv.Atoi(strings.TrimSpace(value))
	if err != nil {
		return 0
	}
	return parsed
}

// RateOrZero coerces a percentage rate to a non-negative decimal, falling back
// to zero when the input is absent, unparseable, or negative.
func RateOrZero(value string) decimal.Decimal {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return decimal.Zero
	}
	rate, err := decimal.NewFromString(trimmed)
	if err != nil || rate.IsNegative() {
		return decimal.Zero
	}
	return rate
}
