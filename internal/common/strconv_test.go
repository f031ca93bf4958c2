package common_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/common"
)

func TestQuantityOrZero(t *testing.T) {
	require.Equal(t, 5, common.QuantityOrZero("5"))
	require.Equal(t, 5, common.QuantityOrZero(" 5 "))
	require.Equal(t, -2, common.QuantityOrZero("-2"))
	require.Equal(t, 0, common.QuantityOrZero(""))
	require.Equal(t, 0, common.QuantityOrZero("abc"))
	require.Equal(t, 0, common.QuantityOrZero("3.5"))
}

func TestRateOrZero(t *testing.T) {
	require.True(t, common.RateOrZero("18").Equal(decimal.NewFromInt(18)))
	require.True(t, common.RateOrZero("2.5").Equal(decimal.RequireFromString("2.5")))
	require.True(t, common.RateOrZero("").IsZero())
	require.True(t, common.RateOrZero("abc").IsZero())
	require.True(t, common.RateOrZero("-3").IsZero())
}

func TestAtoiDefault(t *testing.T) {
	require.Equal(t, 7, common.AtoiDefault("7", 1))
	require.Equal(t, 1, common.AtoiDefault("", 1))
	require.Equal(t, 1, common.AtoiDefault("x", 1))
}
