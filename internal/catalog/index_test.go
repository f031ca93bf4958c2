package catalog_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
)

func rawItem(name string, buy, sell string) catalog.RawItem {
	return catalog.RawItem{
		Name:      name,
		BuyPrice:  decimal.RequireFromString(buy),
		SellPrice: decimal.RequireFromString(sell),
	}
}

func TestNewIndexLastDuplicateWins(t *testing.T) {
	index, duplicates := catalog.NewIndex([]catalog.RawItem{
		rawItem("IRON_INGOT", "10", "8"),
		rawItem("COAL", "3", "1"),
		rawItem("IRON_INGOT", "12", "9"),
	})

	require.Equal(t, 2, index.Len())
	require.Equal(t, []string{"IRON_INGOT"}, duplicates)

	item, ok := index.Lookup("IRON_INGOT")
	require.True(t, ok)
	require.True(t, item.BuyPrice.Equal(decimal.RequireFromString("12")))
	require.True(t, item.SellPrice.Equal(decimal.RequireFromString("9")))
}

func TestIndexSortedOrder(t *testing.T) {
	index, _ := catalog.NewIndex([]catalog.RawItem{
		rawItem("STONE", "1", "0.5"),
		rawItem("COAL", "3", "1"),
		rawItem("IRON_INGOT", "10", "8"),
	})

	all := index.All()
	require.Len(t, all, 3)
	require.Equal(t, "COAL", all[0].Name)
	require.Equal(t, "IRON_INGOT", all[1].Name)
	require.Equal(t, "STONE", all[2].Name)
}

func TestLookupFoldTolerance(t *testing.T) {
	index, _ := catalog.NewIndex([]catalog.RawItem{
		rawItem("IRON_INGOT", "10", "8"),
	})

	for _, name := range []string{"iron ingot", "Iron Ingot", "IRON_INGOT", "iron_ingot", "  iron   ingot "} {
		item, ok := index.LookupFold(name)
		require.True(t, ok, "expected %q to match", name)
		require.Equal(t, "IRON_INGOT", item.Name)
	}

	_, ok := index.LookupFold("gold ingot")
	require.False(t, ok)

	_, ok = index.Lookup("iron_ingot")
	require.False(t, ok, "exact lookup is case-sensitive")
}

func TestSearchSubstring(t *testing.T) {
	index, _ := catalog.NewIndex([]catalog.RawItem{
		rawItem("IRON_INGOT", "10", "8"),
		rawItem("GOLD_INGOT", "50", "40"),
		rawItem("COAL", "3", "1"),
	})

	matches := index.Search("ingot")
	require.Len(t, matches, 2)
	require.Equal(t, "GOLD_INGOT", matches[0].Name)
	require.Equal(t, "IRON_INGOT", matches[1].Name)

	require.Len(t, index.Search("iron ingot"), 1)
	require.Len(t, index.Search(""), 3)
	require.Empty(t, index.Search("diamond"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "Iron Ingot", catalog.DisplayName("IRON_INGOT"))
	require.Equal(t, "Coal", catalog.DisplayName("coal"))
	require.Equal(t, "Oak Wood Planks", catalog.DisplayName("OAK_WOOD_PLANKS"))
}
