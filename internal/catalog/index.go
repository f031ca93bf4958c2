package catalog

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Item is a merged catalog entry with snapshot-ready prices.
type Item struct {
	Name      string          `json:"name"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
}

// Index is an immutable, locale-sorted view over merged catalog items.
type Index struct {
	byName map[string]Item
	byFold map[string]Item
	names  []string
}

// FoldKey canonicalises a name for tolerant matching: lowercase, underscores
// treated as spaces, runs of whitespace collapsed.
func FoldKey(name string) string {
	lowered := strings.ToLower(strings.ReplaceAll(name, "_", " "))
	return strings.Join(strings.Fields(lowered), " ")
}

// DisplayName renders a raw item name for humans: IRON_INGOT -> Iron Ingot.
func DisplayName(name string) string {
	spaced := strings.Join(strings.Fields(strings.ReplaceAll(name, "_", " ")), " ")
	return cases.Title(language.English).String(strings.ToLower(spaced))
}

// NewIndex merges raw items into an index. Later occurrences of the same name
// replace earlier ones; the duplicate names are returned for reporting.
func NewIndex(items []RawItem) (*Index, []string) {
	byName := make(map[string]Item, len(items))
	var duplicates []string
	for _, raw := range items {
		if _, exists := byName[raw.Name]; exists {
			duplicates = append(duplicates, raw.Name)
		}
		byName[raw.Name] = Item{Name: raw.Name, BuyPrice: raw.BuyPrice, SellPrice: raw.SellPrice}
	}

	names := make([]string, 0, len(byName))
	for name := range byName {
		names = append(names, name)
	}
	coll := collate.New(language.English)
	sort.Slice(names, func(i, j int) bool {
		return coll.CompareString(names[i], names[j]) < 0
	})

	byFold := make(map[string]Item, len(byName))
	for _, name := range names {
		byFold[FoldKey(name)] = byName[name]
	}
	return &Index{byName: byName, byFold: byFold, names: names}, duplicates
}

// Lookup resolves an exact item name.
func (ix *Index) Lookup(name string) (Item, bool) {
	if ix == nil {
		return Item{}, false
	}
	item, ok := ix.byName[name]
	return item, ok
}

// LookupFold resolves a name under the canonical folded rule.
func (ix *Index) LookupFold(name string) (Item, bool) {
	if ix == nil {
		return Item{}, false
	}
	item, ok := ix.byFold[FoldKey(name)]
	return item, ok
}

// Search returns items whose folded name contains the folded query, preserving
// the index sort order. An empty query returns everything.
func (ix *Index) Search(query string) []Item {
	if ix == nil {
		return nil
	}
	folded := FoldKey(query)
	if folded == "" {
		return ix.All()
	}
	out := make([]Item, 0)
	for _, name := range ix.names {
		if strings.Contains(FoldKey(name), folded) {
			out = append(out, ix.byName[name])
		}
	}
	return out
}

// All returns every item in sorted order.
func (ix *Index) All() []Item {
	if ix == nil {
		return nil
	}
	out := make([]Item, 0, len(ix.names))
	for _, name := range ix.names {
		out = append(out, ix.byName[name])
	}
	return out
}

// Len reports the number of distinct items.
func (ix *Index) Len() int {
	if ix == nil {
		return 0
	}
	return len(ix.names)
}
