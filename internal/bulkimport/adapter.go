package bulkimport

import (
	"github.com/sakshamsingh/shop-invoice/internal/cart"
	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/obs"
)

// Pair is one extracted (name, quantity) candidate.
type Pair struct {
	Name     string `json:"name"`
	Quantity int    `json:"quantity"`
}

// Report aggregates the outcome of applying a batch of pairs.
type Report struct {
	Matched int `json:"matched"`
	Dropped int `json:"dropped"`
}

// Apply resolves pairs against the catalog under the folded matching rule and
// writes the matches into the cart. Unmatched names are dropped without error;
// a missing or invalid quantity defaults to 1.
func Apply(index *catalog.Index, c *cart.Cart, pairs []Pair) Report {
	var report Report
	for _, pair := range pairs {
		item, ok := index.LookupFold(pair.Name)
		if !ok {
			report.Dropped++
			continue
		}
		quantity := pair.Quantity
		if quantity < 1 {
			quantity = 1
		}
		c.Set(item, quantity)
		report.Matched++
	}
	if obs.ImportPairsTotal != nil {
		obs.ImportPairsTotal.WithLabelValues("matched").Add(float64(report.Matched))
		obs.ImportPairsTotal.WithLabelValues("dropped").Add(float64(report.Dropped))
	}
	return report
}
