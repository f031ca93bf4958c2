package session

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/sakshamsingh/shop-invoice/internal/cart"
	"github.com/sakshamsingh/shop-invoice/internal/pricing"
)

// State is one bill-building session: a cart, the active price mode, and the
// two surcharge rates, with totals derived from them.
type State struct {
	ID        string
	Cart      *cart.Cart
	Mode      pricing.Mode
	GSTRate   decimal.Decimal
	TaxRate   decimal.Decimal
	Totals    pricing.Totals
	CreatedAt time.Time
	UpdatedAt time.Time
}

func newState(id string, now time.Time) *State {
	return &State{
		ID:        id,
		Cart:      cart.New(),
		Mode:      pricing.ModeBuying,
		GSTRate:   decimal.Zero,
		TaxRate:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// Reset restores the session to its initial shape: empty cart, buying mode,
// zero rates.
func (s *State) Reset() {
	s.Cart.Clear()
	s.Mode = pricing.ModeBuying
	s.GSTRate = decimal.Zero
	s.TaxRate = decimal.Zero
}

// Recompute rebuilds the totals from scratch.
func (s *State) Recompute() {
	entries := s.Cart.Entries()
	lines := make([]pricing.Line, 0, len(entries))
	for _, entry := range entries {
		lines = append(lines, pricing.Line{
			Quantity:  entry.Quantity,
			BuyPrice:  entry.BuyPrice,
			SellPrice: entry.SellPrice,
		})
	}
	s.Totals = pricing.Compute(lines, s.Mode, s.GSTRate, s.TaxRate)
}

// Snapshot is a read-only copy of session state handed to renderers.
type Snapshot struct {
	ID        string          `json:"id"`
	Mode      pricing.Mode    `json:"mode"`
	GSTRate   decimal.Decimal `json:"gstRate"`
	TaxRate   decimal.Decimal `json:"taxRate"`
	Entries   []cart.Entry    `json:"entries"`
	Totals    pricing.Totals  `json:"totals"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Snapshot copies the state for consumers that must not mutate it.
func (s *State) Snapshot() Snapshot {
	return Snapshot{
		ID:        s.ID,
		Mode:      s.Mode,
		GSTRate:   s.GSTRate,
		TaxRate:   s.TaxRate,
		Entries:   s.Cart.Entries(),
		Totals:    s.Totals,
		UpdatedAt: s.UpdatedAt,
	}
}
