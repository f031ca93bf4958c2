package cart

import (
	"github.com/shopspring/decimal"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
)

// Entry is one selected item with its snapshot prices. Prices are captured
// on every Set, so an entry keeps the last prices it was written with even
// if a reload later removes the item from the catalog.
type Entry struct {
	Name      string          `json:"name"`
	Quantity  int             `json:"quantity"`
	BuyPrice  decimal.Decimal `json:"buyPrice"`
	SellPrice decimal.Decimal `json:"sellPrice"`
}

// Cart is a mutable selection of items keyed by exact catalog name.
// An entry exists iff its quantity is at least 1.
type Cart struct {
	entries map[string]*Entry
	order   []string
}

// New returns an empty cart.
func New() *Cart {
	return &Cart{entries: make(map[string]*Entry)}
}

// Set stores the quantity for an item, snapshotting its prices at the time
// of the call. A quantity below 1 removes the entry. It reports whether the
// cart changed.
func (c *Cart) Set(item catalog.Item, quantity int) bool {
	if quantity < 1 {
		return c.remove(item.Name)
	}
	if existing, ok := c.entries[item.Name]; ok {
		if existing.Quantity == quantity &&
			existing.BuyPrice.Equal(item.BuyPrice) &&
			existing.SellPrice.Equal(item.SellPrice) {
			return false
		}
		existing.Quantity = quantity
		existing.BuyPrice = item.BuyPrice
		existing.SellPrice = item.SellPrice
		return true
	}
	c.entries[item.Name] = &Entry{
		Name:      item.Name,
		Quantity:  quantity,
		BuyPrice:  item.BuyPrice,
		SellPrice: item.SellPrice,
	}
	c.order = append(c.order, item.Name)
	return true
}

// Increment raises the quantity by one, treating an absent entry as zero.
func (c *Cart) Increment(item catalog.Item) {
	current := 0
	if existing, ok := c.entries[item.Name]; ok {
		current = existing.Quantity
	}
	c.Set(item, current+1)
}

// Remove deletes the entry for the given exact name.
func (c *Cart) Remove(name string) bool {
	return c.remove(name)
}

func (c *Cart) remove(name string) bool {
	if _, ok := c.entries[name]; !ok {
		return false
	}
	delete(c.entries, name)
	for i, n := range c.order {
		if n == name {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.entries = make(map[string]*Entry)
	c.order = nil
}

// Get returns the entry for an exact name.
func (c *Cart) Get(name string) (Entry, bool) {
	if entry, ok := c.entries[name]; ok {
		return *entry, true
	}
	return Entry{}, false
}

// Entries returns the selection in insertion order.
func (c *Cart) Entries() []Entry {
	out := make([]Entry, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, *c.entries[name])
	}
	return out
}

// Len reports the number of entries.
func (c *Cart) Len() int {
	return len(c.entries)
}
