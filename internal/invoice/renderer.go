package invoice

import (
	"time"

	"github.com/sakshamsingh/shop-invoice/internal/catalog"
	"github.com/sakshamsingh/shop-invoice/internal/pricing"
	"github.com/sakshamsingh/shop-invoice/internal/session"
)

// Line is one rendered invoice row with display-rounded amounts.
type Line struct {
	Name        string `json:"name"`
	DisplayName string `json:"displayName"`
	Quantity    int    `json:"quantity"`
	UnitPrice   string `json:"unitPrice"`
	LineCost    string `json:"lineCost"`
}

// Document is the render-ready invoice view. Amounts are formatted with two
// decimal places; the snapshot it was built from stays untouched.
type Document struct {
	SessionID   string    `json:"sessionId"`
	Title       string    `json:"title"`
	Mode        string    `json:"mode"`
	Lines       []Line    `json:"lines"`
	Subtotal    string    `json:"subtotal"`
	GSTRate     string    `json:"gstRate"`
	GSTAmount   string    `json:"gstAmount"`
	TaxRate     string    `json:"taxRate"`
	TaxAmount   string    `json:"taxAmount"`
	Total       string    `json:"total"`
	GeneratedAt time.Time `json:"generatedAt"`
}

// Build assembles the invoice document from a session snapshot.
func Build(snap session.Snapshot, now time.Time) Document {
	lines := make([]Line, 0, len(snap.Entries))
	for _, entry := range snap.Entries {
		line := pricing.Line{
			Quantity:  entry.Quantity,
			BuyPrice:  entry.BuyPrice,
			SellPrice: entry.SellPrice,
		}
		lines = append(lines, Line{
			Name:        entry.Name,
			DisplayName: catalog.DisplayName(entry.Name),
			Quantity:    entry.Quantity,
			UnitPrice:   pricing.ActivePrice(line, snap.Mode).StringFixed(2),
			LineCost:    pricing.LineCost(line, snap.Mode).StringFixed(2),
		})
	}
	return Document{
		SessionID:   snap.ID,
		Title:       title(snap.Mode),
		Mode:        string(snap.Mode),
		Lines:       lines,
		Subtotal:    snap.Totals.Subtotal.StringFixed(2),
		GSTRate:     snap.GSTRate.StringFixed(2),
		GSTAmount:   snap.Totals.GSTAmount.StringFixed(2),
		TaxRate:     snap.TaxRate.StringFixed(2),
		TaxAmount:   snap.Totals.TaxAmount.StringFixed(2),
		Total:       snap.Totals.Total.StringFixed(2),
		GeneratedAt: now,
	}
}

func title(mode pricing.Mode) string {
	if mode == pricing.ModeSelling {
		return "Selling Invoice"
	}
	return "Buying Invoice"
}
