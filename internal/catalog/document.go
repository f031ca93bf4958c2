package catalog

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// RawItem is one priced entry decoded from a catalog document before merge.
type RawItem struct {
	Name      string
	BuyPrice  decimal.Decimal
	SellPrice decimal.Decimal
}

type nestedDocument struct {
	Pages map[string]nestedPage `yaml:"pages"`
}

type nestedPage struct {
	Items map[string]nestedItem `yaml:"items"`
}

type nestedItem struct {
	Material string `yaml:"material"`
	Buy      string `yaml:"buy"`
	Sell     string `yaml:"sell"`
}

type flatEntry struct {
	Name      string `yaml:"name"`
	BuyPrice  string `yaml:"buy_price"`
	SellPrice string `yaml:"sell_price"`
}

// ParseDocument decodes a catalog document in either supported shape: the
// paged layout (pages -> items -> material/buy/sell) or the grouped layout
// (top-level keys mapping to lists of name/buy_price/sell_price entries).
func ParseDocument(data []byte) ([]RawItem, error) {
	var nested nestedDocument
	if err := yaml.Unmarshal(data, &nested); err == nil && len(nested.Pages) > 0 {
		return itemsFromNested(nested), nil
	}

	var root map[string]yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("catalog: decode document: %w", err)
	}
	items := make([]RawItem, 0)
	for _, node := range root {
		if node.Kind != yaml.SequenceNode {
			continue
		}
		var entries []flatEntry
		if err := node.Decode(&entries); err != nil {
			continue
		}
		for _, entry := range entries {
			name := strings.TrimSpace(entry.Name)
			if name == "" {
				continue
			}
			items = append(items, RawItem{
				Name:      name,
				BuyPrice:  parsePrice(entry.BuyPrice),
				SellPrice: parsePrice(entry.SellPrice),
			})
		}
	}
	return items, nil
}

func itemsFromNested(doc nestedDocument) []RawItem {
	items := make([]RawItem, 0)
	for _, page := range doc.Pages {
		for key, item := range page.Items {
			name := strings.TrimSpace(item.Material)
			if name == "" {
				name = strings.TrimSpace(key)
			}
			if name == "" {
				continue
			}
			items = append(items, RawItem{
				Name:      name,
				BuyPrice:  parsePrice(item.Buy),
				SellPrice: parsePrice(item.Sell),
			})
		}
	}
	return items
}

// parsePrice maps absent, unparseable, or negative values to zero.
func parsePrice(raw string) decimal.Decimal {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(trimmed)
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d
}
