// Package cart implements the mutable per-session cart and its pricing.
package cart

import (
	"sync"

	"github.com/shopspring/decimal"

	"github.com/xenking/pos-checkout/internal/catalog"
	"github.com/xenking/pos-checkout/internal/pricing"
)

// Item is a priced cart line: the resolved product plus its scanned quantity.
type Item struct {
	Product  catalog.Product
	Quantity int
}

// Cart aggregates scanned items per SKU and prices them against a fixed rule
// list. A cart is owned by exactly one session; the rule list is attached at
// construction and never mutated afterwards.
//
// All methods are safe for concurrent use. Scan performs its catalog lookup
// and quantity increment as one critical section so concurrent scans on the
// same cart cannot lose updates, and Snapshot reads lines and total under the
// same lock so no scan can interleave between them.
type Cart struct {
	catalog *catalog.Catalog
	rules   []pricing.Rule

	mu         sync.Mutex
	quantities map[string]int
	order      []string // SKUs in first-scan order, for stable responses
}

// New creates an empty cart pricing against the given catalog and rules.
func New(cat *catalog.Catalog, rules []pricing.Rule) *Cart {
	return &Cart{
		catalog:    cat,
		rules:      rules,
		quantities: make(map[string]int),
	}
}

// Scan adds one unit of the given SKU to the cart. An unknown SKU fails with
// catalog.ErrNotFound and leaves the cart untouched.
func (c *Cart) Scan(sku string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	// Lookup before mutation: a failed scan must not change cart state.
	if _, err := c.catalog.Lookup(sku); err != nil {
		return err
	}

	if _, ok := c.quantities[sku]; !ok {
		c.order = append(c.order, sku)
	}
	c.quantities[sku]++
	return nil
}

// Items returns a snapshot of the cart lines with resolved products, in
// first-scan order.
func (c *Cart) Items() []Item {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items()
}

// Total prices every line with the first rule matching its SKU (straight
// quantity * unit price when none matches), sums the lines, and rounds the
// sum to 2 decimal places half-up. Rounding happens once at the end; per-line
// rounding would compound error across lines.
func (c *Cart) Total() decimal.Decimal {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.total()
}

// Snapshot returns items and total from a single consistent view of the cart.
func (c *Cart) Snapshot() ([]Item, decimal.Decimal) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.items(), c.total()
}

// Len returns the number of distinct SKUs in the cart.
func (c *Cart) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.order)
}

// items must be called with c.mu held.
func (c *Cart) items() []Item {
	out := make([]Item, 0, len(c.order))
	for _, sku := range c.order {
		p, err := c.catalog.Lookup(sku)
		if err != nil {
			// Scan only admits catalog SKUs and the catalog is immutable.
			continue
		}
		out = append(out, Item{Product: p, Quantity: c.quantities[sku]})
	}
	return out
}

// total must be called with c.mu held.
func (c *Cart) total() decimal.Decimal {
	sum := decimal.Zero
	for _, sku := range c.order {
		p, err := c.catalog.Lookup(sku)
		if err != nil {
			continue
		}
		qty := c.quantities[sku]

		if rule := pricing.FirstMatch(c.rules, sku); rule != nil {
			sum = sum.Add(rule.Apply(sku, qty, p.Price))
			continue
		}
		sum = sum.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
	}
	return sum.Round(2)
}
