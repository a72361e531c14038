// Package catalog holds the static product catalog the checkout sells from.
package catalog

import (
	"github.com/go-faster/errors"
	"github.com/shopspring/decimal"
)

// ErrNotFound is returned when a requested SKU does not exist in the catalog.
var ErrNotFound = errors.New("product not found")

// Product represents a catalog item available for purchase.
// Identity is the SKU; products are immutable after load.
type Product struct {
	SKU   string
	Name  string
	Price decimal.Decimal
}

// Catalog is a read-only SKU to product mapping, initialized once at startup.
type Catalog struct {
	bySKU map[string]Product
	order []string
}

// New builds a Catalog from the given products. A duplicate SKU overwrites
// the earlier entry.
func New(products []Product) *Catalog {
	c := &Catalog{
		bySKU: make(map[string]Product, len(products)),
		order: make([]string, 0, len(products)),
	}
	for _, p := range products {
		if _, ok := c.bySKU[p.SKU]; !ok {
			c.order = append(c.order, p.SKU)
		}
		c.bySKU[p.SKU] = p
	}
	return c
}

// Lookup returns the product for the given SKU, or ErrNotFound.
func (c *Catalog) Lookup(sku string) (Product, error) {
	p, ok := c.bySKU[sku]
	if !ok {
		return Product{}, errors.Wrapf(ErrNotFound, "sku %q", sku)
	}
	return p, nil
}

// List returns all products in their original table order.
func (c *Catalog) List() []Product {
	out := make([]Product, len(c.order))
	for i, sku := range c.order {
		out[i] = c.bySKU[sku]
	}
	return out
}

// Len returns the number of products in the catalog.
func (c *Catalog) Len() int {
	return len(c.order)
}
