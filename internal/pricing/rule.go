// Package pricing implements promotional pricing rules applied to cart lines.
//
// Each rule is an independent strategy behind the Rule interface. Rules act
// as a pass-through on SKU mismatch so a cart can query a rule list uniformly
// without a separate filtering pass; adding a promotion kind means adding a
// new Rule implementation, never touching cart logic.
package pricing

import "github.com/shopspring/decimal"

// Kind identifies a rule strategy variant for introspection.
type Kind string

const (
	// KindQuantityBased prices N items at the price of M ("3 for 2").
	KindQuantityBased Kind = "quantity_based"
	// KindBulkThreshold applies a flat discounted unit price above a minimum quantity.
	KindBulkThreshold Kind = "bulk_threshold"
)

// Rule computes a line-item price for a cart line. Apply is a pure function
// of its inputs: no side effects, no shared mutable state.
type Rule interface {
	// SKU returns the product the rule targets.
	SKU() string
	// Name returns the human-readable promotion name.
	Name() string
	// Kind identifies the strategy variant.
	Kind() Kind
	// Apply returns the price for quantity items of the given SKU at the
	// given unit price. When sku does not match the rule's target the rule
	// passes through, returning quantity * unitPrice.
	Apply(sku string, quantity int, unitPrice decimal.Decimal) decimal.Decimal
}

// FirstMatch returns the first rule in rules targeting the given SKU, or nil.
// When multiple rules share a SKU the earliest one wins.
func FirstMatch(rules []Rule, sku string) Rule {
	for _, r := range rules {
		if r.SKU() == sku {
			return r
		}
	}
	return nil
}

func passThrough(quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	return unitPrice.Mul(decimal.NewFromInt(int64(quantity)))
}
