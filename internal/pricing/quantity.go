package pricing

import "github.com/shopspring/decimal"

var _ Rule = (*QuantityRule)(nil)

// QuantityRule prices every full set of requiredQty items as payForQty items,
// with the remainder at full unit price.
type QuantityRule struct {
	sku         string
	name        string
	requiredQty int
	payForQty   int
}

// NewQuantityRule creates a quantity-based rule: buy requiredQty, pay for payForQty.
func NewQuantityRule(sku, name string, requiredQty, payForQty int) *QuantityRule {
	return &QuantityRule{
		sku:         sku,
		name:        name,
		requiredQty: requiredQty,
		payForQty:   payForQty,
	}
}

func (r *QuantityRule) SKU() string { return r.sku }

func (r *QuantityRule) Name() string { return r.name }

func (r *QuantityRule) Kind() Kind { return KindQuantityBased }

// Apply returns floor(q/R)*P*unit + (q mod R)*unit for matching SKUs and
// passes through otherwise.
func (r *QuantityRule) Apply(sku string, quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if sku != r.sku {
		return passThrough(quantity, unitPrice)
	}

	sets := quantity / r.requiredQty
	remainder := quantity % r.requiredQty
	payable := sets*r.payForQty + remainder

	return unitPrice.Mul(decimal.NewFromInt(int64(payable)))
}
