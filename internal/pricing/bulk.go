package pricing

import "github.com/shopspring/decimal"

var _ Rule = (*BulkRule)(nil)

// BulkRule charges a flat discounted unit price once the line quantity
// reaches a minimum threshold.
type BulkRule struct {
	sku            string
	name           string
	minQty         int
	discountedUnit decimal.Decimal
}

// NewBulkRule creates a bulk-threshold rule: quantity >= minQty prices every
// item at discountedUnit.
func NewBulkRule(sku, name string, minQty int, discountedUnit decimal.Decimal) *BulkRule {
	return &BulkRule{
		sku:            sku,
		name:           name,
		minQty:         minQty,
		discountedUnit: discountedUnit,
	}
}

func (r *BulkRule) SKU() string { return r.sku }

func (r *BulkRule) Name() string { return r.name }

func (r *BulkRule) Kind() Kind { return KindBulkThreshold }

// Apply returns quantity*discountedUnit at or above the threshold,
// quantity*unitPrice below it, and passes through on SKU mismatch.
func (r *BulkRule) Apply(sku string, quantity int, unitPrice decimal.Decimal) decimal.Decimal {
	if sku != r.sku || quantity < r.minQty {
		return passThrough(quantity, unitPrice)
	}
	return r.discountedUnit.Mul(decimal.NewFromInt(int64(quantity)))
}
