package pricing

import "github.com/shopspring/decimal"

// DefaultRules returns the store's standing promotions: 3-for-2 on Apple TVs
// and a bulk discount on Super iPads at five or more.
//
// The returned slice is freshly allocated on every call so a session can
// never observe another session's mutations.
func DefaultRules() []Rule {
	return []Rule{
		NewQuantityRule("atv", "3 for 2 Apple TV Deal", 3, 2),
		NewBulkRule("ipd", "Super iPad Bulk Discount", 5, decimal.RequireFromString("499.99")),
	}
}
