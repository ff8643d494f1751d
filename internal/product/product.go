package product

import (
	"github.com/shopspring/decimal"
)

// Product is the canonical record derived from one scraped listing item,
// identical across platforms. The title is the identity key within one
// account's listing; it is not globally unique.
type Product struct {
	Title         string
	OriginalPrice decimal.Decimal
	CurrentPrice  decimal.Decimal
	Discount      int
	URL           string
}

// Result is the outcome of normalizing one raw item: either a product or
// the reason the item was skipped. A failed item never aborts the batch.
type Result struct {
	Product Product
	Err     error
}

// Ok reports whether the item normalized successfully
func (r Result) Ok() bool {
	return r.Err == nil
}
