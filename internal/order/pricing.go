package order

import (
	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/discount"

	"github.com/shopspring/decimal"
)

// Line is one priced cart entry at checkout time.
type Line struct {
	ListingID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
	Listing   *catalog.Listing
}

func Subtotal(lines []Line) decimal.Decimal {
	sum := decimal.Zero
	for _, l := range lines {
		sum = sum.Add(l.UnitPrice.Mul(l.Quantity))
	}
	return sum.Round(2)
}

// ComputeTotal prices lines and, when apply is set and d is non-nil,
// reduces the result by the discount percentage.
func ComputeTotal(lines []Line, d *discount.Discount, apply bool) decimal.Decimal {
	total := Subtotal(lines)
	if apply && d != nil {
		total = d.Apply(total)
	}
	return total
}
