package discount

import (
	"fmt"

	"freshharvest-be/internal/apperror"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

type Discount struct {
	CouponCode string          `json:"coupon_code"`
	Percent    decimal.Decimal `json:"discount_percent"`
}

// Validate reports whether the percentage lies in [0, 100].
func (d Discount) Validate() error {
	if d.Percent.IsNegative() || d.Percent.GreaterThan(hundred) {
		return fmt.Errorf("discount percent %s out of range: %w", d.Percent, apperror.ErrInvalidArgument)
	}
	return nil
}

// Apply returns amount reduced by the percentage, rounded half-up to cents.
func (d Discount) Apply(amount decimal.Decimal) decimal.Decimal {
	return amount.Mul(hundred.Sub(d.Percent)).Div(hundred).Round(2)
}
