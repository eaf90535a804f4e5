package cart

import "github.com/shopspring/decimal"

var maxQuantity = decimal.New(1, 8)

// ValidateQuantity accepts positive values that fit NUMERIC(10,2).
func ValidateQuantity(q decimal.Decimal) error {
	if !q.IsPositive() {
		return ErrInvalidQuantity
	}
	if !q.Equal(q.Round(2)) {
		return ErrQuantityPrecision
	}
	if q.GreaterThanOrEqual(maxQuantity) {
		return ErrQuantityTooLarge
	}
	return nil
}
