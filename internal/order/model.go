package order

import (
	"time"

	"freshharvest-be/internal/catalog"
	"freshharvest-be/internal/discount"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const StatusPending OrderStatus = "pending"

type Order struct {
	ID        int64
	UserID    uint
	TotalBill decimal.Decimal
	Status    OrderStatus
	OrderedAt time.Time

	CouponCode *string
	// DiscountPercent is the percentage of CouponCode, nil when no coupon
	// was applied or the discount has since been deleted.
	DiscountPercent *decimal.Decimal

	CreatedAt time.Time
	UpdatedAt time.Time
	Items     []OrderItem
}

type OrderItem struct {
	ID        int64
	OrderID   int64
	ListingID int64
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal

	// Listing is populated on the read side only.
	Listing *catalog.Listing
}

type CreateOrderParams struct {
	UserID uint
	// Discount is nil when no coupon resolved.
	Discount *discount.Discount
	// ApplyDiscount subtracts Discount from the total instead of only
	// recording the coupon.
	ApplyDiscount bool
	LockTimeout   time.Duration
}
