package order

import (
	"time"

	"freshharvest-be/internal/catalog"
)

type OrderResponse struct {
	ID              int64               `json:"id"`
	TotalBill       string              `json:"total_bill"`
	OrderedAt       time.Time           `json:"ordered_at"`
	Status          OrderStatus         `json:"status"`
	Coupon          *string             `json:"coupon"`
	DiscountPercent *string             `json:"discount_percent"`
	OrderItems      []OrderItemResponse `json:"order_items"`
}

type OrderItemResponse struct {
	ID          int64            `json:"id"`
	FarmProduct *catalog.Listing `json:"farm_product"`
	Quantity    string           `json:"quantity"`
	UnitPrice   string           `json:"unit_price"`
}

// ToOrderResponse renders money and quantities with two decimals, the way
// they are stored.
func ToOrderResponse(o *Order) OrderResponse {
	resp := OrderResponse{
		ID:         o.ID,
		TotalBill:  o.TotalBill.StringFixed(2),
		OrderedAt:  o.OrderedAt,
		Status:     o.Status,
		Coupon:     o.CouponCode,
		OrderItems: make([]OrderItemResponse, 0, len(o.Items)),
	}
	if o.DiscountPercent != nil {
		pct := o.DiscountPercent.StringFixed(2)
		resp.DiscountPercent = &pct
	}

	for _, item := range o.Items {
		fp := item.Listing
		if fp == nil {
			fp = &catalog.Listing{ID: item.ListingID}
		}
		resp.OrderItems = append(resp.OrderItems, OrderItemResponse{
			ID:          item.ID,
			FarmProduct: fp,
			Quantity:    item.Quantity.StringFixed(2),
			UnitPrice:   item.UnitPrice.StringFixed(2),
		})
	}

	return resp
}

func ToOrderResponses(orders []*Order) []OrderResponse {
	out := make([]OrderResponse, 0, len(orders))
	for _, o := range orders {
		out = append(out, ToOrderResponse(o))
	}
	return out
}
