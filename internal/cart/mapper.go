package cart

import (
	"freshharvest-be/internal/catalog"

	"github.com/shopspring/decimal"
)

type CartResponse struct {
	ID        int64              `json:"id"`
	Active    bool               `json:"active"`
	CartItems []CartItemResponse `json:"cart_items"`
	Subtotal  decimal.Decimal    `json:"subtotal"`
}

type CartItemResponse struct {
	ID       int64            `json:"id"`
	Product  *catalog.Listing `json:"product"`
	Quantity decimal.Decimal  `json:"quantity"`
}

// ToCartResponse shapes a loaded cart for the API. Subtotal uses current
// listing prices and is informational only; checkout reprices.
func ToCartResponse(c *Cart) CartResponse {
	resp := CartResponse{
		ID:        c.ID,
		Active:    c.Active,
		CartItems: make([]CartItemResponse, 0, len(c.Items)),
		Subtotal:  decimal.Zero,
	}

	for _, item := range c.Items {
		resp.CartItems = append(resp.CartItems, CartItemResponse{
			ID:       item.ID,
			Product:  item.Listing,
			Quantity: item.Quantity,
		})
		if item.Listing != nil {
			resp.Subtotal = resp.Subtotal.Add(item.Listing.Price.Mul(item.Quantity))
		}
	}
	resp.Subtotal = resp.Subtotal.Round(2)

	return resp
}
