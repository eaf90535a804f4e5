package handler

import (
	"errors"
	"net/http"

	"freshharvest-be/internal/cart"
	"freshharvest-be/internal/catalog"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type cartItemRequest struct {
	FarmProductID *int64           `json:"farm_product_id" binding:"required"`
	Quantity      *decimal.Decimal `json:"quantity" binding:"required"`
}

type removeCartItemRequest struct {
	FarmProductID *int64 `json:"farm_product_id" binding:"required"`
}

type updateCartItemRequest struct {
	Quantity *decimal.Decimal `json:"quantity"`
}

func bindCartItem(c *gin.Context) (*cartItemRequest, bool) {
	var req cartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "farm_product_id and a numeric quantity are required")
		return nil, false
	}
	return &req, true
}

// writeCartItemError reports an unknown listing in the request body as a
// bad request; everything else goes through writeError.
func writeCartItemError(c *gin.Context, err error) {
	if errors.Is(err, catalog.ErrListingNotFound) {
		badRequest(c, publicMessage(err))
		return
	}
	writeError(c, err)
}

func (h *Handler) GetCart(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	cartData, err := h.carts.GetCart(c.Request.Context(), userID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, cart.ToCartResponse(cartData))
}

// AddCartItem stores the requested quantity, replacing an existing one.
func (h *Handler) AddCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req, ok := bindCartItem(c)
	if !ok {
		return
	}

	if _, err := h.carts.AddOrUpdateCartItem(c.Request.Context(), userID, *req.FarmProductID, *req.Quantity); err != nil {
		writeCartItemError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart successfully"})
}

// IncrementCartItem adds the requested quantity to an existing item.
func (h *Handler) IncrementCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req, ok := bindCartItem(c)
	if !ok {
		return
	}

	if _, err := h.carts.IncrementCartItem(c.Request.Context(), userID, *req.FarmProductID, *req.Quantity); err != nil {
		writeCartItemError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "Item added to cart successfully"})
}

func (h *Handler) SetCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	req, ok := bindCartItem(c)
	if !ok {
		return
	}

	if _, err := h.carts.SetCartItemQuantity(c.Request.Context(), userID, *req.FarmProductID, *req.Quantity); err != nil {
		writeCartItemError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated successfully"})
}

func (h *Handler) RemoveCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req removeCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "farm_product_id is required")
		return
	}

	if err := h.carts.RemoveCartItem(c.Request.Context(), userID, *req.FarmProductID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed successfully"})
}

func (h *Handler) UpdateCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	var req updateCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Quantity == nil {
		badRequest(c, "No fields to update")
		return
	}

	if _, err := h.carts.UpdateCartItemQuantity(c.Request.Context(), userID, itemID, *req.Quantity); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item updated successfully"})
}

func (h *Handler) DeleteCartItem(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.carts.RemoveCartItemByID(c.Request.Context(), userID, itemID); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Cart item removed successfully"})
}
