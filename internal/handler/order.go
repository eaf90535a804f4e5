package handler

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"freshharvest-be/internal/order"

	"github.com/gin-gonic/gin"
)

type createOrderRequest struct {
	CouponCode string `json:"coupon_code"`
}

func (h *Handler) CreateOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		badRequest(c, "invalid request body")
		return
	}

	o, err := h.orders.CreateOrderFromCart(c.Request.Context(), userID, req.CouponCode)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusCreated, order.ToOrderResponse(o))
}

func (h *Handler) ListOrders(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}

	limit, err := queryInt(c, "limit")
	if err != nil {
		badRequest(c, "limit must be an integer")
		return
	}
	page, err := queryInt(c, "page")
	if err != nil {
		badRequest(c, "page must be an integer")
		return
	}

	orders, err := h.orders.ListOrders(c.Request.Context(), userID, limit, page)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToOrderResponses(orders))
}

func (h *Handler) GetOrder(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	orderID, ok := pathID(c, "id")
	if !ok {
		return
	}

	o, err := h.orders.GetOrder(c.Request.Context(), userID, orderID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, order.ToOrderResponse(o))
}

// queryInt returns 0 for an absent parameter.
func queryInt(c *gin.Context, key string) (int, error) {
	v := c.Query(key)
	if v == "" {
		return 0, nil
	}
	return strconv.Atoi(v)
}
