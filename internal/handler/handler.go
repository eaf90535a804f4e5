package handler

import (
	"net/http"

	"freshharvest-be/internal/cart"
	"freshharvest-be/internal/metrics"
	"freshharvest-be/internal/order"
	"freshharvest-be/internal/utils"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	carts   cart.Service
	orders  order.Service
	metrics *metrics.Registry
}

func New(carts cart.Service, orders order.Service, reg *metrics.Registry) *Handler {
	if reg == nil {
		reg = metrics.NewRegistry()
	}
	return &Handler{carts: carts, orders: orders, metrics: reg}
}

// requireUser returns the authenticated user id or aborts with 401.
func requireUser(c *gin.Context) (uint, bool) {
	userID, ok := utils.GetUserIDFromContext(c.Request.Context())
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": errAuthRequired.Error()})
		return 0, false
	}
	return userID, true
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		badRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// NewRouter registers every route on a fresh gin engine.
func NewRouter(h *Handler) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", h.Health)
	r.GET("/metrics", h.Metrics)

	r.GET("/cart", h.GetCart)
	r.POST("/cart", h.IncrementCartItem)
	r.PUT("/cart", h.SetCartItem)
	r.DELETE("/cart", h.RemoveCartItem)

	r.POST("/cart/items", h.AddCartItem)
	r.PATCH("/cart/items/:id", h.UpdateCartItem)
	r.DELETE("/cart/items/:id", h.DeleteCartItem)

	r.GET("/orders", h.ListOrders)
	r.POST("/orders", h.CreateOrder)
	r.GET("/orders/:id", h.GetOrder)

	return r
}

func (h *Handler) Health(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}

func (h *Handler) Metrics(c *gin.Context) {
	c.JSON(http.StatusOK, h.metrics.Snapshot())
}
