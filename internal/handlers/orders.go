package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/skydimo/membership/internal/services"
	"github.com/skydimo/membership/pkg/errors"
	"github.com/skydimo/membership/pkg/metrics"
	"github.com/skydimo/membership/pkg/response"
)

// OrderHandler opens purchase orders for the signed-in member.
type OrderHandler struct {
	orders *services.OrderService
}

func NewOrderHandler(orders *services.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

type createOrderRequest struct {
	PlanID uint `json:"planId" validate:"required,min=1"`
}

// POST /api/orders
func (h *OrderHandler) Create(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		response.Error(c, errors.ErrUnauthorized)
		return
	}

	var req createOrderRequest
	if !bindAndValidate(c, &req) {
		return
	}

	created, err := h.orders.Create(requestContext(c), userID, req.PlanID)
	if err != nil {
		response.Error(c, err)
		return
	}
	metrics.OrdersCreated.Inc()

	response.Created(c, gin.H{
		"order":      created.Order,
		"paymentUrl": created.PaymentURL,
	})
}
