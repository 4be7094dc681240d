package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/server/http/dto"
)

// OrderHandler manages order-related endpoints.
type OrderHandler struct {
	facade OrderFacade
}

// NewOrderHandler constructs OrderHandler.
func NewOrderHandler(facade OrderFacade) *OrderHandler {
	return &OrderHandler{facade: facade}
}

// List handles GET /api/user/orders.
func (h *OrderHandler) List(c *gin.Context) {
	orders, err := h.facade.Orders(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(orders) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		response = append(response, toOrderResponse(o))
	}

	c.JSON(http.StatusOK, response)
}

func toOrderResponse(order model.Order) dto.OrderResponse {
	return dto.OrderResponse{
		OrderNumber:         order.OrderNumber,
		ProductID:           order.ProductID,
		Quantity:            order.Quantity,
		GrossTotal:          dto.Money(order.GrossTotal),
		WalletAmountApplied: dto.Money(order.WalletAmountApplied),
		PaidTotal:           dto.Money(order.PaidTotal),
		Status:              order.Status.String(),
		PaymentMethod:       string(order.Payment.Method),
		EstimatedReadyAt:    order.EstimatedReadyAt,
		CreatedAt:           order.CreatedAt,
	}
}
