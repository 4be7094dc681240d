package handlers

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/server/http/dto"
)

// CheckoutHandler places orders from the cart.
type CheckoutHandler struct {
	facade CheckoutFacade
}

// NewCheckoutHandler constructs CheckoutHandler.
func NewCheckoutHandler(facade CheckoutFacade) *CheckoutHandler {
	return &CheckoutHandler{facade: facade}
}

// Checkout handles POST /api/user/checkout.
func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req dto.CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	walletAmount, err := req.ParseWalletAmount()
	if err != nil {
		writeError(c, domainErrors.NewValidation("%s", err.Error()))
		return
	}

	result, err := h.facade.Checkout(c.Request.Context(), model.CheckoutRequest{
		CustomerID:   CurrentCustomerID(c),
		WalletAmount: walletAmount,
		Payment: model.Payment{
			Method:    model.PaymentMethod(strings.ToUpper(strings.TrimSpace(req.Payment.Method))),
			Reference: req.Payment.Reference,
		},
	})
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.CheckoutResponse{
		OrderNumber:      result.OrderNumber,
		WalletUsed:       dto.Money(result.WalletUsed),
		GrossTotal:       dto.Money(result.GrossTotal),
		PaidTotal:        dto.Money(result.PaidTotal),
		PointsAccrued:    result.PointsAccrued,
		ReferralCredited: result.ReferralCredit,
	})
}
