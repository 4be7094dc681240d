package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherdine/internal/server/http/dto"
)

// WalletHandler manages wallet and loyalty endpoints.
type WalletHandler struct {
	facade WalletFacade
}

// NewWalletHandler constructs WalletHandler.
func NewWalletHandler(facade WalletFacade) *WalletHandler {
	return &WalletHandler{facade: facade}
}

// Summary handles GET /api/user/wallet.
func (h *WalletHandler) Summary(c *gin.Context) {
	summary, err := h.facade.Wallet(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	transactions := make([]dto.WalletTransactionResponse, 0, len(summary.Transactions))
	for _, tx := range summary.Transactions {
		transactions = append(transactions, dto.WalletTransactionResponse{
			ID:           tx.ID,
			Type:         string(tx.Type),
			Amount:       dto.Money(tx.Amount),
			BalanceAfter: dto.Money(tx.BalanceAfter),
			Source:       string(tx.Source),
			Description:  tx.Description,
			CreatedAt:    tx.CreatedAt,
		})
	}

	c.JSON(http.StatusOK, dto.WalletResponse{
		Balance:         dto.Money(summary.Balance),
		SpendablePoints: summary.SpendablePoints,
		Transactions:    transactions,
	})
}

// Redeem handles POST /api/user/loyalty/redeem.
func (h *WalletHandler) Redeem(c *gin.Context) {
	result, err := h.facade.RedeemPoints(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.RedeemResponse{
		PointsRedeemed:       result.PointsRedeemed,
		WalletAmountCredited: dto.Money(result.WalletAmountCredited),
		NewWalletBalance:     dto.Money(result.NewWalletBalance),
	})
}
