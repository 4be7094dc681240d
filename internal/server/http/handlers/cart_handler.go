package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/server/http/dto"
)

// CartHandler manages cart endpoints.
type CartHandler struct {
	facade CartFacade
}

// NewCartHandler constructs CartHandler.
func NewCartHandler(facade CartFacade) *CartHandler {
	return &CartHandler{facade: facade}
}

// Add handles POST /api/user/cart.
func (h *CartHandler) Add(c *gin.Context) {
	var req dto.CartLineRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.Status(http.StatusBadRequest)
		return
	}

	line := model.CartLine{
		ProductID: req.ProductID,
		UnitPrice: req.UnitPrice,
		Quantity:  req.Quantity,
		Discount:  req.Discount,
		VAT:       req.VAT,
	}
	if err := h.facade.AddToCart(c.Request.Context(), CurrentCustomerID(c), line); err != nil {
		writeError(c, err)
		return
	}

	c.Status(http.StatusCreated)
}

// List handles GET /api/user/cart.
func (h *CartHandler) List(c *gin.Context) {
	lines, err := h.facade.Cart(c.Request.Context(), CurrentCustomerID(c))
	if err != nil {
		writeError(c, err)
		return
	}
	if len(lines) == 0 {
		c.Status(http.StatusNoContent)
		return
	}

	response := make([]dto.CartLineResponse, 0, len(lines))
	for _, l := range lines {
		response = append(response, dto.CartLineResponse{
			ProductID: l.ProductID,
			UnitPrice: dto.Money(l.UnitPrice),
			Quantity:  l.Quantity,
			Discount:  dto.Money(l.Discount),
			VAT:       dto.Money(l.VAT),
		})
	}
	c.JSON(http.StatusOK, response)
}
