package dto

import "github.com/shopspring/decimal"

// CartLineRequest adds a product to the cart. Money fields accept JSON
// numbers or strings.
type CartLineRequest struct {
	ProductID int64           `json:"product_id"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Discount  decimal.Decimal `json:"discount"`
	VAT       decimal.Decimal `json:"vat"`
}

// CartLineResponse is one cart line.
type CartLineResponse struct {
	ProductID int64  `json:"product_id"`
	UnitPrice string `json:"unit_price"`
	Quantity  int    `json:"quantity"`
	Discount  string `json:"discount"`
	VAT       string `json:"vat"`
}
