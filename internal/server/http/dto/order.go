package dto

import "time"

// OrderResponse is one order line of the order history.
type OrderResponse struct {
	OrderNumber         string    `json:"order_number"`
	ProductID           int64     `json:"product_id"`
	Quantity            int       `json:"quantity"`
	GrossTotal          string    `json:"gross_total"`
	WalletAmountApplied string    `json:"wallet_amount_applied"`
	PaidTotal           string    `json:"paid_total"`
	Status              string    `json:"status"`
	PaymentMethod       string    `json:"payment_method"`
	EstimatedReadyAt    time.Time `json:"estimated_ready_at"`
	CreatedAt           time.Time `json:"created_at"`
}
