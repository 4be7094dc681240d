package dto

import "time"

// WalletResponse represents wallet balance with recent movements.
type WalletResponse struct {
	Balance         string                      `json:"balance"`
	SpendablePoints int64                       `json:"spendable_points"`
	Transactions    []WalletTransactionResponse `json:"transactions"`
}

// WalletTransactionResponse is one wallet ledger entry.
type WalletTransactionResponse struct {
	ID           int64     `json:"id"`
	Type         string    `json:"type"`
	Amount       string    `json:"amount"`
	BalanceAfter string    `json:"balance_after"`
	Source       string    `json:"source"`
	Description  string    `json:"description,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}

// RedeemResponse reports a loyalty redemption.
type RedeemResponse struct {
	PointsRedeemed       int64  `json:"points_redeemed"`
	WalletAmountCredited string `json:"wallet_amount_credited"`
	NewWalletBalance     string `json:"new_wallet_balance"`
}
