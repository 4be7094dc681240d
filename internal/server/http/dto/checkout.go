package dto

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// PaymentRequest describes how the non-wallet part is paid.
type PaymentRequest struct {
	Method    string `json:"method"`
	Reference string `json:"reference,omitempty"`
}

// CheckoutRequest places an order from the current cart. WalletAmount is kept
// raw so a malformed amount can be reported separately from malformed JSON.
type CheckoutRequest struct {
	WalletAmount json.RawMessage `json:"wallet_amount,omitempty"`
	Payment      PaymentRequest  `json:"payment"`
}

// ParseWalletAmount decodes the wallet amount given as a JSON number or string.
// A missing or null amount is zero.
func (r CheckoutRequest) ParseWalletAmount() (decimal.Decimal, error) {
	raw := bytes.TrimSpace(r.WalletAmount)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return decimal.Zero, nil
	}

	var amount decimal.Decimal
	if err := json.Unmarshal(raw, &amount); err != nil {
		return decimal.Zero, fmt.Errorf("malformed wallet amount %s", raw)
	}
	return amount, nil
}

// CheckoutResponse summarizes the placed order.
type CheckoutResponse struct {
	OrderNumber      string `json:"order_number"`
	WalletUsed       string `json:"wallet_used"`
	GrossTotal       string `json:"gross_total"`
	PaidTotal        string `json:"paid_total"`
	PointsAccrued    int64  `json:"points_accrued"`
	ReferralCredited bool   `json:"referral_credited"`
}
