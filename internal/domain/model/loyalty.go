package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// LoyaltyEarning is a grant of points accrued from a paid order.
type LoyaltyEarning struct {
	ID              int64
	CustomerID      int64
	OrderID         int64
	PointsEarned    int64
	PointsRemaining int64
	AvailableFrom   time.Time
	ExpiresAt       time.Time
	CreatedAt       time.Time
}

// Spendable reports whether the grant can be redeemed at the given moment.
func (e LoyaltyEarning) Spendable(now time.Time) bool {
	return e.PointsRemaining > 0 && !now.Before(e.AvailableFrom) && !now.After(e.ExpiresAt)
}

// LoyaltyRedemption records a conversion of points into wallet credit.
type LoyaltyRedemption struct {
	ID                   int64
	CustomerID           int64
	PointsRedeemed       int64
	WalletAmountCredited decimal.Decimal
	WalletTransactionID  int64
	CreatedAt            time.Time
}

// RedemptionResult is returned by the redemption entry point.
type RedemptionResult struct {
	PointsRedeemed       int64
	WalletAmountCredited decimal.Decimal
	NewWalletBalance     decimal.Decimal
}
