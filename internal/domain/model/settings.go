package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Settings is a snapshot of business parameters read once per operation.
type Settings struct {
	MinimumOrder      decimal.Decimal
	MinimumCartTotal  decimal.Decimal
	SignupBonus       decimal.Decimal
	ReferralBonus     decimal.Decimal
	PointsPerUnit     decimal.Decimal
	RedeemRatePoints  int64
	RedeemRateValue   decimal.Decimal
	AccrualDelayHours int
	ExpiryDays        int
}

// DefaultSettings is used until the first settings row is saved.
func DefaultSettings() Settings {
	return Settings{
		MinimumOrder:      decimal.Zero,
		MinimumCartTotal:  decimal.Zero,
		SignupBonus:       decimal.Zero,
		ReferralBonus:     decimal.Zero,
		PointsPerUnit:     decimal.NewFromInt(1),
		RedeemRatePoints:  10,
		RedeemRateValue:   decimal.NewFromInt(1),
		AccrualDelayHours: 24,
		ExpiryDays:        30,
	}
}

// AccrualDelay is the time before newly earned points become spendable.
func (s Settings) AccrualDelay() time.Duration {
	return time.Duration(s.AccrualDelayHours) * time.Hour
}

// ExpiryWindow is the lifetime of a loyalty grant counted from accrual.
func (s Settings) ExpiryWindow() time.Duration {
	return time.Duration(s.ExpiryDays) * 24 * time.Hour
}
