package repository

import (
	"context"
	"time"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// LoyaltyRepository manages loyalty grants and redemptions.
type LoyaltyRepository interface {
	CreateEarning(ctx context.Context, earning model.LoyaltyEarning) (int64, error)
	// LockSpendable returns spendable grants under row locks ordered by
	// expiry, earliest first.
	LockSpendable(ctx context.Context, customerID int64, now time.Time) ([]model.LoyaltyEarning, error)
	UpdateRemaining(ctx context.Context, earningID int64, remaining int64) error
	CreateRedemption(ctx context.Context, redemption model.LoyaltyRedemption) (int64, error)
	SpendablePoints(ctx context.Context, customerID int64, now time.Time) (int64, error)
}
