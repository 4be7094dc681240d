package usecase

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// ReferralAward describes a credited referral bonus.
type ReferralAward struct {
	ReferrerID  int64
	Amount      decimal.Decimal
	Transaction model.WalletTransaction
}

// ReferralEngine credits the one-time bonus owed to a referrer.
type ReferralEngine struct {
	wallet *WalletEngine
}

// NewReferralEngine constructs ReferralEngine.
func NewReferralEngine(wallet *WalletEngine) *ReferralEngine {
	return &ReferralEngine{wallet: wallet}
}

// Award credits the referrer of customerID when the order qualifies and the
// bonus has not been awarded yet. The customer's referral_bonus_awarded flag
// is checked under the row lock and set in the same transaction as the
// credit. It returns nil when nothing was awarded.
func (e *ReferralEngine) Award(ctx context.Context, tx repository.Tx, customerID int64, paidTotal decimal.Decimal, settings model.Settings) (*ReferralAward, error) {
	if !settings.ReferralBonus.IsPositive() || paidTotal.LessThan(settings.MinimumOrder) {
		return nil, nil
	}

	customer, err := tx.Customers().GetByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.ReferredBy == nil || customer.ReferralBonusAwarded {
		return nil, nil
	}
	referrerID := *customer.ReferredBy

	// lock order: wallet rows first, customer row last
	if _, err := tx.Wallets().LockOrCreate(ctx, referrerID); err != nil {
		return nil, err
	}
	customer, err = tx.Customers().LockByID(ctx, customerID)
	if err != nil {
		return nil, err
	}
	if customer.ReferralBonusAwarded {
		return nil, nil
	}

	txn, err := e.wallet.Credit(ctx, tx, WalletEntry{
		CustomerID:  referrerID,
		Amount:      settings.ReferralBonus,
		Source:      model.SourceReferralBonus,
		Description: fmt.Sprintf("referral bonus for customer %d", customerID),
	})
	if err != nil {
		return nil, err
	}

	if err := tx.Customers().MarkReferralBonusAwarded(ctx, customerID); err != nil {
		return nil, err
	}

	return &ReferralAward{ReferrerID: referrerID, Amount: settings.ReferralBonus, Transaction: txn}, nil
}
