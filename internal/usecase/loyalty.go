package usecase

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// LoyaltyEngine accrues points on paid orders and converts them into wallet credit.
type LoyaltyEngine struct {
	uow      repository.UnitOfWork
	settings repository.SettingsRepository
	wallet   *WalletEngine
	logger   *slog.Logger
	now      func() time.Time
}

// NewLoyaltyEngine constructs LoyaltyEngine.
func NewLoyaltyEngine(uow repository.UnitOfWork, settings repository.SettingsRepository, wallet *WalletEngine, logger *slog.Logger) *LoyaltyEngine {
	return &LoyaltyEngine{uow: uow, settings: settings, wallet: wallet, logger: logger, now: time.Now}
}

// Accrue stores one grant for the order when it qualifies. It returns nil
// when no points are earned.
func (e *LoyaltyEngine) Accrue(ctx context.Context, tx repository.Tx, customerID, orderID int64, paidTotal decimal.Decimal, settings model.Settings) (*model.LoyaltyEarning, error) {
	points := PointsEarned(paidTotal, settings)
	if points <= 0 {
		return nil, nil
	}

	now := e.now()
	earning := model.LoyaltyEarning{
		CustomerID:      customerID,
		OrderID:         orderID,
		PointsEarned:    points,
		PointsRemaining: points,
		AvailableFrom:   now.Add(settings.AccrualDelay()),
		ExpiresAt:       now.Add(settings.ExpiryWindow()),
	}
	id, err := tx.Loyalty().CreateEarning(ctx, earning)
	if err != nil {
		return nil, err
	}
	earning.ID = id
	earning.CreatedAt = now
	return &earning, nil
}

// RedeemAll converts the maximum whole number of redemption units into
// wallet credit in one transaction.
func (e *LoyaltyEngine) RedeemAll(ctx context.Context, customerID int64) (*model.RedemptionResult, error) {
	settings, err := e.settings.Current(ctx)
	if err != nil {
		return nil, domainErrors.Persistence("load settings", err)
	}

	var result model.RedemptionResult
	err = e.uow.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		// wallet row before loyalty rows
		if _, err := tx.Wallets().LockOrCreate(ctx, customerID); err != nil {
			return err
		}

		grants, err := tx.Loyalty().LockSpendable(ctx, customerID, e.now())
		if err != nil {
			return err
		}

		plan, err := PlanRedemption(grants, settings.RedeemRatePoints, settings.RedeemRateValue)
		if err != nil {
			return err
		}

		for _, d := range plan.Deductions {
			if err := tx.Loyalty().UpdateRemaining(ctx, d.EarningID, d.Remaining); err != nil {
				return err
			}
		}

		txn, err := e.wallet.Credit(ctx, tx, WalletEntry{
			CustomerID:  customerID,
			Amount:      plan.Credit,
			Source:      model.SourceLoyaltyRedemption,
			Description: "loyalty points redemption",
		})
		if err != nil {
			return err
		}

		if _, err := tx.Loyalty().CreateRedemption(ctx, model.LoyaltyRedemption{
			CustomerID:           customerID,
			PointsRedeemed:       plan.Points,
			WalletAmountCredited: plan.Credit,
			WalletTransactionID:  txn.ID,
		}); err != nil {
			return err
		}

		result = model.RedemptionResult{
			PointsRedeemed:       plan.Points,
			WalletAmountCredited: plan.Credit,
			NewWalletBalance:     txn.BalanceAfter,
		}
		return nil
	})
	if err != nil {
		return nil, domainErrors.Persistence("redeem loyalty points", err)
	}

	e.logger.Info("loyalty points redeemed",
		slog.Int64("customer_id", customerID),
		slog.Int64("points", result.PointsRedeemed),
		slog.String("amount", result.WalletAmountCredited.StringFixed(2)),
	)
	return &result, nil
}
