package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/polkiloo/gopherdine/internal/config"
	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// CheckoutUseCase places orders from the customer's cart.
type CheckoutUseCase struct {
	uow             repository.UnitOfWork
	settings        repository.SettingsRepository
	carts           repository.CartRepository
	wallet          *WalletEngine
	loyalty         *LoyaltyEngine
	referral        *ReferralEngine
	notifier        Notifier
	logger          *slog.Logger
	preparationTime time.Duration
	now             func() time.Time
	newOrderNumber  func() string
}

// NewCheckoutUseCase constructs CheckoutUseCase.
func NewCheckoutUseCase(
	uow repository.UnitOfWork,
	settings repository.SettingsRepository,
	carts repository.CartRepository,
	wallet *WalletEngine,
	loyalty *LoyaltyEngine,
	referral *ReferralEngine,
	notifier Notifier,
	cfg *config.Config,
	logger *slog.Logger,
) *CheckoutUseCase {
	return &CheckoutUseCase{
		uow:             uow,
		settings:        settings,
		carts:           carts,
		wallet:          wallet,
		loyalty:         loyalty,
		referral:        referral,
		notifier:        notifier,
		logger:          logger,
		preparationTime: cfg.PreparationTime,
		now:             time.Now,
		newOrderNumber:  uuid.NewString,
	}
}

// Checkout prices the cart, then debits the wallet, stores the order lines,
// accrues loyalty points and awards the referral bonus in one transaction.
// The cart is cleared only after commit.
func (u *CheckoutUseCase) Checkout(ctx context.Context, req model.CheckoutRequest) (*model.CheckoutResult, error) {
	if !req.Payment.Method.Valid() {
		return nil, domainErrors.NewValidation("unknown payment method %q", req.Payment.Method)
	}

	settings, err := u.settings.Current(ctx)
	if err != nil {
		return nil, domainErrors.Persistence("load settings", err)
	}

	lines, err := u.carts.Lines(ctx, req.CustomerID)
	if err != nil {
		return nil, domainErrors.Persistence("load cart", err)
	}

	totals, err := BuildOrder(lines, req.WalletAmount, settings)
	if err != nil {
		return nil, err
	}
	if req.Payment.Method == model.PaymentWallet && !totals.WalletApplied.Equal(totals.GrossTotal) {
		return nil, domainErrors.NewValidation("wallet payment must cover the order total %s", totals.GrossTotal.StringFixed(2))
	}

	orderNumber := u.newOrderNumber()
	readyAt := u.now().Add(u.preparationTime)

	var (
		earning *model.LoyaltyEarning
		award   *ReferralAward
	)
	err = u.uow.WithinTransaction(ctx, func(ctx context.Context, tx repository.Tx) error {
		if totals.WalletApplied.IsPositive() {
			if _, err := u.wallet.Debit(ctx, tx, WalletEntry{
				CustomerID:  req.CustomerID,
				Amount:      totals.WalletApplied,
				Source:      model.SourceOrderPayment,
				Description: "order " + orderNumber,
			}, totals.GrossTotal); err != nil {
				return err
			}
		}

		var firstID int64
		for i, line := range totals.Lines {
			id, err := tx.Orders().CreateLine(ctx, model.Order{
				OrderNumber:         orderNumber,
				CustomerID:          req.CustomerID,
				ProductID:           line.ProductID,
				UnitPrice:           line.UnitPrice,
				Discount:            line.Discount,
				VAT:                 line.VAT,
				GrossTotal:          line.GrossTotal,
				WalletAmountApplied: line.WalletApplied,
				Quantity:            line.Quantity,
				PaidTotal:           line.PaidTotal,
				Status:              model.OrderStatusPlaced,
				Payment:             req.Payment,
				EstimatedReadyAt:    readyAt,
			})
			if err != nil {
				return err
			}
			if i == 0 {
				firstID = id
			}
		}

		var err error
		if earning, err = u.loyalty.Accrue(ctx, tx, req.CustomerID, firstID, totals.PaidTotal, settings); err != nil {
			return err
		}
		if award, err = u.referral.Award(ctx, tx, req.CustomerID, totals.PaidTotal, settings); err != nil {
			return err
		}
		return nil
	})
	if err != nil {
		return nil, domainErrors.Persistence("checkout", err)
	}

	if err := u.carts.Clear(ctx, req.CustomerID); err != nil {
		u.logger.Error("failed to clear cart after checkout",
			slog.Int64("customer_id", req.CustomerID),
			slog.String("order_number", orderNumber),
			slog.Any("error", err),
		)
	}

	result := &model.CheckoutResult{
		OrderNumber:    orderNumber,
		WalletUsed:     totals.WalletApplied,
		GrossTotal:     totals.GrossTotal,
		PaidTotal:      totals.PaidTotal,
		ReferralCredit: award != nil,
	}
	if earning != nil {
		result.PointsAccrued = earning.PointsEarned
	}

	u.logger.Info("order placed",
		slog.Int64("customer_id", req.CustomerID),
		slog.String("order_number", orderNumber),
		slog.String("amount", totals.PaidTotal.StringFixed(2)),
		slog.Int64("points", result.PointsAccrued),
	)

	u.notify(ctx, model.Notification{
		UserType: model.UserTypeCustomer,
		UserID:   req.CustomerID,
		Title:    "Order placed",
		Body:     fmt.Sprintf("Your order %s has been placed", orderNumber),
		Data: map[string]string{
			"order_number": orderNumber,
			"paid_total":   totals.PaidTotal.StringFixed(2),
		},
	})
	if award != nil {
		u.notify(ctx, model.Notification{
			UserType: model.UserTypeCustomer,
			UserID:   award.ReferrerID,
			Title:    "Referral bonus",
			Body:     fmt.Sprintf("You received %s for inviting a friend", award.Amount.StringFixed(2)),
			Data: map[string]string{
				"amount":      award.Amount.StringFixed(2),
				"customer_id": strconv.FormatInt(req.CustomerID, 10),
			},
		})
	}

	return result, nil
}

func (u *CheckoutUseCase) notify(ctx context.Context, n model.Notification) {
	notifyAndLog(ctx, u.notifier, u.logger, n)
}

func notifyAndLog(ctx context.Context, notifier Notifier, logger *slog.Logger, n model.Notification) {
	if notifier == nil {
		return
	}
	if err := notifier.Notify(ctx, n); err != nil {
		logger.Warn("notification dispatch failed",
			slog.Int64("customer_id", n.UserID),
			slog.String("title", n.Title),
			slog.Any("error", err),
		)
	}
}
