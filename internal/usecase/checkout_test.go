package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

func cardRequest(customerID int64, wallet string) model.CheckoutRequest {
	return model.CheckoutRequest{
		CustomerID:   customerID,
		WalletAmount: dec(wallet),
		Payment:      model.Payment{Method: model.PaymentCard, Reference: "pay_1"},
	}
}

func TestCheckoutDebitsWalletAndAccruesPoints(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)
	f.ledger.SetBalance(customer.ID, dec("20"))
	f.ledger.SeedCart(customer.ID, cartLine("50", 1))

	result, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "15"))
	require.NoError(t, err)
	require.Equal(t, "order-1", result.OrderNumber)
	require.True(t, result.GrossTotal.Equal(dec("50")))
	require.True(t, result.WalletUsed.Equal(dec("15")))
	require.True(t, result.PaidTotal.Equal(dec("35")))
	require.Equal(t, int64(35), result.PointsAccrued)
	require.False(t, result.ReferralCredit)

	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("5")))
	txns := f.ledger.WalletTransactions(customer.ID)
	require.Len(t, txns, 1)
	require.Equal(t, model.TransactionDebit, txns[0].Type)
	require.Equal(t, model.SourceOrderPayment, txns[0].Source)
	requireBalanceChain(t, f.ledger, customer.ID, dec("20"))

	orders := f.ledger.OrderLines()
	require.Len(t, orders, 1)
	require.Equal(t, model.OrderStatusPlaced, orders[0].Status)
	require.Equal(t, testNow.Add(20*time.Minute), orders[0].EstimatedReadyAt)
	require.Equal(t, model.PaymentCard, orders[0].Payment.Method)
	require.True(t, orders[0].PaidTotal.Equal(dec("35")))

	earnings := f.ledger.Earnings(customer.ID)
	require.Len(t, earnings, 1)
	require.Equal(t, orders[0].ID, earnings[0].OrderID)

	lines, err := f.ledger.Carts().Lines(context.Background(), customer.ID)
	require.NoError(t, err)
	require.Empty(t, lines)

	sent := f.notifier.Sent()
	require.Len(t, sent, 1)
	require.Equal(t, customer.ID, sent[0].UserID)
	require.Equal(t, "order-1", sent[0].Data["order_number"])
	require.Equal(t, 1, f.ledger.Commits)
}

func TestCheckoutRejectsWalletAmountAboveBalance(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("bob", nil)
	f.ledger.SetBalance(customer.ID, dec("20"))
	f.ledger.SeedCart(customer.ID, cartLine("50", 1))

	_, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "25"))
	var ferr *domainErrors.InsufficientFundsError
	require.True(t, errors.As(err, &ferr))
	require.True(t, ferr.MaxUsable.Equal(dec("20")))
	require.Contains(t, err.Error(), "max usable 20.00")

	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("20")))
	require.Empty(t, f.ledger.OrderLines())
	lines, _ := f.ledger.Carts().Lines(context.Background(), customer.ID)
	require.Len(t, lines, 1)
	require.Empty(t, f.notifier.Sent())
}

func TestCheckoutAwardsReferralOnlyOnce(t *testing.T) {
	f := newFixture(t)
	referrer := f.ledger.SeedCustomer("referrer", nil)
	customer := f.ledger.SeedCustomer("friend", &referrer.ID)

	f.ledger.SeedCart(customer.ID, cartLine("40", 1))
	first, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "0"))
	require.NoError(t, err)
	require.True(t, first.ReferralCredit)
	require.True(t, f.ledger.Balance(referrer.ID).Equal(dec("5")))

	stored, _ := f.ledger.Customer(customer.ID)
	require.True(t, stored.ReferralBonusAwarded)

	sent := f.notifier.Sent()
	require.Len(t, sent, 2)
	require.Equal(t, referrer.ID, sent[1].UserID)

	f.ledger.SeedCart(customer.ID, cartLine("40", 1))
	second, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "0"))
	require.NoError(t, err)
	require.False(t, second.ReferralCredit)
	require.True(t, f.ledger.Balance(referrer.ID).Equal(dec("5")))
	require.Len(t, f.ledger.WalletTransactions(referrer.ID), 1)
}

func TestCheckoutIsAtomic(t *testing.T) {
	for _, op := range []string{"loyalty.CreateEarning", "customers.MarkReferralBonusAwarded", "orders.CreateLine"} {
		t.Run(op, func(t *testing.T) {
			f := newFixture(t)
			referrer := f.ledger.SeedCustomer("referrer", nil)
			customer := f.ledger.SeedCustomer("friend", &referrer.ID)
			f.ledger.SetBalance(customer.ID, dec("20"))
			f.ledger.SeedCart(customer.ID, cartLine("50", 1))
			f.ledger.FailOn(op, errors.New("boom"))

			_, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "15"))
			require.ErrorIs(t, err, domainErrors.ErrPersistence)
			var perr *domainErrors.PersistenceError
			require.True(t, errors.As(err, &perr))
			require.Equal(t, "checkout", perr.Op)

			require.True(t, f.ledger.Balance(customer.ID).Equal(dec("20")))
			require.Empty(t, f.ledger.WalletTransactions(customer.ID))
			require.Empty(t, f.ledger.OrderLines())
			require.Empty(t, f.ledger.Earnings(customer.ID))
			require.False(t, f.ledger.HasWallet(referrer.ID))
			stored, _ := f.ledger.Customer(customer.ID)
			require.False(t, stored.ReferralBonusAwarded)

			lines, _ := f.ledger.Carts().Lines(context.Background(), customer.ID)
			require.Len(t, lines, 1)
			require.Equal(t, 1, f.ledger.Rollbacks)
			require.Zero(t, f.ledger.Commits)
		})
	}
}

func TestCheckoutSurfacesConcurrencyTimeout(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)
	f.ledger.SetBalance(customer.ID, dec("20"))
	f.ledger.SeedCart(customer.ID, cartLine("50", 1))
	f.ledger.FailOn("wallets.Lock", &domainErrors.ConcurrencyTimeoutError{Err: errors.New("lock timeout")})

	_, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "5"))
	require.True(t, domainErrors.IsRetryable(err))
	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("20")))
}

func TestCheckoutValidation(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)
	f.ledger.SetBalance(customer.ID, dec("100"))

	_, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "0"))
	require.ErrorIs(t, err, domainErrors.ErrValidation, "empty cart")

	f.ledger.SeedCart(customer.ID, cartLine("5", 1))
	_, err = f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "0"))
	require.ErrorIs(t, err, domainErrors.ErrValidation, "below minimum cart total")

	f.ledger.SeedCart(customer.ID, cartLine("20", 1))
	req := cardRequest(customer.ID, "0")
	req.Payment.Method = "BITCOIN"
	_, err = f.checkout.Checkout(context.Background(), req)
	require.ErrorIs(t, err, domainErrors.ErrValidation, "unknown method")

	req.Payment.Method = model.PaymentWallet
	req.WalletAmount = dec("10")
	_, err = f.checkout.Checkout(context.Background(), req)
	require.ErrorIs(t, err, domainErrors.ErrValidation, "wallet payment must cover total")

	require.Zero(t, f.ledger.Commits)
	require.Zero(t, f.ledger.Rollbacks)
}

func TestCheckoutPaidEntirelyFromWallet(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)
	f.ledger.SetBalance(customer.ID, dec("30"))
	f.ledger.SeedCart(customer.ID, cartLine("12.50", 2))

	req := model.CheckoutRequest{
		CustomerID:   customer.ID,
		WalletAmount: dec("25"),
		Payment:      model.Payment{Method: model.PaymentWallet},
	}
	result, err := f.checkout.Checkout(context.Background(), req)
	require.NoError(t, err)
	require.True(t, result.PaidTotal.IsZero())
	require.Zero(t, result.PointsAccrued)
	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("5")))
	require.Empty(t, f.ledger.Earnings(customer.ID))
}

func TestCheckoutToleratesNotifierAndCartFailures(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)
	f.ledger.SeedCart(customer.ID, cartLine("30", 1))
	f.notifier.Err = errors.New("gateway down")
	f.ledger.FailOn("carts.Clear", errors.New("cart store down"))

	result, err := f.checkout.Checkout(context.Background(), cardRequest(customer.ID, "0"))
	require.NoError(t, err)
	require.True(t, result.PaidTotal.Equal(decimal.NewFromInt(30)))
	require.Len(t, f.ledger.OrderLines(), 1)
	require.Len(t, f.notifier.Sent(), 1)
}
