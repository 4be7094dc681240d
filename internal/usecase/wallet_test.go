package usecase

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

func TestWalletEngineCreditCreatesWallet(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("alice", nil)

	var txn model.WalletTransaction
	err := f.ledger.WithinTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		var err error
		txn, err = f.wallet.Credit(ctx, tx, WalletEntry{
			CustomerID: customer.ID,
			Amount:     dec("7.50"),
			Source:     model.SourceSignupBonus,
		})
		return err
	})
	require.NoError(t, err)
	require.NotZero(t, txn.ID)
	require.Equal(t, model.TransactionCredit, txn.Type)
	require.True(t, txn.BalanceAfter.Equal(dec("7.50")))
	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("7.50")))
	requireBalanceChain(t, f.ledger, customer.ID, decimal.Zero)
}

func TestWalletEngineDebitLimits(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("bob", nil)
	f.ledger.SetBalance(customer.ID, dec("20"))

	debit := func(amount, ceiling string) error {
		return f.ledger.WithinTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
			_, err := f.wallet.Debit(ctx, tx, WalletEntry{
				CustomerID: customer.ID,
				Amount:     dec(amount),
				Source:     model.SourceOrderPayment,
			}, dec(ceiling))
			return err
		})
	}

	err := debit("25", "50")
	var ferr *domainErrors.InsufficientFundsError
	require.True(t, errors.As(err, &ferr))
	require.True(t, ferr.MaxUsable.Equal(dec("20")))

	err = debit("15", "12")
	require.True(t, errors.As(err, &ferr))
	require.True(t, ferr.MaxUsable.Equal(dec("12")))

	require.ErrorIs(t, debit("0", "50"), domainErrors.ErrValidation)
	require.True(t, f.ledger.Balance(customer.ID).Equal(dec("20")))
	require.Empty(t, f.ledger.WalletTransactions(customer.ID))

	require.NoError(t, debit("20", "50"))
	require.True(t, f.ledger.Balance(customer.ID).IsZero())

	err = debit("0.01", "50")
	require.True(t, errors.As(err, &ferr))
	require.True(t, ferr.MaxUsable.IsZero())
}

func TestWalletEngineDebitWithoutWallet(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("carol", nil)

	err := f.ledger.WithinTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		_, err := f.wallet.Debit(ctx, tx, WalletEntry{CustomerID: customer.ID, Amount: dec("1")}, dec("10"))
		return err
	})
	require.ErrorIs(t, err, domainErrors.ErrInsufficientFunds)
}

func TestWalletEngineConcurrentDebitsNeverOverdraw(t *testing.T) {
	f := newFixture(t)
	customer := f.ledger.SeedCustomer("dave", nil)

	require.NoError(t, f.ledger.WithinTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
		_, err := f.wallet.Credit(ctx, tx, WalletEntry{CustomerID: customer.ID, Amount: dec("100"), Source: model.SourceSignupBonus})
		return err
	}))

	const attempts = 15
	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			err := f.ledger.WithinTransaction(context.Background(), func(ctx context.Context, tx repository.Tx) error {
				_, err := f.wallet.Debit(ctx, tx, WalletEntry{
					CustomerID: customer.ID,
					Amount:     dec("10"),
					Source:     model.SourceOrderPayment,
				}, dec("1000"))
				return err
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domainErrors.ErrInsufficientFunds) {
				rejected++
			}
		}()
	}
	wg.Wait()

	require.Equal(t, 10, ok)
	require.Equal(t, attempts-10, rejected)
	require.True(t, f.ledger.Balance(customer.ID).IsZero())
	requireBalanceChain(t, f.ledger, customer.ID, decimal.Zero)
}
