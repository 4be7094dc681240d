package usecase

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

// WalletEntry describes one balance movement.
type WalletEntry struct {
	CustomerID  int64
	Amount      decimal.Decimal
	Source      model.TransactionSource
	Description string
}

// WalletEngine applies debits and credits inside a caller's transaction.
// Every mutation locks the wallet row first and appends a ledger entry whose
// balance_after equals the stored balance.
type WalletEngine struct{}

// NewWalletEngine constructs WalletEngine.
func NewWalletEngine() *WalletEngine {
	return &WalletEngine{}
}

// Debit withdraws entry.Amount. ceiling caps the usable amount, typically the
// order gross total.
func (e *WalletEngine) Debit(ctx context.Context, tx repository.Tx, entry WalletEntry, ceiling decimal.Decimal) (model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return model.WalletTransaction{}, domainErrors.NewValidation("debit amount must be positive")
	}

	balance := decimal.Zero
	wallet, err := tx.Wallets().Lock(ctx, entry.CustomerID)
	switch {
	case err == nil:
		balance = wallet.Balance
	case !errors.Is(err, domainErrors.ErrNotFound):
		return model.WalletTransaction{}, err
	}

	maxUsable := decimal.Min(balance, ceiling)
	if maxUsable.IsNegative() {
		maxUsable = decimal.Zero
	}
	if !balance.IsPositive() || entry.Amount.GreaterThan(maxUsable) {
		return model.WalletTransaction{}, &domainErrors.InsufficientFundsError{
			Requested: entry.Amount,
			MaxUsable: maxUsable,
		}
	}

	return e.apply(ctx, tx, entry, model.TransactionDebit, balance.Sub(entry.Amount))
}

// Credit adds entry.Amount, creating the wallet when missing. It is not
// idempotent; callers guard against repeated invocation.
func (e *WalletEngine) Credit(ctx context.Context, tx repository.Tx, entry WalletEntry) (model.WalletTransaction, error) {
	if !entry.Amount.IsPositive() {
		return model.WalletTransaction{}, domainErrors.NewValidation("credit amount must be positive")
	}

	wallet, err := tx.Wallets().LockOrCreate(ctx, entry.CustomerID)
	if err != nil {
		return model.WalletTransaction{}, err
	}

	return e.apply(ctx, tx, entry, model.TransactionCredit, wallet.Balance.Add(entry.Amount))
}

func (e *WalletEngine) apply(ctx context.Context, tx repository.Tx, entry WalletEntry, kind model.TransactionType, newBalance decimal.Decimal) (model.WalletTransaction, error) {
	if err := tx.Wallets().UpdateBalance(ctx, entry.CustomerID, newBalance); err != nil {
		return model.WalletTransaction{}, err
	}

	txn := model.WalletTransaction{
		CustomerID:   entry.CustomerID,
		Type:         kind,
		Amount:       entry.Amount,
		BalanceAfter: newBalance,
		Source:       entry.Source,
		Description:  entry.Description,
	}
	id, err := tx.Wallets().AppendTransaction(ctx, txn)
	if err != nil {
		return model.WalletTransaction{}, err
	}
	txn.ID = id
	return txn, nil
}
