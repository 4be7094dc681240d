package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// WalletRepository manages wallet balances and their transaction log.
type WalletRepository interface {
	Get(ctx context.Context, customerID int64) (*model.Wallet, error)
	// Lock reads the wallet under an exclusive row lock. It returns
	// ErrNotFound when the customer has no wallet yet.
	Lock(ctx context.Context, customerID int64) (*model.Wallet, error)
	// LockOrCreate inserts a zero wallet when missing and returns it locked.
	LockOrCreate(ctx context.Context, customerID int64) (*model.Wallet, error)
	UpdateBalance(ctx context.Context, customerID int64, balance decimal.Decimal) error
	AppendTransaction(ctx context.Context, txn model.WalletTransaction) (int64, error)
	ListTransactions(ctx context.Context, customerID int64) ([]model.WalletTransaction, error)
}
