package usecase

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
	"github.com/polkiloo/gopherdine/internal/domain/repository"
)

const recentTransactionsLimit = 20

// BalanceUseCase exposes wallet and loyalty balances.
type BalanceUseCase struct {
	wallets repository.WalletRepository
	loyalty repository.LoyaltyRepository
	now     func() time.Time
}

// NewBalanceUseCase constructs BalanceUseCase.
func NewBalanceUseCase(wallets repository.WalletRepository, loyalty repository.LoyaltyRepository) *BalanceUseCase {
	return &BalanceUseCase{wallets: wallets, loyalty: loyalty, now: time.Now}
}

// Summary returns wallet balance, currently spendable points and the most
// recent wallet transactions.
func (u *BalanceUseCase) Summary(ctx context.Context, customerID int64) (*model.WalletSummary, error) {
	summary := &model.WalletSummary{Balance: decimal.Zero}

	wallet, err := u.wallets.Get(ctx, customerID)
	switch {
	case err == nil:
		summary.Balance = wallet.Balance
	case !errors.Is(err, domainErrors.ErrNotFound):
		return nil, domainErrors.Persistence("load wallet", err)
	}

	txns, err := u.wallets.ListTransactions(ctx, customerID)
	if err != nil {
		return nil, domainErrors.Persistence("load wallet transactions", err)
	}
	if len(txns) > recentTransactionsLimit {
		txns = txns[:recentTransactionsLimit]
	}
	summary.Transactions = txns

	points, err := u.loyalty.SpendablePoints(ctx, customerID, u.now())
	if err != nil {
		return nil, domainErrors.Persistence("load loyalty points", err)
	}
	summary.SpendablePoints = points

	return summary, nil
}
