package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type walletRepository struct {
	q querier
}

func (r *walletRepository) Get(ctx context.Context, customerID int64) (*model.Wallet, error) {
	const query = `SELECT customer_id, balance, created_at, updated_at FROM wallets WHERE customer_id=$1`
	return r.scanOne(ctx, query, customerID)
}

func (r *walletRepository) Lock(ctx context.Context, customerID int64) (*model.Wallet, error) {
	const query = `SELECT customer_id, balance, created_at, updated_at FROM wallets WHERE customer_id=$1 FOR UPDATE`
	return r.scanOne(ctx, query, customerID)
}

func (r *walletRepository) LockOrCreate(ctx context.Context, customerID int64) (*model.Wallet, error) {
	const insert = `INSERT INTO wallets (customer_id, balance) VALUES ($1, 0) ON CONFLICT (customer_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, customerID); err != nil {
		if isForeignKeyViolation(err) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return r.Lock(ctx, customerID)
}

func (r *walletRepository) UpdateBalance(ctx context.Context, customerID int64, balance decimal.Decimal) error {
	const query = `UPDATE wallets SET balance=$1, updated_at=NOW() WHERE customer_id=$2`
	tag, err := r.q.Exec(ctx, query, balance, customerID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *walletRepository) AppendTransaction(ctx context.Context, txn model.WalletTransaction) (int64, error) {
	const query = `INSERT INTO wallet_transactions (customer_id, type, amount, balance_after, source, description)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		txn.CustomerID, string(txn.Type), txn.Amount, txn.BalanceAfter, string(txn.Source), txn.Description,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *walletRepository) ListTransactions(ctx context.Context, customerID int64) ([]model.WalletTransaction, error) {
	const query = `SELECT id, customer_id, type, amount, balance_after, source, description, created_at
                   FROM wallet_transactions WHERE customer_id=$1 ORDER BY id DESC`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.WalletTransaction
	for rows.Next() {
		var (
			t            model.WalletTransaction
			kind, source string
		)
		if err := rows.Scan(&t.ID, &t.CustomerID, &kind, &t.Amount, &t.BalanceAfter, &source, &t.Description, &t.CreatedAt); err != nil {
			return nil, err
		}
		t.Type = model.TransactionType(kind)
		t.Source = model.TransactionSource(source)
		result = append(result, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *walletRepository) scanOne(ctx context.Context, query string, customerID int64) (*model.Wallet, error) {
	var w model.Wallet
	err := r.q.QueryRow(ctx, query, customerID).Scan(&w.CustomerID, &w.Balance, &w.CreatedAt, &w.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &w, nil
}
