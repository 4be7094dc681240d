package postgres

import (
	"context"
	"time"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type loyaltyRepository struct {
	q querier
}

func (r *loyaltyRepository) CreateEarning(ctx context.Context, earning model.LoyaltyEarning) (int64, error) {
	const query = `INSERT INTO loyalty_earnings (customer_id, order_id, points_earned, points_remaining, available_from, expires_at)
                   VALUES ($1, $2, $3, $4, $5, $6) RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		earning.CustomerID, earning.OrderID, earning.PointsEarned, earning.PointsRemaining,
		earning.AvailableFrom, earning.ExpiresAt,
	).Scan(&id)
	if err != nil {
		if isUniqueViolation(err) {
			return 0, domainErrors.ErrAlreadyExists
		}
		return 0, err
	}
	return id, nil
}

func (r *loyaltyRepository) LockSpendable(ctx context.Context, customerID int64, now time.Time) ([]model.LoyaltyEarning, error) {
	const query = `SELECT id, customer_id, order_id, points_earned, points_remaining, available_from, expires_at, created_at
                   FROM loyalty_earnings
                   WHERE customer_id=$1 AND points_remaining > 0 AND available_from <= $2 AND expires_at >= $2
                   ORDER BY expires_at, id
                   FOR UPDATE`
	rows, err := r.q.Query(ctx, query, customerID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.LoyaltyEarning
	for rows.Next() {
		var e model.LoyaltyEarning
		if err := rows.Scan(&e.ID, &e.CustomerID, &e.OrderID, &e.PointsEarned, &e.PointsRemaining,
			&e.AvailableFrom, &e.ExpiresAt, &e.CreatedAt); err != nil {
			return nil, err
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *loyaltyRepository) UpdateRemaining(ctx context.Context, earningID int64, remaining int64) error {
	const query = `UPDATE loyalty_earnings SET points_remaining=$1 WHERE id=$2 AND points_remaining >= $1`
	tag, err := r.q.Exec(ctx, query, remaining, earningID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *loyaltyRepository) CreateRedemption(ctx context.Context, redemption model.LoyaltyRedemption) (int64, error) {
	const query = `INSERT INTO loyalty_redemptions (customer_id, points_redeemed, wallet_amount_credited, wallet_transaction_id)
                   VALUES ($1, $2, $3, $4) RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		redemption.CustomerID, redemption.PointsRedeemed, redemption.WalletAmountCredited, redemption.WalletTransactionID,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *loyaltyRepository) SpendablePoints(ctx context.Context, customerID int64, now time.Time) (int64, error) {
	const query = `SELECT COALESCE(SUM(points_remaining), 0) FROM loyalty_earnings
                   WHERE customer_id=$1 AND points_remaining > 0 AND available_from <= $2 AND expires_at >= $2`
	var total int64
	if err := r.q.QueryRow(ctx, query, customerID, now).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}
