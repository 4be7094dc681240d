package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type settingsRepository struct {
	q querier
}

func (r *settingsRepository) Current(ctx context.Context) (model.Settings, error) {
	const query = `SELECT minimum_order, minimum_cart_total, signup_bonus, referral_bonus, points_per_unit,
                          redeem_rate_points, redeem_rate_value, accrual_delay_hours, expiry_days
                   FROM settings ORDER BY id DESC LIMIT 1`
	var s model.Settings
	err := r.q.QueryRow(ctx, query).Scan(
		&s.MinimumOrder, &s.MinimumCartTotal, &s.SignupBonus, &s.ReferralBonus, &s.PointsPerUnit,
		&s.RedeemRatePoints, &s.RedeemRateValue, &s.AccrualDelayHours, &s.ExpiryDays,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.DefaultSettings(), nil
		}
		return model.Settings{}, err
	}
	return s, nil
}

func (r *settingsRepository) Save(ctx context.Context, s model.Settings) error {
	const query = `INSERT INTO settings (minimum_order, minimum_cart_total, signup_bonus, referral_bonus, points_per_unit,
                       redeem_rate_points, redeem_rate_value, accrual_delay_hours, expiry_days)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query,
		s.MinimumOrder, s.MinimumCartTotal, s.SignupBonus, s.ReferralBonus, s.PointsPerUnit,
		s.RedeemRatePoints, s.RedeemRateValue, s.AccrualDelayHours, s.ExpiryDays,
	)
	return err
}
