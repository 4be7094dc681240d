package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type customerRepository struct {
	q querier
}

const customerColumns = `id, login, password_hash, referral_code, referred_by, referral_bonus_awarded, created_at`

func (r *customerRepository) Create(ctx context.Context, customer model.NewCustomer) (*model.Customer, error) {
	const query = `INSERT INTO customers (login, password_hash, referral_code, referred_by)
                   VALUES ($1, $2, $3, $4) RETURNING id, created_at`
	c := model.Customer{
		Login:        customer.Login,
		PasswordHash: customer.PasswordHash,
		ReferralCode: customer.ReferralCode,
		ReferredBy:   customer.ReferredBy,
	}
	err := r.q.QueryRow(ctx, query, customer.Login, customer.PasswordHash, customer.ReferralCode, customer.ReferredBy).
		Scan(&c.ID, &c.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, domainErrors.ErrAlreadyExists
		}
		return nil, err
	}
	return &c, nil
}

func (r *customerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	return r.scanOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1`, id)
}

func (r *customerRepository) GetByLogin(ctx context.Context, login string) (*model.Customer, error) {
	return r.scanOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE login=$1`, login)
}

func (r *customerRepository) GetByReferralCode(ctx context.Context, code string) (*model.Customer, error) {
	return r.scanOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE referral_code=$1`, code)
}

func (r *customerRepository) LockByID(ctx context.Context, id int64) (*model.Customer, error) {
	return r.scanOne(ctx, `SELECT `+customerColumns+` FROM customers WHERE id=$1 FOR UPDATE`, id)
}

func (r *customerRepository) MarkReferralBonusAwarded(ctx context.Context, id int64) error {
	const query = `UPDATE customers SET referral_bonus_awarded=TRUE WHERE id=$1`
	tag, err := r.q.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domainErrors.ErrNotFound
	}
	return nil
}

func (r *customerRepository) scanOne(ctx context.Context, query string, arg any) (*model.Customer, error) {
	var c model.Customer
	err := r.q.QueryRow(ctx, query, arg).Scan(
		&c.ID, &c.Login, &c.PasswordHash, &c.ReferralCode, &c.ReferredBy, &c.ReferralBonusAwarded, &c.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domainErrors.ErrNotFound
		}
		return nil, err
	}
	return &c, nil
}
