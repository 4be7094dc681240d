package postgres

import (
	"context"

	domainErrors "github.com/polkiloo/gopherdine/internal/domain/errors"
	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type cartRepository struct {
	q querier
}

func (r *cartRepository) Lines(ctx context.Context, customerID int64) ([]model.CartLine, error) {
	const query = `SELECT product_id, unit_price, quantity, discount, vat FROM cart_items WHERE customer_id=$1 ORDER BY id`
	rows, err := r.q.Query(ctx, query, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.CartLine
	for rows.Next() {
		var l model.CartLine
		if err := rows.Scan(&l.ProductID, &l.UnitPrice, &l.Quantity, &l.Discount, &l.VAT); err != nil {
			return nil, err
		}
		result = append(result, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *cartRepository) Add(ctx context.Context, customerID int64, line model.CartLine) error {
	const query = `INSERT INTO cart_items (customer_id, product_id, unit_price, quantity, discount, vat)
                   VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, customerID, line.ProductID, line.UnitPrice, line.Quantity, line.Discount, line.VAT); err != nil {
		if isForeignKeyViolation(err) {
			return domainErrors.ErrNotFound
		}
		return err
	}
	return nil
}

func (r *cartRepository) Clear(ctx context.Context, customerID int64) error {
	_, err := r.q.Exec(ctx, `DELETE FROM cart_items WHERE customer_id=$1`, customerID)
	return err
}
