package postgres

import (
	"context"
	"time"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

type orderRepository struct {
	q querier
}

const orderColumns = `id, order_number, customer_id, product_id, unit_price, discount, vat, gross_total,
                      wallet_amount_applied, quantity, paid_total, status, payment_method, payment_reference,
                      estimated_ready_at, created_at, updated_at`

func (r *orderRepository) CreateLine(ctx context.Context, line model.Order) (int64, error) {
	const query = `INSERT INTO orders (order_number, customer_id, product_id, unit_price, discount, vat, gross_total,
                       wallet_amount_applied, quantity, paid_total, status, payment_method, payment_reference, estimated_ready_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
                   RETURNING id`
	var id int64
	err := r.q.QueryRow(ctx, query,
		line.OrderNumber, line.CustomerID, line.ProductID, line.UnitPrice, line.Discount, line.VAT, line.GrossTotal,
		line.WalletAmountApplied, line.Quantity, line.PaidTotal, int(line.Status), string(line.Payment.Method),
		line.Payment.Reference, line.EstimatedReadyAt,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (r *orderRepository) ListByNumber(ctx context.Context, orderNumber string) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_number=$1 ORDER BY id`, orderNumber)
}

func (r *orderRepository) ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE customer_id=$1 ORDER BY created_at DESC, id`, customerID)
}

func (r *orderRepository) list(ctx context.Context, query string, arg any) ([]model.Order, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.Order
	for rows.Next() {
		var (
			o      model.Order
			status int
			method string
		)
		if err := rows.Scan(
			&o.ID, &o.OrderNumber, &o.CustomerID, &o.ProductID, &o.UnitPrice, &o.Discount, &o.VAT, &o.GrossTotal,
			&o.WalletAmountApplied, &o.Quantity, &o.PaidTotal, &status, &method, &o.Payment.Reference,
			&o.EstimatedReadyAt, &o.CreatedAt, &o.UpdatedAt,
		); err != nil {
			return nil, err
		}
		o.Status = model.OrderStatus(status)
		o.Payment.Method = model.PaymentMethod(method)
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// MarkReadyDue transitions every line of the selected order numbers in a single
// statement, so a number moved to READY is never picked by a later sweep.
func (r *orderRepository) MarkReadyDue(ctx context.Context, now time.Time, limit int) ([]model.ReadyOrder, error) {
	const query = `UPDATE orders SET status=$1, updated_at=NOW()
                   WHERE status < $1 AND order_number IN (
                       SELECT order_number FROM orders
                       WHERE status < $1 AND estimated_ready_at <= $2
                       GROUP BY order_number
                       ORDER BY MIN(estimated_ready_at)
                       LIMIT $3
                   )
                   RETURNING order_number, customer_id`
	rows, err := r.q.Query(ctx, query, int(model.OrderStatusReady), now, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	seen := make(map[string]struct{})
	var result []model.ReadyOrder
	for rows.Next() {
		var o model.ReadyOrder
		if err := rows.Scan(&o.OrderNumber, &o.CustomerID); err != nil {
			return nil, err
		}
		if _, ok := seen[o.OrderNumber]; ok {
			continue
		}
		seen[o.OrderNumber] = struct{}{}
		result = append(result, o)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
