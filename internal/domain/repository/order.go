package repository

import (
	"context"
	"time"

	"github.com/polkiloo/gopherdine/internal/domain/model"
)

// OrderRepository describes persistence operations with order lines.
type OrderRepository interface {
	CreateLine(ctx context.Context, line model.Order) (int64, error)
	ListByNumber(ctx context.Context, orderNumber string) ([]model.Order, error)
	ListByCustomer(ctx context.Context, customerID int64) ([]model.Order, error)
	// MarkReadyDue moves up to limit order numbers whose estimated ready time
	// has passed to READY and returns them.
	MarkReadyDue(ctx context.Context, now time.Time, limit int) ([]model.ReadyOrder, error)
}
